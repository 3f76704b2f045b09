package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"KifuBrowser/internal/adapter/gdrive"
	"KifuBrowser/internal/api"
	"KifuBrowser/internal/config"
	"KifuBrowser/internal/content"
	"KifuBrowser/internal/interfaces"
	"KifuBrowser/internal/repository"
	"KifuBrowser/internal/service"

	"github.com/sirupsen/logrus"
)

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logrusLogger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrusLogger.SetLevel(level)
	logrusLogger.Info("配置文件加载成功")

	// 3. 页面静态文案
	page, err := content.Load(cfg.Page.ContentFile)
	if err != nil {
		logrusLogger.Fatalf("加载页面文案失败: %v", err)
	}

	// 4. Drive 客户端：索引与棋谱使用不同超时
	indexClient := gdrive.NewClient(&cfg.Source, cfg.Source.IndexTimeout, logrusLogger)
	transcriptClient := gdrive.NewClient(&cfg.Source, cfg.Source.TranscriptTimeout, logrusLogger)

	// 5. 棋谱缓存后端（SIGINT/SIGTERM 时 ctx 结束）
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	var transcripts interfaces.TranscriptStore
	var redisStore *repository.RedisTranscriptStore
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		redisStore, err = repository.NewRedisTranscriptStore(ctx, &cfg.Cache.Redis)
		if err != nil {
			logrusLogger.Fatalf("连接redis失败: %v", err)
		}
		transcripts = redisStore
		logrusLogger.WithField("addr", cfg.Cache.Redis.Addr).Info("棋谱缓存使用redis")
	default:
		transcripts = repository.NewMemoryTranscriptStore()
		logrusLogger.Info("棋谱缓存使用进程内存")
	}

	// 6. 缓存与页面服务
	cache := service.NewCache(service.CacheOptions{
		IndexURL: cfg.Source.IndexURL,
		IndexTTL: cfg.Cache.IndexTTL,
	}, indexClient, transcriptClient, transcripts, logrusLogger)
	browser := service.NewBrowserService(cache, page, logrusLogger)

	// 7. 会话（每个浏览器各自的选择状态）
	sessions := repository.NewSessionStore(interfaces.SystemClock{}, cfg.Session.IdleTimeout)
	go sessions.RunSweeper(ctx, cfg.Session.SweepInterval, logrusLogger)

	// 8. 注册路由
	handler := api.NewPageHandler(browser, sessions, cfg.Session.CookieName, logrusLogger)
	r := api.NewRouter(&cfg.Server, handler, logrusLogger)
	logrusLogger.Infof("Gin运行模式: %s", cfg.Server.Mode)

	// 9. 启动服务（从配置读取端口），收到退出信号后优雅关闭
	port := cfg.Server.Port
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		logrusLogger.Fatalf("启动服务失败: %v", err)
	}
	logrusLogger.Infof("服务启动成功，端口：%d", port)
	if err := api.Serve(ctx, ln, r, cfg.Server.ShutdownTimeout, logrusLogger); err != nil {
		logrusLogger.Errorf("服务退出: %v", err)
	}

	// 10. 释放外部连接
	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			logrusLogger.Warnf("关闭redis连接失败: %v", err)
		}
	}
	logrusLogger.Info("服务已停止")
}
