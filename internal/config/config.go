package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultIndexURL 对局索引 CSV 的直链（Google Drive）
const DefaultIndexURL = "https://drive.google.com/uc?id=1Lg1xB79PYue1D5qSPy2IMo6zNMjOgEa4&export=download"

// 缓存后端
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`  // 服务器配置
	Log     LogConfig     `mapstructure:"log"`     // 日志配置
	Source  SourceConfig  `mapstructure:"source"`  // 远程数据源配置
	Cache   CacheConfig   `mapstructure:"cache"`   // 缓存配置
	Session SessionConfig `mapstructure:"session"` // 会话配置
	Page    PageConfig    `mapstructure:"page"`    // 页面静态内容
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // 收到退出信号后等待在途请求的时长
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"` // logrus 级别：debug/info/warn/error
}

// SourceConfig Google Drive 数据源配置
type SourceConfig struct {
	IndexURL          string        `mapstructure:"index_url"`          // 索引 CSV 直链
	IndexTimeout      time.Duration `mapstructure:"index_timeout"`      // 索引请求超时
	TranscriptTimeout time.Duration `mapstructure:"transcript_timeout"` // 棋谱请求超时
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes"`     // 响应体上限
	UserAgent         string        `mapstructure:"user_agent"`         // 请求 UA
	Proxy             string        `mapstructure:"proxy"`              // 代理地址
}

// CacheConfig 缓存配置
type CacheConfig struct {
	IndexTTL time.Duration `mapstructure:"index_ttl"` // 索引缓存有效期
	Backend  string        `mapstructure:"backend"`   // 棋谱缓存后端：memory/redis
	Redis    RedisConfig   `mapstructure:"redis"`
}

// RedisConfig 棋谱缓存使用 redis 时的连接配置
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// SessionConfig 会话（下拉框选择状态）配置
type SessionConfig struct {
	CookieName    string        `mapstructure:"cookie_name"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`   // 空闲多久后回收
	SweepInterval time.Duration `mapstructure:"sweep_interval"` // 回收扫描间隔
}

// PageConfig 页面静态内容配置
type PageConfig struct {
	ContentFile string `mapstructure:"content_file"` // 为空时使用内置 notices.yaml
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）
	return Load("./config")
}

// Load 从指定目录读取 config.yaml；文件不存在时全部使用默认值
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 环境变量覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("source.index_url", DefaultIndexURL)
	v.SetDefault("source.index_timeout", 30*time.Second)
	v.SetDefault("source.transcript_timeout", 5*time.Minute)
	v.SetDefault("source.max_body_bytes", 10_000_000)
	v.SetDefault("source.user_agent", "KifuBrowser/1.0")
	v.SetDefault("cache.index_ttl", 5*time.Minute)
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.redis.key_prefix", "kifu:")
	v.SetDefault("cache.redis.dial_timeout", 5*time.Second)
	v.SetDefault("session.cookie_name", "kifu_sid")
	v.SetDefault("session.idle_timeout", 24*time.Hour)
	v.SetDefault("session.sweep_interval", 10*time.Minute)
}

// overrideFromEnv 用环境变量覆盖部署相关配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("KIFU_INDEX_URL"); v != "" {
		cfg.Source.IndexURL = v
	}
	if v := os.Getenv("KIFU_PROXY"); v != "" {
		cfg.Source.Proxy = v
	}
	if v := os.Getenv("KIFU_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
		cfg.Cache.Backend = CacheBackendRedis
	}
	if v := os.Getenv("KIFU_REDIS_PASSWORD"); v != "" {
		cfg.Cache.Redis.Password = v
	}
	// 托管平台通常通过 PORT 指定端口
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.IndexURL) == "" {
		return errors.New("source.index_url 不能为空")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port 非法: %d", c.Server.Port)
	}
	if c.Cache.IndexTTL < 0 {
		return fmt.Errorf("cache.index_ttl 不能为负: %s", c.Cache.IndexTTL)
	}
	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New("cache.backend=redis 时 cache.redis.addr 不能为空")
		}
	default:
		return fmt.Errorf("未支持的缓存后端: %s", c.Cache.Backend)
	}
	return nil
}
