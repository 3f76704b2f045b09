package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"KifuBrowser/internal/config"

	goredis "github.com/redis/go-redis/v9"
)

// RedisTranscriptStore 多实例部署时共享的棋谱缓存，key 不设置过期
type RedisTranscriptStore struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisTranscriptStore 建立连接并 ping 一次
func NewRedisTranscriptStore(ctx context.Context, cfg *config.RedisConfig) (*RedisTranscriptStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis addr 不能为空")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout+time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisTranscriptStore{rdb: rdb, prefix: cfg.KeyPrefix}, nil
}

func (s *RedisTranscriptStore) key(link string) string {
	return s.prefix + "transcript:" + link
}

func (s *RedisTranscriptStore) Get(ctx context.Context, link string) (string, bool, error) {
	text, err := s.rdb.Get(ctx, s.key(link)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return text, true, nil
}

func (s *RedisTranscriptStore) Set(ctx context.Context, link string, text string) error {
	if err := s.rdb.Set(ctx, s.key(link), text, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisTranscriptStore) Close() error {
	return s.rdb.Close()
}
