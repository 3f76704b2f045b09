package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"KifuBrowser/internal/adapter/gdrive"
	"KifuBrowser/internal/interfaces"
	"KifuBrowser/internal/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// CacheOptions 索引缓存参数
type CacheOptions struct {
	IndexURL string
	IndexTTL time.Duration // <=0 表示进程内只拉取一次
	Clock    interfaces.Clock
}

// Cache 进程级缓存：索引按 TTL 过期，棋谱按分享链接缓存且不过期。
// 失败结果不缓存，下次请求会重新拉取。
type Cache struct {
	indexURL         string
	indexTTL         time.Duration
	clock            interfaces.Clock
	indexSource      interfaces.RemoteStore
	transcriptSource interfaces.RemoteStore
	transcripts      interfaces.TranscriptStore
	logger           *logrus.Logger

	mu             sync.RWMutex
	index          *model.IndexTable
	indexExpiresAt time.Time

	group singleflight.Group
}

func NewCache(opts CacheOptions, indexSource, transcriptSource interfaces.RemoteStore, transcripts interfaces.TranscriptStore, logger *logrus.Logger) *Cache {
	clock := opts.Clock
	if clock == nil {
		clock = interfaces.SystemClock{}
	}
	return &Cache{
		indexURL:         opts.IndexURL,
		indexTTL:         opts.IndexTTL,
		clock:            clock,
		indexSource:      indexSource,
		transcriptSource: transcriptSource,
		transcripts:      transcripts,
		logger:           logger,
	}
}

func (c *Cache) cachedIndex() *model.IndexTable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.index == nil {
		return nil
	}
	if c.indexTTL > 0 && !c.clock.Now().Before(c.indexExpiresAt) {
		return nil
	}
	return c.index
}

// shared 同一 key 的并发请求合并为一次拉取。拉取使用脱离取消的 ctx，
// 单个调用方断开只影响它自己，其他会话照常等待结果；超时由 RemoteStore 控制
func (c *Cache) shared(ctx context.Context, key string, fn func(fetchCtx context.Context) (interface{}, error)) (interface{}, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return fn(fetchCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetIndex TTL 内返回同一个 *IndexTable，不发起请求
func (c *Cache) GetIndex(ctx context.Context) (*model.IndexTable, error) {
	if t := c.cachedIndex(); t != nil {
		return t, nil
	}

	v, err := c.shared(ctx, "index", func(fetchCtx context.Context) (interface{}, error) {
		if t := c.cachedIndex(); t != nil {
			return t, nil
		}
		text, err := c.indexSource.FetchText(fetchCtx, c.indexURL)
		if err != nil {
			return nil, fmt.Errorf("拉取索引失败: %w", err)
		}
		now := c.clock.Now()
		table, err := ParseIndex(text, now)
		if err != nil {
			return nil, fmt.Errorf("解析索引失败: %w", err)
		}

		c.mu.Lock()
		c.index = table
		c.indexExpiresAt = now.Add(c.indexTTL)
		c.mu.Unlock()

		c.logger.WithFields(logrus.Fields{
			"records": table.Len(),
			"ttl":     c.indexTTL.String(),
		}).Info("索引已刷新")
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.IndexTable), nil
}

// Invalidate 丢弃已缓存的索引，下次 GetIndex 重新拉取
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.index = nil
	c.indexExpiresAt = time.Time{}
	c.mu.Unlock()
	c.logger.Info("索引缓存已清除")
}

// GetTranscript 按分享链接获取棋谱文本
func (c *Cache) GetTranscript(ctx context.Context, shareLink string) (string, error) {
	directLink, ok := gdrive.ResolveDirectLink(shareLink)
	if !ok {
		return "", &LinkResolutionError{Link: shareLink}
	}

	log := c.logger.WithField("link", shareLink)
	if text, hit, err := c.transcripts.Get(ctx, shareLink); err != nil {
		log.WithError(err).Warn("读取棋谱缓存失败，按未命中处理")
	} else if hit {
		return text, nil
	}

	v, err := c.shared(ctx, "transcript:"+shareLink, func(fetchCtx context.Context) (interface{}, error) {
		text, err := c.transcriptSource.FetchText(fetchCtx, directLink)
		if err != nil {
			return nil, fmt.Errorf("拉取棋谱失败: %w", err)
		}
		if err := c.transcripts.Set(fetchCtx, shareLink, text); err != nil {
			log.WithError(err).Warn("写入棋谱缓存失败")
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
