package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"KifuBrowser/internal/config"
)

func TestMemoryTranscriptStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTranscriptStore()

	if _, ok, err := store.Get(ctx, "link"); ok || err != nil {
		t.Fatalf("Get on empty store: ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "link", "▲７六歩"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	text, ok, err := store.Get(ctx, "link")
	if err != nil || !ok || text != "▲７六歩" {
		t.Fatalf("Get: text=%q ok=%v err=%v", text, ok, err)
	}
}

func TestRedisTranscriptStoreIntegration(t *testing.T) {
	addr := os.Getenv("KIFU_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("KIFU_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	prefix := "kifu_test:" + time.Now().Format("150405.000000") + ":"
	store, err := NewRedisTranscriptStore(ctx, &config.RedisConfig{
		Addr:        addr,
		KeyPrefix:   prefix,
		DialTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewRedisTranscriptStore: %v", err)
	}
	defer store.Close()

	link := "https://drive.google.com/file/d/abc/view"
	if _, ok, err := store.Get(ctx, link); ok || err != nil {
		t.Fatalf("Get before Set: ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, link, "棋譜"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	defer store.rdb.Del(ctx, store.key(link))

	text, ok, err := store.Get(ctx, link)
	if err != nil || !ok || text != "棋譜" {
		t.Fatalf("Get: text=%q ok=%v err=%v", text, ok, err)
	}
}

func TestRedisTranscriptStoreRequiresAddr(t *testing.T) {
	if _, err := NewRedisTranscriptStore(context.Background(), &config.RedisConfig{}); err == nil {
		t.Fatalf("want error for empty addr")
	}
}
