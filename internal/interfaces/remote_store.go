package interfaces

import (
	"context"
	"time"
)

// RemoteStore 远程文件托管服务（Google Drive）的读取接口
type RemoteStore interface {
	// FetchText GET 指定直链并返回响应文本，非 2xx 返回带状态码的错误
	FetchText(ctx context.Context, url string) (string, error)
}

// TranscriptStore 棋谱文本缓存后端（进程内存 / redis）
type TranscriptStore interface {
	Get(ctx context.Context, link string) (text string, ok bool, err error)
	Set(ctx context.Context, link string, text string) error
}

// Clock 可注入的时钟，便于测试索引缓存过期
type Clock interface {
	Now() time.Time
}

// SystemClock 使用 time.Now 的默认时钟
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
