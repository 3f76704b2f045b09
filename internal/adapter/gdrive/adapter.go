// Package gdrive 读取 Google Drive 上公开分享的文件（索引 CSV 与 KIF 棋谱）
package gdrive

import (
	"KifuBrowser/internal/config"
	"KifuBrowser/internal/interfaces"
	"KifuBrowser/internal/utils/httpclient"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
)

// DirectDownloadBase 直链模板前缀
const DirectDownloadBase = "https://drive.google.com/uc"

var fileIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// ErrBodyTooLarge 响应体超过 max_body_bytes
var ErrBodyTooLarge = errors.New("response body too large")

// HTTPError 请求失败：非 2xx 状态码，或 StatusCode 为 0 时表示传输层错误
type HTTPError struct {
	StatusCode int
	URL        string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("GET %s 失败: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("GET %s 返回状态码 %d", e.URL, e.StatusCode)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// ExtractFileID 从分享链接 .../d/<id>/... 中提取文件 ID
func ExtractFileID(shareLink string) (string, bool) {
	m := fileIDPattern.FindStringSubmatch(shareLink)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ResolveDirectLink 分享链接转直链；无法提取文件 ID 时返回 false
func ResolveDirectLink(shareLink string) (string, bool) {
	id, ok := ExtractFileID(shareLink)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s?id=%s&export=download", DirectDownloadBase, id), true
}

// Client Drive 文本下载客户端，不做重试
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	maxBytes   int64
	logger     *logrus.Logger
}

// NewClient timeout 为单次请求的超时（索引与棋谱各用一个 Client）
func NewClient(cfg *config.SourceConfig, timeout time.Duration, logger *logrus.Logger) interfaces.RemoteStore {
	return newClient(httpclient.NewHTTPClient(cfg, logger), timeout, cfg.MaxBodyBytes, logger)
}

func newClient(httpClient *http.Client, timeout time.Duration, maxBytes int64, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		timeout:    timeout,
		maxBytes:   maxBytes,
		logger:     logger,
	}
}

// FetchText 实现 interfaces.RemoteStore
func (c *Client) FetchText(ctx context.Context, url string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &HTTPError{URL: url, Err: err}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &HTTPError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	log := c.logger.WithFields(logrus.Fields{
		"url":     url,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).String(),
	})
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("Drive 请求返回非成功状态码")
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	var body io.Reader = resp.Body
	if c.maxBytes > 0 {
		body = io.LimitReader(resp.Body, c.maxBytes+1) // +1 用于检测超限
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", &HTTPError{URL: url, Err: fmt.Errorf("读取响应体失败: %w", err)}
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return "", &HTTPError{URL: url, Err: fmt.Errorf("%w (>%d bytes)", ErrBodyTooLarge, c.maxBytes)}
	}
	log.WithField("bytes", len(data)).Debug("Drive 请求成功")
	return string(data), nil
}
