package service

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"KifuBrowser/internal/adapter/gdrive"
	"KifuBrowser/internal/content"
	"KifuBrowser/internal/repository"

	"github.com/sirupsen/logrus"
)

const testIndexURL = "https://drive.google.com/uc?id=INDEX&export=download"

const testIndexCSV = `日付,試合番号,先手,後手,手合割,結果,動画URL,棋譜データURL
2024-08-01,1,Alice,Bob,平手,先手勝ち,https://youtu.be/a,https://drive.google.com/file/d/K0/view
2024-08-01,2,Bob,Alice,,,https://youtu.be/b,https://drive.google.com/file/d/K1/view
2024-08-02,3,Carol,Dave,香落ち,後手勝ち,https://youtu.be/c,https://drive.google.com/file/d/K2/view
`

// fakeRemote 按 URL 返回固定文本或 HTTP 状态码，并记录调用次数
type fakeRemote struct {
	mu       sync.Mutex
	texts    map[string]string
	statuses map[string]int
	calls    map[string]int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		texts:    map[string]string{},
		statuses: map[string]int{},
		calls:    map[string]int{},
	}
}

func (f *fakeRemote) FetchText(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if code, ok := f.statuses[url]; ok {
		return "", &gdrive.HTTPError{StatusCode: code, URL: url}
	}
	text, ok := f.texts[url]
	if !ok {
		return "", &gdrive.HTTPError{StatusCode: http.StatusNotFound, URL: url}
	}
	return text, nil
}

func (f *fakeRemote) set(url, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.statuses, url)
	f.texts[url] = text
}

func (f *fakeRemote) fail(url string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[url] = code
}

func (f *fakeRemote) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func directLink(id string) string {
	return "https://drive.google.com/uc?id=" + id + "&export=download"
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestCache 索引与棋谱共用一个 fakeRemote
func newTestCache(remote *fakeRemote, clock *fakeClock, ttl time.Duration) *Cache {
	return NewCache(CacheOptions{
		IndexURL: testIndexURL,
		IndexTTL: ttl,
		Clock:    clock,
	}, remote, remote, repository.NewMemoryTranscriptStore(), discardLogger())
}

func newTestBrowser(remote *fakeRemote) *BrowserService {
	page, err := content.Default()
	if err != nil {
		panic(err)
	}
	cache := newTestCache(remote, &fakeClock{now: time.Unix(0, 0)}, 5*time.Minute)
	return NewBrowserService(cache, page, discardLogger())
}
