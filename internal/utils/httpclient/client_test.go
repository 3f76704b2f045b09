package httpclient

import (
	"KifuBrowser/internal/config"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestClientDecodesGzipAndSetsUserAgent(t *testing.T) {
	var gotUA, gotAE string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAE = r.Header.Get("Accept-Encoding")
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte("先手：Alice"))
		_ = gz.Close()
	}))
	defer srv.Close()

	client := NewHTTPClient(&config.SourceConfig{UserAgent: "KifuBrowser/test"}, logrus.New())
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(body) != "先手：Alice" {
		t.Fatalf("body: got=%q", body)
	}
	if gotUA != "KifuBrowser/test" {
		t.Fatalf("user agent: got=%q", gotUA)
	}
	if gotAE != "gzip" {
		t.Fatalf("accept-encoding: got=%q", gotAE)
	}
	if resp.Header.Get("Content-Encoding") != "" {
		t.Fatalf("content-encoding should be stripped after decoding")
	}
}

func TestClientPassesPlainBodyThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "plain")
	}))
	defer srv.Close()

	client := NewHTTPClient(&config.SourceConfig{Proxy: "://bad proxy"}, logrus.New())
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "plain" {
		t.Fatalf("body: got=%q", body)
	}
}
