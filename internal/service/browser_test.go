package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestBuildPageDefaultSelection(t *testing.T) {
	remote := newFakeRemote()
	remote.set(testIndexURL, testIndexCSV)
	remote.set(directLink("K2"), "棋譜2")
	browser := newTestBrowser(remote)

	view, err := browser.BuildPage(context.Background(), nil)
	if err != nil {
		t.Fatalf("BuildPage: %v", err)
	}
	gotOrder := make([]int, 0, len(view.Options))
	for _, o := range view.Options {
		gotOrder = append(gotOrder, o.Ordinal)
	}
	if len(gotOrder) != 3 || gotOrder[0] != 2 || gotOrder[1] != 1 || gotOrder[2] != 0 {
		t.Fatalf("option order: want=[2 1 0] got=%v", gotOrder)
	}
	if !view.Options[0].Selected || view.Options[1].Selected {
		t.Fatalf("first option should be selected by default: %+v", view.Options)
	}
	if view.Options[1].Label != "2024-08-01 2局目 Bob 対 Alice" {
		t.Fatalf("label: got=%q", view.Options[1].Label)
	}

	sel := view.Selected
	if sel == nil || sel.Record.Ordinal != 2 {
		t.Fatalf("selected: %+v", sel)
	}
	if !sel.HasTranscript() || sel.Transcript != "棋譜2" {
		t.Fatalf("transcript: %q err=%q", sel.Transcript, sel.TranscriptError)
	}
	if sel.DownloadFilename != "2024-08-02 3局目 Carol 対 Dave (香落ち, 後手勝ち).txt" {
		t.Fatalf("download filename: got=%q", sel.DownloadFilename)
	}
	if sel.VideoURL != "https://youtu.be/c" {
		t.Fatalf("video url: got=%q", sel.VideoURL)
	}
	if view.Content == nil || view.Content.Title == "" {
		t.Fatalf("static content missing")
	}
}

func TestBuildPageRequestedSelection(t *testing.T) {
	remote := newFakeRemote()
	remote.set(testIndexURL, testIndexCSV)
	remote.set(directLink("K0"), "棋譜0")
	remote.set(directLink("K2"), "棋譜2")
	browser := newTestBrowser(remote)

	view, err := browser.BuildPage(context.Background(), intPtr(0))
	if err != nil {
		t.Fatalf("BuildPage: %v", err)
	}
	if view.Selected.Record.Ordinal != 0 || view.Selected.Transcript != "棋譜0" {
		t.Fatalf("selected: %+v", view.Selected)
	}

	// 不存在的序号回到默认选择
	view, err = browser.BuildPage(context.Background(), intPtr(42))
	if err != nil {
		t.Fatalf("BuildPage: %v", err)
	}
	if view.Selected.Record.Ordinal != 2 {
		t.Fatalf("out-of-range selection should fall back to 2, got %d", view.Selected.Record.Ordinal)
	}
}

func TestBuildPageTranscriptFailureIsNonFatal(t *testing.T) {
	remote := newFakeRemote()
	remote.set(testIndexURL, testIndexCSV)
	remote.fail(directLink("K2"), http.StatusNotFound)
	browser := newTestBrowser(remote)

	view, err := browser.BuildPage(context.Background(), nil)
	if err != nil {
		t.Fatalf("BuildPage should not fail on transcript error: %v", err)
	}
	sel := view.Selected
	if sel.HasTranscript() {
		t.Fatalf("transcript should be marked as failed")
	}
	if !strings.Contains(sel.TranscriptError, "404") {
		t.Fatalf("error should carry status: %q", sel.TranscriptError)
	}
	if len(sel.Facts) != 5 || sel.Facts[1].Value != "Carol" {
		t.Fatalf("fact panel should still be populated: %+v", sel.Facts)
	}
}

func TestBuildPageIndexFailure(t *testing.T) {
	remote := newFakeRemote()
	remote.fail(testIndexURL, http.StatusForbidden)
	browser := newTestBrowser(remote)

	if _, err := browser.BuildPage(context.Background(), nil); err == nil {
		t.Fatalf("index failure must propagate")
	}
}

func TestBuildPageEmptyIndex(t *testing.T) {
	remote := newFakeRemote()
	remote.set(testIndexURL, "日付,試合番号,先手,後手,手合割,結果,動画URL,棋譜データURL\n")
	browser := newTestBrowser(remote)

	view, err := browser.BuildPage(context.Background(), nil)
	if err != nil {
		t.Fatalf("BuildPage: %v", err)
	}
	if view.Selected != nil || len(view.Options) != 0 {
		t.Fatalf("empty index should produce no selection: %+v", view)
	}
}

func TestDownload(t *testing.T) {
	remote := newFakeRemote()
	remote.set(testIndexURL, testIndexCSV)
	remote.set(directLink("K0"), "棋譜0")
	browser := newTestBrowser(remote)
	ctx := context.Background()

	name, text, err := browser.Download(ctx, 0)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if name != "2024-08-01 1局目 Alice 対 Bob (平手, 先手勝ち).txt" || text != "棋譜0" {
		t.Fatalf("Download: name=%q text=%q", name, text)
	}

	if _, _, err := browser.Download(ctx, 9); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("want ErrMatchNotFound, got %v", err)
	}
}

func TestMatches(t *testing.T) {
	remote := newFakeRemote()
	remote.set(testIndexURL, testIndexCSV)
	browser := newTestBrowser(remote)

	items, err := browser.Matches(context.Background())
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(items) != 3 || items[0].Ordinal != 2 || items[2].Ordinal != 0 {
		t.Fatalf("items order: %+v", items)
	}
	if items[1].MatchType != "" || items[0].MatchType != "香落ち" {
		t.Fatalf("match type mapping: %+v", items)
	}
}
