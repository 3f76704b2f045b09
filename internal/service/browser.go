package service

import (
	"context"
	"time"

	"KifuBrowser/internal/content"
	"KifuBrowser/internal/model"

	"github.com/sirupsen/logrus"
)

// BrowserService 组装单页浏览器的页面数据
type BrowserService struct {
	cache  *Cache
	page   *content.Page
	logger *logrus.Logger
}

func NewBrowserService(cache *Cache, page *content.Page, logger *logrus.Logger) *BrowserService {
	return &BrowserService{
		cache:  cache,
		page:   page,
		logger: logger,
	}
}

// Option 下拉框选项
type Option struct {
	Ordinal  int
	Label    string
	Selected bool
}

// SelectedMatch 当前选中的对局
type SelectedMatch struct {
	Record           model.MatchRecord
	Summary          string
	Facts            []Fact
	VideoURL         string
	Transcript       string
	TranscriptError  string // 非空表示棋谱获取失败，页面其余部分照常渲染
	DownloadFilename string
}

// HasTranscript 棋谱获取成功
func (m *SelectedMatch) HasTranscript() bool {
	return m.TranscriptError == ""
}

// PageView 一次渲染所需的全部数据
type PageView struct {
	Content   *content.Page
	Options   []Option
	Selected  *SelectedMatch // 索引为空时为 nil
	FetchedAt time.Time
}

// MatchSummary /api/matches 的列表项
type MatchSummary struct {
	Ordinal        int    `json:"ordinal"`
	Label          string `json:"label"`
	Date           string `json:"date"`
	Sequence       int    `json:"sequence"`
	FirstPlayer    string `json:"first_player"`
	SecondPlayer   string `json:"second_player"`
	MatchType      string `json:"match_type,omitempty"`
	Result         string `json:"result,omitempty"`
	VideoURL       string `json:"video_url,omitempty"`
	TranscriptLink string `json:"transcript_link,omitempty"`
}

// BuildPage 索引获取失败时返回错误；棋谱获取失败只体现在 Selected.TranscriptError
// requested 为 nil 或不在索引中时选中第一项（序号最大的对局）
func (s *BrowserService) BuildPage(ctx context.Context, requested *int) (*PageView, error) {
	table, err := s.cache.GetIndex(ctx)
	if err != nil {
		return nil, err
	}

	view := &PageView{Content: s.page, FetchedAt: table.FetchedAt}
	ordinals := table.OrdinalsDesc()
	if len(ordinals) == 0 {
		return view, nil
	}

	selected := ordinals[0]
	if requested != nil {
		if _, ok := table.Get(*requested); ok {
			selected = *requested
		}
	}

	view.Options = make([]Option, 0, len(ordinals))
	for _, ord := range ordinals {
		r, _ := table.Get(ord)
		view.Options = append(view.Options, Option{
			Ordinal:  ord,
			Label:    Summarize(r),
			Selected: ord == selected,
		})
	}

	record, _ := table.Get(selected)
	match := &SelectedMatch{
		Record:           record,
		Summary:          Summarize(record),
		Facts:            Facts(record),
		VideoURL:         record.VideoURL,
		DownloadFilename: DownloadFilename(record),
	}
	text, err := s.cache.GetTranscript(ctx, record.TranscriptLink)
	if err != nil {
		s.logger.WithError(err).WithField("ordinal", selected).Warn("棋谱获取失败")
		match.TranscriptError = err.Error()
	} else {
		match.Transcript = text
	}
	view.Selected = match
	return view, nil
}

// Download 返回下载文件名与棋谱文本
func (s *BrowserService) Download(ctx context.Context, ordinal int) (string, string, error) {
	table, err := s.cache.GetIndex(ctx)
	if err != nil {
		return "", "", err
	}
	record, ok := table.Get(ordinal)
	if !ok {
		return "", "", ErrMatchNotFound
	}
	text, err := s.cache.GetTranscript(ctx, record.TranscriptLink)
	if err != nil {
		return "", "", err
	}
	return DownloadFilename(record), text, nil
}

// Matches 对局列表，序号降序
func (s *BrowserService) Matches(ctx context.Context) ([]MatchSummary, error) {
	table, err := s.cache.GetIndex(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]MatchSummary, 0, table.Len())
	for _, ord := range table.OrdinalsDesc() {
		r, _ := table.Get(ord)
		items = append(items, MatchSummary{
			Ordinal:        r.Ordinal,
			Label:          Summarize(r),
			Date:           r.Date,
			Sequence:       r.Sequence,
			FirstPlayer:    r.FirstPlayer,
			SecondPlayer:   r.SecondPlayer,
			MatchType:      r.MatchType.OrElse(""),
			Result:         r.Result.OrElse(""),
			VideoURL:       r.VideoURL,
			TranscriptLink: r.TranscriptLink,
		})
	}
	return items, nil
}

// Refresh 强制下次请求重新拉取索引
func (s *BrowserService) Refresh() {
	s.cache.Invalidate()
}

func (s *BrowserService) Content() *content.Page {
	return s.page
}
