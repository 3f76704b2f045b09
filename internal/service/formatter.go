package service

import (
	"fmt"
	"strings"

	"KifuBrowser/internal/model"
)

// Fact 详情面板中的一行
type Fact struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

const absentValue = "-"

// Summarize 生成对局摘要，同时用作下拉框标签和下载文件名，必须是纯函数
// 例: "2024-08-01 3局目 Alice 対 Bob (平手, 先手勝ち)"
func Summarize(r model.MatchRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d局目 %s 対 %s", r.Date, r.Sequence, r.FirstPlayer, r.SecondPlayer)

	var extras []string
	if v, ok := r.MatchType.Get(); ok {
		extras = append(extras, v)
	}
	if v, ok := r.Result.Get(); ok {
		extras = append(extras, v)
	}
	if len(extras) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(extras, ", "))
	}
	return b.String()
}

// DownloadFilename 棋谱下载文件名
func DownloadFilename(r model.MatchRecord) string {
	return Summarize(r) + ".txt"
}

// Facts 详情面板内容，顺序固定
func Facts(r model.MatchRecord) []Fact {
	return []Fact{
		{Label: "日付", Value: fmt.Sprintf("%s - %d局目", r.Date, r.Sequence)},
		{Label: "先手", Value: r.FirstPlayer},
		{Label: "後手", Value: r.SecondPlayer},
		{Label: "手合割", Value: r.MatchType.OrElse(absentValue)},
		{Label: "結果", Value: r.Result.OrElse(absentValue)},
	}
}
