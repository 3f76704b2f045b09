package model

import (
	"sort"
	"time"
)

// MatchRecord 索引表中的一行（一局对局）
type MatchRecord struct {
	Ordinal        int              // 行序号（从0开始），仅在同一次拉取内稳定
	Date           string           // 日付
	Sequence       int              // 試合番号
	FirstPlayer    string           // 先手
	SecondPlayer   string           // 後手
	MatchType      Optional[string] // 手合割（可选）
	Result         Optional[string] // 結果（可选）
	VideoURL       string           // 動画URL
	TranscriptLink string           // 棋譜データURL（Drive 分享链接，非直链）
}

// IndexTable 对局索引表，只读
type IndexTable struct {
	Records   []MatchRecord
	FetchedAt time.Time
}

func (t *IndexTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Get 按行序号取记录
func (t *IndexTable) Get(ordinal int) (MatchRecord, bool) {
	if ordinal < 0 || ordinal >= t.Len() {
		return MatchRecord{}, false
	}
	return t.Records[ordinal], true
}

// OrdinalsDesc 行序号降序（最新的对局在前）
func (t *IndexTable) OrdinalsDesc() []int {
	ords := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		ords = append(ords, t.Records[i].Ordinal)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ords)))
	return ords
}
