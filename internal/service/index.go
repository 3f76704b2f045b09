package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"KifuBrowser/internal/model"

	"golang.org/x/text/width"
)

// 索引 CSV 表头（原表为日文列名）
const (
	ColumnDate           = "日付"
	ColumnSequence       = "試合番号"
	ColumnFirstPlayer    = "先手"
	ColumnSecondPlayer   = "後手"
	ColumnMatchType      = "手合割"
	ColumnResult         = "結果"
	ColumnVideoURL       = "動画URL"
	ColumnTranscriptLink = "棋譜データURL"
)

var requiredColumns = []string{
	ColumnDate,
	ColumnSequence,
	ColumnFirstPlayer,
	ColumnSecondPlayer,
	ColumnVideoURL,
	ColumnTranscriptLink,
}

// ErrEmptyIndex 索引内容为空（连表头都没有）
var ErrEmptyIndex = errors.New("索引 CSV 为空")

// ParseIndex 解析索引 CSV；手合割/結果 两列可缺失，空单元格视为不存在
func ParseIndex(text string, fetchedAt time.Time) (*model.IndexTable, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyIndex
	}
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("索引缺少必需列: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	table := &model.IndexTable{FetchedAt: fetchedAt}
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("第%d行解析失败: %w", line, err)
		}
		if isBlankRow(row) {
			continue
		}

		seq, err := parseSequence(cell(row, ColumnSequence))
		if err != nil {
			return nil, fmt.Errorf("第%d行 %s 非法: %w", line, ColumnSequence, err)
		}
		table.Records = append(table.Records, model.MatchRecord{
			Ordinal:        len(table.Records),
			Date:           cell(row, ColumnDate),
			Sequence:       seq,
			FirstPlayer:    cell(row, ColumnFirstPlayer),
			SecondPlayer:   cell(row, ColumnSecondPlayer),
			MatchType:      model.OptionalString(cell(row, ColumnMatchType)),
			Result:         model.OptionalString(cell(row, ColumnResult)),
			VideoURL:       cell(row, ColumnVideoURL),
			TranscriptLink: cell(row, ColumnTranscriptLink),
		})
	}
	return table, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseSequence 接受全角数字与 "3.0" 这类浮点写法
func parseSequence(raw string) (int, error) {
	s := width.Narrow.String(raw)
	if s == "" {
		return 0, errors.New("为空")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("不是整数: %q", raw)
	}
	if math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("超出范围: %q", raw)
	}
	return int(f), nil
}
