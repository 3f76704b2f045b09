package service

import (
	"errors"
	"fmt"
)

// ErrMatchNotFound 行序号不在当前索引中
var ErrMatchNotFound = errors.New("对局不存在")

// LinkResolutionError 棋谱链接不是 .../d/<id>/... 形式，无法转换为直链
type LinkResolutionError struct {
	Link string
}

func (e *LinkResolutionError) Error() string {
	if e.Link == "" {
		return "棋谱链接为空"
	}
	return fmt.Sprintf("无法从链接中解析文件ID: %s", e.Link)
}
