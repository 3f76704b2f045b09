// Package content 页面中与数据无关的静态文案（标题、署名、联系方式、注记）
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed notices.yaml
var defaultContent []byte

// Segment 一段文字，URL 非空时渲染为链接
type Segment struct {
	Text string `yaml:"text"`
	URL  string `yaml:"url"`
}

type Paragraph struct {
	Segments []Segment `yaml:"segments"`
}

// Notice 带日期的注记
type Notice struct {
	Date     string    `yaml:"date"`
	Segments []Segment `yaml:"segments"`
}

// Labels 页面控件文案
type Labels struct {
	Select          string `yaml:"select"`
	Video           string `yaml:"video"`
	VideoLink       string `yaml:"video_link"`
	Transcript      string `yaml:"transcript"`
	Download        string `yaml:"download"`
	TranscriptError string `yaml:"transcript_error"`
	IndexError      string `yaml:"index_error"`
	Refresh         string `yaml:"refresh"`
	Empty           string `yaml:"empty"`
}

type Page struct {
	Title        string      `yaml:"title"`
	Icon         string      `yaml:"icon"`
	Heading      string      `yaml:"heading"`
	Labels       Labels      `yaml:"labels"`
	About        []Paragraph `yaml:"about"`
	NoticesTitle string      `yaml:"notices_title"`
	Notices      []Notice    `yaml:"notices"`
}

// Default 内置文案
func Default() (*Page, error) {
	return Parse(defaultContent)
}

// Load path 为空时使用内置文案
func Load(path string) (*Page, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取页面文案失败: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Page, error) {
	var p Page
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("解析页面文案失败: %w", err)
	}
	if p.Title == "" {
		return nil, errors.New("页面文案缺少 title")
	}
	return &p, nil
}
