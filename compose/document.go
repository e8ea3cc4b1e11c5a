// Package compose 把页面模板排版为若干张纸（Sheet），并在页数确定后回放。
package compose

import (
	"errors"

	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/layout"
)

// ErrNoPages 表示文档没有任何页面模板。
var ErrNoPages = errors.New("compose: document has no pages")

// Info 是写入输出文件的元数据。
type Info struct {
	Title   string `json:"title,omitempty"`
	Subject string `json:"subject,omitempty"`
	Author  string `json:"author,omitempty"`
}

// Page 是页面模板：纸张尺寸、页边距以及三层控件（任意一层可以为空）。
//
// 背景与前景按整页尺寸排版；内容层按扣除页边距后的尺寸排版。
// 内容根节点实现 layout.Paginator 且正在分页时，模板会重复直到所有子节点放完。
type Page struct {
	Width, Height geom.Length
	Margin        geom.Box

	Background layout.Control
	Content    layout.Control
	Foreground layout.Control
}

// Document 是有序的页面模板集合。
type Document struct {
	Info  Info
	Pages []*Page
}
