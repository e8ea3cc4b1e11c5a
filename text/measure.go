package text

import (
	"unicode/utf8"

	"github.com/ByLCY/vellum/memo"
)

// Measurer 返回文本在给定样式下的像素宽度与单行高度。
// 实现必须是纯函数：相同输入总得到相同结果。
type Measurer interface {
	Width(style Style, s string) float64
	LineHeight(style Style) float64
}

// Monospace 是不依赖字体文件的等宽测量器，每个字符宽度为 Advance 个 em。
type Monospace struct {
	DPI     float64 // 缺省 96
	Advance float64 // 字宽/字号，缺省 0.6
	Leading float64 // 行高/字号，缺省 1.2
}

func (m Monospace) px(style Style) float64 {
	dpi := m.DPI
	if dpi <= 0 {
		dpi = 96
	}
	return style.SizePx(dpi)
}

// Width implements Measurer.
func (m Monospace) Width(style Style, s string) float64 {
	adv := m.Advance
	if adv <= 0 {
		adv = 0.6
	}
	return float64(utf8.RuneCountInString(s)) * m.px(style) * adv
}

// LineHeight implements Measurer.
func (m Monospace) LineHeight(style Style) float64 {
	lead := m.Leading
	if lead <= 0 {
		lead = 1.2
	}
	return m.px(style) * lead
}

type widthKey struct {
	style Style
	text  string
}

// Cached 为任意 Measurer 加上并发安全的记忆化，可在多个文档间共享。
type Cached struct {
	inner   Measurer
	widths  memo.Map[widthKey, float64]
	heights memo.Map[Style, float64]
}

var _ Measurer = (*Cached)(nil)

// NewCached 包装 inner。
func NewCached(inner Measurer) *Cached { return &Cached{inner: inner} }

// Width implements Measurer.
func (c *Cached) Width(style Style, s string) float64 {
	w, _ := c.widths.GetOrCreate(widthKey{style: style, text: s}, func() (float64, error) {
		return c.inner.Width(style, s), nil
	})
	return w
}

// LineHeight implements Measurer.
func (c *Cached) LineHeight(style Style) float64 {
	h, _ := c.heights.GetOrCreate(style, func() (float64, error) {
		return c.inner.LineHeight(style), nil
	})
	return h
}
