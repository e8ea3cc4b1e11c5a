// Package text 负责文本测量与折行：按显式换行拆分物理行，再在空白处向回收缩候选串直到放得下。
package text

import "github.com/ByLCY/vellum/geom"

// DefaultFont 是未指定字体族时使用的名称。
const DefaultFont = "Go"

// Style 描述一段文本的字体与颜色。字段均为可比较类型，可直接作为缓存键。
type Style struct {
	Font   string     `json:"font"`
	Size   float64    `json:"size"` // 字号（pt）
	Color  geom.Color `json:"color"`
	Bold   bool       `json:"bold,omitempty"`
	Italic bool       `json:"italic,omitempty"`
}

// Family 返回字体族名称，缺省为 DefaultFont。
func (s Style) Family() string {
	if s.Font == "" {
		return DefaultFont
	}
	return s.Font
}

// SizePx 返回给定 DPI 下的字号像素值。
func (s Style) SizePx(dpi float64) float64 { return s.Size * dpi / geom.PtPerInch }
