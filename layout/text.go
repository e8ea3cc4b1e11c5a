package layout

import (
	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/text"
)

// Text 是自动折行的文本块。内容中可以包含 ${page} / ${pages} 占位符。
type Text struct {
	Aligned
	Content string
	Style   text.Style
	// NoWrap 为 true 时只按显式换行拆分。
	NoWrap bool
	Layout text.Layout

	vars  binding.Vars
	lines []text.Line
}

// NewText 创建文本控件。
func NewText(content string, style text.Style, tl text.Layout) *Text {
	t := &Text{Content: content, Style: style, Layout: tl}
	t.Extend(t)
	return t
}

func (t *Text) Kind() Kind { return KindText }

// SetPage 注入页码变量；不含占位符的文本忽略它。
func (t *Text) SetPage(info PageInfo) {
	if binding.HasPlaceholders(t.Content) {
		t.vars = binding.PageVars(info.Number, info.Total)
	}
}

// Lines 返回最近一次排列得到的行（未展开占位符的模板行）。
func (t *Text) Lines() []text.Line { return t.lines }

func (t *Text) textLayout() text.Layout {
	tl := t.Layout
	if t.vars != nil {
		tl.Expand = binding.Interpolator(t.vars)
	}
	return tl
}

func (t *Text) MeasureOverride(_ float64, _, _, remaining geom.Size, _ language.Tag) geom.Size {
	tl := t.textLayout()
	if t.NoWrap {
		return tl.Bounds(t.Style, tl.Unwrapped(t.Style, t.Content))
	}
	size := tl.Measure(t.Style, t.Content, remaining.Width)
	if text.IsCannotFit(size) {
		return tl.Bounds(t.Style, tl.Unwrapped(t.Style, t.Content))
	}
	return size
}

func (t *Text) ArrangeOverride(_ float64, _, _, remaining geom.Size, _ language.Tag) geom.Size {
	tl := t.textLayout()
	var ok bool
	if !t.NoWrap {
		t.lines, ok = tl.Break(t.Style, t.Content, remaining.Width)
	}
	if !ok {
		t.lines = tl.Unwrapped(t.Style, t.Content)
	}
	return tl.Bounds(t.Style, t.lines)
}

func (t *Text) RenderOverride(c canvas.Canvas, _ float64, _ geom.Size, _ language.Tag) (geom.Size, error) {
	return geom.Size{}, t.textLayout().DrawLines(c, t.Style, t.lines, geom.Point{}, t.Size().Width)
}
