// Package layout 实现控件树的三阶段布局协议：测量（Measure）→ 排列（Arrange）→ 渲染（Render）。
//
// 每个阶段都先把 margin/padding 从父级提供的尺寸中减去，再交给控件自身的钩子处理。
// 同一轮布局中渲染只使用本轮排列的结果，不会重新计算。
package layout

import (
	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
)

// Kind 标识控件类型，用于内容节点的类型校验（CanAdd）。
type Kind string

const (
	KindText      Kind = "text"
	KindRectangle Kind = "rect"
	KindLine      Kind = "line"
	KindImage     Kind = "image"
	KindStack     Kind = "stack"
	KindOverlay   Kind = "overlay"
	KindTable     Kind = "table"
	KindRow       Kind = "row"
)

// Control 是布局树节点对外暴露的能力接口。
//
// full 为整页尺寸，framed 为父级提供的框定尺寸，remaining 为当前可用的剩余尺寸。
// 同样的输入必须得到同样的几何结果。
type Control interface {
	Kind() Kind
	Measure(dpi float64, full, framed, remaining geom.Size, culture language.Tag) geom.Size
	Arrange(dpi float64, full, framed, remaining geom.Size, culture language.Tag) geom.Size
	Render(c canvas.Canvas, dpi float64, parent geom.Size, culture language.Tag) (geom.Size, error)
}

// Overrides 是具体控件实现的钩子。传入的尺寸已经扣除了 margin 与 padding。
type Overrides interface {
	MeasureOverride(dpi float64, full, framed, remaining geom.Size, culture language.Tag) geom.Size
	ArrangeOverride(dpi float64, full, framed, remaining geom.Size, culture language.Tag) geom.Size
	// RenderOverride 在已平移到内容区左上角的画布上绘制，返回额外占用的尺寸。
	RenderOverride(c canvas.Canvas, dpi float64, parent geom.Size, culture language.Tag) (geom.Size, error)
}

// PreRenderer 是可选钩子：在裁剪与平移之前调用，可以平移内容（不影响测量尺寸），
// 返回的额外尺寸只用于扩大裁剪区域。
type PreRenderer interface {
	PreRender(c canvas.Canvas, dpi float64, parent geom.Size, culture language.Tag) (geom.Size, error)
}

// Frame 是三层嵌套矩形：外框、扣除 margin、再扣除 padding。坐标相对控件自身原点。
type Frame struct {
	Outer   geom.Rect `json:"outer"`
	Margin  geom.Rect `json:"margin"`
	Padding geom.Rect `json:"padding"`
}

func newFrame(inner geom.Size, m, p geom.Thickness) Frame {
	withPadding := inner.Grow(p)
	outer := withPadding.Grow(m)
	return Frame{
		Outer:   geom.RectFromSize(outer),
		Margin:  geom.Rect{X: m.Left, Y: m.Top, Width: withPadding.Width, Height: withPadding.Height},
		Padding: geom.Rect{X: m.Left + p.Left, Y: m.Top + p.Top, Width: inner.Width, Height: inner.Height},
	}
}

// Base 保存所有控件共有的参数与布局状态。具体控件内嵌 Base 并调用 Extend(self) 注册钩子。
type Base struct {
	Margin  geom.Box
	Padding geom.Box
	// NoClip 关闭渲染时对排列矩形的裁剪。
	NoClip bool

	Measured Frame
	Arranged Frame
	// FramedSize 是排列时父级提供的框定尺寸，RemainingSize 是排列时的剩余尺寸（对齐所用的槽位）。
	FramedSize    geom.Size
	RemainingSize geom.Size

	self Overrides
}

// Extend 注册具体控件自身，使 Base 能回调其钩子。
func (b *Base) Extend(self Overrides) { b.self = self }

func (b *Base) hooks() Overrides {
	if b.self == nil {
		panic("layout: control used before Extend")
	}
	return b.self
}

func (b *Base) thickness(dpi float64, ref geom.Size) (m, p geom.Thickness) {
	return b.Margin.Pixels(dpi, ref), b.Padding.Pixels(dpi, ref)
}

// Measure 扣除 margin/padding 后调用 MeasureOverride，并重建三层测量矩形，返回外框尺寸。
func (b *Base) Measure(dpi float64, full, framed, remaining geom.Size, culture language.Tag) geom.Size {
	m, p := b.thickness(dpi, framed)
	mp := m.Add(p)
	inner := b.hooks().MeasureOverride(dpi, full.Shrink(mp), framed.Shrink(mp), remaining.Shrink(mp), culture)
	b.Measured = newFrame(inner, m, p)
	return b.Measured.Outer.Size()
}

// Arrange 与 Measure 结构相同，另外记录框定尺寸与剩余尺寸供对齐使用。
func (b *Base) Arrange(dpi float64, full, framed, remaining geom.Size, culture language.Tag) geom.Size {
	m, p := b.thickness(dpi, framed)
	mp := m.Add(p)
	avail := remaining.Shrink(mp)
	inner := b.hooks().ArrangeOverride(dpi, full.Shrink(mp), framed.Shrink(mp), avail, culture)
	if s, ok := b.self.(stretcher); ok {
		h, v := s.stretch()
		if h && finite(avail.Width) {
			inner.Width = avail.Width
		}
		if v && finite(avail.Height) {
			inner.Height = avail.Height
		}
	}
	b.FramedSize = framed
	b.RemainingSize = remaining
	b.Arranged = newFrame(inner, m, p)
	return b.Arranged.Outer.Size()
}

// Render 在成对的 PushState/PopState 中依次执行：PreRender 钩子、可选裁剪、
// 平移到内容区、RenderOverride。返回两个钩子报告的额外尺寸之和。
func (b *Base) Render(c canvas.Canvas, dpi float64, parent geom.Size, culture language.Tag) (geom.Size, error) {
	m, p := b.thickness(dpi, parent)
	inner := parent.Shrink(m.Add(p))

	c.PushState()
	defer c.PopState()

	var extra geom.Size
	if pr, ok := b.self.(PreRenderer); ok {
		e, err := pr.PreRender(c, dpi, parent, culture)
		if err != nil {
			return geom.Size{}, err
		}
		extra = e
	}
	if !b.NoClip {
		clip := b.Arranged.Outer
		clip.Width += extra.Width
		clip.Height += extra.Height
		c.Clip(clip)
	}
	c.Translate(b.Arranged.Padding.Location())
	own, err := b.hooks().RenderOverride(c, dpi, inner, culture)
	if err != nil {
		return geom.Size{}, err
	}
	return extra.Add(own), nil
}

// Size 返回排列后的内容区尺寸（扣除 margin 与 padding）。
func (b *Base) Size() geom.Size { return b.Arranged.Padding.Size() }
