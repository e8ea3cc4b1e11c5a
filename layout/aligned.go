package layout

import (
	"math"

	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
)

// HAlign 是水平对齐方式。
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
	AlignStretch
)

// VAlign 是垂直对齐方式。
type VAlign int

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
	AlignFill
)

// Aligned 为控件增加水平与垂直两个独立的对齐轴。
type Aligned struct {
	Base
	HAlign HAlign
	VAlign VAlign
}

type stretcher interface {
	stretch() (horizontal, vertical bool)
}

func (a *Aligned) stretch() (bool, bool) {
	return a.HAlign == AlignStretch, a.VAlign == AlignFill
}

// PreRender 把内容平移到槽位内的对齐位置，不改变测量尺寸，也不扩大裁剪区域。
func (a *Aligned) PreRender(c canvas.Canvas, _ float64, _ geom.Size, _ language.Tag) (geom.Size, error) {
	dx := a.HAlign.offset(a.RemainingSize.Width, a.Arranged.Outer.Width)
	dy := a.VAlign.offset(a.RemainingSize.Height, a.Arranged.Outer.Height)
	if dx != 0 || dy != 0 {
		c.Translate(geom.Point{X: dx, Y: dy})
	}
	return geom.Size{}, nil
}

func (h HAlign) offset(remaining, arranged float64) float64 {
	switch h {
	case AlignLeft, AlignStretch:
		return 0
	case AlignCenter:
		return slack(remaining, arranged) / 2
	case AlignRight:
		return slack(remaining, arranged)
	default:
		panic("layout: unknown horizontal alignment")
	}
}

func (v VAlign) offset(remaining, arranged float64) float64 {
	switch v {
	case AlignTop, AlignFill:
		return 0
	case AlignMiddle:
		return slack(remaining, arranged) / 2
	case AlignBottom:
		return slack(remaining, arranged)
	default:
		panic("layout: unknown vertical alignment")
	}
}

// slack 在剩余尺寸无界时返回 0。
func slack(remaining, arranged float64) float64 {
	if !finite(remaining) {
		return 0
	}
	return remaining - arranged
}

func finite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }

// Common 返回所有控件共有的可设置参数（margin、padding、对齐、裁剪）。
func (a *Aligned) Common() *Aligned { return a }
