package layout

import (
	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
)

// Orientation 是线条与堆叠的方向。
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		panic("layout: unknown orientation")
	}
}

// extent 把可选长度换算为像素；长度为零时取 fallback（无界时为 0）。
func extent(l geom.Length, dpi, reference, fallback float64) float64 {
	if !l.IsZero() {
		return l.Pixels(dpi, reference)
	}
	if !finite(fallback) {
		return 0
	}
	return fallback
}

// Rectangle 是带可选描边的填充矩形。未指定的宽高填满剩余空间。
type Rectangle struct {
	Aligned
	Width, Height geom.Length
	Fill          geom.Color
	Stroke        geom.Color
	StrokeWidth   geom.Length
}

func NewRectangle(fill geom.Color) *Rectangle {
	r := &Rectangle{Fill: fill}
	r.Extend(r)
	return r
}

func (r *Rectangle) Kind() Kind { return KindRectangle }

func (r *Rectangle) size(dpi float64, framed, remaining geom.Size) geom.Size {
	return geom.Size{
		Width:  extent(r.Width, dpi, framed.Width, remaining.Width),
		Height: extent(r.Height, dpi, framed.Height, remaining.Height),
	}
}

func (r *Rectangle) MeasureOverride(dpi float64, _, framed, remaining geom.Size, _ language.Tag) geom.Size {
	return r.size(dpi, framed, remaining)
}

func (r *Rectangle) ArrangeOverride(dpi float64, _, framed, remaining geom.Size, _ language.Tag) geom.Size {
	return r.size(dpi, framed, remaining)
}

func (r *Rectangle) RenderOverride(c canvas.Canvas, dpi float64, parent geom.Size, _ language.Tag) (geom.Size, error) {
	box := geom.RectFromSize(r.Size())
	c.DrawRect(box, r.Fill)
	if sw := r.StrokeWidth.Pixels(dpi, parent.Width); sw > 0 {
		tl, br := box.Location(), geom.Point{X: box.Right(), Y: box.Bottom()}
		tr, bl := geom.Point{X: br.X, Y: tl.Y}, geom.Point{X: tl.X, Y: br.Y}
		c.DrawLine(tl, tr, r.Stroke, sw)
		c.DrawLine(tr, br, r.Stroke, sw)
		c.DrawLine(br, bl, r.Stroke, sw)
		c.DrawLine(bl, tl, r.Stroke, sw)
	}
	return geom.Size{}, nil
}

// Line 是横线或竖线。长度未指定时填满剩余空间，粗细占据交叉轴。
type Line struct {
	Aligned
	Orientation Orientation
	Length      geom.Length
	Thickness   geom.Length
	Color       geom.Color
}

func NewLine(o Orientation, thickness geom.Length, color geom.Color) *Line {
	l := &Line{Orientation: o, Thickness: thickness, Color: color}
	l.Extend(l)
	return l
}

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) size(dpi float64, framed, remaining geom.Size) geom.Size {
	switch l.Orientation {
	case Horizontal:
		return geom.Size{
			Width:  extent(l.Length, dpi, framed.Width, remaining.Width),
			Height: l.Thickness.Pixels(dpi, framed.Height),
		}
	case Vertical:
		return geom.Size{
			Width:  l.Thickness.Pixels(dpi, framed.Width),
			Height: extent(l.Length, dpi, framed.Height, remaining.Height),
		}
	default:
		panic("layout: unknown orientation")
	}
}

func (l *Line) MeasureOverride(dpi float64, _, framed, remaining geom.Size, _ language.Tag) geom.Size {
	return l.size(dpi, framed, remaining)
}

func (l *Line) ArrangeOverride(dpi float64, _, framed, remaining geom.Size, _ language.Tag) geom.Size {
	return l.size(dpi, framed, remaining)
}

// RenderOverride 沿交叉轴中线绘制。
func (l *Line) RenderOverride(c canvas.Canvas, _ float64, _ geom.Size, _ language.Tag) (geom.Size, error) {
	s := l.Size()
	switch l.Orientation {
	case Horizontal:
		y := s.Height / 2
		c.DrawLine(geom.Point{Y: y}, geom.Point{X: s.Width, Y: y}, l.Color, s.Height)
	case Vertical:
		x := s.Width / 2
		c.DrawLine(geom.Point{X: x}, geom.Point{X: x, Y: s.Height}, l.Color, s.Width)
	default:
		panic("layout: unknown orientation")
	}
	return geom.Size{}, nil
}
