// Package geom 定义布局与绘制共用的几何基础类型，所有坐标与尺寸均为像素。
package geom

import "math"

// Size 表示宽高。
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point 表示二维坐标点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect 以左上角与宽高描述矩形。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Thickness 是已换算为像素的四边厚度（margin/padding）。
type Thickness struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Horizontal 返回左右两边之和。
func (t Thickness) Horizontal() float64 { return t.Left + t.Right }

// Vertical 返回上下两边之和。
func (t Thickness) Vertical() float64 { return t.Top + t.Bottom }

// Add 逐边相加。
func (t Thickness) Add(o Thickness) Thickness {
	return Thickness{Left: t.Left + o.Left, Top: t.Top + o.Top, Right: t.Right + o.Right, Bottom: t.Bottom + o.Bottom}
}

// Shrink 从尺寸中减去厚度，结果不小于 0。
func (s Size) Shrink(t Thickness) Size {
	return Size{
		Width:  math.Max(s.Width-t.Horizontal(), 0),
		Height: math.Max(s.Height-t.Vertical(), 0),
	}
}

// Grow 在尺寸上加上厚度。
func (s Size) Grow(t Thickness) Size {
	return Size{Width: s.Width + t.Horizontal(), Height: s.Height + t.Vertical()}
}

// Add 逐分量相加。
func (s Size) Add(o Size) Size { return Size{Width: s.Width + o.Width, Height: s.Height + o.Height} }

// IsNaN 报告任一分量是否为 NaN。
func (s Size) IsNaN() bool { return math.IsNaN(s.Width) || math.IsNaN(s.Height) }

// Add 逐分量相加。
func (p Point) Add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }

// Location 返回矩形左上角。
func (r Rect) Location() Point { return Point{X: r.X, Y: r.Y} }

// Size 返回矩形尺寸。
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Right 返回右边界。
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom 返回下边界。
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Empty 报告矩形是否没有面积。
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Offset 平移矩形。
func (r Rect) Offset(p Point) Rect {
	r.X += p.X
	r.Y += p.Y
	return r
}

// Intersect 返回两个矩形的交集；不相交时返回零面积矩形。
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.Right(), o.Right())
	y1 := math.Min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Overlaps 报告两个矩形是否有公共面积。
func (r Rect) Overlaps(o Rect) bool { return !r.Intersect(o).Empty() }

// RectFromSize 返回位于原点的矩形。
func RectFromSize(s Size) Rect { return Rect{Width: s.Width, Height: s.Height} }
