package geom

import "image/color"

// Color 采用 0-255 的 RGBA 数值，A 为 0 表示完全透明。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Common colors.
var (
	Black       = Color{A: 255}
	White       = Color{R: 255, G: 255, B: 255, A: 255}
	Transparent = Color{}
)

// RGB 返回不透明颜色。
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

// Transparent 报告颜色是否完全透明（绘制无可见效果）。
func (c Color) Transparent() bool { return c.A == 0 }

// NRGBA 转换为标准库颜色（非预乘）。
func (c Color) NRGBA() color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A} }
