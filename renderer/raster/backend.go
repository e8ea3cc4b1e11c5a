package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/text"
)

type pen struct {
	color color.Color
	width float64
}

// Backend 在 gg.Context 上绘制，坐标即位图像素。
//
// gg 的 Pop 不恢复裁剪遮罩，因此这里自己维护状态栈，每次变化后按当前状态重建遮罩。
type Backend struct {
	dc    *gg.Context
	dpi   float64
	faces *Faces
	state canvas.Stack
}

var _ canvas.Backend = (*Backend)(nil)

func NewBackend(dc *gg.Context, dpi float64, faces *Faces) *Backend {
	return &Backend{dc: dc, dpi: dpi, faces: faces}
}

func (b *Backend) applyClip() {
	b.dc.ResetClip()
	s := b.state.Current()
	if !s.Clipped {
		return
	}
	local := s.Clip.Offset(geom.Point{X: -s.Translation.X, Y: -s.Translation.Y})
	b.dc.DrawRectangle(local.X, local.Y, local.Width, local.Height)
	b.dc.Clip()
}

func (b *Backend) Save() {
	b.state.Push()
	b.dc.Push()
}

func (b *Backend) Restore() {
	b.state.Pop()
	b.dc.Pop()
	b.applyClip()
}

func (b *Backend) ClipRect(r geom.Rect) {
	b.state.Clip(r)
	b.applyClip()
}

func (b *Backend) Translate(p geom.Point) {
	b.state.Translate(p)
	b.dc.Translate(p.X, p.Y)
}

func (b *Backend) StrokeLine(p canvas.Pen, from, to geom.Point) {
	pn := p.(pen)
	if pn.width <= 0 {
		return
	}
	b.dc.SetColor(pn.color)
	b.dc.SetLineWidth(pn.width)
	b.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	b.dc.Stroke()
}

func (b *Backend) FillRect(r geom.Rect, brush canvas.Pen) {
	if r.Empty() {
		return
	}
	b.dc.SetColor(brush.(pen).color)
	b.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	b.dc.Fill()
}

// rasterFace 携带颜色，gg 用当前颜色绘制文本。
type rasterFace struct {
	face  font.Face
	color color.Color
}

func (b *Backend) DrawString(f canvas.Face, s string, at geom.Point) error {
	rf, ok := f.(rasterFace)
	if !ok {
		return fmt.Errorf("raster: unexpected face %T", f)
	}
	b.dc.SetFontFace(rf.face)
	b.dc.SetColor(rf.color)
	b.dc.DrawString(s, at.X, at.Y+fromFixed(rf.face.Metrics().Ascent))
	return nil
}

func (b *Backend) DrawImage(img image.Image, r geom.Rect) error {
	size := img.Bounds().Size()
	if r.Empty() || size.X == 0 || size.Y == 0 {
		return nil
	}
	b.dc.Push()
	defer b.dc.Pop()
	b.dc.Translate(r.X, r.Y)
	b.dc.Scale(r.Width/float64(size.X), r.Height/float64(size.Y))
	b.dc.DrawImage(img, 0, 0)
	return nil
}

func (b *Backend) NewPen(key canvas.PenKey) canvas.Pen {
	return pen{color: key.Color.NRGBA(), width: key.Thickness}
}

func (b *Backend) NewFace(style text.Style) (canvas.Face, error) {
	face, err := b.faces.Face(style, b.dpi)
	if err != nil {
		return nil, err
	}
	return rasterFace{face: face, color: style.Color.NRGBA()}, nil
}
