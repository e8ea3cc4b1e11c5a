// Package raster 通过 github.com/fogleman/gg 把排版结果输出为 PNG。
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/compose"
	"github.com/ByLCY/vellum/fonts"
	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/memo"
	"github.com/ByLCY/vellum/renderer"
	"github.com/ByLCY/vellum/text"
)

// DefaultGap 是多页纵向拼接时页与页之间的像素间距。
const DefaultGap = 16

// Renderer draws composed sheets into a PNG. Multiple sheets are stacked
// vertically, separated by Gap pixels.
type Renderer struct {
	Gap   int
	Paper geom.Color

	faces *Faces
	// 字体面与 DPI 相关，所以每个 DPI 一个绘制缓存。
	paints memo.Map[float64, *canvas.PaintCache]
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a PNG renderer. A nil registry uses the built-in fonts.
func NewRenderer(registry *fonts.Registry) *Renderer {
	return &Renderer{Gap: DefaultGap, Paper: geom.White, faces: NewFaces(registry)}
}

func (r *Renderer) Measurer(dpi float64) text.Measurer { return r.faces.Measurer(dpi) }

func (r *Renderer) ContentType() string { return "image/png" }

func (r *Renderer) paintCache(dpi float64) *canvas.PaintCache {
	pc, _ := r.paints.GetOrCreate(dpi, func() (*canvas.PaintCache, error) { return canvas.NewPaintCache(), nil })
	return pc
}

func pixels(v float64) int { return int(math.Ceil(v)) }

// Render renders all sheets into one PNG.
func (r *Renderer) Render(res *compose.Result) ([]byte, error) {
	if res == nil || len(res.Sheets) == 0 {
		return nil, errors.New("raster: nothing to render")
	}
	width, height := 0, 0
	for i, s := range res.Sheets {
		width = max(width, pixels(s.FullSize.Width))
		height += pixels(s.FullSize.Height)
		if i > 0 {
			height += r.Gap
		}
	}

	dc := gg.NewContext(width, height)
	y := 0
	for _, s := range res.Sheets {
		dc.Push()
		dc.Translate(0, float64(y))
		err := r.drawSheet(dc, s)
		dc.Pop()
		dc.ResetClip()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", s.Number, err)
		}
		y += pixels(s.FullSize.Height) + r.Gap
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSheet renders one sheet into its own image.
func (r *Renderer) RenderSheet(s *compose.Sheet) (image.Image, error) {
	dc := gg.NewContext(pixels(s.FullSize.Width), pixels(s.FullSize.Height))
	if err := r.drawSheet(dc, s); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func (r *Renderer) drawSheet(dc *gg.Context, s *compose.Sheet) error {
	b := NewBackend(dc, s.DPI, r.faces)
	page := geom.RectFromSize(s.FullSize)
	b.ClipRect(page)
	b.FillRect(page, b.NewPen(canvas.PenKey{Color: r.Paper}))
	return compose.Replay(s, canvas.NewImmediate(b, r.paintCache(s.DPI)))
}
