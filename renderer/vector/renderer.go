// Package vector 通过 github.com/tdewolff/canvas 把排版结果输出为 PDF。
package vector

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	vcanvas "github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/compose"
	"github.com/ByLCY/vellum/fonts"
	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/renderer"
	"github.com/ByLCY/vellum/text"
)

const creator = "vellum"

// Renderer draws composed sheets into a PDF.
type Renderer struct {
	fonts  *Fonts
	paints *vcanvas.PaintCache
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a PDF renderer. A nil registry uses the built-in fonts.
func NewRenderer(registry *fonts.Registry) *Renderer {
	return &Renderer{fonts: NewFonts(registry), paints: vcanvas.NewPaintCache()}
}

func (r *Renderer) Measurer(dpi float64) text.Measurer { return r.fonts.Measurer(dpi) }

func (r *Renderer) ContentType() string { return "application/pdf" }

// Render renders every sheet as one PDF page.
func (r *Renderer) Render(res *compose.Result) ([]byte, error) {
	if res == nil || len(res.Sheets) == 0 {
		return nil, errors.New("vector: nothing to render")
	}

	var buf bytes.Buffer
	first := res.Sheets[0]
	writer := pdf.New(&buf, geom.PixelsToMM(first.FullSize.Width, first.DPI), geom.PixelsToMM(first.FullSize.Height, first.DPI), nil)
	writer.SetInfo(res.Info.Title, res.Info.Subject, "", res.Info.Author, creator)
	for i, sheet := range res.Sheets {
		w, h := geom.PixelsToMM(sheet.FullSize.Width, sheet.DPI), geom.PixelsToMM(sheet.FullSize.Height, sheet.DPI)
		if i > 0 {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		target := vcanvas.NewImmediate(NewBackend(ctx, sheet.DPI, r.fonts), r.paints)
		if err := compose.Replay(sheet, target); err != nil {
			return nil, fmt.Errorf("page %d: %w", sheet.Number, err)
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
