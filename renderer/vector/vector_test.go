package vector

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	vcanvas "github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/compose"
	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/text"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestClipSegment(t *testing.T) {
	r := geom.Rect{X: 0, Y: 0, Width: 10, Height: 10}

	from, to, ok := clipSegment(geom.Point{X: -5, Y: 5}, geom.Point{X: 15, Y: 5}, r)
	if !ok || !near(from.X, 0) || !near(to.X, 10) {
		t.Fatalf("horizontal crossing = %v %v %v", from, to, ok)
	}
	if _, _, ok := clipSegment(geom.Point{X: -5, Y: -1}, geom.Point{X: 15, Y: -1}, r); ok {
		t.Fatalf("segment above the rect should be rejected")
	}
	from, to, ok = clipSegment(geom.Point{X: 2, Y: 2}, geom.Point{X: 8, Y: 8}, r)
	if !ok || from != (geom.Point{X: 2, Y: 2}) || to != (geom.Point{X: 8, Y: 8}) {
		t.Fatalf("inside segment changed: %v %v", from, to)
	}
}

func newTestBackend() (*Backend, *canvas.Canvas) {
	c := canvas.New(100, 100)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	return NewBackend(ctx, 96, NewFonts(nil)), c
}

func TestVisibleHonorsClipAndTranslation(t *testing.T) {
	b, _ := newTestBackend()
	b.Save()
	b.Translate(geom.Point{X: 10, Y: 10})
	b.ClipRect(geom.Rect{Width: 20, Height: 20})
	b.Translate(geom.Point{X: 5})

	got, ok := b.visible(geom.Rect{X: 0, Y: 0, Width: 50, Height: 5})
	if !ok || got != (geom.Rect{X: 0, Y: 0, Width: 15, Height: 5}) {
		t.Fatalf("visible = %+v %v, want 15x5 at origin", got, ok)
	}
	b.Restore()
	if _, ok := b.visible(geom.Rect{X: 500, Width: 1, Height: 1}); !ok {
		t.Fatalf("restore should drop the clip")
	}
}

func TestFillRectOutsideClipDrawsNothing(t *testing.T) {
	b, c := newTestBackend()
	brush := b.NewPen(vcanvasKey(geom.Black))
	b.Save()
	b.ClipRect(geom.Rect{Width: 10, Height: 10})
	b.FillRect(geom.Rect{X: 20, Y: 20, Width: 5, Height: 5}, brush)
	if !c.Empty() {
		t.Fatalf("rect outside the clip was drawn")
	}
	b.FillRect(geom.Rect{X: 5, Y: 5, Width: 50, Height: 50}, brush)
	b.Restore()
	if c.Empty() {
		t.Fatalf("rect overlapping the clip was not drawn")
	}
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func isRed(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r > 0xc000 && g < 0x4000 && b < 0x4000
}

func TestDrawImageFillsTargetRect(t *testing.T) {
	b, c := newTestBackend()
	if err := b.DrawImage(solid(10, 10, color.NRGBA{R: 255, A: 255}), geom.Rect{Width: 96, Height: 48}); err != nil {
		t.Fatal(err)
	}
	img := rasterizer.Draw(c, canvas.DPI(96), canvas.DefaultColorSpace)

	rows := 0
	for y := 0; y < img.Bounds().Dy(); y++ {
		if isRed(img.At(40, y)) {
			rows++
		}
	}
	if rows < 46 || rows > 50 {
		t.Fatalf("image height %d px, want 48", rows)
	}
	cols := 0
	for x := 0; x < img.Bounds().Dx(); x++ {
		if isRed(img.At(x, 20)) {
			cols++
		}
	}
	if cols < 94 || cols > 98 {
		t.Fatalf("image width %d px, want 96", cols)
	}
}

func TestDrawStringClipsPartiallyVisibleLine(t *testing.T) {
	b, c := newTestBackend()
	face, err := b.NewFace(text.Style{Size: 24, Color: geom.Black})
	if err != nil {
		t.Fatal(err)
	}
	b.Save()
	b.Translate(geom.Point{X: 10, Y: 10})
	b.ClipRect(geom.Rect{X: 10, Y: 10, Width: 50, Height: 100})
	if err := b.DrawString(face, "MMMMMMMMMM", geom.Point{}); err != nil {
		t.Fatal(err)
	}
	b.Restore()
	img := rasterizer.Draw(c, canvas.DPI(96), canvas.DefaultColorSpace)

	inside, outside := 0, 0
	for y := 0; y < 60; y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a < 0x8000 {
				continue
			}
			if x < 60 {
				inside++
			} else if x > 62 {
				outside++
			}
		}
	}
	if inside == 0 {
		t.Fatalf("no ink inside the clip")
	}
	if outside != 0 {
		t.Fatalf("%d px of ink past the clip edge", outside)
	}
}

func TestMeasurerScalesWithDPI(t *testing.T) {
	f := NewFonts(nil)
	style := text.Style{Size: 12}
	w96 := f.Measurer(96).Width(style, "hello")
	w192 := f.Measurer(192).Width(style, "hello")
	if w96 <= 0 || !near(w192, 2*w96) {
		t.Fatalf("widths 96dpi=%v 192dpi=%v", w96, w192)
	}
	if f.Measurer(96).Width(style, "hello world") <= w96 {
		t.Fatalf("longer text should be wider")
	}
	if lh := f.Measurer(96).LineHeight(style); lh <= style.SizePx(96)*0.8 {
		t.Fatalf("line height %v too small", lh)
	}
}

func TestRenderWritesPDF(t *testing.T) {
	r := NewRenderer(nil)
	page := &compose.Page{Width: geom.MM(210), Height: geom.MM(297), Margin: geom.Uniform(geom.MM(10))}
	tl := text.Layout{Measurer: r.Measurer(96)}
	root := layout.NewStack(layout.Vertical,
		layout.NewText("Page ${page} of ${pages}", text.Style{Size: 12, Color: geom.Black}, tl),
		layout.NewLine(layout.Horizontal, geom.Px(1), geom.Black),
	)
	page.Content = root

	res, err := (&compose.Engine{}).Layout(&compose.Document{Info: compose.Info{Title: "t"}, Pages: []*compose.Page{page}})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	out, err := r.Render(res)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 8)])
	}
	if _, err := r.Render(&compose.Result{}); err == nil {
		t.Fatalf("expected error for empty result")
	}
}

func vcanvasKey(c geom.Color) vcanvas.PenKey { return vcanvas.PenKey{Color: c} }
