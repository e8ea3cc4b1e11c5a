package canvas

import (
	"image"

	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/memo"
	"github.com/ByLCY/vellum/text"
)

// Pen is a backend paint object for a (color, thickness) pair. A thickness
// of zero is used for fills.
type Pen any

// Face is a backend font face for a text.Style.
type Face any

// PenKey identifies a Pen by value.
type PenKey struct {
	Color     geom.Color
	Thickness float64
}

// Backend is a live drawing surface. Coordinates are pixels in the current
// backend transform.
type Backend interface {
	Save()
	Restore()
	ClipRect(r geom.Rect)
	Translate(p geom.Point)
	StrokeLine(pen Pen, from, to geom.Point)
	FillRect(r geom.Rect, brush Pen)
	DrawString(face Face, s string, at geom.Point) error
	DrawImage(img image.Image, r geom.Rect) error

	NewPen(key PenKey) Pen
	NewFace(style text.Style) (Face, error)
}

// PaintCache memoizes pens and faces. One cache may be shared by immediate
// canvases running concurrently, as long as they use the same backend type.
type PaintCache struct {
	pens  memo.Map[PenKey, Pen]
	faces memo.Map[text.Style, Face]
}

// NewPaintCache returns an empty cache.
func NewPaintCache() *PaintCache { return &PaintCache{} }

// Pen returns the cached pen for key, building it with b on a miss.
func (c *PaintCache) Pen(b Backend, key PenKey) Pen {
	p, _ := c.pens.GetOrCreate(key, func() (Pen, error) { return b.NewPen(key), nil })
	return p
}

// Face returns the cached face for style, building it with b on a miss.
func (c *PaintCache) Face(b Backend, style text.Style) (Face, error) {
	return c.faces.GetOrCreate(style, func() (Face, error) { return b.NewFace(style) })
}

// Immediate forwards canvas calls straight to a Backend.
type Immediate struct {
	backend Backend
	cache   *PaintCache
	state   Stack
}

var _ Canvas = (*Immediate)(nil)

// NewImmediate wraps b. A nil cache gives the canvas a private one.
func NewImmediate(b Backend, cache *PaintCache) *Immediate {
	if cache == nil {
		cache = NewPaintCache()
	}
	return &Immediate{backend: b, cache: cache}
}

// PushState implements Canvas.
func (c *Immediate) PushState() {
	c.state.Push()
	c.backend.Save()
}

// PopState implements Canvas.
func (c *Immediate) PopState() {
	c.state.Pop()
	c.backend.Restore()
}

// Clip implements Canvas.
func (c *Immediate) Clip(r geom.Rect) {
	c.state.Clip(r)
	c.backend.ClipRect(r)
}

// Translate implements Canvas.
func (c *Immediate) Translate(p geom.Point) {
	c.state.Translate(p)
	c.backend.Translate(p)
}

// Translation implements Canvas.
func (c *Immediate) Translation() geom.Point { return c.state.Current().Translation }

// Depth implements Canvas.
func (c *Immediate) Depth() int { return c.state.Depth() }

// DrawLine implements Canvas.
func (c *Immediate) DrawLine(from, to geom.Point, col geom.Color, thickness float64) {
	c.backend.StrokeLine(c.cache.Pen(c.backend, PenKey{Color: col, Thickness: thickness}), from, to)
}

// DrawRect implements Canvas.
func (c *Immediate) DrawRect(r geom.Rect, col geom.Color) {
	c.backend.FillRect(r, c.cache.Pen(c.backend, PenKey{Color: col}))
}

// DrawText implements Canvas.
func (c *Immediate) DrawText(style text.Style, s string, at geom.Point) error {
	face, err := c.cache.Face(c.backend, style)
	if err != nil {
		return err
	}
	return c.backend.DrawString(face, s, at)
}

// DrawBitmap implements Canvas.
func (c *Immediate) DrawBitmap(b Bitmap, r geom.Rect) error {
	img, err := b.Decode()
	if err != nil {
		return err
	}
	return c.backend.DrawImage(img, r)
}
