package canvas

import (
	"strings"
	"unicode"

	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/text"
)

// Deferred records canvas calls for one page layer without touching a
// backend. It keeps a shadow state stack so Translation and Depth can be
// answered while recording.
//
// Calls with no visible effect are dropped at record time: draws with a fully
// transparent color and text that is empty or whitespace only.
type Deferred struct {
	// FullSize is the page size including margins.
	FullSize geom.Size
	// Size is the page size inside the margins.
	Size geom.Size
	// DPI is the resolution the recorded pixels were laid out at.
	DPI float64

	ops   []Op
	state Stack
}

var _ Canvas = (*Deferred)(nil)

// NewDeferred creates an empty recording for a page of the given sizes.
func NewDeferred(full, size geom.Size, dpi float64) *Deferred {
	return &Deferred{FullSize: full, Size: size, DPI: dpi}
}

func (d *Deferred) record(op Op) { d.ops = append(d.ops, op) }

func (d *Deferred) at() geom.Point { return d.state.Current().Translation }

// PushState implements Canvas.
func (d *Deferred) PushState() {
	d.state.Push()
	d.record(PushOp{})
}

// PopState implements Canvas.
func (d *Deferred) PopState() {
	d.state.Pop()
	d.record(PopOp{})
}

// Clip implements Canvas.
func (d *Deferred) Clip(r geom.Rect) {
	d.record(ClipOp{Rect: r, At: d.at()})
	d.state.Clip(r)
}

// Translate implements Canvas.
func (d *Deferred) Translate(p geom.Point) {
	d.record(TranslateOp{Offset: p, At: d.at()})
	d.state.Translate(p)
}

// Translation implements Canvas.
func (d *Deferred) Translation() geom.Point { return d.at() }

// Depth implements Canvas.
func (d *Deferred) Depth() int { return d.state.Depth() }

// DrawLine implements Canvas.
func (d *Deferred) DrawLine(from, to geom.Point, c geom.Color, thickness float64) {
	if c.Transparent() {
		return
	}
	d.record(LineOp{From: from, To: to, Color: c, Thickness: thickness, At: d.at()})
}

// DrawRect implements Canvas.
func (d *Deferred) DrawRect(r geom.Rect, c geom.Color) {
	if c.Transparent() {
		return
	}
	d.record(RectOp{Rect: r, Color: c, At: d.at()})
}

// DrawText implements Canvas.
func (d *Deferred) DrawText(style text.Style, s string, at geom.Point) error {
	if style.Color.Transparent() || strings.TrimFunc(s, unicode.IsSpace) == "" {
		return nil
	}
	d.record(TextOp{Style: style, Text: s, Position: at, At: d.at()})
	return nil
}

// DrawBitmap implements Canvas.
func (d *Deferred) DrawBitmap(b Bitmap, r geom.Rect) error {
	if b.Empty() {
		return nil
	}
	d.record(BitmapOp{Bitmap: b, Rect: r, At: d.at()})
	return nil
}

// Ops returns a copy of the recorded sequence.
func (d *Deferred) Ops() []Op {
	out := make([]Op, len(d.ops))
	copy(out, d.ops)
	return out
}

// Len returns the number of recorded ops.
func (d *Deferred) Len() int { return len(d.ops) }

// Render replays the recording against target in original order, substituting
// vars into text ops.
func (d *Deferred) Render(target Canvas, vars binding.Vars) error {
	return Replay(d.ops, target, vars)
}
