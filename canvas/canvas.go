// Package canvas defines the drawing-state contract shared by layout and
// backends, plus its two implementations: Immediate forwards every call to a
// live Backend, Deferred records calls as Ops for replay once page geometry
// and page count are final.
//
// Every PushState must be matched by a PopState on all exit paths; callers
// use
//
//	c.PushState()
//	defer c.PopState()
//
// Popping with nothing pushed is a programming error and panics.
package canvas

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/text"
)

// Canvas is the state contract: balanced save/restore of translation and
// clip, plus the drawing primitives. All coordinates are pixels relative to
// the current translation.
type Canvas interface {
	PushState()
	PopState()
	// Clip intersects the active clip with r.
	Clip(r geom.Rect)
	// Translate pre-concatenates an offset to the current translation.
	Translate(p geom.Point)
	// Translation returns the current effective translation.
	Translation() geom.Point
	// Depth returns the number of unmatched PushState calls.
	Depth() int

	DrawLine(from, to geom.Point, c geom.Color, thickness float64)
	DrawRect(r geom.Rect, c geom.Color)
	DrawText(style text.Style, s string, at geom.Point) error
	DrawBitmap(b Bitmap, r geom.Rect) error
}

// Bitmap carries either encoded image bytes or an already decoded image.
type Bitmap struct {
	Data  []byte      `json:"-"`
	Image image.Image `json:"-"`
}

// Empty reports whether the bitmap has no content.
func (b Bitmap) Empty() bool { return len(b.Data) == 0 && b.Image == nil }

// Decode returns the decoded image, decoding Data when needed.
func (b Bitmap) Decode() (image.Image, error) {
	if b.Image != nil {
		return b.Image, nil
	}
	if len(b.Data) == 0 {
		return nil, fmt.Errorf("canvas: empty bitmap")
	}
	img, _, err := image.Decode(bytes.NewReader(b.Data))
	if err != nil {
		return nil, fmt.Errorf("canvas: decode bitmap: %w", err)
	}
	return img, nil
}
