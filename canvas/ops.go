package canvas

import (
	"fmt"

	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/text"
)

// Op is a recorded canvas call. The set of ops is closed: PushOp, PopOp,
// ClipOp, TranslateOp, LineOp, TextOp, RectOp and BitmapOp.
//
// Every op stores its parameters by value. At is the effective translation
// when the op was recorded.
type Op interface {
	Kind() string
	sealed()
}

type (
	PushOp struct{}
	PopOp  struct{}

	ClipOp struct {
		Rect geom.Rect  `json:"rect"`
		At   geom.Point `json:"at"`
	}

	TranslateOp struct {
		Offset geom.Point `json:"offset"`
		At     geom.Point `json:"at"`
	}

	LineOp struct {
		From      geom.Point `json:"from"`
		To        geom.Point `json:"to"`
		Color     geom.Color `json:"color"`
		Thickness float64    `json:"thickness"`
		At        geom.Point `json:"at"`
	}

	TextOp struct {
		Style    text.Style `json:"style"`
		Text     string     `json:"text"`
		Position geom.Point `json:"position"`
		At       geom.Point `json:"at"`
	}

	RectOp struct {
		Rect  geom.Rect  `json:"rect"`
		Color geom.Color `json:"color"`
		At    geom.Point `json:"at"`
	}

	BitmapOp struct {
		Bitmap Bitmap     `json:"-"`
		Rect   geom.Rect  `json:"rect"`
		At     geom.Point `json:"at"`
	}
)

func (PushOp) Kind() string      { return "push" }
func (PopOp) Kind() string       { return "pop" }
func (ClipOp) Kind() string      { return "clip" }
func (TranslateOp) Kind() string { return "translate" }
func (LineOp) Kind() string      { return "line" }
func (TextOp) Kind() string      { return "text" }
func (RectOp) Kind() string      { return "rect" }
func (BitmapOp) Kind() string    { return "bitmap" }

func (PushOp) sealed()      {}
func (PopOp) sealed()       {}
func (ClipOp) sealed()      {}
func (TranslateOp) sealed() {}
func (LineOp) sealed()      {}
func (TextOp) sealed()      {}
func (RectOp) sealed()      {}
func (BitmapOp) sealed()    {}

// Replay folds ops over target in order. Text ops are interpolated with vars.
// If a draw fails, states pushed by the replay are popped before returning so
// target stays balanced.
func Replay(ops []Op, target Canvas, vars binding.Vars) error {
	depth := 0
	defer func() {
		for ; depth > 0; depth-- {
			target.PopState()
		}
	}()
	for _, op := range ops {
		switch o := op.(type) {
		case PushOp:
			target.PushState()
			depth++
		case PopOp:
			target.PopState()
			depth--
		case ClipOp:
			target.Clip(o.Rect)
		case TranslateOp:
			target.Translate(o.Offset)
		case LineOp:
			target.DrawLine(o.From, o.To, o.Color, o.Thickness)
		case RectOp:
			target.DrawRect(o.Rect, o.Color)
		case TextOp:
			if err := target.DrawText(o.Style, binding.Interpolate(o.Text, vars), o.Position); err != nil {
				return err
			}
		case BitmapOp:
			if err := target.DrawBitmap(o.Bitmap, o.Rect); err != nil {
				return err
			}
		default:
			panic(fmt.Sprintf("canvas: unknown op %T", op))
		}
	}
	return nil
}
