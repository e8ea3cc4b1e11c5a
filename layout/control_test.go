package layout

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
)

var (
	unbounded = geom.Size{Width: math.Inf(1), Height: math.Inf(1)}
	en        = language.English
)

// fixed 的钩子总是返回固定尺寸。
type fixed struct {
	Aligned
	size  geom.Size
	extra geom.Size
	err   error
}

func newFixed(w, h float64) *fixed {
	f := &fixed{size: geom.Size{Width: w, Height: h}}
	f.Extend(f)
	return f
}

func (f *fixed) Kind() Kind { return KindRectangle }

func (f *fixed) MeasureOverride(float64, geom.Size, geom.Size, geom.Size, language.Tag) geom.Size {
	return f.size
}

func (f *fixed) ArrangeOverride(float64, geom.Size, geom.Size, geom.Size, language.Tag) geom.Size {
	return f.size
}

func (f *fixed) RenderOverride(c canvas.Canvas, _ float64, _ geom.Size, _ language.Tag) (geom.Size, error) {
	if f.err != nil {
		return geom.Size{}, f.err
	}
	c.DrawRect(geom.RectFromSize(f.size), geom.Black)
	return geom.Size{}, nil
}

// extended 的 PreRender 报告额外尺寸。
type extended struct {
	*fixed
}

func (e extended) PreRender(canvas.Canvas, float64, geom.Size, language.Tag) (geom.Size, error) {
	return e.extra, nil
}

func TestMeasureFramesMarginAndPadding(t *testing.T) {
	f := newFixed(100, 50)
	f.Margin = geom.Uniform(geom.Px(10))
	f.Padding = geom.Uniform(geom.Px(5))

	got := f.Measure(96, unbounded, unbounded, unbounded, en)
	if got != (geom.Size{Width: 130, Height: 80}) {
		t.Fatalf("outer size = %+v, want 130x80", got)
	}
	if want := (geom.Rect{X: 10, Y: 10, Width: 110, Height: 60}); f.Measured.Margin != want {
		t.Fatalf("margin rect = %+v, want %+v", f.Measured.Margin, want)
	}
	if want := (geom.Rect{X: 15, Y: 15, Width: 100, Height: 50}); f.Measured.Padding != want {
		t.Fatalf("padding rect = %+v, want %+v", f.Measured.Padding, want)
	}
}

func TestOuterMinusInnerIsConstant(t *testing.T) {
	f := newFixed(20, 20)
	f.Margin = geom.Uniform(geom.Px(10))
	f.Padding = geom.Symmetric(geom.Px(4), geom.Px(6))

	for _, offered := range []geom.Size{{Width: 200, Height: 200}, {Width: 1000, Height: 40}, unbounded} {
		f.Measure(96, offered, offered, offered, en)
		outer, inner := f.Measured.Outer.Size(), f.Measured.Padding.Size()
		if dw, dh := outer.Width-inner.Width, outer.Height-inner.Height; dw != 32 || dh != 28 {
			t.Fatalf("offered %+v: outer-inner = %vx%v, want 32x28", offered, dw, dh)
		}
	}
}

func TestPercentMarginResolvesAgainstFramedSize(t *testing.T) {
	f := newFixed(10, 10)
	f.Margin = geom.Uniform(geom.Percent(10))
	framed := geom.Size{Width: 200, Height: 100}

	got := f.Measure(96, framed, framed, framed, en)
	if got != (geom.Size{Width: 50, Height: 30}) {
		t.Fatalf("outer size = %+v, want 50x30", got)
	}
}

func TestMeasureDoesNotTouchArrangement(t *testing.T) {
	f := newFixed(10, 10)
	f.Arrange(96, unbounded, unbounded, geom.Size{Width: 40, Height: 40}, en)
	before := f.Arranged
	f.Measure(96, unbounded, unbounded, geom.Size{Width: 99, Height: 99}, en)
	if f.Arranged != before || f.RemainingSize != (geom.Size{Width: 40, Height: 40}) {
		t.Fatalf("measure changed arrangement: %+v remaining %+v", f.Arranged, f.RemainingSize)
	}
}

func renderOps(t *testing.T, c Control) []canvas.Op {
	t.Helper()
	d := canvas.NewDeferred(geom.Size{}, geom.Size{}, 96)
	if _, err := c.Render(d, 96, geom.Size{Width: 100, Height: 100}, en); err != nil {
		t.Fatalf("render: %v", err)
	}
	if d.Depth() != 0 {
		t.Fatalf("depth after render = %d, want 0", d.Depth())
	}
	return d.Ops()
}

func TestCenterAlignmentTranslatesBySlack(t *testing.T) {
	r := NewRectangle(geom.Black)
	r.Width, r.Height = geom.Px(40), geom.Px(20)
	r.HAlign = AlignCenter
	slot := geom.Size{Width: 100, Height: 20}
	r.Arrange(96, slot, slot, slot, en)

	ops := renderOps(t, r)
	tr, ok := ops[1].(canvas.TranslateOp)
	if !ok || tr.Offset != (geom.Point{X: 30}) {
		t.Fatalf("ops[1] = %#v, want translate by (30,0)", ops[1])
	}
	clip, ok := ops[2].(canvas.ClipOp)
	if !ok || clip.Rect != (geom.Rect{Width: 40, Height: 20}) || clip.At != (geom.Point{X: 30}) {
		t.Fatalf("ops[2] = %#v, want clip to arranged rect at (30,0)", ops[2])
	}
}

func TestRightAndBottomAlignment(t *testing.T) {
	f := newFixed(10, 10)
	f.HAlign, f.VAlign = AlignRight, AlignBottom
	slot := geom.Size{Width: 50, Height: 30}
	f.Arrange(96, slot, slot, slot, en)

	ops := renderOps(t, f)
	if tr := ops[1].(canvas.TranslateOp); tr.Offset != (geom.Point{X: 40, Y: 20}) {
		t.Fatalf("offset = %+v, want (40,20)", tr.Offset)
	}
}

func TestStretchExtendsArrangedSize(t *testing.T) {
	f := newFixed(10, 10)
	f.HAlign = AlignStretch
	f.Margin = geom.Uniform(geom.Px(5))
	slot := geom.Size{Width: 100, Height: 50}

	got := f.Arrange(96, slot, slot, slot, en)
	if got != (geom.Size{Width: 100, Height: 20}) {
		t.Fatalf("arranged = %+v, want 100x20", got)
	}
	if f.Size().Width != 90 {
		t.Fatalf("inner width = %v, want 90", f.Size().Width)
	}
}

func TestUnknownAlignmentPanics(t *testing.T) {
	f := newFixed(10, 10)
	f.HAlign = HAlign(42)
	f.Arrange(96, unbounded, unbounded, geom.Size{Width: 20, Height: 20}, en)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown alignment")
		}
	}()
	f.Render(canvas.NewDeferred(geom.Size{}, geom.Size{}, 96), 96, geom.Size{}, en)
}

func TestRenderKeepsBalanceOnError(t *testing.T) {
	boom := errors.New("boom")
	f := newFixed(10, 10)
	f.err = boom
	f.Arrange(96, unbounded, unbounded, unbounded, en)

	d := canvas.NewDeferred(geom.Size{}, geom.Size{}, 96)
	if _, err := f.Render(d, 96, geom.Size{}, en); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if d.Depth() != 0 {
		t.Fatalf("depth = %d, want 0", d.Depth())
	}
}

func TestClipExtendsByPreRenderExtra(t *testing.T) {
	e := extended{newFixed(10, 10)}
	e.extra = geom.Size{Width: 5, Height: 7}
	e.Extend(e)
	e.Arrange(96, unbounded, unbounded, unbounded, en)

	d := canvas.NewDeferred(geom.Size{}, geom.Size{}, 96)
	extra, err := e.Render(d, 96, geom.Size{}, en)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if extra != e.extra {
		t.Fatalf("extra = %+v, want %+v", extra, e.extra)
	}
	clip := d.Ops()[1].(canvas.ClipOp)
	if clip.Rect != (geom.Rect{Width: 15, Height: 17}) {
		t.Fatalf("clip = %+v, want 15x17", clip.Rect)
	}
}

func TestNoClipSkipsClip(t *testing.T) {
	f := newFixed(10, 10)
	f.NoClip = true
	f.Arrange(96, unbounded, unbounded, unbounded, en)

	for _, op := range renderOps(t, f) {
		if _, ok := op.(canvas.ClipOp); ok {
			t.Fatalf("unexpected clip op")
		}
	}
}

func TestRenderTranslatesToPaddingOrigin(t *testing.T) {
	f := newFixed(10, 10)
	f.Margin = geom.Uniform(geom.Px(3))
	f.Padding = geom.Uniform(geom.Px(2))
	f.Arrange(96, unbounded, unbounded, unbounded, en)

	var rect canvas.RectOp
	for _, op := range renderOps(t, f) {
		if r, ok := op.(canvas.RectOp); ok {
			rect = r
		}
	}
	if rect.At != (geom.Point{X: 5, Y: 5}) {
		t.Fatalf("rect drawn at %+v, want (5,5)", rect.At)
	}
}
