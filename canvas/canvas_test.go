package canvas

import (
	"encoding/json"
	"errors"
	"image"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/text"
)

// fakeBackend 记录收到的调用，用于验证 Immediate 的直通行为。
type fakeBackend struct {
	mu       sync.Mutex
	calls    []string
	pens     atomic.Int32
	faces    atomic.Int32
	failText bool
}

func (b *fakeBackend) log(s string) {
	b.mu.Lock()
	b.calls = append(b.calls, s)
	b.mu.Unlock()
}

func (b *fakeBackend) Save()                                  { b.log("save") }
func (b *fakeBackend) Restore()                               { b.log("restore") }
func (b *fakeBackend) ClipRect(geom.Rect)                     { b.log("clip") }
func (b *fakeBackend) Translate(geom.Point)                   { b.log("translate") }
func (b *fakeBackend) StrokeLine(Pen, geom.Point, geom.Point) { b.log("line") }
func (b *fakeBackend) FillRect(geom.Rect, Pen)                { b.log("rect") }
func (b *fakeBackend) DrawImage(image.Image, geom.Rect) error {
	b.log("image")
	return nil
}
func (b *fakeBackend) DrawString(_ Face, s string, _ geom.Point) error {
	if b.failText {
		return errors.New("no glyphs")
	}
	b.log("text:" + s)
	return nil
}
func (b *fakeBackend) NewPen(key PenKey) Pen {
	b.pens.Add(1)
	return key
}
func (b *fakeBackend) NewFace(style text.Style) (Face, error) {
	b.faces.Add(1)
	return style, nil
}

var black = geom.Black

func TestBalancedPushPopRestoresTranslation(t *testing.T) {
	for _, c := range []Canvas{NewDeferred(geom.Size{}, geom.Size{}, 96), NewImmediate(&fakeBackend{}, nil)} {
		c.Translate(geom.Point{X: 1.5, Y: -2})
		before := c.Translation()
		const n = 5
		for i := 0; i < n; i++ {
			c.PushState()
			c.Translate(geom.Point{X: float64(i) + 0.25, Y: 3})
		}
		if got := c.Translation(); got == before {
			t.Fatalf("%T: translation should change while pushed", c)
		}
		for i := 0; i < n; i++ {
			c.PopState()
		}
		if got := c.Translation(); got != before {
			t.Fatalf("%T: translation after pops = %+v, want %+v", c, got, before)
		}
		if c.Depth() != 0 {
			t.Fatalf("%T: depth %d after balanced pops", c, c.Depth())
		}
	}
}

func TestPopWithoutPushPanics(t *testing.T) {
	for _, c := range []Canvas{NewDeferred(geom.Size{}, geom.Size{}, 96), NewImmediate(&fakeBackend{}, nil)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("%T: expected panic on unbalanced PopState", c)
				}
			}()
			c.PopState()
		}()
	}
}

func TestDeferredTracksTranslationSincePush(t *testing.T) {
	d := NewDeferred(geom.Size{}, geom.Size{}, 96)
	d.Translate(geom.Point{X: 10})
	d.PushState()
	d.Translate(geom.Point{X: 1, Y: 2})
	d.Translate(geom.Point{X: 3, Y: 4})
	if got := d.Translation(); got != (geom.Point{X: 14, Y: 6}) {
		t.Fatalf("unexpected translation %+v", got)
	}
	d.PopState()
	if got := d.Translation(); got != (geom.Point{X: 10}) {
		t.Fatalf("unexpected translation after pop %+v", got)
	}
}

func TestDeferredDropsInvisibleDraws(t *testing.T) {
	d := NewDeferred(geom.Size{}, geom.Size{}, 96)
	d.DrawLine(geom.Point{}, geom.Point{X: 5}, geom.Transparent, 1)
	d.DrawRect(geom.Rect{Width: 5, Height: 5}, geom.Color{R: 255})
	_ = d.DrawText(text.Style{Color: black}, "", geom.Point{})
	_ = d.DrawText(text.Style{Color: black}, " \t\n", geom.Point{})
	_ = d.DrawText(text.Style{Color: geom.Transparent}, "hidden", geom.Point{})
	_ = d.DrawBitmap(Bitmap{}, geom.Rect{})
	if d.Len() != 0 {
		t.Fatalf("expected no ops, got %d: %+v", d.Len(), d.Ops())
	}
	d.DrawRect(geom.Rect{Width: 5, Height: 5}, black)
	if d.Len() != 1 {
		t.Fatalf("expected 1 op, got %d", d.Len())
	}
}

func TestDeferredRecordsTranslationAtRecordTime(t *testing.T) {
	d := NewDeferred(geom.Size{}, geom.Size{}, 96)
	d.PushState()
	d.Translate(geom.Point{X: 7, Y: 8})
	d.DrawRect(geom.Rect{Width: 1, Height: 1}, black)
	d.PopState()
	d.DrawRect(geom.Rect{Width: 1, Height: 1}, black)

	ops := d.Ops()
	first, ok := ops[2].(RectOp)
	if !ok || first.At != (geom.Point{X: 7, Y: 8}) {
		t.Fatalf("unexpected first rect op %#v", ops[2])
	}
	if second := ops[4].(RectOp); second.At != (geom.Point{}) {
		t.Fatalf("unexpected second rect op %#v", second)
	}

	// 修改副本不影响原记录
	ops[2] = PopOp{}
	if _, ok := d.Ops()[2].(RectOp); !ok {
		t.Fatalf("recorded ops must not change through Ops() copies")
	}
}

func TestReplayReproducesSequence(t *testing.T) {
	src := NewDeferred(geom.Size{Width: 100, Height: 100}, geom.Size{Width: 80, Height: 80}, 96)
	src.PushState()
	src.Clip(geom.Rect{Width: 50, Height: 50})
	src.Translate(geom.Point{X: 5, Y: 5})
	src.DrawLine(geom.Point{}, geom.Point{X: 10, Y: 10}, black, 2)
	_ = src.DrawText(text.Style{Size: 12, Color: black}, "hi", geom.Point{X: 1})
	src.DrawRect(geom.Rect{Width: 3, Height: 4}, black)
	_ = src.DrawBitmap(Bitmap{Data: []byte{1}}, geom.Rect{Width: 2, Height: 2})
	src.PopState()

	dst := NewDeferred(src.FullSize, src.Size, src.DPI)
	if err := src.Render(dst, nil); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !reflect.DeepEqual(src.Ops(), dst.Ops()) {
		t.Fatalf("replayed ops differ:\n got=%#v\nwant=%#v", dst.Ops(), src.Ops())
	}
}

func TestReplayInterpolatesPageVars(t *testing.T) {
	src := NewDeferred(geom.Size{}, geom.Size{}, 96)
	_ = src.DrawText(text.Style{Color: black}, "Page ${page} of ${pages}", geom.Point{})

	b := &fakeBackend{}
	if err := src.Render(NewImmediate(b, nil), binding.PageVars(2, 9)); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if len(b.calls) != 1 || b.calls[0] != "text:Page 2 of 9" {
		t.Fatalf("unexpected backend calls %v", b.calls)
	}
}

func TestImmediateDrawsTextVerbatim(t *testing.T) {
	b := &fakeBackend{}
	if err := NewImmediate(b, nil).DrawText(text.Style{Color: black}, "${page}", geom.Point{}); err != nil {
		t.Fatal(err)
	}
	if len(b.calls) != 1 || b.calls[0] != "text:${page}" {
		t.Fatalf("unexpected backend calls %v", b.calls)
	}
}

func TestReplayFailureLeavesTargetBalanced(t *testing.T) {
	src := NewDeferred(geom.Size{}, geom.Size{}, 96)
	src.PushState()
	src.PushState()
	_ = src.DrawText(text.Style{Color: black}, "boom", geom.Point{})
	src.PopState()
	src.PopState()

	target := NewImmediate(&fakeBackend{failText: true}, nil)
	if err := src.Render(target, nil); err == nil {
		t.Fatalf("expected draw error")
	}
	if target.Depth() != 0 {
		t.Fatalf("target left unbalanced at depth %d", target.Depth())
	}
}

type bogusOp struct{}

func (bogusOp) Kind() string { return "bogus" }
func (bogusOp) sealed()      {}

func TestReplayUnknownOpPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown op")
		}
	}()
	_ = Replay([]Op{bogusOp{}}, NewDeferred(geom.Size{}, geom.Size{}, 96), nil)
}

func TestImmediateForwardsToBackend(t *testing.T) {
	b := &fakeBackend{}
	c := NewImmediate(b, nil)
	c.PushState()
	c.Clip(geom.Rect{Width: 1, Height: 1})
	c.Translate(geom.Point{X: 1})
	c.DrawLine(geom.Point{}, geom.Point{X: 1}, black, 1)
	c.DrawRect(geom.Rect{Width: 1, Height: 1}, black)
	if err := c.DrawText(text.Style{}, "x", geom.Point{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.PopState()
	want := "save clip translate line rect text:x restore"
	if got := strings.Join(b.calls, " "); got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}

func TestPaintCacheSharedAcrossCanvases(t *testing.T) {
	b := &fakeBackend{}
	cache := NewPaintCache()
	style := text.Style{Font: "Go", Size: 11, Color: black}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := NewImmediate(b, cache)
			for j := 0; j < 10; j++ {
				c.DrawLine(geom.Point{}, geom.Point{X: 1}, black, 0.5)
				if err := c.DrawText(style, "x", geom.Point{}); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if got := b.pens.Load(); got != 1 {
		t.Fatalf("pen built %d times, want 1", got)
	}
	if got := b.faces.Load(); got != 1 {
		t.Fatalf("face built %d times, want 1", got)
	}
}

func TestDeferredMarshalJSON(t *testing.T) {
	d := NewDeferred(geom.Size{Width: 10, Height: 10}, geom.Size{Width: 8, Height: 8}, 96)
	d.PushState()
	d.DrawRect(geom.Rect{Width: 1, Height: 1}, black)
	d.PopState()
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out struct {
		Ops []struct {
			Op string `json:"op"`
		} `json:"ops"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	var kinds []string
	for _, o := range out.Ops {
		kinds = append(kinds, o.Op)
	}
	if strings.Join(kinds, ",") != "push,rect,pop" {
		t.Fatalf("unexpected op kinds %v", kinds)
	}
}
