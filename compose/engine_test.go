package compose

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/text"
)

var (
	mono  = text.Layout{Measurer: text.Monospace{DPI: 72, Advance: 1, Leading: 1.5}}
	plain = text.Style{Size: 10, Color: geom.Black}
	red   = geom.RGB(255, 0, 0)
	blue  = geom.RGB(0, 0, 255)
)

func squarePage(side float64) *Page {
	return &Page{Width: geom.Px(side), Height: geom.Px(side)}
}

func paginated(n int, h float64) *layout.Stack {
	s := layout.NewStack(layout.Vertical)
	for i := 0; i < n; i++ {
		r := layout.NewRectangle(geom.Black)
		r.Height = geom.Px(h)
		s.Add(r)
	}
	s.Paginate = true
	return s
}

func TestLayoutRejectsEmptyDocument(t *testing.T) {
	var e Engine
	if _, err := e.Layout(&Document{}); !errors.Is(err, ErrNoPages) {
		t.Fatalf("err = %v, want ErrNoPages", err)
	}
}

func TestContentLayerIsOffsetByMargin(t *testing.T) {
	page := squarePage(100)
	page.Margin = geom.Uniform(geom.Px(10))
	page.Content = layout.NewRectangle(red)

	res, err := (&Engine{}).Layout(&Document{Pages: []*Page{page}})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if len(res.Sheets) != 1 {
		t.Fatalf("sheets = %d, want 1", len(res.Sheets))
	}
	s := res.Sheets[0]
	if s.Size != (geom.Size{Width: 80, Height: 80}) || s.FullSize != (geom.Size{Width: 100, Height: 100}) {
		t.Fatalf("sheet sizes full=%+v size=%+v", s.FullSize, s.Size)
	}
	var rect canvas.RectOp
	for _, op := range s.Content.Ops() {
		if r, ok := op.(canvas.RectOp); ok {
			rect = r
		}
	}
	if rect.At != (geom.Point{X: 10, Y: 10}) || rect.Rect.Size() != s.Size {
		t.Fatalf("rect = %+v, want 80x80 at (10,10)", rect)
	}
	if s.Content.Depth() != 0 {
		t.Fatalf("content layer left unbalanced")
	}
}

func TestPaginationRepeatsTemplate(t *testing.T) {
	page := squarePage(100)
	page.Content = paginated(5, 30)
	page.Foreground = layout.NewText("${page}/${pages}", plain, mono)

	res, err := (&Engine{}).Layout(&Document{Pages: []*Page{page}})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if len(res.Sheets) != 2 || !res.Converged || res.Passes != 2 {
		t.Fatalf("sheets=%d converged=%v passes=%d, want 2/true/2", len(res.Sheets), res.Converged, res.Passes)
	}
	for i, s := range res.Sheets {
		if s.Number != i+1 || s.Total != 2 || s.Template != 0 {
			t.Fatalf("sheet %d = number %d total %d template %d", i, s.Number, s.Total, s.Template)
		}
	}

	out := canvas.NewDeferred(geom.Size{}, geom.Size{}, 96)
	if err := Replay(res.Sheets[1], out); err != nil {
		t.Fatalf("replay: %v", err)
	}
	var got []string
	for _, op := range out.Ops() {
		if to, ok := op.(canvas.TextOp); ok {
			got = append(got, to.Text)
		}
	}
	if len(got) != 1 || got[0] != "2/2" {
		t.Fatalf("replayed text = %q, want [2/2]", got)
	}
}

func TestReplayOrdersLayers(t *testing.T) {
	page := squarePage(50)
	page.Background = layout.NewRectangle(red)
	page.Foreground = layout.NewRectangle(blue)

	res, err := (&Engine{}).Layout(&Document{Pages: []*Page{page}})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	out := canvas.NewDeferred(geom.Size{}, geom.Size{}, 96)
	if err := Replay(res.Sheets[0], out); err != nil {
		t.Fatalf("replay: %v", err)
	}
	var colors []geom.Color
	for _, op := range out.Ops() {
		if r, ok := op.(canvas.RectOp); ok {
			colors = append(colors, r.Color)
		}
	}
	if len(colors) != 2 || colors[0] != red || colors[1] != blue {
		t.Fatalf("rect colors = %v, want red then blue", colors)
	}
}

// growing 总是比估计的总页数多要一页，永远不会收敛。
type growing struct {
	layout.Aligned
	total int
}

func newGrowing() *growing {
	g := &growing{}
	g.Extend(g)
	return g
}

func (g *growing) Kind() layout.Kind         { return layout.KindStack }
func (g *growing) SetPage(i layout.PageInfo) { g.total = i.Total }
func (g *growing) Paginating() bool          { return true }
func (g *growing) SetStart(int)              {}
func (g *growing) Placed() int               { return 1 }
func (g *growing) Len() int                  { return g.total + 1 }

func (g *growing) MeasureOverride(float64, geom.Size, geom.Size, geom.Size, language.Tag) geom.Size {
	return geom.Size{}
}

func (g *growing) ArrangeOverride(float64, geom.Size, geom.Size, geom.Size, language.Tag) geom.Size {
	return geom.Size{}
}

func (g *growing) RenderOverride(canvas.Canvas, float64, geom.Size, language.Tag) (geom.Size, error) {
	return geom.Size{}, nil
}

func TestLayoutStopsAtMaxPasses(t *testing.T) {
	page := squarePage(10)
	page.Content = newGrowing()

	res, err := (&Engine{MaxPasses: 3}).Layout(&Document{Pages: []*Page{page}})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if res.Converged || res.Passes != 3 || len(res.Sheets) != 4 {
		t.Fatalf("converged=%v passes=%d sheets=%d, want false/3/4", res.Converged, res.Passes, len(res.Sheets))
	}
	if res.Sheets[0].Total != 4 {
		t.Fatalf("total = %d, want the final sheet count", res.Sheets[0].Total)
	}
}

func TestWriteDebugJSON(t *testing.T) {
	page := squarePage(20)
	page.Content = layout.NewRectangle(red)
	res, err := (&Engine{}).Layout(&Document{Pages: []*Page{page}})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	path := filepath.Join(t.TempDir(), "debug.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"op": "rect"`) {
		t.Fatalf("debug json missing rect op:\n%s", data)
	}
}
