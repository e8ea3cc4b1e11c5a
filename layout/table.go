package layout

import (
	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
)

// Row 是表格的一行：横向排列单元格。
type Row struct {
	Stack
}

func NewRow(cells ...Control) *Row {
	r := &Row{Stack: Stack{Orientation: Horizontal}}
	r.Add(cells...)
	r.Extend(r)
	return r
}

func (r *Row) Kind() Kind { return KindRow }

// Table 纵向排列若干 Row，只接受 Row 作为子节点，可在行间绘制分隔线。
type Table struct {
	Stack
	RuleColor geom.Color
	RuleWidth geom.Length
}

func NewTable(rows ...*Row) *Table {
	t := &Table{Stack: Stack{Orientation: Vertical}}
	for _, r := range rows {
		t.Add(r)
	}
	t.Extend(t)
	return t
}

func (t *Table) Kind() Kind { return KindTable }

func (t *Table) CanAdd(kind Kind) bool { return kind == KindRow }

func (t *Table) RenderOverride(c canvas.Canvas, dpi float64, parent geom.Size, culture language.Tag) (geom.Size, error) {
	extra, err := t.Stack.RenderOverride(c, dpi, parent, culture)
	if err != nil {
		return geom.Size{}, err
	}
	w := t.RuleWidth.Pixels(dpi, parent.Width)
	if w <= 0 {
		return extra, nil
	}
	width := t.Size().Width
	for i := 1; i < len(t.slots); i++ {
		prev, next := t.slots[i-1], t.slots[i]
		y := (prev.Bottom() + next.Y) / 2
		c.DrawLine(geom.Point{Y: y}, geom.Point{X: width, Y: y}, t.RuleColor, w)
	}
	return extra, nil
}
