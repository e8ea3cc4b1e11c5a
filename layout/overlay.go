package layout

import (
	"math"

	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
)

// Overlay 把所有子节点叠放在同一个槽位里，后加入的在上层。
type Overlay struct {
	Content
}

func NewOverlay(children ...Control) *Overlay {
	o := &Overlay{}
	o.Add(children...)
	o.Extend(o)
	return o
}

func (o *Overlay) Kind() Kind { return KindOverlay }

func (o *Overlay) MeasureOverride(dpi float64, full, framed, remaining geom.Size, culture language.Tag) geom.Size {
	var size geom.Size
	for _, child := range o.children {
		s := child.Measure(dpi, full, framed, remaining, culture)
		size.Width = math.Max(size.Width, s.Width)
		size.Height = math.Max(size.Height, s.Height)
	}
	return size
}

func (o *Overlay) ArrangeOverride(dpi float64, full, framed, remaining geom.Size, culture language.Tag) geom.Size {
	size := o.MeasureOverride(dpi, full, framed, remaining, culture)
	slot := size
	if finite(remaining.Width) {
		slot.Width = math.Max(slot.Width, remaining.Width)
	}
	if finite(remaining.Height) {
		slot.Height = math.Max(slot.Height, remaining.Height)
	}
	for _, child := range o.children {
		child.Arrange(dpi, full, framed, slot, culture)
	}
	return slot
}

func (o *Overlay) RenderOverride(c canvas.Canvas, dpi float64, parent geom.Size, culture language.Tag) (geom.Size, error) {
	var extra geom.Size
	for _, child := range o.children {
		e, err := child.Render(c, dpi, parent, culture)
		if err != nil {
			return geom.Size{}, err
		}
		extra.Width = math.Max(extra.Width, e.Width)
		extra.Height = math.Max(extra.Height, e.Height)
	}
	return extra, nil
}
