package layout

import (
	"math"

	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
)

// Stack 沿主轴依次排列子节点，子节点在各自的槽位内对齐。
//
// 纵向且 Paginate 为 true 时，放不下的子节点留给下一页：每页至少放一个子节点，
// 由排版驱动通过 Paginator 接口设置起始下标。
type Stack struct {
	Content
	Orientation Orientation
	Spacing     geom.Length
	Paginate    bool

	start  int
	placed int
	slots  []geom.Rect
}

func NewStack(o Orientation, children ...Control) *Stack {
	s := &Stack{Orientation: o}
	s.Add(children...)
	s.Extend(s)
	return s
}

func (s *Stack) Kind() Kind { return KindStack }

func (s *Stack) Paginating() bool { return s.Paginate && s.Orientation == Vertical }

func (s *Stack) SetStart(index int) { s.start = index }

func (s *Stack) Placed() int { return s.placed }

func (s *Stack) Len() int { return len(s.children) }

// Slots 返回最近一次排列中各子节点的槽位，相对内容区原点。
func (s *Stack) Slots() []geom.Rect { return s.slots }

// main/cross 把尺寸拆成主轴与交叉轴分量。
func (s *Stack) split(sz geom.Size) (main, cross float64) {
	switch s.Orientation {
	case Vertical:
		return sz.Height, sz.Width
	case Horizontal:
		return sz.Width, sz.Height
	default:
		panic("layout: unknown orientation")
	}
}

func (s *Stack) join(main, cross float64) geom.Size {
	if s.Orientation == Horizontal {
		return geom.Size{Width: main, Height: cross}
	}
	return geom.Size{Width: cross, Height: main}
}

func (s *Stack) at(main float64) geom.Point {
	if s.Orientation == Horizontal {
		return geom.Point{X: main}
	}
	return geom.Point{Y: main}
}

// flow 是测量与排列共用的主循环，arrange 为 true 时额外排列子节点并记录槽位。
func (s *Stack) flow(dpi float64, full, framed, remaining geom.Size, culture language.Tag, arrange bool) geom.Size {
	framedMain, _ := s.split(framed)
	availMain, availCross := s.split(remaining)
	gap := s.Spacing.Pixels(dpi, framedMain)
	paginate := s.Paginating() && finite(availMain)

	if arrange {
		s.slots = s.slots[:0]
	}
	var used, cross float64
	count := 0
	for i := s.start; i < len(s.children); i++ {
		child := s.children[i]
		offset := used
		if count > 0 {
			offset += gap
		}
		left := math.Max(availMain-offset, 0)
		size := child.Measure(dpi, full, framed, s.join(left, availCross), culture)
		main, c := s.split(size)
		if paginate && count > 0 && offset+main > availMain {
			break
		}
		if arrange {
			slotCross := availCross
			if !finite(slotCross) {
				slotCross = c
			}
			slot := s.join(main, slotCross)
			child.Arrange(dpi, full, framed, slot, culture)
			at := s.at(offset)
			s.slots = append(s.slots, geom.Rect{X: at.X, Y: at.Y, Width: slot.Width, Height: slot.Height})
		}
		used = offset + main
		cross = math.Max(cross, c)
		count++
	}
	if arrange {
		s.placed = count
		if finite(availCross) {
			cross = math.Max(cross, availCross)
		}
	}
	return s.join(used, cross)
}

func (s *Stack) MeasureOverride(dpi float64, full, framed, remaining geom.Size, culture language.Tag) geom.Size {
	return s.flow(dpi, full, framed, remaining, culture, false)
}

func (s *Stack) ArrangeOverride(dpi float64, full, framed, remaining geom.Size, culture language.Tag) geom.Size {
	return s.flow(dpi, full, framed, remaining, culture, true)
}

func (s *Stack) RenderOverride(c canvas.Canvas, dpi float64, parent geom.Size, culture language.Tag) (geom.Size, error) {
	var extra geom.Size
	for i, slot := range s.slots {
		e, err := renderChildAt(c, s.children[s.start+i], slot.Location(), dpi, parent, culture)
		if err != nil {
			return geom.Size{}, err
		}
		extra.Width = math.Max(extra.Width, e.Width)
		extra.Height = math.Max(extra.Height, e.Height)
	}
	return extra, nil
}
