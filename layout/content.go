package layout

import (
	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
)

// Parent 暴露子节点，供遍历整棵树（例如注入页码信息）。
type Parent interface {
	Children() []Control
}

// Container 是可以接收子节点的内容控件。
//
// CanAdd 必须由建树方在 Add 之前检查；Add 本身不再校验。
type Container interface {
	Control
	Parent
	CanAdd(kind Kind) bool
	Add(children ...Control)
}

// Content 持有有序的子节点集合。
type Content struct {
	Aligned
	children []Control
}

// Children 返回子节点（调用方不应修改返回的切片）。
func (c *Content) Children() []Control { return c.children }

// Add 追加子节点。
func (c *Content) Add(children ...Control) { c.children = append(c.children, children...) }

// CanAdd 默认接受任意类型的子节点。
func (c *Content) CanAdd(Kind) bool { return true }

// renderChildAt 在 at 处渲染子节点，平移只在本次调用内有效。
func renderChildAt(c canvas.Canvas, child Control, at geom.Point, dpi float64, parent geom.Size, culture language.Tag) (geom.Size, error) {
	c.PushState()
	defer c.PopState()
	c.Translate(at)
	return child.Render(c, dpi, parent, culture)
}

// PageInfo 是当前页码与总页数（总页数在收敛前是估计值）。
type PageInfo struct {
	Number int
	Total  int
}

// PageAware 由依赖页码的控件实现，每轮布局前由排版驱动注入。
type PageAware interface {
	SetPage(info PageInfo)
}

// Paginator 由可以跨页拆分子节点的内容控件实现。
type Paginator interface {
	Paginating() bool
	// SetStart 设置本页从第几个子节点开始排版。
	SetStart(index int)
	// Placed 返回最近一次排列实际放下的子节点数。
	Placed() int
	Len() int
}

// Walk 深度优先访问控件树。
func Walk(root Control, fn func(Control)) {
	if root == nil {
		return
	}
	fn(root)
	if p, ok := root.(Parent); ok {
		for _, child := range p.Children() {
			Walk(child, fn)
		}
	}
}
