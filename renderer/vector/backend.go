package vector

import (
	"fmt"
	"image"
	"image/color"

	"github.com/tdewolff/canvas"

	vcanvas "github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/text"
)

// pen 是矢量后端的画笔：颜色与像素线宽。
type pen struct {
	color color.Color
	width float64
}

// Backend 把像素坐标的绘制调用转为 canvas.Context 上的毫米坐标调用。
//
// canvas.Context 只能对整张画布裁剪，因此裁剪在这里模拟：矩形求交，
// 线段用 Liang–Barsky 裁剪，部分可见的文本转为轮廓后求交，图片完全落在裁剪区外时跳过。
type Backend struct {
	ctx   *canvas.Context
	dpi   float64
	fonts *Fonts
	state vcanvas.Stack
}

var _ vcanvas.Backend = (*Backend)(nil)

func NewBackend(ctx *canvas.Context, dpi float64, fonts *Fonts) *Backend {
	return &Backend{ctx: ctx, dpi: dpi, fonts: fonts}
}

func (b *Backend) mm(px float64) float64 { return geom.PixelsToMM(px, b.dpi) }

func (b *Backend) Save() {
	b.state.Push()
	b.ctx.Push()
}

func (b *Backend) Restore() {
	b.state.Pop()
	b.ctx.Pop()
}

func (b *Backend) ClipRect(r geom.Rect) { b.state.Clip(r) }

func (b *Backend) Translate(p geom.Point) {
	b.state.Translate(p)
	b.ctx.Translate(b.mm(p.X), b.mm(p.Y))
}

// visible 把局部矩形裁剪到当前裁剪区，返回裁剪后的局部矩形。
func (b *Backend) visible(r geom.Rect) (geom.Rect, bool) {
	s := b.state.Current()
	if !s.Clipped {
		return r, !r.Empty()
	}
	abs := r.Offset(s.Translation).Intersect(s.Clip)
	if abs.Empty() {
		return geom.Rect{}, false
	}
	return abs.Offset(geom.Point{X: -s.Translation.X, Y: -s.Translation.Y}), true
}

// covers 判断裁剪后的 clip 是否仍完整保留 r，容忍坐标往返偏移的舍入误差。
func covers(clip, r geom.Rect) bool {
	const eps = 1e-6
	return clip.Width >= r.Width-eps && clip.Height >= r.Height-eps
}

// overlaps 只判断是否与裁剪区相交，不修改矩形。
func (b *Backend) overlaps(r geom.Rect) bool {
	s := b.state.Current()
	if !s.Clipped {
		return true
	}
	return r.Offset(s.Translation).Overlaps(s.Clip)
}

func (b *Backend) StrokeLine(p vcanvas.Pen, from, to geom.Point) {
	pn := p.(pen)
	if pn.width <= 0 {
		return
	}
	if s := b.state.Current(); s.Clipped {
		local := s.Clip.Offset(geom.Point{X: -s.Translation.X, Y: -s.Translation.Y})
		var ok bool
		if from, to, ok = clipSegment(from, to, local); !ok {
			return
		}
	}
	b.ctx.SetFillColor(canvas.Transparent)
	b.ctx.SetStrokeColor(pn.color)
	b.ctx.SetStrokeWidth(b.mm(pn.width))
	path := &canvas.Path{}
	path.MoveTo(0, 0)
	path.LineTo(b.mm(to.X-from.X), b.mm(to.Y-from.Y))
	b.ctx.DrawPath(b.mm(from.X), b.mm(from.Y), path)
}

func (b *Backend) FillRect(r geom.Rect, brush vcanvas.Pen) {
	r, ok := b.visible(r)
	if !ok {
		return
	}
	b.ctx.SetFillColor(brush.(pen).color)
	b.ctx.SetStrokeColor(canvas.Transparent)
	b.ctx.DrawPath(b.mm(r.X), b.mm(r.Y), canvas.Rectangle(b.mm(r.Width), b.mm(r.Height)))
}

// DrawString 以行框左上角定位，基线为顶部加上字体上升部。
// 完全落在裁剪区内的行以文本输出；部分可见的行转为字形轮廓并与裁剪区求交。
func (b *Backend) DrawString(f vcanvas.Face, s string, at geom.Point) error {
	face, ok := f.(*canvas.FontFace)
	if !ok {
		return fmt.Errorf("vector: unexpected face %T", f)
	}
	m := face.Metrics()
	box := geom.Rect{X: at.X, Y: at.Y, Width: geom.MMToPixels(face.TextWidth(s), b.dpi), Height: geom.MMToPixels(m.LineHeight, b.dpi)}
	clip, ok := b.visible(box)
	if !ok {
		return nil
	}
	x, baseline := b.mm(at.X), b.mm(at.Y)+m.Ascent
	if covers(clip, box) {
		b.ctx.DrawText(x, baseline, canvas.NewTextLine(face, s, canvas.Left))
		return nil
	}
	outline, _, err := face.ToPath(s)
	if err != nil {
		return fmt.Errorf("vector: outline %q: %w", s, err)
	}
	// 字形坐标 y 轴向上，布局坐标 y 轴向下。
	outline = outline.Transform(canvas.Identity.ReflectY()).Translate(x, baseline)
	outline = outline.And(canvas.Rectangle(b.mm(clip.Width), b.mm(clip.Height)).Translate(b.mm(clip.X), b.mm(clip.Y)))
	if outline.Empty() {
		return nil
	}
	b.ctx.SetFill(face.Fill)
	b.ctx.SetStrokeColor(canvas.Transparent)
	b.ctx.DrawPath(0, 0, outline)
	return nil
}

// DrawImage 把图片缩放到 r 内：分辨率由宽度决定，纵向再按 r 的高度补偿缩放。
func (b *Backend) DrawImage(img image.Image, r geom.Rect) error {
	if r.Empty() || !b.overlaps(r) {
		return nil
	}
	size := img.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return nil
	}
	b.ctx.Push()
	defer b.ctx.Pop()
	b.ctx.Translate(b.mm(r.X), b.mm(r.Y))
	b.ctx.Scale(1, r.Height*float64(size.X)/(r.Width*float64(size.Y)))
	b.ctx.DrawImage(0, 0, img, canvas.DPMM(float64(size.X)/b.mm(r.Width)))
	return nil
}

func (b *Backend) NewPen(key vcanvas.PenKey) vcanvas.Pen {
	return pen{color: key.Color.NRGBA(), width: key.Thickness}
}

func (b *Backend) NewFace(style text.Style) (vcanvas.Face, error) {
	return b.fonts.Face(style)
}
