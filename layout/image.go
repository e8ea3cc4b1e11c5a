package layout

import (
	"bytes"
	"image"

	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
)

// Image 绘制位图。未指定尺寸时使用图片的像素尺寸（按 96 DPI 换算）；
// 只指定一边时按原始宽高比推算另一边。
type Image struct {
	Aligned
	Bitmap        canvas.Bitmap
	Width, Height geom.Length

	natural geom.Size
	loaded  bool
}

func NewImage(b canvas.Bitmap) *Image {
	img := &Image{Bitmap: b}
	img.Extend(img)
	return img
}

func (img *Image) Kind() Kind { return KindImage }

// naturalSize 只解析图片头；无法识别时视为 0×0。
func (img *Image) naturalSize() geom.Size {
	if img.loaded {
		return img.natural
	}
	img.loaded = true
	switch {
	case img.Bitmap.Image != nil:
		b := img.Bitmap.Image.Bounds()
		img.natural = geom.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
	case len(img.Bitmap.Data) > 0:
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Bitmap.Data)); err == nil {
			img.natural = geom.Size{Width: float64(cfg.Width), Height: float64(cfg.Height)}
		}
	}
	return img.natural
}

func (img *Image) size(dpi float64, framed geom.Size) geom.Size {
	n := img.naturalSize()
	w, h := img.Width.Pixels(dpi, framed.Width), img.Height.Pixels(dpi, framed.Height)
	switch {
	case !img.Width.IsZero() && !img.Height.IsZero():
	case !img.Width.IsZero():
		if n.Width > 0 {
			h = w * n.Height / n.Width
		}
	case !img.Height.IsZero():
		if n.Height > 0 {
			w = h * n.Width / n.Height
		}
	default:
		w = geom.Px(n.Width).Pixels(dpi, 0)
		h = geom.Px(n.Height).Pixels(dpi, 0)
	}
	return geom.Size{Width: w, Height: h}
}

func (img *Image) MeasureOverride(dpi float64, _, framed, _ geom.Size, _ language.Tag) geom.Size {
	return img.size(dpi, framed)
}

func (img *Image) ArrangeOverride(dpi float64, _, framed, _ geom.Size, _ language.Tag) geom.Size {
	return img.size(dpi, framed)
}

func (img *Image) RenderOverride(c canvas.Canvas, _ float64, _ geom.Size, _ language.Tag) (geom.Size, error) {
	return geom.Size{}, c.DrawBitmap(img.Bitmap, geom.RectFromSize(img.Size()))
}
