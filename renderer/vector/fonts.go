package vector

import (
	"fmt"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/vellum/fonts"
	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/memo"
	"github.com/ByLCY/vellum/text"
)

// Fonts 把注册表中的字体文件加载为 canvas 字体族。每个字体文件对应一个字体族，
// 粗体、斜体通过注册表选择不同文件，而不是合成。
type Fonts struct {
	registry *fonts.Registry
	families memo.Map[string, *canvas.FontFamily]
}

func NewFonts(registry *fonts.Registry) *Fonts {
	if registry == nil {
		registry = fonts.NewRegistry()
	}
	return &Fonts{registry: registry}
}

func (f *Fonts) family(style text.Style) (*canvas.FontFamily, error) {
	src := f.registry.Lookup(style.Family(), fonts.StyleOf(style.Bold, style.Italic))
	if len(src.Data) == 0 {
		return nil, fmt.Errorf("font %s has no data", src.Key())
	}
	return f.families.GetOrCreate(src.Key(), func() (*canvas.FontFamily, error) {
		family := canvas.NewFontFamily(src.Key())
		if err := family.LoadFont(src.Data, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("load font %s: %w", src.Key(), err)
		}
		return family, nil
	})
}

// Face 返回 style 对应的字体面。canvas 的字号单位是 pt，与 DPI 无关。
func (f *Fonts) Face(style text.Style) (*canvas.FontFace, error) {
	family, err := f.family(style)
	if err != nil {
		return nil, err
	}
	return family.Face(style.Size, style.Color.NRGBA(), canvas.FontRegular, canvas.FontNormal), nil
}

// Measurer 以 canvas 字体度量实现 text.Measurer，结果为 dpi 下的像素。
type Measurer struct {
	fonts *Fonts
	dpi   float64
}

var _ text.Measurer = (*Measurer)(nil)

func (f *Fonts) Measurer(dpi float64) *Measurer { return &Measurer{fonts: f, dpi: dpi} }

func (m *Measurer) face(style text.Style) *canvas.FontFace {
	style.Color = geom.Black
	face, err := m.fonts.Face(style)
	if err != nil {
		// 注册表总能退回内置字体，只有字体数据损坏才会走到这里。
		panic(err)
	}
	return face
}

func (m *Measurer) Width(style text.Style, s string) float64 {
	return geom.MMToPixels(m.face(style).TextWidth(s), m.dpi)
}

func (m *Measurer) LineHeight(style text.Style) float64 {
	return geom.MMToPixels(m.face(style).Metrics().LineHeight, m.dpi)
}
