package raster

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/vellum/fonts"
	"github.com/ByLCY/vellum/memo"
	"github.com/ByLCY/vellum/text"
)

// lockedFace 串行化对 opentype 字体面的访问；Glyph 返回的遮罩是副本，
// 因为底层字体面会复用遮罩缓冲区。
type lockedFace struct {
	mu   sync.Mutex
	face font.Face
}

var _ font.Face = (*lockedFace)(nil)

func (f *lockedFace) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.Close()
}

func (f *lockedFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dr, mask, maskp, advance, ok := f.face.Glyph(dot, r)
	if !ok || mask == nil {
		return dr, mask, maskp, advance, ok
	}
	src := image.Rectangle{Min: maskp, Max: maskp.Add(dr.Size())}
	cp := image.NewAlpha(image.Rectangle{Max: dr.Size()})
	draw.Draw(cp, cp.Bounds(), mask, src.Min, draw.Src)
	return dr, cp, image.Point{}, advance, true
}

func (f *lockedFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.GlyphBounds(r)
}

func (f *lockedFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.GlyphAdvance(r)
}

func (f *lockedFace) Kern(r0, r1 rune) fixed.Int26_6 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.Kern(r0, r1)
}

func (f *lockedFace) Metrics() font.Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.Metrics()
}

type faceKey struct {
	font string
	size float64
	dpi  float64
}

// Faces 解析字体文件并按 (字体, 字号, DPI) 缓存字体面。
type Faces struct {
	registry *fonts.Registry
	parsed   memo.Map[string, *opentype.Font]
	faces    memo.Map[faceKey, *lockedFace]
}

func NewFaces(registry *fonts.Registry) *Faces {
	if registry == nil {
		registry = fonts.NewRegistry()
	}
	return &Faces{registry: registry}
}

// Face 返回 dpi 下 style 对应的字体面，字号按 pt 解释。
func (f *Faces) Face(style text.Style, dpi float64) (font.Face, error) {
	src := f.registry.Lookup(style.Family(), fonts.StyleOf(style.Bold, style.Italic))
	parsed, err := f.parsed.GetOrCreate(src.Key(), func() (*opentype.Font, error) {
		p, err := opentype.Parse(src.Data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", src.Key(), err)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return f.faces.GetOrCreate(faceKey{font: src.Key(), size: style.Size, dpi: dpi}, func() (*lockedFace, error) {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: style.Size, DPI: dpi, Hinting: font.HintingNone})
		if err != nil {
			return nil, fmt.Errorf("face %s %vpt: %w", src.Key(), style.Size, err)
		}
		return &lockedFace{face: face}, nil
	})
}

// Measurer 以 opentype 字体度量实现 text.Measurer。
type Measurer struct {
	faces *Faces
	dpi   float64
}

var _ text.Measurer = (*Measurer)(nil)

func (f *Faces) Measurer(dpi float64) *Measurer { return &Measurer{faces: f, dpi: dpi} }

func (m *Measurer) face(style text.Style) font.Face {
	face, err := m.faces.Face(style, m.dpi)
	if err != nil {
		// 注册表总能退回内置字体，只有字体数据损坏才会走到这里。
		panic(err)
	}
	return face
}

func (m *Measurer) Width(style text.Style, s string) float64 {
	return fromFixed(font.MeasureString(m.face(style), s))
}

func (m *Measurer) LineHeight(style text.Style) float64 {
	return fromFixed(m.face(style).Metrics().Height)
}

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }
