package descriptor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/compose"
	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/text"
)

var (
	// ErrUnknownKind 表示没有为该 kind 注册构造器。
	ErrUnknownKind = errors.New("unknown kind")
	// ErrRejectedChild 表示父节点的 CanAdd 拒绝了该子节点。
	ErrRejectedChild = errors.New("child rejected")
	// ErrFileAccess 表示图片 src 超出了 Binder.Files 允许的范围。
	ErrFileAccess = errors.New("file access denied")
)

// Files 限定图片 src 能读取哪些本地文件。data: URI 总是允许。
type Files int

const (
	// FilesAny 允许绝对路径以及 BaseDir 下的相对路径。
	FilesAny Files = iota
	// FilesBaseDir 只允许不逃出 BaseDir 的相对路径。
	FilesBaseDir
	// FilesNone 不读取任何本地文件。
	FilesNone
)

// Constructor 由节点描述创建控件。path 用于错误信息，例如 "page[0].content.children[2]"。
type Constructor func(b *Binder, spec *NodeSpec, path string) (layout.Control, error)

// Binder 把文档描述绑定为 compose.Document。
type Binder struct {
	Text text.Layout
	// BaseDir 为空时不允许使用相对路径的图片。
	BaseDir string
	Files   Files

	constructors map[string]Constructor
}

// NewBinder 返回注册了全部内置控件的 Binder。
func NewBinder(tl text.Layout, baseDir string) *Binder {
	b := &Binder{Text: tl, BaseDir: baseDir, constructors: map[string]Constructor{}}
	b.Register(string(layout.KindText), newText)
	b.Register(string(layout.KindRectangle), newRectangle)
	b.Register(string(layout.KindLine), newLine)
	b.Register(string(layout.KindImage), newImage)
	b.Register(string(layout.KindStack), newStack)
	b.Register(string(layout.KindOverlay), newOverlay)
	b.Register(string(layout.KindTable), newTable)
	b.Register(string(layout.KindRow), newRow)
	return b
}

// Register 注册或替换 kind 的构造器。
func (b *Binder) Register(kind string, c Constructor) { b.constructors[kind] = c }

// Document 绑定整份文档。
func (b *Binder) Document(f *File) (*compose.Document, error) {
	if len(f.Pages) == 0 {
		return nil, compose.ErrNoPages
	}
	doc := &compose.Document{Info: compose.Info{Title: f.Title, Subject: f.Subject, Author: f.Author}}
	for i := range f.Pages {
		p, err := b.page(&f.Pages[i], fmt.Sprintf("page[%d]", i))
		if err != nil {
			return nil, err
		}
		doc.Pages = append(doc.Pages, p)
	}
	return doc, nil
}

func (b *Binder) page(spec *PageSpec, path string) (*compose.Page, error) {
	p := &compose.Page{}
	var err error
	switch {
	case spec.Size != "":
		p.Width, p.Height, err = Paper(spec.Size)
	case spec.Width != "" && spec.Height != "":
		if p.Width, err = absolute(spec.Width); err == nil {
			p.Height, err = absolute(spec.Height)
		}
	default:
		p.Width, p.Height, err = Paper("A4")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if spec.Margin != "" {
		if p.Margin, err = geom.ParseBox(spec.Margin); err != nil {
			return nil, fmt.Errorf("%s.margin: %w", path, err)
		}
	}

	layers := []struct {
		name string
		spec *NodeSpec
		dst  *layout.Control
	}{
		{"background", spec.Background, &p.Background},
		{"content", spec.Content, &p.Content},
		{"foreground", spec.Foreground, &p.Foreground},
	}
	for _, l := range layers {
		if l.spec == nil {
			continue
		}
		c, err := b.Node(l.spec, path+"."+l.name)
		if err != nil {
			return nil, err
		}
		*l.dst = c
	}

	if spec.Paginate {
		switch c := p.Content.(type) {
		case *layout.Stack:
			c.Paginate = true
		case *layout.Table:
			c.Paginate = true
		default:
			return nil, fmt.Errorf("%s.paginate: content must be a stack or table", path)
		}
	}
	return p, nil
}

func absolute(s string) (geom.Length, error) {
	l, err := geom.ParseLength(s)
	if err != nil {
		return geom.Length{}, err
	}
	if l.Unit == geom.UnitPercent {
		return geom.Length{}, fmt.Errorf("page size %q must be absolute", s)
	}
	return l, nil
}

// Node 构造单个控件及其子树，并在加入子节点前检查 CanAdd。
func (b *Binder) Node(spec *NodeSpec, path string) (layout.Control, error) {
	build, ok := b.constructors[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnknownKind, spec.Kind)
	}
	c, err := build(b, spec, path)
	if err != nil {
		return nil, err
	}
	if err := common(c, spec, path); err != nil {
		return nil, err
	}
	if len(spec.Children) == 0 {
		return c, nil
	}

	parent, ok := c.(layout.Container)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s cannot have children", path, ErrRejectedChild, spec.Kind)
	}
	for i, cs := range spec.Children {
		childPath := fmt.Sprintf("%s.children[%d]", path, i)
		child, err := b.Node(cs, childPath)
		if err != nil {
			return nil, err
		}
		if !parent.CanAdd(child.Kind()) {
			return nil, fmt.Errorf("%s: %w: %s cannot contain %s", childPath, ErrRejectedChild, spec.Kind, child.Kind())
		}
		parent.Add(child)
	}
	return c, nil
}

func common(c layout.Control, spec *NodeSpec, path string) error {
	cm, ok := c.(interface{ Common() *layout.Aligned })
	if !ok {
		return nil
	}
	a := cm.Common()
	var err error
	if spec.Margin != "" {
		if a.Margin, err = geom.ParseBox(spec.Margin); err != nil {
			return fmt.Errorf("%s.margin: %w", path, err)
		}
	}
	if spec.Padding != "" {
		if a.Padding, err = geom.ParseBox(spec.Padding); err != nil {
			return fmt.Errorf("%s.padding: %w", path, err)
		}
	}
	if a.HAlign, err = hAlign(spec.HAlign); err != nil {
		return fmt.Errorf("%s.halign: %w", path, err)
	}
	if a.VAlign, err = vAlign(spec.VAlign); err != nil {
		return fmt.Errorf("%s.valign: %w", path, err)
	}
	if spec.Clip != nil {
		a.NoClip = !*spec.Clip
	}
	return nil
}

func hAlign(s string) (layout.HAlign, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return layout.AlignLeft, nil
	case "center":
		return layout.AlignCenter, nil
	case "right":
		return layout.AlignRight, nil
	case "stretch":
		return layout.AlignStretch, nil
	default:
		return 0, fmt.Errorf("unknown alignment %q", s)
	}
}

func vAlign(s string) (layout.VAlign, error) {
	switch strings.ToLower(s) {
	case "", "top":
		return layout.AlignTop, nil
	case "center", "middle":
		return layout.AlignMiddle, nil
	case "bottom":
		return layout.AlignBottom, nil
	case "stretch", "fill":
		return layout.AlignFill, nil
	default:
		return 0, fmt.Errorf("unknown alignment %q", s)
	}
}

func orientation(s string) (layout.Orientation, error) {
	switch strings.ToLower(s) {
	case "", "vertical":
		return layout.Vertical, nil
	case "horizontal":
		return layout.Horizontal, nil
	default:
		return 0, fmt.Errorf("unknown orientation %q", s)
	}
}

// field 解析可选字段，空串保持零值。
func field[T any](path, name, value string, parse func(string) (T, error)) (T, error) {
	var zero T
	if value == "" {
		return zero, nil
	}
	v, err := parse(value)
	if err != nil {
		return zero, fmt.Errorf("%s.%s: %w", path, name, err)
	}
	return v, nil
}

func colorOr(path, name, value string, def geom.Color) (geom.Color, error) {
	if value == "" {
		return def, nil
	}
	return field(path, name, value, geom.ParseColor)
}

func newText(b *Binder, spec *NodeSpec, path string) (layout.Control, error) {
	col, err := colorOr(path, "color", spec.Color, geom.Black)
	if err != nil {
		return nil, err
	}
	size := spec.Size
	if size <= 0 {
		size = 12
	}
	style := text.Style{Font: spec.Font, Size: size, Color: col, Bold: spec.Bold, Italic: spec.Italic}
	tl := b.Text
	if tl.Align, err = textAlign(spec.TextAlign); err != nil {
		return nil, fmt.Errorf("%s.text_align: %w", path, err)
	}
	tl.BreakWords = spec.BreakWords
	t := layout.NewText(spec.Text, style, tl)
	t.NoWrap = spec.Wrap != nil && !*spec.Wrap
	return t, nil
}

func textAlign(s string) (text.Align, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return text.AlignLeft, nil
	case "center":
		return text.AlignCenter, nil
	case "right":
		return text.AlignRight, nil
	default:
		return 0, fmt.Errorf("unknown alignment %q", s)
	}
}

func newRectangle(_ *Binder, spec *NodeSpec, path string) (layout.Control, error) {
	fill, err := colorOr(path, "fill", spec.Fill, geom.Transparent)
	if err != nil {
		return nil, err
	}
	r := layout.NewRectangle(fill)
	if r.Stroke, err = colorOr(path, "stroke", spec.Stroke, geom.Black); err != nil {
		return nil, err
	}
	if r.StrokeWidth, err = field(path, "stroke_width", spec.StrokeWidth, geom.ParseLength); err != nil {
		return nil, err
	}
	if r.Width, err = field(path, "width", spec.Width, geom.ParseLength); err != nil {
		return nil, err
	}
	if r.Height, err = field(path, "height", spec.Height, geom.ParseLength); err != nil {
		return nil, err
	}
	return r, nil
}

func newLine(_ *Binder, spec *NodeSpec, path string) (layout.Control, error) {
	o, err := orientation(spec.Orientation)
	if err != nil {
		return nil, fmt.Errorf("%s.orientation: %w", path, err)
	}
	col, err := colorOr(path, "color", spec.Color, geom.Black)
	if err != nil {
		return nil, err
	}
	thickness := geom.Px(1)
	if spec.Thickness != "" {
		if thickness, err = field(path, "thickness", spec.Thickness, geom.ParseLength); err != nil {
			return nil, err
		}
	}
	l := layout.NewLine(o, thickness, col)
	if l.Length, err = field(path, "length", spec.Length, geom.ParseLength); err != nil {
		return nil, err
	}
	return l, nil
}

func newImage(b *Binder, spec *NodeSpec, path string) (layout.Control, error) {
	if spec.Src == "" {
		return nil, fmt.Errorf("%s.src: missing", path)
	}
	data, err := b.readSource(spec.Src)
	if err != nil {
		return nil, fmt.Errorf("%s.src: %w", path, err)
	}
	img := layout.NewImage(canvas.Bitmap{Data: data})
	if img.Width, err = field(path, "width", spec.Width, geom.ParseLength); err != nil {
		return nil, err
	}
	if img.Height, err = field(path, "height", spec.Height, geom.ParseLength); err != nil {
		return nil, err
	}
	return img, nil
}

// readSource 读取 data: URI 或按 Files 策略读取本地文件。
func (b *Binder) readSource(src string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(src, "data:"); ok {
		meta, payload, ok := strings.Cut(rest, ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return nil, errors.New("data URI must be base64 encoded")
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("data URI: %w", err)
		}
		return data, nil
	}
	switch b.Files {
	case FilesNone:
		return nil, fmt.Errorf("%w: only data URIs are accepted", ErrFileAccess)
	case FilesBaseDir:
		if b.BaseDir == "" || filepath.IsAbs(src) {
			return nil, fmt.Errorf("%w: %q is outside the base directory", ErrFileAccess, src)
		}
		f, err := os.OpenInRoot(b.BaseDir, src)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrFileAccess, src)
		}
		defer f.Close()
		return io.ReadAll(f)
	case FilesAny:
	default:
		panic(fmt.Sprintf("descriptor: unknown file policy %d", b.Files))
	}
	if !filepath.IsAbs(src) {
		if b.BaseDir == "" {
			return nil, fmt.Errorf("relative path %q needs a base directory", src)
		}
		src = filepath.Join(b.BaseDir, src)
	}
	return os.ReadFile(src)
}

func newStack(_ *Binder, spec *NodeSpec, path string) (layout.Control, error) {
	o, err := orientation(spec.Orientation)
	if err != nil {
		return nil, fmt.Errorf("%s.orientation: %w", path, err)
	}
	s := layout.NewStack(o)
	if s.Spacing, err = field(path, "spacing", spec.Spacing, geom.ParseLength); err != nil {
		return nil, err
	}
	return s, nil
}

func newOverlay(*Binder, *NodeSpec, string) (layout.Control, error) {
	return layout.NewOverlay(), nil
}

func newTable(_ *Binder, spec *NodeSpec, path string) (layout.Control, error) {
	t := layout.NewTable()
	var err error
	if t.RuleColor, err = colorOr(path, "rule", spec.Rule, geom.Transparent); err != nil {
		return nil, err
	}
	if t.RuleWidth, err = field(path, "rule_width", spec.RuleWidth, geom.ParseLength); err != nil {
		return nil, err
	}
	if t.Spacing, err = field(path, "spacing", spec.Spacing, geom.ParseLength); err != nil {
		return nil, err
	}
	return t, nil
}

func newRow(_ *Binder, spec *NodeSpec, path string) (layout.Control, error) {
	r := layout.NewRow()
	var err error
	if r.Spacing, err = field(path, "spacing", spec.Spacing, geom.ParseLength); err != nil {
		return nil, err
	}
	return r, nil
}
