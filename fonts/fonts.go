// Package fonts 管理后端使用的字体数据：内置 Go 字体族以及按需注册的字体文件。
package fonts

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体族名称。
const (
	Default = "Go"
	Mono    = "Go Mono"
)

// Style 是字重与字形的组合。
type Style int

const (
	Regular Style = iota
	Bold
	Italic
	BoldItalic
)

// StyleOf 由粗体、斜体标志得到 Style。
func StyleOf(bold, italic bool) Style {
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	default:
		return Regular
	}
}

func (s Style) String() string {
	switch s {
	case Regular:
		return "regular"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case BoldItalic:
		return "bold-italic"
	default:
		panic("fonts: unknown style")
	}
}

// ParseStyle 解析 String 的输出。
func ParseStyle(s string) (Style, error) {
	for _, st := range []Style{Regular, Bold, Italic, BoldItalic} {
		if strings.EqualFold(s, st.String()) {
			return st, nil
		}
	}
	return Regular, fmt.Errorf("unknown font style %q", s)
}

var builtin = map[string][]byte{
	"go-regular":          goregular.TTF,
	"go-bold":             gobold.TTF,
	"go-italic":           goitalic.TTF,
	"go-bold-italic":      gobolditalic.TTF,
	"go-mono-regular":     gomono.TTF,
	"go-mono-bold":        gomonobold.TTF,
	"go-mono-italic":      gomonoitalic.TTF,
	"go-mono-bold-italic": gomonobolditalic.TTF,
}

// Load 返回字体字节。path 可写为 "builtin:go-regular" 这样的内置名，或字体文件路径。
func Load(path string) ([]byte, error) {
	if name, ok := strings.CutPrefix(path, "builtin:"); ok {
		data, ok := builtin[name]
		if !ok {
			return nil, fmt.Errorf("unknown built-in font %q", name)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	return data, nil
}

// Face 是一个已解析来源的字体文件。
type Face struct {
	Family string
	Style  Style
	Data   []byte
}

// Key 唯一标识字体文件，用作后端缓存键。
func (f Face) Key() string { return f.Family + "/" + f.Style.String() }

// Registry 按字体族与样式保存字体数据，可并发读取。
type Registry struct {
	mu       sync.RWMutex
	families map[string]map[Style][]byte
}

// NewRegistry 返回预置了 Go 与 Go Mono 两个字体族的注册表。
func NewRegistry() *Registry {
	r := &Registry{families: map[string]map[Style][]byte{}}
	for _, fam := range []struct{ name, prefix string }{{Default, "go-"}, {Mono, "go-mono-"}} {
		for _, st := range []Style{Regular, Bold, Italic, BoldItalic} {
			r.Register(fam.name, st, builtin[fam.prefix+st.String()])
		}
	}
	return r
}

// Register 注册（或替换）一个字体文件。
func (r *Registry) Register(family string, style Style, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fam := r.families[family]
	if fam == nil {
		fam = map[Style][]byte{}
		r.families[family] = fam
	}
	fam[style] = data
}

// RegisterFile 通过 Load 读取并注册字体。
func (r *Registry) RegisterFile(family string, style Style, path string) error {
	data, err := Load(path)
	if err != nil {
		return err
	}
	r.Register(family, style, data)
	return nil
}

// Lookup 查找字体：缺少该样式时退回同族常规体，缺少字体族时退回 Default。
func (r *Registry) Lookup(family string, style Style) Face {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if fam, ok := r.families[family]; ok {
		if data, ok := fam[style]; ok {
			return Face{Family: family, Style: style, Data: data}
		}
		if data, ok := fam[Regular]; ok {
			return Face{Family: family, Style: Regular, Data: data}
		}
	}
	return Face{Family: Default, Style: style, Data: r.families[Default][style]}
}

// Families 返回已注册的字体族名，按字母排序。
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.families))
	for name := range r.families {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
