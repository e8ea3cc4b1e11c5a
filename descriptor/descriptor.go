// Package descriptor 把 TOML 文档描述解码为普通数据，再通过显式的构造器注册表绑定为控件树。
package descriptor

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// File 是一个文档描述。
type File struct {
	Title   string     `toml:"title"`
	Subject string     `toml:"subject"`
	Author  string     `toml:"author"`
	Pages   []PageSpec `toml:"page"`
}

// PageSpec 描述一个页面模板。Size 为纸张名（如 "A4"、"Letter landscape"），
// 也可以用 Width/Height 指定。
type PageSpec struct {
	Size     string `toml:"size"`
	Width    string `toml:"width"`
	Height   string `toml:"height"`
	Margin   string `toml:"margin"`
	Paginate bool   `toml:"paginate"`

	Background *NodeSpec `toml:"background"`
	Content    *NodeSpec `toml:"content"`
	Foreground *NodeSpec `toml:"foreground"`
}

// NodeSpec 描述一个控件。各字段只对相应的 Kind 有意义。
type NodeSpec struct {
	Kind string `toml:"kind"`

	Margin  string `toml:"margin"`
	Padding string `toml:"padding"`
	HAlign  string `toml:"halign"`
	VAlign  string `toml:"valign"`
	Clip    *bool  `toml:"clip"`

	// text
	Text   string  `toml:"text"`
	Font   string  `toml:"font"`
	Size   float64 `toml:"size"`
	Color  string  `toml:"color"`
	Bold   bool    `toml:"bold"`
	Italic bool    `toml:"italic"`
	Wrap   *bool   `toml:"wrap"`
	// TextAlign 是行在文本框内的对齐：left、center、right。
	TextAlign  string `toml:"text_align"`
	BreakWords bool   `toml:"break_words"`

	// rect / image / line
	Width       string `toml:"width"`
	Height      string `toml:"height"`
	Fill        string `toml:"fill"`
	Stroke      string `toml:"stroke"`
	StrokeWidth string `toml:"stroke_width"`
	Orientation string `toml:"orientation"`
	Length      string `toml:"length"`
	Thickness   string `toml:"thickness"`
	Src         string `toml:"src"`

	// stack / table
	Spacing   string `toml:"spacing"`
	Rule      string `toml:"rule"`
	RuleWidth string `toml:"rule_width"`

	Children []*NodeSpec `toml:"children"`
}

// Decode 读取文档描述。未知的键视为错误。
func Decode(r io.Reader) (*File, error) {
	var f File
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("decode descriptor: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("descriptor: unknown keys %s", strings.Join(keys, ", "))
	}
	return &f, nil
}

// Parse 是 Decode 的字节版本。
func Parse(data []byte) (*File, error) { return Decode(bytes.NewReader(data)) }
