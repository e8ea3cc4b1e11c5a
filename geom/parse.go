package geom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	valueLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n,]+`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)(?:px|pt|mm|cm|in|%)?`},
		{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_-]*`},
	})

	lengthsParser = participle.MustBuild[lengthList](
		participle.Lexer(valueLexer),
		participle.Elide("Whitespace"),
	)
	colorParser = participle.MustBuild[colorValue](
		participle.Lexer(valueLexer),
		participle.Elide("Whitespace"),
	)
)

// lengthList 是 "10mm 5mm" 这类一至四个长度值的语法树。
type lengthList struct {
	Values []string `parser:"@Number+"`
}

type colorValue struct {
	Hex  *string `parser:"  @Color"`
	Name *string `parser:"| @Ident"`
}

var namedColors = map[string]Color{
	"black":       Black,
	"white":       White,
	"transparent": Transparent,
	"red":         RGB(255, 0, 0),
	"green":       RGB(0, 128, 0),
	"blue":        RGB(0, 0, 255),
	"gray":        RGB(128, 128, 128),
	"grey":        RGB(128, 128, 128),
}

// ParseLength 解析单个长度，例如 "12pt"、"50%"；无单位时按 px 处理。
func ParseLength(value string) (Length, error) {
	list, err := lengthsParser.ParseString("", value)
	if err != nil {
		return Length{}, fmt.Errorf("解析长度 %q 失败: %w", value, err)
	}
	if len(list.Values) != 1 {
		return Length{}, fmt.Errorf("长度 %q 只能包含一个数值", value)
	}
	return parseNumber(list.Values[0])
}

// ParseBox 解析 CSS 风格的 1~4 值简写：
// "a" 四边相同；"a b" 上下/左右；"a b c" 上/左右/下；"a b c d" 上/右/下/左。
func ParseBox(value string) (Box, error) {
	if strings.TrimSpace(value) == "" {
		return Box{}, nil
	}
	list, err := lengthsParser.ParseString("", value)
	if err != nil {
		return Box{}, fmt.Errorf("解析边距 %q 失败: %w", value, err)
	}
	ls := make([]Length, 0, len(list.Values))
	for _, raw := range list.Values {
		l, err := parseNumber(raw)
		if err != nil {
			return Box{}, err
		}
		ls = append(ls, l)
	}
	switch len(ls) {
	case 1:
		return Uniform(ls[0]), nil
	case 2:
		return Symmetric(ls[0], ls[1]), nil
	case 3:
		return Box{Top: ls[0], Right: ls[1], Bottom: ls[2], Left: ls[1]}, nil
	case 4:
		return Box{Top: ls[0], Right: ls[1], Bottom: ls[2], Left: ls[3]}, nil
	default:
		return Box{}, fmt.Errorf("边距 %q 最多四个数值，实际 %d 个", value, len(ls))
	}
}

// ParseColor 解析 #rgb、#rrggbb、#rrggbbaa 或少量颜色名。
func ParseColor(value string) (Color, error) {
	cv, err := colorParser.ParseString("", value)
	if err != nil {
		return Color{}, fmt.Errorf("解析颜色 %q 失败: %w", value, err)
	}
	if cv.Name != nil {
		c, ok := namedColors[strings.ToLower(*cv.Name)]
		if !ok {
			return Color{}, fmt.Errorf("未知颜色名 %q", *cv.Name)
		}
		return c, nil
	}
	hex := strings.TrimPrefix(*cv.Hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("解析颜色 %q 失败: %w", value, err)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func parseNumber(raw string) (Length, error) {
	lower := strings.ToLower(raw)
	unit := UnitPx
	num := lower
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPx}, {"pt", UnitPt}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"%", UnitPercent}} {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSuffix(lower, suf.s)
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("解析数值 %q 失败: %w", raw, err)
	}
	return Length{Value: f, Unit: unit}, nil
}
