package text

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ByLCY/vellum/geom"
)

// CannotFit 是无法折行时返回的哨兵尺寸（宽高均为 NaN）：某个单词本身就比最大宽度还宽，
// 且它前面没有任何可断开的空白。调用方必须用 IsCannotFit 显式检查。
var CannotFit = geom.Size{Width: math.NaN(), Height: math.NaN()}

// IsCannotFit 报告 s 是否为 CannotFit 哨兵。
func IsCannotFit(s geom.Size) bool { return s.IsNaN() }

// Drawer 是 Draw 需要的最小绘制接口，canvas.Canvas 满足它。
type Drawer interface {
	DrawText(style Style, s string, at geom.Point) error
}

// Line 是折行后的一行及其宽度（像素）。
type Line struct {
	Text  string  `json:"text"`
	Width float64 `json:"width"`
}

// Align 是行在文本框内的水平对齐方式。
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) offset(box, line float64) float64 {
	switch a {
	case AlignCenter:
		return (box - line) / 2
	case AlignRight:
		return box - line
	default:
		return 0
	}
}

// Layout 组合测量器与行距倍数。
type Layout struct {
	Measurer    Measurer
	LineSpacing float64 // 行距倍数，缺省 1
	Align       Align
	// BreakWords 允许在单词内部按字符断开过宽的单词，此时 Break 不再失败。
	BreakWords bool

	// Expand 在测量前展开候选串（例如页码占位符）；为空时按原文测量。
	Expand func(string) string
}

func (l Layout) spacing() float64 {
	if l.LineSpacing <= 0 {
		return 1
	}
	return l.LineSpacing
}

func (l Layout) width(style Style, s string) float64 {
	if l.Expand != nil {
		s = l.Expand(s)
	}
	return l.Measurer.Width(style, s)
}

// PhysicalLines 按显式换行拆分，\r\n 与单独的 \r 都视为换行。
func PhysicalLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// Break 对每个物理行做折行：从剩余文本整体出发，若过宽就向回找最近的空白并截断，
// 重新测量，直到放得下。若某个单词在没有前置空白的情况下仍超出 maxWidth，返回 false；
// 开启 BreakWords 时改为截取能放下的最长前缀（至少一个字符）。
// maxWidth 为 +Inf 或 NaN 时不折行。
func (l Layout) Break(style Style, s string, maxWidth float64) ([]Line, bool) {
	unbounded := math.IsInf(maxWidth, 1) || math.IsNaN(maxWidth)
	var lines []Line
	for _, physical := range PhysicalLines(s) {
		rest := strings.TrimRightFunc(physical, unicode.IsSpace)
		if rest == "" {
			lines = append(lines, Line{})
			continue
		}
		for rest != "" {
			cand := rest
			w := l.width(style, cand)
			for !unbounded && w > maxWidth {
				i := strings.LastIndexFunc(cand, unicode.IsSpace)
				var cut string
				if i > 0 {
					cut = strings.TrimRightFunc(cand[:i], unicode.IsSpace)
				}
				if cut == "" {
					if !l.BreakWords {
						return nil, false
					}
					cand, w = l.prefix(style, cand, maxWidth)
					break
				}
				cand = cut
				w = l.width(style, cand)
			}
			lines = append(lines, Line{Text: cand, Width: w})
			rest = strings.TrimLeftFunc(rest[len(cand):], unicode.IsSpace)
		}
	}
	return lines, true
}

// prefix 返回 s 中宽度不超过 maxWidth 的最长前缀，至少包含一个字符。
func (l Layout) prefix(style Style, s string, maxWidth float64) (string, float64) {
	_, size := utf8.DecodeRuneInString(s)
	best, bestW := s[:size], l.width(style, s[:size])
	for i := size; i < len(s); {
		_, n := utf8.DecodeRuneInString(s[i:])
		i += n
		w := l.width(style, s[:i])
		if w > maxWidth {
			break
		}
		best, bestW = s[:i], w
	}
	return best, bestW
}

// Unwrapped 只按显式换行拆分，不做宽度折行。
func (l Layout) Unwrapped(style Style, s string) []Line {
	phys := PhysicalLines(s)
	lines := make([]Line, 0, len(phys))
	for _, p := range phys {
		p = strings.TrimRightFunc(p, unicode.IsSpace)
		lines = append(lines, Line{Text: p, Width: l.width(style, p)})
	}
	return lines
}

// Bounds 返回多行文本的包围尺寸：宽为最宽行；高为一行行高加 (行数-1)×行高×倍数。
func (l Layout) Bounds(style Style, lines []Line) geom.Size {
	if len(lines) == 0 {
		return geom.Size{}
	}
	lh := l.Measurer.LineHeight(style)
	w := 0.0
	for _, ln := range lines {
		w = math.Max(w, ln.Width)
	}
	return geom.Size{Width: w, Height: lh + float64(len(lines)-1)*lh*l.spacing()}
}

// Measure 折行并返回包围尺寸；无法折行时返回 CannotFit。
func (l Layout) Measure(style Style, s string, maxWidth float64) geom.Size {
	lines, ok := l.Break(style, s, maxWidth)
	if !ok {
		return CannotFit
	}
	return l.Bounds(style, lines)
}

// Draw 使用与 Measure 相同的分行结果逐行绘制，每行后纵向前进 行高×倍数。
// 无法折行时退化为只按显式换行绘制，溢出部分由调用方的裁剪处理。
func (l Layout) Draw(d Drawer, style Style, s string, maxWidth float64, origin geom.Point) error {
	lines, ok := l.Break(style, s, maxWidth)
	if !ok {
		lines = l.Unwrapped(style, s)
	}
	return l.DrawLines(d, style, lines, origin, l.Bounds(style, lines).Width)
}

// DrawLines 绘制已经分好的行，每行按 Align 在宽为 width 的框内水平对齐。
func (l Layout) DrawLines(d Drawer, style Style, lines []Line, origin geom.Point, width float64) error {
	step := l.Measurer.LineHeight(style) * l.spacing()
	y := origin.Y
	for _, ln := range lines {
		x := origin.X + l.Align.offset(width, ln.Width)
		if err := d.DrawText(style, ln.Text, geom.Point{X: x, Y: y}); err != nil {
			return err
		}
		y += step
	}
	return nil
}
