package compose

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
	"github.com/ByLCY/vellum/layout"
)

const (
	DefaultDPI       = 96.0
	DefaultMaxPasses = 4
)

// Engine 驱动多轮排版，直到总页数稳定。
//
// 第一轮以页面模板数作为总页数估计，之后每轮使用上一轮得到的页数；
// 连续两轮一致即收敛，超过 MaxPasses 时使用最后一轮的结果并记录警告。
type Engine struct {
	DPI       float64
	Culture   language.Tag
	MaxPasses int
	Logger    *log.Logger
}

// Result 是排版结果。
type Result struct {
	Info      Info     `json:"info"`
	Sheets    []*Sheet `json:"sheets"`
	Passes    int      `json:"passes"`
	Converged bool     `json:"converged"`
}

func (e *Engine) dpi() float64 {
	if e.DPI <= 0 {
		return DefaultDPI
	}
	return e.DPI
}

func (e *Engine) maxPasses() int {
	if e.MaxPasses <= 0 {
		return DefaultMaxPasses
	}
	return e.MaxPasses
}

func (e *Engine) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

// Layout 排版整个文档。同一个 Document 不能被并发排版。
func (e *Engine) Layout(doc *Document) (*Result, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return nil, ErrNoPages
	}
	logger := e.logger()
	estimate := len(doc.Pages)
	for pass := 1; ; pass++ {
		sheets, err := e.pass(doc, estimate)
		if err != nil {
			return nil, fmt.Errorf("layout pass %d: %w", pass, err)
		}
		converged := len(sheets) == estimate
		logger.Debug("layout pass", "pass", pass, "estimate", estimate, "sheets", len(sheets), "converged", converged)
		if converged || pass >= e.maxPasses() {
			if !converged {
				logger.Warn("page count did not converge", "passes", pass, "sheets", len(sheets))
			}
			for _, s := range sheets {
				s.Total = len(sheets)
			}
			return &Result{Info: doc.Info, Sheets: sheets, Passes: pass, Converged: converged}, nil
		}
		estimate = len(sheets)
	}
}

func (e *Engine) geometry(p *Page) (geom.Size, geom.Thickness) {
	dpi := e.dpi()
	full := geom.Size{Width: p.Width.Pixels(dpi, 0), Height: p.Height.Pixels(dpi, 0)}
	return full, p.Margin.Pixels(dpi, full)
}

func (e *Engine) pass(doc *Document, total int) ([]*Sheet, error) {
	var sheets []*Sheet
	for ti, page := range doc.Pages {
		full, margin := e.geometry(page)
		pager, paginate := page.Content.(layout.Paginator)
		paginate = paginate && pager.Paginating()

		start := 0
		for {
			sheet := newSheet(len(sheets)+1, ti, full, margin, e.dpi())
			info := layout.PageInfo{Number: sheet.Number, Total: total}
			if paginate {
				pager.SetStart(start)
			}
			if err := e.place(page.Background, sheet.Background, full, full, geom.Point{}, info); err != nil {
				return nil, fmt.Errorf("page %d background: %w", sheet.Number, err)
			}
			origin := geom.Point{X: margin.Left, Y: margin.Top}
			if err := e.place(page.Content, sheet.Content, full, sheet.Size, origin, info); err != nil {
				return nil, fmt.Errorf("page %d content: %w", sheet.Number, err)
			}
			if err := e.place(page.Foreground, sheet.Foreground, full, full, geom.Point{}, info); err != nil {
				return nil, fmt.Errorf("page %d foreground: %w", sheet.Number, err)
			}
			sheets = append(sheets, sheet)

			if !paginate {
				break
			}
			start += max(pager.Placed(), 1)
			if start >= pager.Len() {
				pager.SetStart(0)
				break
			}
		}
	}
	return sheets, nil
}

// place 注入页码后对 root 做测量、排列，并录制到 layer。
func (e *Engine) place(root layout.Control, layer canvas.Canvas, full, size geom.Size, origin geom.Point, info layout.PageInfo) error {
	if root == nil {
		return nil
	}
	layout.Walk(root, func(c layout.Control) {
		if pa, ok := c.(layout.PageAware); ok {
			pa.SetPage(info)
		}
	})
	dpi := e.dpi()
	root.Measure(dpi, full, size, size, e.Culture)
	root.Arrange(dpi, full, size, size, e.Culture)

	layer.PushState()
	defer layer.PopState()
	layer.Translate(origin)
	_, err := root.Render(layer, dpi, size, e.Culture)
	return err
}
