package compose

import (
	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/canvas"
	"github.com/ByLCY/vellum/geom"
)

// Sheet 是排版后的一张纸：三层录制好的绘制操作，共享同一组页面元数据。
type Sheet struct {
	Number   int            `json:"number"`
	Total    int            `json:"total"`
	Template int            `json:"template"`
	FullSize geom.Size      `json:"fullSize"`
	Size     geom.Size      `json:"size"`
	Margin   geom.Thickness `json:"margin"`
	DPI      float64        `json:"dpi"`

	Background *canvas.Deferred `json:"background"`
	Content    *canvas.Deferred `json:"content"`
	Foreground *canvas.Deferred `json:"foreground"`
}

func newSheet(number, template int, full geom.Size, margin geom.Thickness, dpi float64) *Sheet {
	size := full.Shrink(margin)
	return &Sheet{
		Number:     number,
		Template:   template,
		FullSize:   full,
		Size:       size,
		Margin:     margin,
		DPI:        dpi,
		Background: canvas.NewDeferred(full, full, dpi),
		Content:    canvas.NewDeferred(full, size, dpi),
		Foreground: canvas.NewDeferred(full, full, dpi),
	}
}

// Vars 返回回放时使用的页码变量。
func (s *Sheet) Vars() binding.Vars { return binding.PageVars(s.Number, s.Total) }

// Replay 依次回放背景、内容、前景三层到 target。
func Replay(s *Sheet, target canvas.Canvas) error {
	vars := s.Vars()
	for _, layer := range []*canvas.Deferred{s.Background, s.Content, s.Foreground} {
		if err := layer.Render(target, vars); err != nil {
			return err
		}
	}
	return nil
}
