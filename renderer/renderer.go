package renderer

import (
	"github.com/ByLCY/vellum/compose"
	"github.com/ByLCY/vellum/text"
)

// Renderer 将排版结果输出为最终文件，例如 PDF 或图像。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(res *compose.Result) ([]byte, error)
	// Measurer 返回与本后端绘制一致的文本测量器，排版阶段必须使用它。
	Measurer(dpi float64) text.Measurer
	// ContentType 是输出的 MIME 类型。
	ContentType() string
}
