// Package pipeline 串联描述文件解析、排版与渲染，命令行与 HTTP 服务共用。
package pipeline

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/vellum/compose"
	"github.com/ByLCY/vellum/config"
	"github.com/ByLCY/vellum/descriptor"
	"github.com/ByLCY/vellum/renderer"
	"github.com/ByLCY/vellum/renderer/raster"
	"github.com/ByLCY/vellum/renderer/vector"
	"github.com/ByLCY/vellum/text"
)

// ErrUnknownFormat 表示请求了不支持的输出格式。
var ErrUnknownFormat = errors.New("unknown output format")

// Pipeline 持有按格式划分的渲染器及其测量器。两者内部的缓存可被并发复用。
type Pipeline struct {
	cfg       config.Config
	renderers map[string]renderer.Renderer
	measurers map[string]text.Measurer
	logger    *log.Logger
}

// New 根据配置加载字体并创建 PDF 与 PNG 渲染器。
func New(cfg config.Config, logger *log.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	p := &Pipeline{
		cfg: cfg,
		renderers: map[string]renderer.Renderer{
			config.FormatPDF: vector.NewRenderer(registry),
			config.FormatPNG: raster.NewRenderer(registry),
		},
		measurers: map[string]text.Measurer{},
		logger:    logger,
	}
	for format, r := range p.renderers {
		p.measurers[format] = text.NewCached(r.Measurer(cfg.DPI))
	}
	return p, nil
}

// Config 返回创建时使用的配置。
func (p *Pipeline) Config() config.Config { return p.cfg }

// Renderer 返回 format 对应的渲染器，format 为空时使用配置的默认格式。
func (p *Pipeline) Renderer(format string) (renderer.Renderer, error) {
	r, ok := p.renderers[p.format(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return r, nil
}

func (p *Pipeline) format(format string) string {
	if format == "" {
		return p.cfg.Format
	}
	return format
}

// Source 是一次渲染的输入。BaseDir 用于解析图片的相对路径，Files 限定可读取的本地文件。
type Source struct {
	Data    []byte
	BaseDir string
	Files   descriptor.Files
}

// Layout 解析描述文件并按 format 对应后端的字体度量排版，保证排版与绘制一致。
func (p *Pipeline) Layout(src Source, format string) (*compose.Result, error) {
	m, ok := p.measurers[p.format(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	file, err := descriptor.Parse(src.Data)
	if err != nil {
		return nil, err
	}
	binder := descriptor.NewBinder(text.Layout{
		Measurer:    m,
		LineSpacing: p.cfg.LineSpacing,
	}, src.BaseDir)
	binder.Files = src.Files
	doc, err := binder.Document(file)
	if err != nil {
		return nil, err
	}
	engine := &compose.Engine{
		DPI:       p.cfg.DPI,
		Culture:   p.cfg.Tag(),
		MaxPasses: p.cfg.MaxPasses,
		Logger:    p.logger,
	}
	return engine.Layout(doc)
}

// Output 是一次渲染的结果。
type Output struct {
	Data        []byte
	ContentType string
	Result      *compose.Result
}

// Render 完成解析、排版与渲染。
func (p *Pipeline) Render(src Source, format string) (*Output, error) {
	r, err := p.Renderer(format)
	if err != nil {
		return nil, err
	}
	res, err := p.Layout(src, format)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	out, err := r.Render(res)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	p.logger.Debug("rendered document", "format", format, "sheets", len(res.Sheets), "passes", res.Passes, "bytes", len(out))
	return &Output{Data: out, ContentType: r.ContentType(), Result: res}, nil
}
