// Package config 读取 TOML 格式的渲染配置。
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/fonts"
)

// 支持的输出格式。
const (
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// Config 是渲染与服务的全部配置项。
type Config struct {
	DPI         float64              `toml:"dpi"`
	Culture     string               `toml:"culture"`
	MaxPasses   int                  `toml:"max_passes"`
	LineSpacing float64              `toml:"line_spacing"`
	Format      string               `toml:"format"`
	Fonts       map[string]FontFiles `toml:"fonts"`
	Server      Server               `toml:"server"`

	// dir 是配置文件所在目录，相对字体路径据此解析。
	dir string
}

// FontFiles 是一个字体族各样式对应的文件，缺省的样式退回 Regular。
type FontFiles struct {
	Regular    string `toml:"regular"`
	Bold       string `toml:"bold"`
	Italic     string `toml:"italic"`
	BoldItalic string `toml:"bold_italic"`
}

// Server 是 HTTP 服务配置。RedisURL 为空时使用容量为 CacheBytes 的进程内缓存。
type Server struct {
	Addr       string        `toml:"addr"`
	RedisURL   string        `toml:"redis_url"`
	CacheTTL   time.Duration `toml:"cache_ttl"`
	CacheBytes int           `toml:"cache_bytes"`
}

// Default 返回默认配置。
func Default() Config {
	return Config{
		DPI:         96,
		Culture:     "en",
		MaxPasses:   4,
		LineSpacing: 1,
		Format:      FormatPDF,
		Server: Server{
			Addr:       ":8080",
			CacheTTL:   time.Hour,
			CacheBytes: 64 << 20,
		},
	}
}

// Load 在默认配置上叠加 path 中的设置。未知的键视为错误。
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查取值范围。
func (c Config) Validate() error {
	var errs []error
	if c.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %v", c.DPI))
	}
	if c.MaxPasses <= 0 {
		errs = append(errs, fmt.Errorf("max_passes must be positive, got %d", c.MaxPasses))
	}
	if c.LineSpacing <= 0 {
		errs = append(errs, fmt.Errorf("line_spacing must be positive, got %v", c.LineSpacing))
	}
	if c.Server.CacheBytes < 0 {
		errs = append(errs, fmt.Errorf("server.cache_bytes must not be negative, got %d", c.Server.CacheBytes))
	}
	switch c.Format {
	case FormatPDF, FormatPNG:
	default:
		errs = append(errs, fmt.Errorf("unknown format %q", c.Format))
	}
	if _, err := language.Parse(c.Culture); err != nil {
		errs = append(errs, fmt.Errorf("culture %q: %w", c.Culture, err))
	}
	return errors.Join(errs...)
}

// Tag 返回解析后的 culture，无法解析时为 language.Und。
func (c Config) Tag() language.Tag {
	tag, err := language.Parse(c.Culture)
	if err != nil {
		return language.Und
	}
	return tag
}

// Registry 返回内置字体加上 [fonts] 中声明的字体。
func (c Config) Registry() (*fonts.Registry, error) {
	reg := fonts.NewRegistry()
	for family, files := range c.Fonts {
		for style, path := range map[fonts.Style]string{
			fonts.Regular:    files.Regular,
			fonts.Bold:       files.Bold,
			fonts.Italic:     files.Italic,
			fonts.BoldItalic: files.BoldItalic,
		} {
			if path == "" {
				continue
			}
			if !strings.HasPrefix(path, "builtin:") && !filepath.IsAbs(path) && c.dir != "" {
				path = filepath.Join(c.dir, path)
			}
			if err := reg.RegisterFile(family, style, path); err != nil {
				return nil, fmt.Errorf("font %s %s: %w", family, style, err)
			}
		}
	}
	return reg, nil
}
