package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/fonts"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vellum.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
dpi = 144
format = "png"
culture = "de-CH"

[server]
cache_ttl = "5m"
cache_bytes = 1024
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DPI != 144 || cfg.Format != FormatPNG || cfg.MaxPasses != 4 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Server.CacheTTL != 5*time.Minute || cfg.Server.CacheBytes != 1024 || cfg.Server.Addr != ":8080" {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Tag() != language.MustParse("de-CH") {
		t.Fatalf("tag = %v", cfg.Tag())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "dpii = 10\n"))
	if err == nil || !strings.Contains(err.Error(), "dpii") {
		t.Fatalf("err = %v, want unknown key dpii", err)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.DPI = 0
	cfg.Format = "gif"
	cfg.Server.CacheBytes = -1
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "dpi") || !strings.Contains(err.Error(), "gif") || !strings.Contains(err.Error(), "cache_bytes") {
		t.Fatalf("err = %v", err)
	}
}

func TestRegistryResolvesRelativeFonts(t *testing.T) {
	path := writeConfig(t, `
[fonts.Body]
regular = "body.ttf"
bold = "builtin:go-bold"
`)
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "body.ttf"), []byte("ttf"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if f := reg.Lookup("Body", fonts.Regular); string(f.Data) != "ttf" {
		t.Fatalf("regular = %q", f.Data)
	}
	if f := reg.Lookup("Body", fonts.Italic); f.Style != fonts.Regular {
		t.Fatalf("italic should fall back to regular, got %s", f.Key())
	}
}
