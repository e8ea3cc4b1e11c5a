package pipeline

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ByLCY/vellum/config"
)

const doc = `
title = "Pipeline"

[[page]]
size = "A6"
margin = "5mm"

[page.content]
kind = "text"
text = "Page ${page} of ${pages}"
`

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(config.Default(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestRenderPDF(t *testing.T) {
	out, err := newPipeline(t).Render(Source{Data: []byte(doc)}, config.FormatPDF)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out.Data, []byte("%PDF")) {
		t.Fatalf("not a PDF: %q", out.Data[:min(len(out.Data), 8)])
	}
	if out.ContentType != "application/pdf" {
		t.Fatalf("content type = %q", out.ContentType)
	}
	if len(out.Result.Sheets) != 1 || !out.Result.Converged {
		t.Fatalf("sheets=%d converged=%v", len(out.Result.Sheets), out.Result.Converged)
	}
}

func TestRenderPNG(t *testing.T) {
	out, err := newPipeline(t).Render(Source{Data: []byte(doc)}, config.FormatPNG)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out.Data, []byte("\x89PNG")) {
		t.Fatalf("not a PNG")
	}
}

func TestDefaultFormatFromConfig(t *testing.T) {
	r, err := newPipeline(t).Renderer("")
	if err != nil {
		t.Fatal(err)
	}
	if r.ContentType() != "application/pdf" {
		t.Fatalf("default renderer = %q", r.ContentType())
	}
}

func TestUnknownFormat(t *testing.T) {
	_, err := newPipeline(t).Render(Source{Data: []byte(doc)}, "svg")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.DPI = 0
	if _, err := New(cfg, nil); err == nil {
		t.Fatalf("expected validation error")
	}
}
