package fonts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func TestLookupBuiltin(t *testing.T) {
	r := NewRegistry()
	f := r.Lookup(Default, Bold)
	if f.Style != Bold || !bytes.Equal(f.Data, gobold.TTF) {
		t.Fatalf("lookup bold = %s, want built-in Go bold", f.Key())
	}
}

func TestLookupFallsBack(t *testing.T) {
	r := NewRegistry()
	r.Register("Custom", Regular, []byte("regular"))

	if f := r.Lookup("Custom", Italic); f.Style != Regular || string(f.Data) != "regular" {
		t.Fatalf("missing style fallback = %s", f.Key())
	}
	if f := r.Lookup("Nope", Regular); f.Family != Default || !bytes.Equal(f.Data, goregular.TTF) {
		t.Fatalf("missing family fallback = %s", f.Key())
	}
}

func TestLoad(t *testing.T) {
	if _, err := Load("builtin:go-mono-regular"); err != nil {
		t.Fatalf("load builtin: %v", err)
	}
	if _, err := Load("builtin:missing"); err == nil {
		t.Fatalf("expected error for unknown built-in")
	}
	path := filepath.Join(t.TempDir(), "x.ttf")
	if err := os.WriteFile(path, []byte("ttf"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRegistry()
	if err := r.RegisterFile("X", Bold, path); err != nil {
		t.Fatalf("register file: %v", err)
	}
	if f := r.Lookup("X", Bold); string(f.Data) != "ttf" {
		t.Fatalf("lookup registered = %q", f.Data)
	}
}

func TestStyleRoundTrip(t *testing.T) {
	for _, st := range []Style{Regular, Bold, Italic, BoldItalic} {
		got, err := ParseStyle(st.String())
		if err != nil || got != st {
			t.Fatalf("ParseStyle(%q) = %v, %v", st.String(), got, err)
		}
	}
	if StyleOf(true, true) != BoldItalic || StyleOf(false, true) != Italic {
		t.Fatalf("StyleOf mismatch")
	}
}
