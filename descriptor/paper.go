package descriptor

import (
	"fmt"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/vellum/geom"
)

var papers = map[string]canvas.Size{
	"a0": canvas.A0, "a1": canvas.A1, "a2": canvas.A2, "a3": canvas.A3,
	"a4": canvas.A4, "a5": canvas.A5, "a6": canvas.A6,
	"b4": canvas.B4, "b5": canvas.B5,
	"letter": canvas.Letter, "legal": canvas.Legal, "ledger": canvas.Ledger,
	"tabloid": canvas.Tabloid, "executive": canvas.Executive,
}

// Paper 解析纸张名，可带 "landscape" 后缀，例如 "A4 landscape"。
func Paper(name string) (width, height geom.Length, err error) {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 || len(fields) > 2 {
		return geom.Length{}, geom.Length{}, fmt.Errorf("invalid paper %q", name)
	}
	size, ok := papers[fields[0]]
	if !ok {
		return geom.Length{}, geom.Length{}, fmt.Errorf("unknown paper %q", fields[0])
	}
	w, h := size.W, size.H
	if len(fields) == 2 {
		switch fields[1] {
		case "landscape":
			w, h = max(w, h), min(w, h)
		case "portrait":
			w, h = min(w, h), max(w, h)
		default:
			return geom.Length{}, geom.Length{}, fmt.Errorf("invalid paper orientation %q", fields[1])
		}
	}
	return geom.MM(w), geom.MM(h), nil
}
