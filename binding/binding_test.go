package binding

import "testing"

func TestInterpolatePageVars(t *testing.T) {
	got := Interpolate("Page ${page} of ${ pages }", PageVars(3, 7))
	if got != "Page 3 of 7" {
		t.Fatalf("got=%q", got)
	}
}

func TestInterpolateKeepsUnknownPlaceholders(t *testing.T) {
	got := Interpolate("${missing} ${page}", PageVars(1, 1))
	if got != "${missing} 1" {
		t.Fatalf("got=%q", got)
	}
	if Interpolate("${page}", nil) != "${page}" {
		t.Fatalf("nil vars must leave text untouched")
	}
}

func TestInterpolateNestedPath(t *testing.T) {
	vars := Vars{"doc": map[string]any{"title": "Report"}}
	if got := Interpolate("${doc.title}", vars); got != "Report" {
		t.Fatalf("got=%q", got)
	}
}

func TestHasPlaceholders(t *testing.T) {
	if !HasPlaceholders("p ${page}") {
		t.Fatalf("expected placeholder detected")
	}
	if HasPlaceholders("$5 {x}") {
		t.Fatalf("unexpected placeholder detected")
	}
}
