package layout

import (
	"testing"
	"unicode/utf8"
)

func runeMeasure(s string) float64 { return float64(utf8.RuneCountInString(s)) }

func TestWrapPrefersWhitespace(t *testing.T) {
	lines := Wrap("Hlavní vypínač", 8, runeMeasure, WrapAnywhere)
	if len(lines) != 2 || lines[0].Content != "Hlavní" || lines[1].Content != "vypínač" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
	if lines[0].Width != 6 {
		t.Fatalf("trailing space must not count into the width, got %g", lines[0].Width)
	}
}

func TestWrapSplitsLongWords(t *testing.T) {
	lines := Wrap("aaaaaaaaaa", 4, runeMeasure, WrapAnywhere)
	if len(lines) != 3 {
		t.Fatalf("expected 3 chunks, got %+v", lines)
	}
	for i, ln := range lines {
		if ln.Width > 4 {
			t.Fatalf("line %d width %g exceeds limit", i, ln.Width)
		}
	}
}

func TestWrapHonorsNewlines(t *testing.T) {
	lines := Wrap("foo\n\nbar", 100, runeMeasure, WrapAnywhere)
	if len(lines) != 3 || lines[1].Content != "" {
		t.Fatalf("expected 3 lines including blank, got %+v", lines)
	}
	if got := Wrap("a b c", 1, runeMeasure, WrapNoWrap); len(got) != 1 {
		t.Fatalf("nowrap must keep a single line, got %+v", got)
	}
	got := Wrap("ab cd", 2, runeMeasure, WrapBreakWord)
	if len(got) != 2 || got[0].Content != "ab" || got[1].Content != "cd" {
		t.Fatalf("break-word expected [ab cd], got %+v", got)
	}
}

func TestWrapEmptyContent(t *testing.T) {
	lines := Wrap("", 10, runeMeasure, WrapAnywhere)
	if len(lines) != 1 || lines[0].Content != "" {
		t.Fatalf("empty content should produce one empty line, got %+v", lines)
	}
}
