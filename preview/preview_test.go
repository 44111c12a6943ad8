package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/labelsheet/layout"
)

func cell(row, size int, text string, overflow bool) layout.CellBox {
	return layout.CellBox{Row: row, Size: size, Text: layout.TextBox{Content: text}, Overflow: overflow}
}

func TestRenderAlignsRowsByDisplayWidth(t *testing.T) {
	res := &layout.Result{Pages: []layout.Page{{Cells: []layout.CellBox{
		cell(0, 1, "Hlavní vypínač", false),
		cell(0, 2, "Rack", false),
		cell(1, 1, "中文标签", false),
	}}}}
	var buf bytes.Buffer
	if err := Render(&buf, res, DefaultOptions()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "Strana 1/1 (3)" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if len(lines) != 7 {
		t.Fatalf("expected header plus 2 rows of 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	for i, want := range []int{31, 31, 31, 11, 11, 11} {
		if got := runewidth.StringWidth(lines[i+1]); got != want {
			t.Fatalf("line %d %q has width %d, want %d", i+1, lines[i+1], got, want)
		}
	}
	if !strings.Contains(lines[2], "~") || !strings.Contains(lines[5], "中文标签") {
		t.Fatalf("unexpected labels:\n%s", buf.String())
	}
}

func TestRenderMarksOverflow(t *testing.T) {
	res := &layout.Result{Pages: []layout.Page{{Cells: []layout.CellBox{cell(0, 2, "Rezerva", true)}}}}
	var buf bytes.Buffer
	if err := Render(&buf, res, Options{ColumnsPerUnit: 10, MarkOverflow: true}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "Rezerva!") {
		t.Fatalf("overflowing cell must be marked:\n%s", buf.String())
	}
}

func TestRenderNilResult(t *testing.T) {
	if err := Render(&bytes.Buffer{}, nil, DefaultOptions()); err == nil {
		t.Fatalf("nil result must fail")
	}
}
