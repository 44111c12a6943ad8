package fpdfrenderer

import (
	"bytes"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/ByLCY/labelsheet/fonts"
	"github.com/ByLCY/labelsheet/label"
	"github.com/ByLCY/labelsheet/layout"
)

func init() { api.DisableConfigDir() }

var (
	coreFont   = layout.FontResource{Name: fonts.DefaultName, IsBuiltin: true}
	customFont = layout.FontResource{Name: fonts.CustomName}
)

func TestLayoutLinesWithCoreFont(t *testing.T) {
	r := NewRenderer()
	sizeMM := 10 * layout.PtToMm
	lines, err := r.LayoutLines("Hlavni vypinac rozvadece", 15, coreFont, sizeMM, sizeMM*1.15, "")
	if err != nil {
		t.Fatalf("LayoutLines: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %d lines", len(lines))
	}
	for i, ln := range lines {
		if ln.Width > 15+1e-6 {
			t.Fatalf("line %d too wide: %g", i, ln.Width)
		}
		if ln.Height != sizeMM*1.15 {
			t.Fatalf("line %d height = %g, want %g", i, ln.Height, sizeMM*1.15)
		}
	}
}

func TestEnsureFontRegistersUTF8Font(t *testing.T) {
	r := NewRenderer()
	if err := r.EnsureFont(fonts.CustomName, fonts.Default()); err != nil {
		t.Fatalf("EnsureFont: %v", err)
	}
	if err := r.EnsureFont(fonts.CustomName, nil); err != nil {
		t.Fatalf("second EnsureFont must be a no-op, got %v", err)
	}
	if err := r.EnsureFont("Broken", []byte("not a font")); err == nil {
		t.Fatalf("invalid font data must fail")
	}

	sizeMM := 10 * layout.PtToMm
	lines, err := r.LayoutLines("Přepěťová ochrana", 100, customFont, sizeMM, sizeMM, "")
	if err != nil {
		t.Fatalf("LayoutLines: %v", err)
	}
	if len(lines) != 1 || lines[0].Content != "Přepěťová ochrana" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestRenderPageCount(t *testing.T) {
	for _, tc := range []struct {
		name   string
		custom bool
	}{
		{name: "core", custom: false},
		{name: "utf8", custom: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRenderer()
			font := coreFont
			if tc.custom {
				if err := r.EnsureFont(fonts.CustomName, fonts.Default()); err != nil {
					t.Fatalf("EnsureFont: %v", err)
				}
				font = customFont
			}
			var cells []label.Cell
			for i := 0; i < 210; i++ {
				cells = append(cells, label.Cell{ID: "c", Text: "Jistič", Size: 1})
			}
			res, err := layout.Build(cells, layout.BuildOptions{Typesetter: r, Font: font})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if len(res.Pages) != 2 {
				t.Fatalf("expected 2 pages, got %d", len(res.Pages))
			}
			data, err := r.Render(res)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			n, err := api.PageCount(bytes.NewReader(data), nil)
			if err != nil {
				t.Fatalf("pdfcpu PageCount: %v", err)
			}
			if n != 2 {
				t.Fatalf("PDF page count = %d, want 2", n)
			}
		})
	}
}

func TestRenderEmptyResultFails(t *testing.T) {
	if _, err := NewRenderer().Render(&layout.Result{}); err == nil {
		t.Fatalf("result without pages must fail")
	}
}
