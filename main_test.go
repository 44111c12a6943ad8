package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/ByLCY/labelsheet/export"
	"github.com/ByLCY/labelsheet/fonts"
)

func init() { api.DisableConfigDir() }

func testGlobals(data string) *Globals {
	return &Globals{Data: data, logger: slog.New(slog.NewTextHandler(io.Discard, nil)), stdout: io.Discard}
}

func TestExportCommandWritesPDF(t *testing.T) {
	for _, backend := range []string{"canvas", "fpdf"} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			cmd := &exportCmd{
				In:      filepath.Join("examples", "rozvadec.labels"),
				OutDir:  dir,
				Backend: backend,
				Debug:   filepath.Join(dir, "debug", "layout.json"),
			}
			if err := cmd.Run(testGlobals(`{"board":"R1","circuits":["B16","B10"]}`)); err != nil {
				t.Fatalf("export: %v", err)
			}
			n, err := api.PageCountFile(filepath.Join(dir, export.FileName))
			if err != nil {
				t.Fatalf("PageCountFile: %v", err)
			}
			if n != 1 {
				t.Fatalf("expected 1 page, got %d", n)
			}
			if _, err := os.Stat(cmd.Debug); err != nil {
				t.Fatalf("debug JSON missing: %v", err)
			}
		})
	}
}

func TestExportCommandMissingFontFallsBack(t *testing.T) {
	dir := t.TempDir()
	cmd := &exportCmd{
		In:       filepath.Join("examples", "rozvadec.labels"),
		OutDir:   dir,
		FontFile: filepath.Join(dir, "missing.ttf"),
	}
	if err := cmd.Run(testGlobals("")); err != nil {
		t.Fatalf("missing font must not fail the export: %v", err)
	}
}

func TestLoadSheetRejectsBadData(t *testing.T) {
	if _, err := loadSheet(filepath.Join("examples", "rozvadec.labels"), "{"); err == nil {
		t.Fatalf("invalid JSON must fail")
	}
}

func TestNewSurfaceRejectsUnknownBackend(t *testing.T) {
	if _, err := newSurface("cairo"); err == nil {
		t.Fatalf("unknown backend must fail")
	}
}

func TestGeometryFlags(t *testing.T) {
	geo, err := GeometryFlags{Margin: "15mm", Padding: "2"}.geometry()
	if err != nil {
		t.Fatalf("geometry: %v", err)
	}
	if geo.Margin != 15 || geo.Padding != 2 {
		t.Fatalf("unexpected geometry %+v", geo)
	}
	if _, err := (GeometryFlags{Margin: "abc"}).geometry(); err == nil {
		t.Fatalf("invalid length must fail")
	}
}

// 未指定字体来源时读取当前目录下的固定字体路径，缺失时记录警告后回退。
func TestExportCommandDefaultsToLocalFont(t *testing.T) {
	sheetPath, err := filepath.Abs(filepath.Join("examples", "rozvadec.labels"))
	if err != nil {
		t.Fatalf("Abs: %v", err)
	}
	run := func(t *testing.T) string {
		var logs bytes.Buffer
		g := testGlobals("")
		g.logger = slog.New(slog.NewTextHandler(&logs, nil))
		cmd := &exportCmd{In: sheetPath, OutDir: t.TempDir()}
		if err := cmd.Run(g); err != nil {
			t.Fatalf("export: %v", err)
		}
		return logs.String()
	}

	t.Run("missing", func(t *testing.T) {
		t.Chdir(t.TempDir())
		logs := run(t)
		if !strings.Contains(logs, "level=WARN") || !strings.Contains(logs, "NotoSans-Regular.ttf") {
			t.Fatalf("missing local font must be reported, got %q", logs)
		}
	})

	t.Run("present", func(t *testing.T) {
		root := t.TempDir()
		path := fonts.LocalPath(root)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, fonts.Default(), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		t.Chdir(root)
		if logs := run(t); strings.Contains(logs, "level=WARN") {
			t.Fatalf("local font should be used without warnings, got %q", logs)
		}
	})
}

func TestPreviewCommand(t *testing.T) {
	var out bytes.Buffer
	g := testGlobals(`{"board":"R1","circuits":["B16","B10"]}`)
	g.stdout = &out
	cmd := &previewCmd{In: filepath.Join("examples", "rozvadec.labels"), Columns: 8}
	if err := cmd.Run(g); err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Strana 1/1 (7)") || !strings.Contains(out.String(), "Rack") {
		t.Fatalf("unexpected preview:\n%s", out.String())
	}
}

func TestFavoritesCommand(t *testing.T) {
	for _, in := range []string{"", filepath.Join("examples", "rozvadec.labels")} {
		var out bytes.Buffer
		g := testGlobals("")
		g.stdout = &out
		if err := (&favoritesCmd{In: in}).Run(g); err != nil {
			t.Fatalf("favorites %q: %v", in, err)
		}
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if len(lines) != 5 || !strings.HasPrefix(lines[0], "fav1") || !strings.Contains(lines[0], "3x") {
			t.Fatalf("favorites %q: unexpected output:\n%s", in, out.String())
		}
	}
}
