package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/labelsheet/dsl"
)

const sampleSheet = `
// rozvaděč v přízemí
sheet "Rozvaděč R1" {
  meta {
    author: "Elektro s.r.o."
    keywords: [
      "rozvaděč"
      "přízemí"
    ]
  }

  favorites {
    favorite jistic "2x - Jistič" 2x "Jistič"
    favorite rack "Rack" 1
  }

  cells {
    cell 3x "Hlavní vypínač"
    cell 1 "Rezerva" id r1; use jistic
    # komentář
    cell 4 "Přepěťová ochrana"
  }
}
`

func TestParseSheet(t *testing.T) {
	doc, err := dsl.ParseString(sampleSheet)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Title == nil || string(*doc.Title) != "Rozvaděč R1" {
		t.Fatalf("unexpected title: %v", doc.Title)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	kinds := []string{doc.Sections[0].Kind(), doc.Sections[1].Kind(), doc.Sections[2].Kind()}
	if strings.Join(kinds, ",") != "meta,favorites,cells" {
		t.Fatalf("unexpected section kinds: %v", kinds)
	}

	meta := doc.Sections[0].Meta
	if len(meta.Entries) != 2 {
		t.Fatalf("expected 2 meta entries, got %d", len(meta.Entries))
	}
	if meta.Entries[0].Key != "author" || string(*meta.Entries[0].Value.String) != "Elektro s.r.o." {
		t.Fatalf("unexpected author entry: %+v", meta.Entries[0])
	}
	list := meta.Entries[1].Value.List
	if list == nil || len(list.Items) != 2 || string(list.Items[1].Value) != "přízemí" {
		t.Fatalf("unexpected keywords: %+v", list)
	}

	favs := doc.Sections[1].Favorites.Items
	if len(favs) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(favs))
	}
	if favs[0].ID != "jistic" || favs[0].Size != "2x" || favs[0].Text == nil || string(*favs[0].Text) != "Jistič" {
		t.Fatalf("unexpected favorite: %+v", favs[0])
	}
	if favs[1].Text != nil || favs[1].Size != "1" {
		t.Fatalf("favorite without text should keep Text nil: %+v", favs[1])
	}

	items := doc.Sections[2].Cells.Items
	if len(items) != 4 {
		t.Fatalf("expected 4 cell statements, got %d", len(items))
	}
	if items[0].Cell == nil || items[0].Cell.Size != "3x" || string(items[0].Cell.Text) != "Hlavní vypínač" {
		t.Fatalf("unexpected first cell: %+v", items[0])
	}
	if items[1].Cell == nil || items[1].Cell.ID == nil || *items[1].Cell.ID != "r1" {
		t.Fatalf("expected explicit id r1, got %+v", items[1].Cell)
	}
	if items[2].Use == nil || items[2].Use.Ref != "jistic" {
		t.Fatalf("expected use statement, got %+v", items[2])
	}
}

func TestParseRejectsMissingBrace(t *testing.T) {
	if _, err := dsl.ParseString(`sheet "x" { cells { cell 1 "A" }`); err == nil {
		t.Fatalf("expected syntax error for unterminated sheet")
	}
}

func TestParseEmptySheet(t *testing.T) {
	doc, err := dsl.ParseString("sheet {\n}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Title != nil || len(doc.Sections) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}
