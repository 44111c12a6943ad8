package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sheetLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)x?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][,:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	sheetParser = participle.MustBuild[Document](
		participle.Lexer(sheetLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a .labels sheet file.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Title    *StringLiteral `parser:"Newline* 'sheet' @String?"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section is one of meta / favorites / cells.
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Favorites *FavoritesSection `parser:"| @@"`
	Cells     *CellsSection     `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Favorites != nil:
		return "favorites"
	case s.Cells != nil:
		return "cells"
	default:
		return "unknown"
	}
}

// MetaSection captures document info assignments.
type MetaSection struct {
	Entries []*Assignment `parser:"'meta' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' @@"`
}

// Value is a string, a number or a list of strings.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	List   *ListValue     `parser:"| @@"`
}

// ListValue captures `[ "a", "b" ]`.
type ListValue struct {
	Items []*ListItem `parser:"'[' Newline* ( @@ ( (',' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// ListItem is a single string inside a list.
type ListItem struct {
	Value StringLiteral `parser:"@String"`
}

// FavoritesSection lists favorite shortcuts.
type FavoritesSection struct {
	Items []*Favorite `parser:"'favorites' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Favorite: favorite <id> "<button name>" <size> ["<cell text>"].
// When the cell text is omitted the button name is used.
type Favorite struct {
	Pos  lexer.Position `parser:"" json:"-"`
	ID   string         `parser:"'favorite' @Ident"`
	Name StringLiteral  `parser:"@String"`
	Size string         `parser:"@Number"`
	Text *StringLiteral `parser:"@String?"`
}

// CellsSection lists the cells in layout order.
type CellsSection struct {
	Items []*CellStatement `parser:"'cells' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// CellStatement is either an explicit cell or a favorite reference.
type CellStatement struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Cell *CellDecl      `parser:"  @@"`
	Use  *UseDecl       `parser:"| @@"`
}

// CellDecl: cell <size> "<text>" [id <ident>].
type CellDecl struct {
	Size string        `parser:"'cell' @Number"`
	Text StringLiteral `parser:"@String"`
	ID   *string       `parser:"( 'id' @Ident )?"`
}

// UseDecl: use <favorite-id>.
type UseDecl struct {
	Ref string `parser:"'use' @Ident"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a sheet file from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return sheetParser.Parse("", r)
}

// ParseString parses sheet content from a string.
func ParseString(input string) (*Document, error) {
	return sheetParser.ParseString("", input)
}
