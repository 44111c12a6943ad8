package label

import (
	"fmt"
	"io"
	"strings"

	"github.com/ByLCY/labelsheet/binding"
	"github.com/ByLCY/labelsheet/dsl"
)

// Load 解析标签表文件并转换为 Sheet。
func Load(r io.Reader, data any) (*Sheet, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析标签表失败: %w", err)
	}
	return FromDocument(doc, data)
}

// FromDocument 将 AST 转换为 Sheet，文本中的 ${...} 用 data 填充。
// 文件未声明 favorites 时使用 DefaultFavorites。
func FromDocument(doc *dsl.Document, data any) (*Sheet, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	sheet := &Sheet{}
	if doc.Title != nil {
		sheet.Title = binding.Interpolate(string(*doc.Title), data)
	}

	declaredFavorites := false
	for _, section := range doc.Sections {
		switch {
		case section.Meta != nil:
			applyMeta(sheet, section.Meta, data)
		case section.Favorites != nil:
			declaredFavorites = true
			for _, item := range section.Favorites.Items {
				fav, err := convertFavorite(item, data)
				if err != nil {
					return nil, err
				}
				sheet.Favorites = append(sheet.Favorites, fav)
			}
		}
	}
	if !declaredFavorites {
		sheet.Favorites = DefaultFavorites()
	}

	// favorites 可能声明在 cells 之后，所以单元格放在第二遍处理。
	ids := map[string]bool{}
	for _, section := range doc.Sections {
		if section.Cells == nil {
			continue
		}
		for _, stmt := range section.Cells.Items {
			if err := appendStatement(sheet, stmt, data, ids); err != nil {
				return nil, fmt.Errorf("%s: %w", stmt.Pos, err)
			}
		}
	}
	return sheet, nil
}

func applyMeta(sheet *Sheet, meta *dsl.MetaSection, data any) {
	for _, entry := range meta.Entries {
		switch strings.ToLower(entry.Key) {
		case "title":
			sheet.Title = binding.Interpolate(valueToString(entry.Value), data)
		case "author":
			sheet.Meta.Author = binding.Interpolate(valueToString(entry.Value), data)
		case "subject":
			sheet.Meta.Subject = binding.Interpolate(valueToString(entry.Value), data)
		case "keywords":
			sheet.Meta.Keywords = valueToStringSlice(entry.Value)
		}
	}
}

func convertFavorite(item *dsl.Favorite, data any) (Favorite, error) {
	size, err := ParseSize(item.Size)
	if err != nil {
		return Favorite{}, fmt.Errorf("%s: 快捷方式 %s: %w", item.Pos, item.ID, err)
	}
	name := binding.Interpolate(string(item.Name), data)
	text := name
	if item.Text != nil {
		text = binding.Interpolate(string(*item.Text), data)
	}
	return Favorite{ID: item.ID, Name: name, CellText: NormalizeText(text), CellSize: size}, nil
}

// appendStatement 追加一个单元格；ids 记录文件中已显式声明的 id。
func appendStatement(sheet *Sheet, stmt *dsl.CellStatement, data any, ids map[string]bool) error {
	switch {
	case stmt.Cell != nil:
		size, err := ParseSize(stmt.Cell.Size)
		if err != nil {
			return err
		}
		if stmt.Cell.ID != nil {
			if ids[*stmt.Cell.ID] {
				return fmt.Errorf("%w: %s", ErrDuplicateID, *stmt.Cell.ID)
			}
			ids[*stmt.Cell.ID] = true
		}
		if _, err := sheet.Add(binding.Interpolate(string(stmt.Cell.Text), data), size); err != nil {
			return err
		}
		if stmt.Cell.ID != nil {
			sheet.Cells[len(sheet.Cells)-1].ID = *stmt.Cell.ID
		}
		return nil
	case stmt.Use != nil:
		_, err := sheet.AddFavorite(stmt.Use.Ref)
		return err
	}
	return nil
}

func valueToString(val *dsl.Value) string {
	switch {
	case val == nil:
		return ""
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.List != nil:
		return strings.Join(valueToStringSlice(val), ", ")
	}
	return ""
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.List == nil {
		if s := valueToString(val); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(val.List.Items))
	for _, item := range val.List.Items {
		out = append(out, string(item.Value))
	}
	return out
}
