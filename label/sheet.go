package label

import (
	"fmt"
	"strings"
)

// Meta 会写入 PDF 文档信息。
type Meta struct {
	Author   string   `json:"author,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Favorite 是常用标签的快捷方式。
type Favorite struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	CellText string `json:"cellText"`
	CellSize Size   `json:"cellSize"`
}

// DefaultFavorites 返回配电箱常用的几种标签。
func DefaultFavorites() []Favorite {
	return []Favorite{
		{ID: "fav1", Name: "3x - Hlavní vypínač", CellText: "Hlavní vypínač", CellSize: 3},
		{ID: "fav2", Name: "4x - Přepěťová ochrana", CellText: "Přepěťová ochrana", CellSize: 4},
		{ID: "fav3", Name: "1x - Rezerva", CellText: "Rezerva", CellSize: 1},
		{ID: "fav4", Name: "1x - Jistič", CellText: "Jistič", CellSize: 2},
		{ID: "fav5", Name: "1x - Rack", CellText: "Rack", CellSize: 1},
	}
}

// Sheet 保存一张标签表的全部状态。单元格顺序即排版顺序。
type Sheet struct {
	Title     string     `json:"title"`
	Meta      Meta       `json:"meta"`
	Cells     []Cell     `json:"cells"`
	Favorites []Favorite `json:"favorites"`
}

// Add 在末尾追加一个新单元格。
func (s *Sheet) Add(text string, size Size) (Cell, error) {
	cell, err := NewCell(text, size)
	if err != nil {
		return Cell{}, err
	}
	s.Cells = append(s.Cells, cell)
	return cell, nil
}

// Remove 按 ID 删除单元格，返回是否找到。
func (s *Sheet) Remove(id string) bool {
	for i, c := range s.Cells {
		if c.ID == id {
			s.Cells = append(s.Cells[:i:i], s.Cells[i+1:]...)
			return true
		}
	}
	return false
}

// Favorite 按 ID 查找快捷方式。
func (s *Sheet) Favorite(id string) (Favorite, bool) {
	for _, f := range s.Favorites {
		if strings.EqualFold(f.ID, id) {
			return f, true
		}
	}
	return Favorite{}, false
}

// AddFavorite 用快捷方式的文本与倍数追加单元格。
func (s *Sheet) AddFavorite(id string) (Cell, error) {
	fav, ok := s.Favorite(id)
	if !ok {
		return Cell{}, fmt.Errorf("未知的快捷方式 %q", id)
	}
	return s.Add(fav.CellText, fav.CellSize)
}
