package layout

import (
	"fmt"

	"github.com/ByLCY/labelsheet/label"
)

const epsilon = 1e-9

// Build 按输入顺序把单元格从左到右、从上到下排入页面：
// 当前行放不下时换行，换行后页面放不下时换页；行高固定。
// 比页面可用宽度更宽的单元格照常放置（会超出页面），不拆分也不缩小。
func Build(cells []label.Cell, opts BuildOptions) (*Result, error) {
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	geo := opts.Geometry.orDefault()
	fit := opts.Fit.orDefault()
	font := opts.Font
	if font.Name == "" {
		font = FontResource{Name: "default", IsBuiltin: true}
	}

	collector := newPageCollector(geo)
	cursor := &flowCursor{geo: geo}
	cursor.reset()

	for i, cell := range cells {
		if !cell.Size.Valid() {
			return nil, fmt.Errorf("单元格 #%d (%s): %w", i, cell.ID, label.ErrInvalidSize)
		}
		width := geo.CellWidth(int(cell.Size))
		if cursor.wrapIfNeeded(width) && cursor.pageOverflow() {
			collector.newPage()
			cursor.y = geo.Margin
			cursor.row = 0
		}

		box, err := placeCell(cell, i, cursor, width, font, fit, opts.Typesetter)
		if err != nil {
			return nil, fmt.Errorf("单元格 #%d (%s): %w", i, cell.ID, err)
		}
		if box.Overflow && opts.OverflowFill != nil {
			fill := *opts.OverflowFill
			box.Rect.FillColor = &fill
		}
		collector.curr().cells = append(collector.curr().cells, box)
		cursor.x += width
	}

	meta := opts.Meta
	if meta.Creator == "" {
		meta.Creator = "labelsheet"
	}
	return &Result{
		Pages:     collector.pages(),
		Resources: ResourceSet{Fonts: map[string]FontResource{font.Name: font}},
		Meta:      meta,
	}, nil
}

// flowCursor 是当前页内的排版位置，换页时 y 复位。
type flowCursor struct {
	geo  Geometry
	x, y float64
	row  int
}

func (c *flowCursor) reset() {
	c.x = c.geo.Margin
	c.y = c.geo.Margin
	c.row = 0
}

// wrapIfNeeded 在当前行放不下 width 时换到下一行，返回是否换行。
func (c *flowCursor) wrapIfNeeded(width float64) bool {
	if !exceeds(c.x+width, c.geo.PageWidth-c.geo.Margin) {
		return false
	}
	c.x = c.geo.Margin
	c.y += c.geo.BaseHeight
	c.row++
	return true
}

// pageOverflow 判断当前行是否超出页面底部可用区域。
func (c *flowCursor) pageOverflow() bool {
	return exceeds(c.y+c.geo.BaseHeight, c.geo.PageHeight-c.geo.Margin)
}

func placeCell(cell label.Cell, index int, cursor *flowCursor, width float64, font FontResource, fit FitOptions, ts Typesetter) (CellBox, error) {
	geo := cursor.geo
	innerWidth := width - 2*geo.Padding
	innerHeight := geo.BaseHeight - 2*geo.Padding

	fitted, err := FitText(cell.Text, innerWidth, innerHeight, font, fit, ts)
	if err != nil {
		return CellBox{}, err
	}

	// 文本块顶部：内边距区域内垂直居中；水平方向以矩形中线居中。
	top := cursor.y + geo.Padding + (innerHeight-fitted.Height)/2
	return CellBox{
		ID:    cell.ID,
		Index: index,
		Row:   cursor.row,
		Size:  int(cell.Size),
		Rect: Rect{
			X:           cursor.x,
			Y:           cursor.y,
			Width:       width,
			Height:      geo.BaseHeight,
			StrokeColor: Black,
			StrokeWidth: geo.BorderWidth,
		},
		Text: TextBox{
			Content:    cell.Text,
			X:          cursor.x + geo.Padding,
			Y:          top,
			Width:      innerWidth,
			LineHeight: fitted.LineHeight,
			Font:       font.Name,
			FontSize:   fitted.FontSize,
			Color:      Black,
			Lines:      fitted.Lines,
			Height:     fitted.Height,
			Align:      "center",
		},
		Overflow: fitted.Overflow,
	}, nil
}

type pageAccumulator struct {
	cells []CellBox
}

type pageCollector struct {
	geo     Geometry
	accs    []*pageAccumulator
	current int
}

func newPageCollector(geo Geometry) *pageCollector {
	pc := &pageCollector{geo: geo}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	if len(pc.accs) == 0 {
		return pc.newPage()
	}
	return pc.accs[pc.current]
}

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = Page{
			Width:  pc.geo.PageWidth,
			Height: pc.geo.PageHeight,
			Margin: Uniform(pc.geo.Margin),
			Cells:  acc.cells,
		}
	}
	return out
}
