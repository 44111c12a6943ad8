package preview

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/labelsheet/layout"
)

// Options 控制终端预览的尺寸。
type Options struct {
	// ColumnsPerUnit 是一个基础单元格占用的字符列数，默认 10。
	ColumnsPerUnit int
	// MarkOverflow 在最小字号仍放不下的单元格末尾标注 "!"。
	MarkOverflow bool
}

// DefaultOptions 返回默认预览选项。
func DefaultOptions() Options { return Options{ColumnsPerUnit: 10, MarkOverflow: true} }

// Render 以字符网格打印每一页的单元格，按行排列。
// 文本按显示宽度截断，中日韩等宽字符也能对齐。
func Render(w io.Writer, res *layout.Result, opts Options) error {
	if res == nil {
		return fmt.Errorf("预览: 布局结果为空")
	}
	if opts.ColumnsPerUnit < 2 {
		opts.ColumnsPerUnit = DefaultOptions().ColumnsPerUnit
	}
	bw := bufio.NewWriter(w)
	for i, page := range res.Pages {
		fmt.Fprintf(bw, "Strana %d/%d (%d)\n", i+1, len(res.Pages), len(page.Cells))
		for _, row := range rows(page.Cells) {
			writeRow(bw, row, opts)
		}
	}
	return bw.Flush()
}

func rows(cells []layout.CellBox) [][]layout.CellBox {
	var out [][]layout.CellBox
	for i, c := range cells {
		if i == 0 || c.Row != cells[i-1].Row {
			out = append(out, nil)
		}
		out[len(out)-1] = append(out[len(out)-1], c)
	}
	return out
}

func writeRow(w io.Writer, row []layout.CellBox, opts Options) {
	var top, mid strings.Builder
	for _, c := range row {
		inner := c.Size*opts.ColumnsPerUnit - 1
		top.WriteString("+" + strings.Repeat("-", inner))
		mid.WriteString("|" + cellLabel(c, inner, opts.MarkOverflow))
	}
	fmt.Fprintf(w, "%s+\n%s|\n%s+\n", top.String(), mid.String(), top.String())
}

func cellLabel(c layout.CellBox, width int, markOverflow bool) string {
	text := strings.Join(strings.Fields(c.Text.Content), " ")
	if markOverflow && c.Overflow {
		text = runewidth.Truncate(text, width-1, "~") + "!"
	} else {
		text = runewidth.Truncate(text, width, "~")
	}
	pad := width - runewidth.StringWidth(text)
	left := pad / 2
	return strings.Repeat(" ", left) + runewidth.FillRight(text, width-left)
}
