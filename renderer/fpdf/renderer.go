package fpdfrenderer

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/labelsheet/fonts"
	"github.com/ByLCY/labelsheet/layout"
	"github.com/ByLCY/labelsheet/renderer"
)

const (
	// coreFamily 是 PDF 标准字体，只覆盖 cp1252 字符。
	coreFamily         = "Helvetica"
	defaultBorderWidth = 0.2
)

// Renderer draws layout results via codeberg.org/go-pdf/fpdf.
// fpdf 的字体属于单个文档，所以注册过的 UTF-8 字体会在每次 Render 时重新加入新文档。
type Renderer struct {
	mu        sync.Mutex
	fonts     map[string][]byte
	order     []string
	measure   *fpdf.Fpdf
	translate func(string) string
}

var _ renderer.Surface = (*Renderer)(nil)

// NewRenderer creates an fpdf-based renderer whose default font is core Helvetica.
func NewRenderer() *Renderer {
	return &Renderer{
		fonts:     map[string][]byte{},
		translate: fpdf.New("P", "mm", "A4", "").UnicodeTranslatorFromDescriptor(""),
	}
}

// EnsureFont 实现 renderer.FontInstaller：同名字体只注册一次。
func (r *Renderer) EnsureFont(name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("字体名称不能为空")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.fonts[name]; ok {
		return nil
	}
	if err := fonts.Validate(data); err != nil {
		return fmt.Errorf("注册字体 %s 失败: %w", name, err)
	}
	probe := fpdf.New("P", "mm", "A4", "")
	if err := addFont(probe, name, data); err != nil {
		return fmt.Errorf("注册字体 %s 失败: %w", name, err)
	}
	r.fonts[name] = data
	r.order = append(r.order, name)
	r.measure = nil
	return nil
}

// LayoutLines 实现 layout.Typesetter。width、fontSize、lineHeight 均为 mm。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.measureDoc()
	if err != nil {
		return nil, err
	}
	tr := r.selectFont(doc, font, fontSize*layout.MmToPt)
	lines := layout.Wrap(content, width, func(s string) float64 { return doc.GetStringWidth(tr(s)) }, wrap)
	for i := range lines {
		lines[i].Height = lineHeight
	}
	if doc.Err() {
		return nil, fmt.Errorf("测量文本失败: %w", doc.Error())
	}
	return lines, nil
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	first := result.Pages[0]
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCellMargin(0)
	applyMeta(doc, result.Meta)
	for _, name := range r.order {
		if err := addFont(doc, name, r.fonts[name]); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
		}
	}

	for _, page := range result.Pages {
		doc.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		for _, cell := range page.Cells {
			drawRect(doc, cell.Rect)
			r.drawTextBox(doc, cell.Text)
		}
	}
	if doc.Err() {
		return nil, fmt.Errorf("绘制 PDF 失败: %w", doc.Error())
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawTextBox(doc *fpdf.Fpdf, tb layout.TextBox) {
	tr := r.selectFont(doc, layout.FontResource{Name: tb.Font}, tb.FontSize)
	doc.SetTextColor(tb.Color.R, tb.Color.G, tb.Color.B)

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Height: tb.LineHeight}}
	}
	align := "LM"
	switch strings.ToLower(tb.Align) {
	case "center":
		align = "CM"
	case "right", "end":
		align = "RM"
	}

	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		h := line.Height
		if h <= 0 {
			h = tb.LineHeight
		}
		doc.SetXY(tb.X, cursorY)
		doc.CellFormat(tb.Width, h, tr(line.Content), "", 0, align, false, 0, "")
		cursorY += h
	}
}

func drawRect(doc *fpdf.Fpdf, rc layout.Rect) {
	w := rc.StrokeWidth
	if w <= 0 {
		w = defaultBorderWidth
	}
	style := "D"
	if rc.FillColor != nil {
		doc.SetFillColor(rc.FillColor.R, rc.FillColor.G, rc.FillColor.B)
		style = "DF"
	}
	doc.SetDrawColor(rc.StrokeColor.R, rc.StrokeColor.G, rc.StrokeColor.B)
	doc.SetLineWidth(w)
	doc.Rect(rc.X, rc.Y, rc.Width, rc.Height, style)
}

// selectFont 设置当前字体并返回文本转换函数：UTF-8 字体原样输出，
// 标准字体需要先转为 cp1252（超出范围的字符无法正确显示）。
func (r *Renderer) selectFont(doc *fpdf.Fpdf, font layout.FontResource, sizePt float64) func(string) string {
	if _, ok := r.fonts[font.Name]; ok && !font.IsBuiltin {
		doc.SetFont(font.Name, "", sizePt)
		return func(s string) string { return s }
	}
	doc.SetFont(coreFamily, "", sizePt)
	return r.translate
}

// measureDoc 返回用于测量文本宽度的文档，调用方需持有 r.mu。
func (r *Renderer) measureDoc() (*fpdf.Fpdf, error) {
	if r.measure != nil {
		return r.measure, nil
	}
	doc := fpdf.New("P", "mm", "A4", "")
	for _, name := range r.order {
		if err := addFont(doc, name, r.fonts[name]); err != nil {
			return nil, err
		}
	}
	r.measure = doc
	return doc, nil
}

func applyMeta(doc *fpdf.Fpdf, meta layout.DocumentMeta) {
	doc.SetTitle(meta.Title, true)
	doc.SetSubject(meta.Subject, true)
	doc.SetAuthor(meta.Author, true)
	doc.SetCreator(meta.Creator, true)
	doc.SetKeywords(strings.Join(meta.Keywords, ", "), true)
}

// addFont 把 UTF-8 字体加入文档；fpdf 解析损坏字体时的 panic 转为错误。
func addFont(doc *fpdf.Fpdf, name string, data []byte) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("解析字体数据失败: %v", p)
		}
	}()
	doc.AddUTF8FontFromBytes(name, "", data)
	if doc.Err() {
		return doc.Error()
	}
	return nil
}
