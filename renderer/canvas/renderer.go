package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/labelsheet/fonts"
	"github.com/ByLCY/labelsheet/layout"
	"github.com/ByLCY/labelsheet/renderer"
)

const defaultBorderWidth = 0.2

// Renderer draws layout results via github.com/tdewolff/canvas.
// Registered font families live as long as the renderer and are shared by
// every Render call, so one renderer can serve many exports.
type Renderer struct {
	defaultFont []byte

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily
	fallbackFamily *canvas.FontFamily
}

var _ renderer.Surface = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	// DefaultFont is used for unknown or builtin font names; fonts.Default() when empty.
	DefaultFont []byte
}

// NewRenderer creates a canvas-based renderer with the builtin default font.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with an injected default font.
func NewRendererWithOptions(opts Options) *Renderer {
	data := opts.DefaultFont
	if len(data) == 0 {
		data = fonts.Default()
	}
	return &Renderer{
		defaultFont:  data,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
}

// EnsureFont 实现 renderer.FontInstaller：同名字体只注册一次。
func (r *Renderer) EnsureFont(name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("字体名称不能为空")
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if _, ok := r.fontFamilies[name]; ok {
		return nil
	}
	family := canvas.NewFontFamily(name)
	if err := loadFamily(family, data); err != nil {
		return fmt.Errorf("注册字体 %s 失败: %w", name, err)
	}
	r.fontFamilies[name] = family
	return nil
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page); err != nil {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 约定：fontSize/lineHeight 入参均为毫米（mm）。字体系统使用 pt，在边界做 mm↔pt 换算。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, toPt(fontSize), layout.Black)
	if err != nil {
		return nil, err
	}

	lines := layout.Wrap(content, width, face.TextWidth, wrap)
	textHeight := face.Metrics().LineHeight
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := math.Max(lineHeight-textHeight, 0)
	for i := range lines {
		lines[i].Height = textHeight
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	for _, cell := range page.Cells {
		r.drawRect(ctx, cell.Rect)
		if err := r.drawTextBox(ctx, cell.Text); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	// TextBox 的坐标/行高为 mm，字号为 pt。
	face, err := r.fontFace(layout.FontResource{Name: tb.Font}, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.LineHeight}}
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	ascent := face.Metrics().Ascent
	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = tb.LineHeight
		}
		if line.Content != "" {
			// 基线 = 行顶部 + 字体上升部
			ctx.DrawText(anchorX, cursorY+ascent, canvas.NewTextLine(face, line.Content, textAlign))
		}
		cursorY += lineHeight
	}
	return nil
}

func (r *Renderer) drawRect(ctx *canvas.Context, rc layout.Rect) {
	w := rc.StrokeWidth
	if w <= 0 {
		w = defaultBorderWidth
	}
	if rc.FillColor != nil {
		ctx.SetFillColor(colorFromLayout(*rc.FillColor))
	} else {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	}
	ctx.SetStrokeColor(colorFromLayout(rc.StrokeColor))
	ctx.SetStrokeWidth(w)
	ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
}

func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.family(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), canvas.FontRegular, canvas.FontNormal), nil
}

// family 返回已注册的字体族；未注册或 builtin 时回退到默认字体。
func (r *Renderer) family(font layout.FontResource) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if !font.IsBuiltin {
		if family, ok := r.fontFamilies[font.Name]; ok {
			return family, nil
		}
	}
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	family := canvas.NewFontFamily(fonts.DefaultName)
	if err := loadFamily(family, r.defaultFont); err != nil {
		return nil, fmt.Errorf("加载默认字体失败: %w", err)
	}
	r.fallbackFamily = family
	return family, nil
}

// loadFamily 把字体数据载入字体族；解析器对损坏数据的 panic 转为错误。
func loadFamily(family *canvas.FontFamily, data []byte) (err error) {
	if len(data) == 0 {
		return fmt.Errorf("字体数据为空")
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("解析字体数据失败: %v", p)
		}
	}()
	return family.LoadFont(data, 0, canvas.FontRegular)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
