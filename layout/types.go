package layout

// 该文件定义布局结果与资源描述，供排版、渲染与调试 JSON 共用。
// 所有坐标与尺寸均为毫米（mm），原点在页面左上角；字号为点（pt）。

// Result 保存布局后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// CellCount 返回所有页面上的单元格总数。
func (r *Result) CellCount() int {
	n := 0
	for _, p := range r.Pages {
		n += len(p.Cells)
	}
	return n
}

// ResourceSet 记录排版时使用的字体。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource 描述字体。IsBuiltin 表示使用渲染器自带的默认字体。
type FontResource struct {
	Name      string `json:"name"`
	Family    string `json:"family"`
	IsBuiltin bool   `json:"isBuiltin"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Black 是边框与文字的颜色。
var Black = Color{}

// Page 记录页面尺寸、边距与本页的单元格。
type Page struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Margin Margin    `json:"margin"`
	Cells  []CellBox `json:"cells"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Uniform 返回四边相同的边距。
func Uniform(v float64) Margin { return Margin{Top: v, Right: v, Bottom: v, Left: v} }

// CellBox 是一个已定位的单元格：边框矩形加上居中的文本块。
type CellBox struct {
	ID    string  `json:"id"`
	Index int     `json:"index"` // 在输入序列中的位置
	Row   int     `json:"row"`   // 页内行号，从 0 开始
	Size  int     `json:"size"`
	Rect  Rect    `json:"rect"`
	Text  TextBox `json:"text"`
	// Overflow 表示最小字号下文本仍超出内边距区域。
	Overflow bool `json:"overflow,omitempty"`
}

// TextBox 表示一个已经排好坐标的文本块。
// X/Width 描述水平对齐容器，Y 为文本块顶部。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"` // pt
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      string     `json:"align,omitempty"` // left/center/right（默认 left）
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// Rect 表示一个矩形（不包含圆角）。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`         // mm
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
