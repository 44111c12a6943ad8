package layout

const defaultLineHeightFactor = 1.15

// BuildOptions 配置布局阶段所需的依赖与几何参数。
type BuildOptions struct {
	Typesetter Typesetter
	// Font 为所有单元格使用的字体；为空时使用渲染器默认字体。
	Font     FontResource
	Geometry Geometry
	Fit      FitOptions
	Meta     DocumentMeta
	// OverflowFill 非空时，最小字号仍放不下文本的单元格用该颜色填充。
	OverflowFill *Color
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// width、fontSize、lineHeight 均为毫米。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}

// Geometry 描述页面与单元格的物理尺寸（mm）。
type Geometry struct {
	PageWidth   float64 `json:"pageWidth"`
	PageHeight  float64 `json:"pageHeight"`
	Margin      float64 `json:"margin"`
	BaseWidth   float64 `json:"baseWidth"`  // 1x 单元格宽度
	BaseHeight  float64 `json:"baseHeight"` // 所有单元格高度
	Padding     float64 `json:"padding"`    // 单元格内边距
	BorderWidth float64 `json:"borderWidth"`
}

// DefaultGeometry 返回 A4 纵向、1cm 页边距、1.8cm × 1.36cm 基础单元、4pt 内边距。
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:   210,
		PageHeight:  297,
		Margin:      Cm(1).ToMM(),
		BaseWidth:   Cm(1.8).ToMM(),
		BaseHeight:  Cm(1.36).ToMM(),
		Padding:     Pt(4).ToMM(),
		BorderWidth: 0.2,
	}
}

// UsableWidth 返回页面宽度减去左右边距。
func (g Geometry) UsableWidth() float64 { return g.PageWidth - 2*g.Margin }

// UsableHeight 返回页面高度减去上下边距。
func (g Geometry) UsableHeight() float64 { return g.PageHeight - 2*g.Margin }

// CellWidth 返回给定倍数的单元格宽度。
func (g Geometry) CellWidth(size int) float64 { return g.BaseWidth * float64(size) }

func (g Geometry) orDefault() Geometry {
	if g.PageWidth <= 0 || g.PageHeight <= 0 || g.BaseWidth <= 0 || g.BaseHeight <= 0 {
		return DefaultGeometry()
	}
	return g
}

// FitOptions 控制缩小字号以适应单元格的线性搜索（字号单位 pt）。
type FitOptions struct {
	MaxSize    float64        `json:"maxSize"`
	MinSize    float64        `json:"minSize"`
	Step       float64        `json:"step"`
	LineHeight LineHeightSpec `json:"lineHeight"`
	Wrap       string         `json:"wrap,omitempty"`
}

// DefaultFit 返回 10pt → 6pt、步长 0.5pt、1.15 倍行高。
func DefaultFit() FitOptions {
	return FitOptions{
		MaxSize:    10,
		MinSize:    6,
		Step:       0.5,
		LineHeight: LineHeightSpec{Kind: LineHeightFactor, Factor: defaultLineHeightFactor},
		Wrap:       WrapAnywhere,
	}
}

func (f FitOptions) orDefault() FitOptions {
	d := DefaultFit()
	if f.MaxSize <= 0 {
		f.MaxSize = d.MaxSize
	}
	if f.MinSize <= 0 {
		f.MinSize = d.MinSize
	}
	if f.MinSize > f.MaxSize {
		f.MinSize = f.MaxSize
	}
	if f.Step <= 0 {
		f.Step = d.Step
	}
	if f.Wrap == "" {
		f.Wrap = d.Wrap
	}
	return f
}
