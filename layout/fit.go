package layout

import (
	"fmt"
	"math"
)

// TextFit 是缩放搜索的结果。Width/Height 为文本块实际尺寸（mm）。
type TextFit struct {
	FontSize   float64 // pt
	LineHeight float64 // mm
	Lines      []TextLine
	Width      float64
	Height     float64
	// Overflow 表示已到最小字号但文本块仍超出给定区域。
	Overflow bool
	// Attempts 记录尝试过的字号个数。
	Attempts int
}

// FitText 从 fit.MaxSize 开始按 fit.Step 递减字号，直到折行后的文本块
// 宽高都不超过 width × height，或字号降到 fit.MinSize。
// 到达最小字号仍放不下时照常返回结果，由调用方决定是否溢出绘制。
func FitText(content string, width, height float64, font FontResource, fit FitOptions, ts Typesetter) (TextFit, error) {
	if ts == nil {
		return TextFit{}, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	fit = fit.orDefault()

	size := fit.MaxSize
	var result TextFit
	for {
		measured, err := measureBlock(content, width, font, size, fit, ts)
		if err != nil {
			return TextFit{}, err
		}
		measured.Attempts = result.Attempts + 1
		result = measured

		fits := !exceeds(result.Height, height) && !exceeds(result.Width, width)
		if fits || size <= fit.MinSize {
			result.Overflow = !fits
			return result, nil
		}
		size = math.Max(size-fit.Step, fit.MinSize)
	}
}

func measureBlock(content string, width float64, font FontResource, size float64, fit FitOptions, ts Typesetter) (TextFit, error) {
	sizeMM := Pt(size).ToMM()
	lineHeight := fit.LineHeight.Resolve(Pt(size), UnitMM)
	lines, err := ts.LayoutLines(content, width, font, sizeMM, lineHeight, fit.Wrap)
	if err != nil {
		return TextFit{}, fmt.Errorf("排版文本 %q 失败: %w", content, err)
	}
	if len(lines) == 0 {
		lines = []TextLine{{Height: lineHeight}}
	}
	blockWidth, blockHeight := 0.0, 0.0
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = lineHeight
		}
		blockWidth = math.Max(blockWidth, lines[i].Width)
		blockHeight += lines[i].GapBefore + lines[i].Height
	}
	return TextFit{
		FontSize:   size,
		LineHeight: lineHeight,
		Lines:      lines,
		Width:      blockWidth,
		Height:     blockHeight,
	}, nil
}

// exceeds 比较时容忍浮点误差。
func exceeds(v, limit float64) bool { return v-limit > epsilon }
