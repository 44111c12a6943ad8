package layout

import (
	"math"
	"strings"
	"unicode"
)

// 折行策略。
const (
	WrapAnywhere  = "anywhere"   // 优先在空白处折行，单词过长时在词内拆分
	WrapBreakWord = "break-word" // 纯按宽度逐字拆分
	WrapNoWrap    = "nowrap"     // 只按显式换行拆分
)

// MeasureFunc 返回字符串在当前字体与字号下的宽度（mm）。
type MeasureFunc func(s string) float64

// Wrap 使用贪心算法把 content 按 width 拆成多行，返回的行宽已去掉行尾空白。
// 渲染后端用各自的字体度量实现 measure。
func Wrap(content string, width float64, measure MeasureFunc, wrap string) []TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	switch wrap {
	case WrapNoWrap:
		parts := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
		lines := make([]TextLine, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, TextLine{Content: p, Width: measure(p)})
		}
		return lines
	case WrapBreakWord:
		return wrapRunes(content, limit, measure)
	}

	w := &lineWriter{measure: measure}
	for _, token := range tokenize(content) {
		if token == "\n" {
			w.emit(true)
			continue
		}
		tokenWidth := measure(token)
		if w.width > 0 && w.width+tokenWidth > limit {
			w.emit(false)
		}
		if tokenWidth <= limit {
			w.append(token, tokenWidth)
			continue
		}
		for _, chunk := range splitByWidth(token, limit, measure) {
			chunkWidth := measure(chunk)
			if w.width > 0 && w.width+chunkWidth > limit {
				w.emit(false)
			}
			w.append(chunk, chunkWidth)
		}
	}
	w.emit(true)
	return w.lines
}

type lineWriter struct {
	measure MeasureFunc
	lines   []TextLine
	builder strings.Builder
	width   float64
}

func (w *lineWriter) append(s string, width float64) {
	// 行首空白没有意义，直接丢弃
	if w.builder.Len() == 0 && strings.TrimSpace(s) == "" {
		return
	}
	w.builder.WriteString(s)
	w.width += width
}

func (w *lineWriter) emit(force bool) {
	if w.builder.Len() == 0 {
		if force {
			w.lines = append(w.lines, TextLine{})
		}
		return
	}
	raw := w.builder.String()
	content := strings.TrimRightFunc(raw, unicode.IsSpace)
	width := w.width
	if content != raw {
		width = w.measure(content)
	}
	w.lines = append(w.lines, TextLine{Content: content, Width: width})
	w.builder.Reset()
	w.width = 0
}

func wrapRunes(content string, limit float64, measure MeasureFunc) []TextLine {
	w := &lineWriter{measure: measure}
	for _, r := range content {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			w.emit(true)
			continue
		}
		s := string(r)
		cw := measure(s)
		if w.width > 0 && w.width+cw > limit {
			w.emit(false)
		}
		w.append(s, cw)
	}
	w.emit(true)
	return w.lines
}

func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

// splitByWidth 把超宽的单词按字符拆成不超过 limit 的片段（单个字符除外）。
func splitByWidth(token string, limit float64, measure MeasureFunc) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var current []rune
	for _, r := range token {
		current = append(current, r)
		if len(current) > 1 && measure(string(current)) > limit {
			parts = append(parts, string(current[:len(current)-1]))
			current = []rune{r}
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}
