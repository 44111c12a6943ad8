package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/labelsheet/fonts"
	"github.com/ByLCY/labelsheet/label"
	"github.com/ByLCY/labelsheet/layout"
	"github.com/ByLCY/labelsheet/renderer"
)

// FileName 是导出文件的固定名称。
const FileName = "export_tabulky.pdf"

// Options 配置 Exporter。Geometry/Fit 为零值时使用默认值。
type Options struct {
	// Fonts 提供自定义字体；为 nil 时直接使用渲染器默认字体。
	Fonts    *fonts.Cache
	Surface  renderer.Surface
	Geometry layout.Geometry
	Fit      layout.FitOptions
	// OverflowFill 非空时填充最小字号仍放不下文本的单元格。
	OverflowFill *layout.Color
	Logger       *slog.Logger
}

// Exporter 把单元格序列导出为分页 PDF。
// 一个 Exporter 可以并发使用，字体只加载、注册一次。
type Exporter struct {
	fonts    *fonts.Cache
	surface  renderer.Surface
	geometry layout.Geometry
	fit      layout.FitOptions
	overflow *layout.Color
	logger   *slog.Logger
}

// Document 是一次导出的结果。
type Document struct {
	Name   string
	Bytes  []byte
	Pages  int
	Layout *layout.Result
	// FontFallback 为 true 表示未能使用自定义字体。
	FontFallback bool
}

// New 创建 Exporter。
func New(opts Options) (*Exporter, error) {
	if opts.Surface == nil {
		return nil, errors.New("export: 缺少渲染后端 Surface")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		fonts:    opts.Fonts,
		surface:  opts.Surface,
		geometry: opts.Geometry,
		fit:      opts.Fit,
		overflow: opts.OverflowFill,
		logger:   logger,
	}, nil
}

// Export 按顺序排版 cells 并生成 PDF。字体问题只会记录警告并回退到默认字体，
// 不会导致导出失败。
func (e *Exporter) Export(ctx context.Context, cells []label.Cell) (*Document, error) {
	return e.export(ctx, cells, layout.DocumentMeta{})
}

// ExportSheet 导出整张标签表，并把标题与元信息写入 PDF。
func (e *Exporter) ExportSheet(ctx context.Context, sheet *label.Sheet) (*Document, error) {
	if sheet == nil {
		return nil, errors.New("export: 标签表为空")
	}
	return e.export(ctx, sheet.Cells, layout.DocumentMeta{
		Title:    sheet.Title,
		Author:   sheet.Meta.Author,
		Subject:  sheet.Meta.Subject,
		Keywords: sheet.Meta.Keywords,
	})
}

// ExportFile 导出并把 PDF 写入 dir/FileName，返回文件路径。
func (e *Exporter) ExportFile(ctx context.Context, cells []label.Cell, dir string) (string, error) {
	doc, err := e.Export(ctx, cells)
	if err != nil {
		return "", err
	}
	return doc.WriteTo(dir)
}

// WriteTo 把文档写入 dir 目录，必要时创建目录。
func (d *Document) WriteTo(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	path := filepath.Join(dir, d.Name)
	if err := os.WriteFile(path, d.Bytes, 0o644); err != nil {
		return "", fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return path, nil
}

func (e *Exporter) export(ctx context.Context, cells []label.Cell, meta layout.DocumentMeta) (*Document, error) {
	font, fallback := e.prepareFont(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("导出已取消: %w", err)
	}

	result, err := layout.Build(cells, layout.BuildOptions{
		Typesetter:   e.surface,
		Font:         font,
		Geometry:     e.geometry,
		Fit:          e.fit,
		Meta:         meta,
		OverflowFill: e.overflow,
	})
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}
	if n := overflowCount(result); n > 0 {
		e.logger.Debug("部分单元格以最小字号仍未放下", "cells", n)
	}

	data, err := e.surface.Render(result)
	if err != nil {
		return nil, fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	e.logger.Info("导出完成", "cells", len(cells), "pages", len(result.Pages), "font", font.Name)
	return &Document{
		Name:         FileName,
		Bytes:        data,
		Pages:        len(result.Pages),
		Layout:       result,
		FontFallback: fallback,
	}, nil
}

// prepareFont 尽力加载并注册自定义字体；任何失败都回退到渲染器默认字体。
func (e *Exporter) prepareFont(ctx context.Context) (layout.FontResource, bool) {
	builtin := layout.FontResource{Name: fonts.DefaultName, IsBuiltin: true}
	if e.fonts == nil {
		return builtin, true
	}
	// 加载失败已由 fonts.Cache 记录为错误。
	data, err := e.fonts.Get(ctx)
	if err == nil {
		if err = e.surface.EnsureFont(fonts.CustomName, data); err != nil {
			e.logger.Error("注册自定义字体失败", "font", fonts.CustomName, "error", err)
		}
	}
	if err != nil {
		e.logger.Warn("自定义字体设置失败，回退到默认字体", "error", err)
		return builtin, true
	}
	return layout.FontResource{Name: fonts.CustomName, Family: fonts.CustomName}, false
}

func overflowCount(res *layout.Result) int {
	n := 0
	for _, p := range res.Pages {
		for _, c := range p.Cells {
			if c.Overflow {
				n++
			}
		}
	}
	return n
}
