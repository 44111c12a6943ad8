package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	"github.com/ByLCY/labelsheet/export"
	"github.com/ByLCY/labelsheet/fonts"
	"github.com/ByLCY/labelsheet/label"
	"github.com/ByLCY/labelsheet/layout"
	"github.com/ByLCY/labelsheet/preview"
	"github.com/ByLCY/labelsheet/renderer"
	canvasrenderer "github.com/ByLCY/labelsheet/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/labelsheet/renderer/fpdf"
)

// Globals 是所有子命令共用的参数。
type Globals struct {
	LogLevel string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"日志级别"`
	Data     string `name:"data" help:"绑定到标签表的 JSON 数据"`

	logger *slog.Logger
	stdout io.Writer
}

func (g *Globals) out() io.Writer {
	if g.stdout == nil {
		return os.Stdout
	}
	return g.stdout
}

var cli struct {
	Globals

	Export    exportCmd    `cmd:"" help:"导出 PDF (export_tabulky.pdf)"`
	Preview   previewCmd   `cmd:"" help:"在终端预览分页与排布"`
	Favorites favoritesCmd `cmd:"" help:"列出常用标签"`
}

// GeometryFlags 覆盖默认页面几何参数，接受 "1cm"、"4pt"、"10mm" 等写法。
type GeometryFlags struct {
	Margin  string `name:"margin" default:"1cm" help:"页边距"`
	Padding string `name:"padding" default:"4pt" help:"单元格内边距"`
}

func (f GeometryFlags) geometry() (layout.Geometry, error) {
	geo := layout.DefaultGeometry()
	for _, v := range []struct {
		name  string
		value string
		dst   *float64
	}{{"margin", f.Margin, &geo.Margin}, {"padding", f.Padding, &geo.Padding}} {
		if v.value == "" {
			continue
		}
		l, err := layout.ParseLength(v.value)
		if err != nil {
			return geo, fmt.Errorf("无法解析 --%s %q: %w", v.name, v.value, err)
		}
		if l.Unit == layout.UnitNone {
			l.Unit = layout.UnitMM
		}
		*v.dst = l.ToMM()
	}
	return geo, nil
}

type exportCmd struct {
	GeometryFlags

	In       string `name:"in" required:"" type:"existingfile" help:"标签表文件路径"`
	OutDir   string `name:"out-dir" default:"." type:"path" help:"PDF 输出目录"`
	FontURL  string `name:"font-url" xor:"font" help:"站点根地址，从 ${font_path} 下载自定义字体"`
	FontFile string `name:"font-file" xor:"font" type:"path" help:"本地自定义字体文件（两者都省略时读取当前目录下的 ${font_path}）"`
	Backend  string `name:"backend" default:"canvas" enum:"canvas,fpdf" help:"渲染后端"`
	Debug    string `name:"debug" type:"path" help:"布局调试 JSON 输出路径"`
	// MarkOverflow 用浅红色填充最小字号仍放不下文本的单元格。
	MarkOverflow bool `name:"mark-overflow" help:"填充文本溢出的单元格"`
}

var overflowFill = layout.Color{R: 255, G: 228, B: 228}

type previewCmd struct {
	GeometryFlags

	In      string `name:"in" required:"" type:"existingfile" help:"标签表文件路径"`
	Columns int    `name:"columns" default:"10" help:"每个基础单元格的字符列数"`
}

type favoritesCmd struct {
	In string `name:"in" type:"existingfile" help:"标签表文件路径（省略时列出默认常用标签）"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("labelsheet"),
		kong.Description("配电箱标签表排版与 PDF 导出"),
		kong.UsageOnError(),
		kong.Vars{"font_path": fonts.Path},
	)
	cli.Globals.logger = newLogger(cli.LogLevel)
	if err := ctx.Run(&cli.Globals); err != nil {
		log.Fatalf("%s 失败: %v", ctx.Command(), err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func (c *exportCmd) Run(g *Globals) error {
	sheet, err := loadSheet(c.In, g.Data)
	if err != nil {
		return err
	}
	surface, err := newSurface(c.Backend)
	if err != nil {
		return err
	}
	geo, err := c.geometry()
	if err != nil {
		return err
	}

	var loader fonts.Loader = fonts.FileLoader{Path: fonts.LocalPath(".")}
	switch {
	case c.FontURL != "":
		loader = fonts.NewHTTPLoader(c.FontURL)
	case c.FontFile != "":
		loader = fonts.FileLoader{Path: c.FontFile}
	}
	cache := fonts.NewCache(loader, g.logger)

	opts := export.Options{Fonts: cache, Surface: surface, Geometry: geo, Logger: g.logger}
	if c.MarkOverflow {
		fill := overflowFill
		opts.OverflowFill = &fill
	}
	exp, err := export.New(opts)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	doc, err := exp.ExportSheet(ctx, sheet)
	if err != nil {
		return err
	}
	if c.Debug != "" {
		if err := layout.WriteDebugJSON(doc.Layout, c.Debug); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	path, err := doc.WriteTo(c.OutDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.out(), "已生成 PDF：%s（%d 页，%s）\n", path, doc.Pages, humanize.Bytes(uint64(len(doc.Bytes))))
	return nil
}

func (c *previewCmd) Run(g *Globals) error {
	sheet, err := loadSheet(c.In, g.Data)
	if err != nil {
		return err
	}
	geo, err := c.geometry()
	if err != nil {
		return err
	}
	res, err := layout.Build(sheet.Cells, layout.BuildOptions{
		Geometry:   geo,
		Typesetter: canvasrenderer.NewRenderer(),
		Font:       layout.FontResource{Name: fonts.DefaultName, IsBuiltin: true},
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	opts := preview.DefaultOptions()
	opts.ColumnsPerUnit = c.Columns
	return preview.Render(g.out(), res, opts)
}

func (c *favoritesCmd) Run(g *Globals) error {
	favorites := label.DefaultFavorites()
	if c.In != "" {
		sheet, err := loadSheet(c.In, g.Data)
		if err != nil {
			return err
		}
		favorites = sheet.Favorites
	}
	for _, f := range favorites {
		fmt.Fprintf(g.out(), "%-8s %-3s %-28s %s\n", f.ID, f.CellSize, f.Name, f.CellText)
	}
	return nil
}

func newSurface(backend string) (renderer.Surface, error) {
	switch strings.ToLower(backend) {
	case "", "canvas":
		return canvasrenderer.NewRenderer(), nil
	case "fpdf":
		return fpdfrenderer.NewRenderer(), nil
	default:
		return nil, fmt.Errorf("未知的渲染后端 %q", backend)
	}
}

// loadSheet 读取标签表文件，dataJSON 非空时用于展开 ${...}。
func loadSheet(path, dataJSON string) (*label.Sheet, error) {
	var data any
	if dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
			return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开标签表文件 %s: %w", path, err)
	}
	defer f.Close()
	return label.Load(f, data)
}
