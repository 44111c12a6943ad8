package renderer

import "github.com/ByLCY/labelsheet/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// FontInstaller 以逻辑名称注册字体。EnsureFont 是幂等的：
// 同名字体已注册时直接返回 nil；数据无法使用时返回错误。
type FontInstaller interface {
	EnsureFont(name string, data []byte) error
}

// Surface 是导出所需的完整绘图能力：注册字体、折行度量与输出文档。
type Surface interface {
	Renderer
	FontInstaller
	layout.Typesetter
}
