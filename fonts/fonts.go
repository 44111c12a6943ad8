package fonts

import (
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

const (
	// Path 是自定义字体相对于站点根目录的固定路径。
	Path = "/fonts/NotoSans-Regular.ttf"
	// CustomName 是自定义字体注册到渲染器时使用的逻辑名称。
	CustomName = "NotoSansCustom"
	// DefaultName 是内置回退字体的逻辑名称。
	DefaultName = "GoRegular"
)

// ErrInvalidFont 表示字节数据无法解析为 TrueType/OpenType 字体。
var ErrInvalidFont = errors.New("fonts: 无效的字体数据")

// LocalPath 返回 root 目录下与 Path 对应的本地字体文件路径。
func LocalPath(root string) string { return filepath.Join(root, filepath.FromSlash(Path)) }

// Default 返回内置的 Go Regular 字体，覆盖拉丁扩展字符，用作渲染器的默认字体。
func Default() []byte { return goregular.TTF }

// Validate 检查 data 是否为可解析的字体文件。
func Validate(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: 数据为空", ErrInvalidFont)
	}
	if _, err := sfnt.Parse(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	return nil
}
