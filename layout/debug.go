package layout

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

// WriteDebug 将布局结果以缩进 JSON 写入 w，便于检查单元格坐标与字号。
func WriteDebug(w io.Writer, res *Result) error {
	if res == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteDebugJSON 将布局结果输出到 path，必要时创建目录。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDebug(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
