package fonts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// ErrNotFound 表示字体资源不存在（例如 HTTP 404 或文件缺失）。
var ErrNotFound = errors.New("fonts: 字体文件不存在")

// maxFontSize 限制下载的字体大小。
const maxFontSize = 32 << 20

// Loader 获取字体字节数据。
type Loader interface {
	Load(ctx context.Context) ([]byte, error)
}

// LoaderFunc 让普通函数实现 Loader。
type LoaderFunc func(ctx context.Context) ([]byte, error)

func (f LoaderFunc) Load(ctx context.Context) ([]byte, error) { return f(ctx) }

// HTTPLoader 通过 HTTP GET 下载字体。
type HTTPLoader struct {
	URL    string
	Client *http.Client
}

// NewHTTPLoader 返回从 baseURL 下固定路径 Path 下载字体的 Loader。
func NewHTTPLoader(baseURL string) *HTTPLoader {
	return &HTTPLoader{URL: strings.TrimRight(baseURL, "/") + Path}
}

// Load 实现 Loader。非 2xx 状态码视为字体不存在。
func (l *HTTPLoader) Load(ctx context.Context) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("构造字体请求失败: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("下载字体 %s 失败: %w", l.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s (状态码 %d)", ErrNotFound, l.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFontSize))
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", l.URL, err)
	}
	return data, nil
}

// FileLoader 从本地文件读取字体。
type FileLoader struct {
	Path string
}

// Load 实现 Loader。
func (l FileLoader) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, l.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", l.Path, err)
	}
	return data, nil
}
