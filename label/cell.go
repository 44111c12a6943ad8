package label

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidSize 表示宽度倍数不在 1~4 之间。
	ErrInvalidSize = errors.New("label: 宽度倍数必须为 1、2、3 或 4")
	// ErrEmptyText 表示标签文本为空。
	ErrEmptyText = errors.New("label: 标签文本不能为空")
	// ErrDuplicateID 表示标签表文件中多个单元格声明了同一个 id。
	ErrDuplicateID = errors.New("label: 单元格 id 重复")
)

// Size 是单元格相对基础宽度的倍数。
type Size int

const (
	MinSize Size = 1
	MaxSize Size = 4
)

// Valid 判断倍数是否在允许范围内。
func (s Size) Valid() bool { return s >= MinSize && s <= MaxSize }

func (s Size) String() string { return strconv.Itoa(int(s)) + "x" }

// ParseSize 解析 "3" 或 "3x" 形式的倍数。
func ParseSize(value string) (Size, error) {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(value)), "x")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, value)
	}
	s := Size(n)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, value)
	}
	return s, nil
}

// Cell 是一个标签单元：文本加宽度倍数，高度固定。
type Cell struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Size Size   `json:"size"`
}

// NewCell 校验并创建单元格，文本统一为 NFC 形式，ID 随机生成。
func NewCell(text string, size Size) (Cell, error) {
	text = NormalizeText(text)
	if text == "" {
		return Cell{}, ErrEmptyText
	}
	if !size.Valid() {
		return Cell{}, fmt.Errorf("%w: %d", ErrInvalidSize, int(size))
	}
	return Cell{ID: uuid.NewString(), Text: text, Size: size}, nil
}

// NormalizeText 去掉首尾空白并转换为 NFC。
// 组合形式的变音符（例如 "č"）在字体里往往没有对应字形，预组合后才能正常显示。
func NormalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
