package font

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed assets/*.ttf
var fontFS embed.FS

// DefaultName is the cache key of the built-in default font.
const DefaultName = "DejaVuSans"

// Load 返回内置字体的字节数据，path 可写为 "embed:DejaVuSans.ttf" 或直接 "DejaVuSans.ttf".
func Load(path string) ([]byte, error) {
	path = strings.TrimPrefix(path, "embed:")
	target := "assets/" + strings.TrimPrefix(path, "assets/")
	data, err := fontFS.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("读取内置字体 %s 失败: %w", target, err)
	}
	return data, nil
}

// Builtin returns the embedded default font program. It backs the last step
// of the resolution chain: schema font name → table fallback → this font.
func Builtin() ([]byte, error) {
	return Load(DefaultName + ".ttf")
}
