package layout

import (
	"github.com/quillpdf/quill/font"
	"github.com/quillpdf/quill/schema"
)

// BuildOptions 配置布局阶段所需的依赖。
type BuildOptions struct {
	// Provider 负责字体解析与度量缓存，为空时使用默认的
	// 内置字体 + HTTP 获取组合。
	Provider *font.Provider
	// Fonts 是模板引用的字体表，可以为空（此时全部退回内置字体）。
	Fonts schema.FontTable
}
