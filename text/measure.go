package text

import (
	"math"
	"unicode/utf8"

	"github.com/quillpdf/quill/font"
)

// WidthOfTextAtSize 计算字符串在给定字号/字距下的渲染宽度（pt）。
// 每个字形的 advance 先缩放到 1000 单位的 em 空间，再缩放到目标字号；
// 字距按码点数−1 计入，空串与单字符不产生字距项。
func WidthOfTextAtSize(value string, f *font.Resolved, fontSize, characterSpacing float64) float64 {
	scale := 1000 / f.UnitsPerEm
	width := 0.0
	for _, r := range value {
		width += f.GlyphAdvance(r) * scale * fontSize / 1000
	}
	if n := utf8.RuneCountInString(value); n > 1 {
		width += characterSpacing * float64(n-1)
	}
	return width
}

// HeightOfFontAtSize 计算字体在给定字号下的可视高度（pt）：
// 以 (ascent − descent)/unitsPerEm 缩放到字号，再减去 descent 的绝对值贡献。
// 垂直方向的适配计算使用该值，而非字体的原始设计行高。
func HeightOfFontAtSize(f *font.Resolved, fontSize float64) float64 {
	scale := 1000 / f.UnitsPerEm
	height := (f.Ascent - f.Descent) * scale * fontSize / 1000
	height -= math.Abs(f.Descent*scale) * fontSize / 1000
	return height
}
