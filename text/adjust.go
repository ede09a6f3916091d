package text

import (
	"github.com/quillpdf/quill/font"
	"github.com/quillpdf/quill/schema"
	"github.com/quillpdf/quill/unit"
)

// Offsets are the vertical pixel corrections the interactive editor applies
// so its native line-box rendering lines up with the baseline-driven static
// layout. The final-render path never needs them.
type Offsets struct {
	TopPx    float64
	BottomPx float64
}

// AlignmentOffsets 计算编辑器渲染与最终排版之间的垂直像素修正。
//
// top 对齐：编辑器把字形垂直居中在其原生行盒中，而静态排版按真实 ascent
// 对齐，因此上移设计行高与字号差值的一半。middle/bottom 对齐：仅当配置的
// 行高倍数小于字体设计行高比例时，下方补偿差额的一半；否则配置行高已占
// 主导，两种渲染自然一致。
func AlignmentOffsets(f *font.Resolved, fontSize, lineHeight float64, verticalAlignment string) Offsets {
	ratio := f.HeightRatio()
	if verticalAlignment == schema.VerticalTop {
		top := (fontSize*ratio - fontSize) / 2
		return Offsets{TopPx: unit.Pt2Px(top)}
	}
	if lineHeight < ratio {
		bottom := fontSize * (ratio - lineHeight) / 2
		return Offsets{BottomPx: unit.Pt2Px(bottom)}
	}
	return Offsets{}
}
