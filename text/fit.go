package text

import (
	"math"

	"github.com/quillpdf/quill/font"
	"github.com/quillpdf/quill/schema"
	"github.com/quillpdf/quill/unit"
)

// Engine defaults shared by the resolver and the layout stage.
const (
	DefaultFontSize         = 13.0
	DefaultLineHeight       = 1.0
	DefaultCharacterSpacing = 0.0

	// FontSizeStep is the fixed increment used by both the grow and the
	// shrink phase of the dynamic size search.
	FontSizeStep = 0.25
)

// CalculateDynamicFontSize 在 schema 配置的 [min, max] 区间内寻找合适的字号。
// 无动态配置时返回 startingSize（0 表示未指定，退回 schema.FontSize 或默认值）；
// max < min 视为可容忍的错误配置，直接返回未调整的字号。
//
// 搜索顺序固定为先增后减：起始字号未溢出时按步长增长（即使是水平适配，
// 增长也受盒子高度约束）；随后若宽或高仍超出边界则按同样步长收缩，收缩后
// 不再回头增长。比较一律使用严格大于/小于，恰好落在边界上不再调整。
func CalculateDynamicFontSize(s schema.Schema, f *font.Resolved, value string, startingSize float64) float64 {
	fontSize := startingSize
	if fontSize == 0 {
		fontSize = s.FontSize
	}
	if fontSize == 0 {
		fontSize = DefaultFontSize
	}
	dyn := s.DynamicFontSize
	if dyn == nil || dyn.Max < dyn.Min {
		return fontSize
	}
	if fontSize < dyn.Min {
		fontSize = dyn.Min
	} else if fontSize > dyn.Max {
		fontSize = dyn.Max
	}

	fit := dyn.Fit
	if fit == "" {
		fit = schema.FitVertical
	}
	lineHeight := s.LineHeight
	if lineHeight == 0 {
		lineHeight = DefaultLineHeight
	}

	paragraphs := Paragraphs(value)
	boxWidthPt := unit.Mm2Pt(s.Width)

	// measure 返回当前字号下的总宽与总高（mm）。宽度只在水平适配模式下
	// 统计，且按未拆行的整段测量（水平适配的目标是避免折行）。
	measure := func(size float64) (totalWidthMm, totalHeightMm float64) {
		firstLineHeightMm := unit.Pt2Mm(HeightOfFontAtSize(f, size) * lineHeight)
		otherLineHeightMm := unit.Pt2Mm(size * lineHeight)
		for paraIdx, paragraph := range paragraphs {
			if fit == schema.FitHorizontal {
				w := unit.Pt2Mm(WidthOfTextAtSize(paragraph, f, size, s.CharacterSpacing))
				if w > totalWidthMm {
					totalWidthMm = w
				}
			}
			lines := SplitParagraph(paragraph, boxWidthPt, f, size, s.CharacterSpacing)
			for lineIdx := range lines {
				if paraIdx == 0 && lineIdx == 0 {
					totalHeightMm += firstLineHeightMm
				} else {
					totalHeightMm += otherLineHeightMm
				}
			}
		}
		return totalWidthMm, totalHeightMm
	}

	totalWidth, totalHeight := measure(fontSize)

	shouldGrow := func() bool {
		if fontSize >= dyn.Max {
			return false
		}
		if fit == schema.FitHorizontal {
			return totalWidth < s.Width
		}
		return totalHeight < s.Height
	}
	shouldShrink := func() bool {
		if fontSize <= dyn.Min || fontSize <= 0 {
			return false
		}
		return totalWidth > s.Width || totalHeight > s.Height
	}

	// 步进在边界处截断，保证结果始终落在 [min, max] 内，
	// 即使起始字号与步长不对齐。
	for shouldGrow() {
		prev := fontSize
		fontSize = math.Min(fontSize+FontSizeStep, dyn.Max)
		newWidth, newHeight := measure(fontSize)
		if newHeight < s.Height {
			totalWidth, totalHeight = newWidth, newHeight
		} else {
			fontSize = prev
			break
		}
	}

	for shouldShrink() {
		fontSize = math.Max(fontSize-FontSizeStep, dyn.Min)
		totalWidth, totalHeight = measure(fontSize)
	}

	return fontSize
}
