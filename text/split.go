package text

import (
	"strings"

	"github.com/quillpdf/quill/font"
)

// Paragraphs splits input on explicit newlines. Lines never span paragraph
// boundaries.
func Paragraphs(value string) []string {
	return strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n")
}

// SplitParagraph 将一个段落（不含换行符）拆成依次填满宽度预算的行。
// 优先在空白处断行；当单个 token 比预算还宽时按字符强制断行以保证推进；
// 完全装不下第一个字符且无法再缩短时，整段作为一行返回（不变式：每轮剩余
// 文本严格变短，否则退出）。
func SplitParagraph(paragraph string, widthBudgetPt float64, f *font.Resolved, fontSize, characterSpacing float64) []string {
	var lines []string
	rest := paragraph
	for {
		line, remainder := splitOnce(rest, widthBudgetPt, f, fontSize, characterSpacing)
		lines = append(lines, line)
		if remainder == "" {
			return lines
		}
		rest = remainder
	}
}

// splitOnce takes the longest budget-fitting prefix off s. It returns the
// line and the remaining text; an empty remainder means s is exhausted.
func splitOnce(s string, budget float64, f *font.Resolved, fontSize, characterSpacing float64) (string, string) {
	runes := []rune(s)
	overflow := -1
	for i := 1; i <= len(runes); i++ {
		if WidthOfTextAtSize(string(runes[:i]), f, fontSize, characterSpacing) > budget {
			// 前 i 个码点超宽，保留其之前的部分
			overflow = i - 1
			break
		}
	}
	if overflow == -1 {
		return s, ""
	}

	cut := overflow
	for j := cut - 1; j >= 0; j-- {
		if runes[j] == ' ' {
			cut = j
			break
		}
	}

	rest := strings.TrimPrefix(string(runes[cut:]), " ")
	if rest == s {
		// 单个不可再短的超宽 token：整体作为一行返回，避免死循环
		return s, ""
	}
	return string(runes[:cut]), rest
}
