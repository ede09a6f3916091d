package text

import (
	"math"
	"testing"
)

func TestWidthOfTextAtSize(t *testing.T) {
	f := testFont(t)

	if w := WidthOfTextAtSize("", f, 12, 2); w != 0 {
		t.Fatalf("空串宽度应为 0，实际 %v", w)
	}
	// 单字符没有字距项
	if w0, w1 := WidthOfTextAtSize("a", f, 12, 0), WidthOfTextAtSize("a", f, 12, 5); w0 != w1 {
		t.Fatalf("单字符不应计入字距：%v != %v", w0, w1)
	}
	// n 个码点计入 n-1 份字距
	base := WidthOfTextAtSize("abc", f, 12, 0)
	spaced := WidthOfTextAtSize("abc", f, 12, 2)
	if diff := spaced - base - 4; math.Abs(diff) > 1e-9 {
		t.Fatalf("字距贡献应为 (3-1)×2=4pt，偏差 %v", diff)
	}
	// 宽度随字号线性缩放
	w10 := WidthOfTextAtSize("Hello", f, 10, 0)
	w20 := WidthOfTextAtSize("Hello", f, 20, 0)
	if math.Abs(w20-2*w10) > 1e-9 {
		t.Fatalf("宽度应随字号线性缩放：w20=%v w10=%v", w20, w10)
	}
	if wide, narrow := WidthOfTextAtSize("W", f, 12, 0), WidthOfTextAtSize("i", f, 12, 0); wide <= narrow {
		t.Fatalf("W 应宽于 i：%v <= %v", wide, narrow)
	}
}

func TestHeightOfFontAtSize(t *testing.T) {
	f := testFont(t)

	h12 := HeightOfFontAtSize(f, 12)
	if h12 <= 0 {
		t.Fatalf("高度应为正值，实际 %v", h12)
	}
	// 减去 descent 绝对值后必然小于设计行高
	if design := f.HeightRatio() * 12; h12 >= design {
		t.Fatalf("可视高度 %v 不应达到设计行高 %v", h12, design)
	}
	h24 := HeightOfFontAtSize(f, 24)
	if math.Abs(h24-2*h12) > 1e-9 {
		t.Fatalf("高度应随字号线性缩放：h24=%v h12=%v", h24, h12)
	}
}
