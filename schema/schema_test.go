package schema

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const demoTemplate = `{
  "name": "invoice",
  "pages": [
    {
      "size": "A4",
      "schemas": [
        {
          "type": "text",
          "name": "title",
          "position": {"x": 20, "y": 20},
          "width": 120,
          "height": 12,
          "content": "Invoice ${invoice.number}",
          "fontSize": 18,
          "alignment": "center",
          "verticalAlignment": "middle",
          "dynamicFontSize": {"min": 8, "max": 24, "fit": "horizontal"}
        },
        {
          "type": "barcode",
          "position": {"x": 150, "y": 260},
          "width": 40,
          "height": 20,
          "barcodeType": "qrcode",
          "content": "${invoice.number}"
        }
      ]
    }
  ]
}`

// TestParseTemplate 验证模板 JSON 的校验与解码。
func TestParseTemplate(t *testing.T) {
	tpl, err := Parse([]byte(demoTemplate))
	if err != nil {
		t.Fatalf("解析模板失败: %v", err)
	}
	if tpl.Name != "invoice" || len(tpl.Pages) != 1 {
		t.Fatalf("模板结构不符: %+v", tpl)
	}
	want := Schema{
		Type:              TypeText,
		Name:              "title",
		Position:          Position{X: 20, Y: 20},
		Width:             120,
		Height:            12,
		Content:           "Invoice ${invoice.number}",
		FontSize:          18,
		Alignment:         "center",
		VerticalAlignment: "middle",
		DynamicFontSize:   &DynamicFontSize{Min: 8, Max: 24, Fit: FitHorizontal},
	}
	if diff := cmp.Diff(want, tpl.Pages[0].Schemas[0]); diff != "" {
		t.Fatalf("text schema 不符 (-want +got):\n%s", diff)
	}
}

// TestValidateRejectsBrokenTemplates 验证结构校验会在布局之前拒绝坏模板。
func TestValidateRejectsBrokenTemplates(t *testing.T) {
	cases := map[string]string{
		"missing pages":   `{"name": "x"}`,
		"empty pages":     `{"pages": []}`,
		"bad type":        `{"pages": [{"schemas": [{"type": "video", "position": {"x":0,"y":0}, "width": 1, "height": 1}]}]}`,
		"missing pos":     `{"pages": [{"schemas": [{"type": "text", "width": 1, "height": 1}]}]}`,
		"negative width":  `{"pages": [{"schemas": [{"type": "text", "position": {"x":0,"y":0}, "width": -1, "height": 1}]}]}`,
		"zero min":        `{"pages": [{"schemas": [{"type": "text", "position": {"x":0,"y":0}, "width": 1, "height": 1, "dynamicFontSize": {"min": 0, "max": 10}}]}]}`,
		"bad fit":         `{"pages": [{"schemas": [{"type": "text", "position": {"x":0,"y":0}, "width": 1, "height": 1, "dynamicFontSize": {"min": 4, "max": 10, "fit": "diagonal"}}]}]}`,
	}
	for name, doc := range cases {
		if err := Validate([]byte(doc)); err == nil {
			t.Fatalf("%s: 期望校验失败，实际通过", name)
		}
	}
}

// TestPageDimensions 覆盖预设纸张、横向与自定义尺寸。
func TestPageDimensions(t *testing.T) {
	eq := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

	w, h, err := Page{}.Dimensions()
	if err != nil || !eq(w, 210) || !eq(h, 297) {
		t.Fatalf("默认页面应为 A4: w=%g h=%g err=%v", w, h, err)
	}
	w, h, err = Page{Size: "A5 landscape"}.Dimensions()
	if err != nil || !eq(w, 210) || !eq(h, 148) {
		t.Fatalf("A5 landscape 错误: w=%g h=%g err=%v", w, h, err)
	}
	w, h, err = Page{Size: "148mm 210mm"}.Dimensions()
	if err != nil || !eq(w, 148) || !eq(h, 210) {
		t.Fatalf("自定义尺寸错误: w=%g h=%g err=%v", w, h, err)
	}
	if _, _, err = (Page{Size: "B9"}).Dimensions(); err == nil {
		t.Fatalf("未知纸张应报错")
	}
	if _, _, err = (Page{Size: "abc def"}).Dimensions(); err == nil {
		t.Fatalf("非法尺寸应报错")
	}
}

// TestCheckFontTable 验证「恰好一个 fallback」规则。
func TestCheckFontTable(t *testing.T) {
	ok := FontTable{
		"Gothic": {Fallback: true},
		"Mincho": {},
	}
	if err := CheckFontTable(ok); err != nil {
		t.Fatalf("合法字体表不应报错: %v", err)
	}
	name, err := FallbackName(ok)
	if err != nil || name != "Gothic" {
		t.Fatalf("fallback 名称错误: %q err=%v", name, err)
	}

	none := FontTable{"Gothic": {}, "Mincho": {}}
	if err := CheckFontTable(none); !errors.Is(err, ErrNoFallbackFont) {
		t.Fatalf("缺少 fallback 应返回 ErrNoFallbackFont，实际 %v", err)
	}

	two := FontTable{"Gothic": {Fallback: true}, "Mincho": {Fallback: true}}
	if err := CheckFontTable(two); !errors.Is(err, ErrMultipleFallbackFont) {
		t.Fatalf("多个 fallback 应返回 ErrMultipleFallbackFont，实际 %v", err)
	}
}

// TestNormalizedAlignments 验证对齐别名映射与默认值。
func TestNormalizedAlignments(t *testing.T) {
	if got := (Schema{Alignment: "end"}).NormalizedAlignment(); got != AlignRight {
		t.Fatalf("end 应映射为 right，实际 %q", got)
	}
	if got := (Schema{}).NormalizedAlignment(); got != AlignLeft {
		t.Fatalf("默认水平对齐应为 left，实际 %q", got)
	}
	if got := (Schema{VerticalAlignment: "center"}).NormalizedVerticalAlignment(); got != VerticalMiddle {
		t.Fatalf("center 应映射为 middle，实际 %q", got)
	}
	if got := (Schema{}).NormalizedVerticalAlignment(); got != VerticalTop {
		t.Fatalf("默认垂直对齐应为 top，实际 %q", got)
	}
}
