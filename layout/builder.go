package layout

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/quillpdf/quill/binding"
	"github.com/quillpdf/quill/font"
	"github.com/quillpdf/quill/schema"
	"github.com/quillpdf/quill/text"
	"github.com/quillpdf/quill/unit"
)

const defaultStrokeWidth = 0.2

// Build 将模板与输入数据展开为可直接渲染的页面布局。
// 数据先经占位符插值，再逐 schema 解析字体、求动态字号并按最终字号拆行。
// 字体表配置错误（fallback 数量不为一）在任何布局发生前返回。
func Build(ctx context.Context, tpl *schema.Template, data any, opts BuildOptions) (*Result, error) {
	if tpl == nil {
		return nil, fmt.Errorf("模板为空")
	}
	// 空字体表不算配置错误：所有文本退回内置默认字体。
	if len(opts.Fonts) > 0 {
		if err := schema.CheckFontTable(opts.Fonts); err != nil {
			return nil, err
		}
	}
	provider := opts.Provider
	if provider == nil {
		provider = font.NewProvider(nil, nil)
	}

	pages := make([]Page, 0, len(tpl.Pages))
	for pageIdx, pageDef := range tpl.Pages {
		width, height, err := pageDef.Dimensions()
		if err != nil {
			return nil, fmt.Errorf("第 %d 页：%w", pageIdx+1, err)
		}
		page := Page{Width: width, Height: height}

		for _, s := range pageDef.Schemas {
			switch s.Type {
			case schema.TypeText:
				tb, err := buildTextBox(ctx, s, data, provider, opts.Fonts)
				if err != nil {
					return nil, fmt.Errorf("第 %d 页文本 %q：%w", pageIdx+1, s.Name, err)
				}
				page.Texts = append(page.Texts, tb)
			case schema.TypeImage:
				page.Images = append(page.Images, ImageBox{
					Name:   s.Name,
					Src:    binding.Interpolate(s.Content, data),
					X:      s.Position.X,
					Y:      s.Position.Y,
					Width:  s.Width,
					Height: s.Height,
					Fit:    s.Fit,
				})
			case schema.TypeBarcode:
				page.Barcodes = append(page.Barcodes, BarcodeBox{
					Name:   s.Name,
					Value:  binding.Interpolate(s.Content, data),
					Type:   s.BarcodeType,
					X:      s.Position.X,
					Y:      s.Position.Y,
					Width:  s.Width,
					Height: s.Height,
				})
			case schema.TypeLine:
				page.Lines = append(page.Lines, Line{
					X1:    s.Position.X,
					Y1:    s.Position.Y,
					X2:    s.Position.X + s.Width,
					Y2:    s.Position.Y + s.Height,
					Color: parseHexColor(s.Color),
					Width: s.BorderWidth,
				})
			case schema.TypeRect:
				page.Rects = append(page.Rects, Rect{
					X:           s.Position.X,
					Y:           s.Position.Y,
					Width:       s.Width,
					Height:      s.Height,
					StrokeColor: parseHexColor(s.Color),
					StrokeWidth: strokeWidth(s.BorderWidth),
				})
			case schema.TypeEllipse:
				page.Ellipses = append(page.Ellipses, Ellipse{
					CX:          s.Position.X + s.Width/2,
					CY:          s.Position.Y + s.Height/2,
					RX:          s.Width / 2,
					RY:          s.Height / 2,
					StrokeColor: parseHexColor(s.Color),
					StrokeWidth: strokeWidth(s.BorderWidth),
				})
			default:
				return nil, fmt.Errorf("第 %d 页：暂不支持的 schema 类型 %q", pageIdx+1, s.Type)
			}
		}
		pages = append(pages, page)
	}

	return &Result{Pages: pages}, nil
}

// buildTextBox 对单个文本 schema 做完整排版：插值、字体解析、动态字号、
// 按最终字号拆行并计算水平/垂直对齐偏移。行高度的量法与动态字号搜索
// 保持一致：首行按字体可视高度，后续行按字号，均乘以行高倍数。
func buildTextBox(ctx context.Context, s schema.Schema, data any, provider *font.Provider, fonts schema.FontTable) (TextBox, error) {
	value := binding.Interpolate(s.Content, data)

	f, err := provider.Resolve(ctx, s.FontName, fonts)
	if err != nil {
		return TextBox{}, err
	}

	fontSize := text.CalculateDynamicFontSize(s, f, value, 0)
	if fontSize == 0 {
		fontSize = text.DefaultFontSize
	}
	lineHeight := s.LineHeight
	if lineHeight == 0 {
		lineHeight = text.DefaultLineHeight
	}
	align := s.NormalizedAlignment()

	budgetPt := unit.Mm2Pt(s.Width)
	firstLineHeight := unit.Pt2Mm(text.HeightOfFontAtSize(f, fontSize) * lineHeight)
	otherLineHeight := unit.Pt2Mm(fontSize * lineHeight)

	var lines []TextLine
	contentHeight := 0.0
	for _, paragraph := range text.Paragraphs(value) {
		for _, raw := range text.SplitParagraph(paragraph, budgetPt, f, fontSize, s.CharacterSpacing) {
			w := unit.Pt2Mm(text.WidthOfTextAtSize(raw, f, fontSize, s.CharacterSpacing))
			h := otherLineHeight
			if len(lines) == 0 {
				h = firstLineHeight
			}
			lines = append(lines, TextLine{
				Content: raw,
				X:       alignOffset(align, s.Width, w),
				Width:   w,
				Height:  h,
			})
			contentHeight += h
		}
	}

	verticalAlign := s.NormalizedVerticalAlignment()
	offsetY := 0.0
	switch verticalAlign {
	case schema.VerticalMiddle:
		offsetY = (s.Height - contentHeight) / 2
	case schema.VerticalBottom:
		offsetY = s.Height - contentHeight
	}

	return TextBox{
		Name:             s.Name,
		Content:          value,
		X:                s.Position.X,
		Y:                s.Position.Y,
		Width:            s.Width,
		Height:           s.Height,
		Font:             f.Name,
		FontSize:         fontSize,
		LineHeight:       lineHeight,
		CharacterSpacing: s.CharacterSpacing,
		Align:            align,
		VerticalAlign:    verticalAlign,
		Color:            parseHexColor(s.FontColor),
		Lines:            lines,
		ContentHeight:    contentHeight,
		OffsetY:          offsetY,
	}, nil
}

func alignOffset(align string, boxWidth, lineWidth float64) float64 {
	switch align {
	case schema.AlignCenter:
		return (boxWidth - lineWidth) / 2
	case schema.AlignRight:
		return boxWidth - lineWidth
	default:
		return 0
	}
}

func strokeWidth(w float64) float64 {
	if w <= 0 {
		return defaultStrokeWidth
	}
	return w
}

// parseHexColor 解析 #rrggbb / #rgb 形式的颜色，解析失败时退回黑色。
func parseHexColor(s string) Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return Color{}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}
	}
	return Color{
		R: int(v >> 16 & 0xff),
		G: int(v >> 8 & 0xff),
		B: int(v & 0xff),
	}
}
