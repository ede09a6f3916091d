package canvasrenderer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/quillpdf/quill/font"
	"github.com/quillpdf/quill/layout"
	"github.com/quillpdf/quill/renderer"
	"github.com/quillpdf/quill/schema"
)

const (
	defaultStrokeWidth  = 0.2
	barcodeLabelSizePt  = 8.0
	barcodeLabelMarginY = 1.0
)

// Renderer 通过 github.com/tdewolff/canvas 将布局结果绘制为 PDF。
// 画布坐标系与布局一致：左上角为原点，单位毫米。
type Renderer struct {
	baseDir   string
	title     string
	fonts     schema.FontTable
	retriever font.Retriever

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options 配置 canvas 渲染器。
type Options struct {
	// BaseDir 是解析图片/字体相对路径的根目录，为空时禁止相对路径。
	BaseDir string
	// Title 写入 PDF 元信息。
	Title string
	// Fonts 是模板的字体表，渲染器按 TextBox.Font 在其中取字体字节。
	Fonts schema.FontTable
	// Retriever 负责获取 Src 形式的字体数据，为空时使用默认 HTTP 获取器。
	Retriever font.Retriever
}

// NewRenderer 以默认配置创建渲染器。
func NewRenderer(baseDir string) *Renderer {
	return NewRendererWithOptions(Options{BaseDir: baseDir})
}

// NewRendererWithOptions 按 Options 创建渲染器。
func NewRendererWithOptions(opts Options) *Renderer {
	retriever := opts.Retriever
	if retriever == nil {
		retriever = &font.HTTPRetriever{}
	}
	return &Renderer{
		baseDir:      opts.BaseDir,
		title:        opts.Title,
		fonts:        opts.Fonts,
		retriever:    retriever,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
}

// Render 将布局结果渲染为 PDF 字节切片。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	writer.SetInfo(r.title, "", "", "", "quill")
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// drawPage 先绘制背景图形，再绘制文本、图片与条码占位。
func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	r.drawLines(ctx, page.Lines)
	r.drawRects(ctx, page.Rects)
	r.drawEllipses(ctx, page.Ellipses)

	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	if err := r.drawImages(ctx, page.Images); err != nil {
		return err
	}
	return r.drawBarcodes(ctx, page.Barcodes)
}

// drawTextBox 逐行绘制文本：行坐标已由布局阶段确定，这里只负责把
// 行顶部换算成基线（顶部 + 字体上升部，pt→mm）后落笔。
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	face, err := r.fontFace(tb.Font, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}

	cursorY := tb.Y + tb.OffsetY
	metrics := face.Metrics()
	for _, line := range tb.Lines {
		if line.Content != "" {
			textLine := canvas.NewTextLine(face, line.Content, canvas.Left)
			baseline := cursorY + metrics.Ascent
			ctx.DrawText(tb.X+line.X, baseline, textLine)
		}
		cursorY += line.Height
	}
	return nil
}

func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox) error {
	for _, img := range images {
		if img.Src == "" {
			continue
		}
		data, err := r.loadBytes(img.Src)
		if err != nil {
			return fmt.Errorf("读取图片 %s 失败: %w", img.Name, err)
		}
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("解码图片 %s 失败: %w", img.Name, err)
		}

		width := img.Width
		if width <= 0 {
			width = float64(decoded.Bounds().Dx()) / 4.0
		}
		dpmm := float64(decoded.Bounds().Dx()) / width
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(img.X, img.Y, decoded, canvas.DPMM(dpmm))
	}
	return nil
}

// drawBarcodes 以边框 + 居中文本占位：符号生成由外部协作方完成，
// 渲染器只保证占位框的位置与尺寸正确。
func (r *Renderer) drawBarcodes(ctx *canvas.Context, barcodes []layout.BarcodeBox) error {
	for _, bc := range barcodes {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(canvas.Black)
		ctx.SetStrokeWidth(defaultStrokeWidth)
		ctx.DrawPath(bc.X, bc.Y, canvas.Rectangle(bc.Width, bc.Height))

		if bc.Value == "" {
			continue
		}
		face, err := r.fontFace("", barcodeLabelSizePt, layout.Color{})
		if err != nil {
			return err
		}
		label := canvas.NewTextLine(face, bc.Value, canvas.Center)
		ctx.DrawText(bc.X+bc.Width/2, bc.Y+bc.Height-barcodeLabelMarginY, label)
	}
	return nil
}

func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(colorFromLayout(rc.StrokeColor))
		ctx.SetStrokeWidth(strokeWidth(rc.StrokeWidth))
		ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
	}
}

func (r *Renderer) drawEllipses(ctx *canvas.Context, ellipses []layout.Ellipse) {
	for _, el := range ellipses {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(colorFromLayout(el.StrokeColor))
		ctx.SetStrokeWidth(strokeWidth(el.StrokeWidth))
		ctx.DrawPath(el.CX-el.RX, el.CY-el.RY, canvas.Ellipse(el.RX, el.RY))
	}
}

func (r *Renderer) fontFace(name string, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(name)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[name]; ok {
		return family, nil
	}

	data, err := r.fontBytes(name)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	r.fontFamilies[name] = family
	return family, nil
}

// fontBytes 取字体的原始字节：优先字体表的 Data，其次经 Retriever 获取
// Src，名字不在表中时退回内置默认字体。
func (r *Renderer) fontBytes(name string) ([]byte, error) {
	res, ok := r.fonts[name]
	if !ok {
		return r.builtinBytes()
	}
	if len(res.Data) > 0 {
		return res.Data, nil
	}
	if res.Src != "" {
		return r.retriever.Retrieve(context.Background(), res.Src)
	}
	return nil, fmt.Errorf("字体 %s 缺少数据来源", name)
}

func (r *Renderer) builtinBytes() ([]byte, error) {
	return font.Builtin()
}

// loadBytes 解析图片来源：URL、base64 数据或（相对）路径。
func (r *Renderer) loadBytes(src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") ||
		strings.HasPrefix(src, "data:") || strings.HasPrefix(src, "base64,") {
		return r.retriever.Retrieve(context.Background(), src)
	}
	path := src
	if !filepath.IsAbs(path) {
		if r.baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许使用相对路径：%s", src)
		}
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func strokeWidth(w float64) float64 {
	if w <= 0 {
		return defaultStrokeWidth
	}
	return w
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
