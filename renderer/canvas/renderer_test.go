package canvasrenderer

import (
	"bytes"
	"testing"

	"github.com/quillpdf/quill/layout"
)

func samplePage() layout.Page {
	return layout.Page{
		Width:  210,
		Height: 297,
		Texts: []layout.TextBox{{
			Content:    "hello world",
			X:          10,
			Y:          10,
			Width:      100,
			Height:     20,
			Font:       "DejaVuSans",
			FontSize:   12,
			LineHeight: 1.0,
			Lines: []layout.TextLine{
				{Content: "hello world", Width: 30, Height: 5},
			},
		}},
		Barcodes: []layout.BarcodeBox{{
			Value: "4912345678904", Type: "ean13", X: 20, Y: 50, Width: 40, Height: 12,
		}},
		Lines: []layout.Line{{X1: 0, Y1: 0, X2: 210, Y2: 0, Width: 0.3}},
		Rects: []layout.Rect{{X: 5, Y: 5, Width: 50, Height: 30}},
		Ellipses: []layout.Ellipse{{
			CX: 100, CY: 100, RX: 20, RY: 10,
		}},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer("")
	data, err := r.Render(&layout.Result{Pages: []layout.Page{samplePage()}})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF，前缀为 %q", data[:min(8, len(data))])
	}
}

func TestRenderMultiplePages(t *testing.T) {
	r := NewRenderer("")
	res := &layout.Result{Pages: []layout.Page{samplePage(), samplePage()}}
	data, err := r.Render(res)
	if err != nil {
		t.Fatalf("多页渲染失败: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("多页渲染输出为空")
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("nil 结果应报错")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("零页结果应报错")
	}
}

func TestFontBytesFallsBackToBuiltin(t *testing.T) {
	r := NewRenderer("")
	data, err := r.fontBytes("no-such-font")
	if err != nil {
		t.Fatalf("未知字体名应退回内置字体: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("内置字体数据为空")
	}
}

func TestLoadBytesRejectsRelativeWithoutBaseDir(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.loadBytes("images/logo.png"); err == nil {
		t.Fatalf("未指定资源目录时相对路径应报错")
	}
}
