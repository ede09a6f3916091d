package text

import (
	"sync"
	"testing"

	"github.com/quillpdf/quill/font"
)

var (
	testFontOnce sync.Once
	testFontVal  *font.Resolved
	testFontErr  error
)

// testFont 解析一次内置字体，供全部用例共享（只读）。
func testFont(t *testing.T) *font.Resolved {
	t.Helper()
	testFontOnce.Do(func() {
		var data []byte
		data, testFontErr = font.Builtin()
		if testFontErr != nil {
			return
		}
		testFontVal, testFontErr = font.Parse("test", data)
	})
	if testFontErr != nil {
		t.Fatalf("加载测试字体失败: %v", testFontErr)
	}
	return testFontVal
}
