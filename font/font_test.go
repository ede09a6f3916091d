package font

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/quillpdf/quill/schema"
)

func builtinBytes(t *testing.T) []byte {
	t.Helper()
	data, err := Builtin()
	if err != nil {
		t.Fatalf("读取内置字体失败: %v", err)
	}
	return data
}

// TestParseBuiltin 验证内置字体可以解析，且导出的度量常数合理。
func TestParseBuiltin(t *testing.T) {
	f, err := Parse("builtin", builtinBytes(t))
	if err != nil {
		t.Fatalf("解析内置字体失败: %v", err)
	}
	if f.UnitsPerEm <= 0 {
		t.Fatalf("unitsPerEm 应为正数: %g", f.UnitsPerEm)
	}
	if !(f.Ascent > 0 && f.Descent < 0) {
		t.Fatalf("ascent/descent 符号错误: ascent=%g descent=%g", f.Ascent, f.Descent)
	}
	if ratio := f.HeightRatio(); ratio <= 0.5 || ratio >= 3 {
		t.Fatalf("设计行高比例异常: %g", ratio)
	}
	// 比例字体中宽字形的 advance 应大于窄字形
	if wide, narrow := f.GlyphAdvance('W'), f.GlyphAdvance('i'); wide <= narrow {
		t.Fatalf("advance 排序异常: W=%g i=%g", wide, narrow)
	}
}

// TestProviderFallbackChain 验证解析顺序：表项 → fallback 字体 → 内置默认。
func TestProviderFallbackChain(t *testing.T) {
	ctx := context.Background()
	data := builtinBytes(t)
	table := schema.FontTable{
		"Gothic": {Data: data, Fallback: true},
		"Mincho": {Data: data},
	}

	p := NewProvider(nil, nil)
	f, err := p.Resolve(ctx, "Mincho", table)
	if err != nil || f.Name != "Mincho" {
		t.Fatalf("按名称解析失败: f=%v err=%v", f, err)
	}

	f, err = p.Resolve(ctx, "", table)
	if err != nil || f.Name != "Gothic" {
		t.Fatalf("缺省字体名应退回 fallback: f=%v err=%v", f, err)
	}

	f, err = p.Resolve(ctx, "Unknown", table)
	if err != nil || f.Name != "Gothic" {
		t.Fatalf("未知字体名应退回 fallback: f=%v err=%v", f, err)
	}

	f, err = p.Resolve(ctx, "Anything", schema.FontTable{})
	if err != nil || f.Name != DefaultName {
		t.Fatalf("空字体表应退回内置默认字体: f=%v err=%v", f, err)
	}
}

// TestProviderCache 验证按字体名缓存与显式失效。
func TestProviderCache(t *testing.T) {
	ctx := context.Background()
	table := schema.FontTable{"Gothic": {Data: builtinBytes(t), Fallback: true}}

	cache := NewCache()
	p := NewProvider(cache, nil)

	first, err := p.Resolve(ctx, "Gothic", table)
	if err != nil {
		t.Fatalf("首次解析失败: %v", err)
	}
	second, err := p.Resolve(ctx, "Gothic", table)
	if err != nil {
		t.Fatalf("二次解析失败: %v", err)
	}
	if first != second {
		t.Fatalf("缓存未命中：两次解析返回了不同实例")
	}
	if cache.Len() != 1 {
		t.Fatalf("缓存条目数应为 1，实际 %d", cache.Len())
	}

	cache.Invalidate("Gothic")
	third, err := p.Resolve(ctx, "Gothic", table)
	if err != nil {
		t.Fatalf("失效后解析失败: %v", err)
	}
	if third == first {
		t.Fatalf("Invalidate 后应重新解析")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Fatalf("Clear 后缓存应为空，实际 %d", cache.Len())
	}
}

// TestProviderBase64Source 验证文本型字体数据按 base64 解码。
func TestProviderBase64Source(t *testing.T) {
	ctx := context.Background()
	encoded := base64.StdEncoding.EncodeToString(builtinBytes(t))
	table := schema.FontTable{"Inline": {Src: encoded, Fallback: true}}

	p := NewProvider(nil, nil)
	f, err := p.Resolve(ctx, "Inline", table)
	if err != nil || f.Name != "Inline" {
		t.Fatalf("base64 字体解析失败: f=%v err=%v", f, err)
	}
}

type stubRetriever struct {
	data []byte
	src  string
}

func (s *stubRetriever) Retrieve(_ context.Context, src string) ([]byte, error) {
	s.src = src
	return s.data, nil
}

// TestProviderRemoteSource 验证 URL 形式的资源会委托给注入的 Retriever。
func TestProviderRemoteSource(t *testing.T) {
	ctx := context.Background()
	stub := &stubRetriever{data: builtinBytes(t)}
	table := schema.FontTable{"Remote": {Src: "https://fonts.example/r.ttf", Fallback: true}}

	p := NewProvider(nil, stub)
	if _, err := p.Resolve(ctx, "Remote", table); err != nil {
		t.Fatalf("远程字体解析失败: %v", err)
	}
	if stub.src != "https://fonts.example/r.ttf" {
		t.Fatalf("未委托给 Retriever: %q", stub.src)
	}
}

type countingRetriever struct {
	data  []byte
	calls atomic.Int32
}

func (c *countingRetriever) Retrieve(_ context.Context, _ string) ([]byte, error) {
	c.calls.Add(1)
	return c.data, nil
}

// TestProviderConcurrentResolveSingleFlight 验证同名字体的并发首次解析
// 只获取并解析一次，且所有调用方拿到同一个实例。
func TestProviderConcurrentResolveSingleFlight(t *testing.T) {
	ctx := context.Background()
	stub := &countingRetriever{data: builtinBytes(t)}
	table := schema.FontTable{"Remote": {Src: "https://fonts.example/r.ttf", Fallback: true}}
	p := NewProvider(nil, stub)

	const workers = 8
	results := make([]*Resolved, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := p.Resolve(ctx, "Remote", table)
			if err != nil {
				t.Errorf("并发解析失败: %v", err)
				return
			}
			results[i] = f
		}(i)
	}
	wg.Wait()

	if n := stub.calls.Load(); n != 1 {
		t.Fatalf("同名字体应只获取一次，实际 %d 次", n)
	}
	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("并发调用应共享同一实例")
		}
	}
}

// TestRetrievalErrors 验证坏数据与缺失数据都报 RetrievalError 且不自动替换。
func TestRetrievalErrors(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(nil, nil)

	var rerr *RetrievalError
	_, err := p.Resolve(ctx, "Broken", schema.FontTable{
		"Broken": {Data: []byte("not a font"), Fallback: true},
	})
	if !errors.As(err, &rerr) || rerr.Name != "Broken" {
		t.Fatalf("坏字体数据应报 RetrievalError，实际 %v", err)
	}

	_, err = p.Resolve(ctx, "Empty", schema.FontTable{
		"Empty": {Fallback: true},
	})
	if !errors.As(err, &rerr) {
		t.Fatalf("缺失数据应报 RetrievalError，实际 %v", err)
	}

	_, err = p.Resolve(ctx, "Bad64", schema.FontTable{
		"Bad64": {Src: "%%%not-base64%%%", Fallback: true},
	})
	if !errors.As(err, &rerr) {
		t.Fatalf("非法 base64 应报 RetrievalError，实际 %v", err)
	}
}
