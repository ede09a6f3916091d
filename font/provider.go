package font

import (
	"context"
	"fmt"
	"sync"

	"github.com/quillpdf/quill/schema"
)

// RetrievalError marks a failure to obtain or parse the bytes of one
// specific font. The provider does not substitute the fallback on such
// failures (only on absence); callers decide whether to retry or substitute.
type RetrievalError struct {
	Name string
	Err  error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("字体 %s 获取失败: %v", e.Name, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// ResolutionError means the whole fallback chain was exhausted: the schema's
// font name is absent, no table entry is flagged fallback, and the built-in
// default could not be loaded.
type ResolutionError struct {
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("字体 %s 无法解析，且没有可用的默认字体: %v", e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Provider resolves schema font names against a font table, parsing each
// font once and caching the result by resolved name. The cache is injected
// so its lifetime is explicit and owned by the caller.
type Provider struct {
	cache     *Cache
	retriever Retriever

	// 同名字体的首次解析串行化：并发 Resolve 同一名字时只获取并解析一次。
	mu       sync.Mutex
	inflight map[string]*sync.Mutex
}

// NewProvider creates a provider over the given cache. A nil cache gets a
// private one; a nil retriever defaults to HTTP + base64.
func NewProvider(cache *Cache, retriever Retriever) *Provider {
	if cache == nil {
		cache = NewCache()
	}
	if retriever == nil {
		retriever = &HTTPRetriever{}
	}
	return &Provider{cache: cache, retriever: retriever}
}

// Cache exposes the provider's cache for explicit invalidation.
func (p *Provider) Cache() *Cache { return p.cache }

// Resolve 按名称解析字体：先查 fontName 对应的表项，缺失时退回表中
// fallback 字体，再退回内置默认字体。结果按解析后的字体名缓存。
func (p *Provider) Resolve(ctx context.Context, fontName string, table schema.FontTable) (*Resolved, error) {
	name := fontName
	res, ok := table[name]
	if name == "" || !ok {
		fb, err := schema.FallbackName(table)
		if err != nil {
			// 表中没有可用的 fallback，使用内置默认字体。
			return p.builtin()
		}
		name, res = fb, table[fb]
	}

	lock := p.nameLock(name)
	lock.Lock()
	defer lock.Unlock()

	if f, hit := p.cache.Lookup(name); hit {
		return f, nil
	}

	data := res.Data
	if len(data) == 0 {
		if res.Src == "" {
			return nil, &RetrievalError{Name: name, Err: fmt.Errorf("字体缺少数据")}
		}
		var err error
		data, err = p.retriever.Retrieve(ctx, res.Src)
		if err != nil {
			return nil, &RetrievalError{Name: name, Err: err}
		}
	}

	f, err := Parse(name, data)
	if err != nil {
		return nil, &RetrievalError{Name: name, Err: err}
	}
	p.cache.Store(f)
	return f, nil
}

// nameLock 返回 name 对应的解析锁。锁与字体名一一对应且不回收，
// 数量以一次运行中出现过的字体名为上界。
func (p *Provider) nameLock(name string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inflight == nil {
		p.inflight = map[string]*sync.Mutex{}
	}
	lock, ok := p.inflight[name]
	if !ok {
		lock = &sync.Mutex{}
		p.inflight[name] = lock
	}
	return lock
}

func (p *Provider) builtin() (*Resolved, error) {
	lock := p.nameLock(DefaultName)
	lock.Lock()
	defer lock.Unlock()

	if f, hit := p.cache.Lookup(DefaultName); hit {
		return f, nil
	}
	data, err := Builtin()
	if err != nil {
		return nil, &ResolutionError{Name: DefaultName, Err: err}
	}
	f, err := Parse(DefaultName, data)
	if err != nil {
		return nil, &ResolutionError{Name: DefaultName, Err: err}
	}
	p.cache.Store(f)
	return f, nil
}
