package font

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Retriever turns a textual font resource reference into raw font-program
// bytes. The engine treats this as its only I/O boundary: URL-shaped values
// involve a network fetch, anything else is decoded as base64. Timeout and
// retry policy belong to the caller (via ctx and the injected client).
type Retriever interface {
	Retrieve(ctx context.Context, src string) ([]byte, error)
}

// HTTPRetriever fetches http(s) references with its client and decodes
// everything else as base64 (with or without a data: prefix).
type HTTPRetriever struct {
	Client *http.Client
}

func (r *HTTPRetriever) Retrieve(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return r.fetch(ctx, src)
	}
	return decodeBase64(src)
}

func (r *HTTPRetriever) fetch(ctx context.Context, url string) ([]byte, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("下载字体失败: %s 返回 %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func decodeBase64(src string) ([]byte, error) {
	// data:font/ttf;base64,AAA... 或裸 base64
	if i := strings.Index(src, "base64,"); i != -1 {
		src = src[i+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(src))
	if err != nil {
		return nil, fmt.Errorf("base64 解码字体数据失败: %w", err)
	}
	return data, nil
}
