// Package logging 基于 log/slog 提供全局日志初始化：控制台输出加可选的
// 滚动文件输出（lumberjack）。各包通过 slog.Default 或 L() 取 logger。
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options 控制日志初始化，亦可由环境变量提供：
//   - QUILL_LOG_LEVEL=debug|info|warn|error
//   - QUILL_LOG_FORMAT=text|json
//   - QUILL_LOG_FILE=<path>（启用带滚动的文件日志）
//   - QUILL_LOG_SOURCE=true|false
type Options struct {
	Level     string
	Format    string // "text" 或 "json"
	AddSource bool
	File      string // 可选的滚动日志文件路径
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *slog.Logger
)

// L 返回全局 logger，未初始化时按环境变量惰性初始化。
func L() *slog.Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	defaultMu.RLock()
	l = defaultLogger
	defaultMu.RUnlock()
	return l
}

// Init 配置全局 logger 并同步设置 slog.Default。
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}

	var handlers []slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		handlers = append(handlers, slog.NewJSONHandler(os.Stderr, hopts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, hopts))
	}
	if strings.TrimSpace(opts.File) != "" {
		w := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(w, hopts))
	}

	var h slog.Handler
	if len(handlers) == 1 {
		h = handlers[0]
	} else {
		h = &multi{hs: handlers}
	}

	logger := slog.New(h).With(slog.String("app", "quill"))

	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
	slog.SetDefault(logger)
}

// FromEnv 从环境变量构造 Options。
func FromEnv() Options {
	return Options{
		Level:     getenv("QUILL_LOG_LEVEL", "info"),
		Format:    getenv("QUILL_LOG_FORMAT", "text"),
		AddSource: strings.EqualFold(getenv("QUILL_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("QUILL_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// multi 将日志记录扇出到多个 handler（控制台 + 文件）。
type multi struct{ hs []slog.Handler }

func (m *multi) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multi) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m.hs {
		if err := h.Handle(ctx, r); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *multi) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		hs[i] = h.WithAttrs(attrs)
	}
	return &multi{hs: hs}
}

func (m *multi) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		hs[i] = h.WithGroup(name)
	}
	return &multi{hs: hs}
}
