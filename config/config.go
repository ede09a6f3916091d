// Package config 定义 CLI 的 YAML 配置：日志选项、渲染选项与字体表。
// 环境变量在运行时作为只读覆盖。
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quillpdf/quill/schema"
)

// LoggingConfig 对应 logging.Options。
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// RenderConfig 控制渲染后端。
type RenderConfig struct {
	// BaseDir 是解析模板内相对资源路径的根目录。
	BaseDir string `yaml:"base_dir"`
	// Title 写入输出 PDF 的元信息。
	Title string `yaml:"title"`
}

// FontEntry 描述字体表中的一个条目：File 指向本地字体文件，
// Src 是 URL 或 base64 数据，二者取其一。
type FontEntry struct {
	File     string `yaml:"file"`
	Src      string `yaml:"src"`
	Fallback bool   `yaml:"fallback"`
	Subset   bool   `yaml:"subset"`
}

// Config 是配置文件的根结构。
type Config struct {
	Logging LoggingConfig        `yaml:"logging"`
	Render  RenderConfig         `yaml:"render"`
	Fonts   map[string]FontEntry `yaml:"fonts"`
}

// 环境变量覆盖项。
const (
	EnvLogLevel  = "QUILL_LOG_LEVEL"
	EnvLogFormat = "QUILL_LOG_FORMAT"
	EnvLogSource = "QUILL_LOG_SOURCE"
	EnvLogFile   = "QUILL_LOG_FILE"
	EnvBaseDir   = "QUILL_BASE_DIR"
)

// Defaults 返回默认配置。
func Defaults() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load 读取配置文件（path 为空时只用默认值），再套用环境变量覆盖。
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseDir)); v != "" {
		cfg.Render.BaseDir = v
	}
}

// FontTable 将配置的字体条目转换为引擎字体表：File 条目在此处读入字节，
// Src 条目交由引擎在解析时获取。
func (c Config) FontTable() (schema.FontTable, error) {
	if len(c.Fonts) == 0 {
		return nil, nil
	}
	table := schema.FontTable{}
	for name, entry := range c.Fonts {
		res := schema.FontResource{
			Src:      entry.Src,
			Fallback: entry.Fallback,
			Subset:   entry.Subset,
		}
		if entry.File != "" {
			data, err := os.ReadFile(entry.File)
			if err != nil {
				return nil, fmt.Errorf("读取字体 %s 失败: %w", name, err)
			}
			res.Data = data
		}
		table[name] = res
	}
	if err := schema.CheckFontTable(table); err != nil {
		return nil, err
	}
	return table, nil
}
