package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quillpdf/quill/config"
	"github.com/quillpdf/quill/font"
	"github.com/quillpdf/quill/layout"
	"github.com/quillpdf/quill/logging"
	"github.com/quillpdf/quill/renderer"
	canvasrenderer "github.com/quillpdf/quill/renderer/canvas"
	"github.com/quillpdf/quill/schema"
)

func main() {
	templatePath := flag.String("template", "examples/invoice.json", "模板 JSON 文件路径")
	dataArg := flag.String("data", "", "绑定到模板的 JSON 数据（文件路径或内联 JSON）")
	output := flag.String("out", "output/out.pdf", "PDF 输出路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	configPath := flag.String("config", "", "YAML 配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	log := logging.L()

	inputData, err := loadData(*dataArg)
	if err != nil {
		log.Error("解析 data JSON 失败", "err", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, *templatePath, *output, *debug, inputData); err != nil {
		log.Error("生成 PDF 失败", "err", err)
		os.Exit(1)
	}
	log.Info("已生成 PDF", "path", *output)
}

// loadData 接受文件路径或内联 JSON。
func loadData(arg string) (any, error) {
	if arg == "" {
		return nil, nil
	}
	raw := []byte(arg)
	if _, err := os.Stat(arg); err == nil {
		raw, err = os.ReadFile(arg)
		if err != nil {
			return nil, err
		}
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// run 串联模板解析、布局与渲染。
func run(ctx context.Context, cfg config.Config, templatePath, outputPath, debugPath string, data any) error {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("无法读取模板文件 %s: %w", templatePath, err)
	}
	tpl, err := schema.Parse(raw)
	if err != nil {
		return fmt.Errorf("解析模板失败: %w", err)
	}

	fonts, err := cfg.FontTable()
	if err != nil {
		return err
	}

	provider := font.NewProvider(nil, nil)
	result, err := layout.Build(ctx, tpl, data, layout.BuildOptions{
		Provider: provider,
		Fonts:    fonts,
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}

	baseDir := cfg.Render.BaseDir
	if baseDir == "" {
		baseDir = filepath.Dir(templatePath)
	}
	var r renderer.Renderer = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: baseDir,
		Title:   cfg.Render.Title,
		Fonts:   fonts,
	})

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
