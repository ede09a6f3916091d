package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Configuration errors reported before any layout is attempted. They indicate
// a broken template or font table and are never retried.
var (
	ErrNoFallbackFont       = errors.New("字体表中缺少 fallback 字体")
	ErrMultipleFallbackFont = errors.New("字体表中存在多个 fallback 字体")
)

// templateSchema is the JSON Schema every template document must satisfy.
// Structural validation lives here; semantic rules (font table consistency,
// page sizes) are enforced in code afterwards.
const templateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["pages"],
  "properties": {
    "name": {"type": "string"},
    "pages": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["schemas"],
        "properties": {
          "size": {"type": "string"},
          "schemas": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["type", "position", "width", "height"],
              "properties": {
                "type": {"enum": ["text", "image", "barcode", "line", "rect", "ellipse"]},
                "name": {"type": "string"},
                "position": {
                  "type": "object",
                  "required": ["x", "y"],
                  "properties": {
                    "x": {"type": "number"},
                    "y": {"type": "number"}
                  }
                },
                "width": {"type": "number", "minimum": 0},
                "height": {"type": "number", "minimum": 0},
                "content": {"type": "string"},
                "fontName": {"type": "string"},
                "fontSize": {"type": "number", "exclusiveMinimum": 0},
                "characterSpacing": {"type": "number", "minimum": 0},
                "lineHeight": {"type": "number", "exclusiveMinimum": 0},
                "alignment": {"type": "string"},
                "verticalAlignment": {"type": "string"},
                "fontColor": {"type": "string"},
                "dynamicFontSize": {
                  "type": "object",
                  "required": ["min", "max"],
                  "properties": {
                    "min": {"type": "number", "exclusiveMinimum": 0},
                    "max": {"type": "number", "exclusiveMinimum": 0},
                    "fit": {"enum": ["horizontal", "vertical"]}
                  }
                },
                "fit": {"type": "string"},
                "barcodeType": {"type": "string"},
                "color": {"type": "string"},
                "borderWidth": {"type": "number", "minimum": 0}
              }
            }
          }
        }
      }
    }
  }
}`

// Validate checks a raw template document against the JSON Schema.
func Validate(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(templateSchema)
	docLoader := gojsonschema.NewBytesLoader(raw)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("模板校验失败: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("模板不符合 schema 约束: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Parse validates and decodes a template document.
func Parse(raw []byte) (*Template, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	var tpl Template
	if err := json.Unmarshal(raw, &tpl); err != nil {
		return nil, fmt.Errorf("解析模板 JSON 失败: %w", err)
	}
	return &tpl, nil
}

// CheckFontTable enforces the exactly-one-fallback rule. Violating it is a
// configuration error, not a runtime fault, so callers should run this once
// before layouting anything with the table.
func CheckFontTable(table FontTable) error {
	count := 0
	for _, res := range table {
		if res.Fallback {
			count++
		}
	}
	switch {
	case count == 0:
		return ErrNoFallbackFont
	case count > 1:
		return ErrMultipleFallbackFont
	}
	return nil
}

// FallbackName returns the name of the table's designated fallback font.
func FallbackName(table FontTable) (string, error) {
	if err := CheckFontTable(table); err != nil {
		return "", err
	}
	for name, res := range table {
		if res.Fallback {
			return name, nil
		}
	}
	return "", ErrNoFallbackFont
}
