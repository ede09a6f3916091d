package schema

import (
	"fmt"
	"strings"

	"github.com/quillpdf/quill/unit"
)

// Schema types.
const (
	TypeText    = "text"
	TypeImage   = "image"
	TypeBarcode = "barcode"
	TypeLine    = "line"
	TypeRect    = "rect"
	TypeEllipse = "ellipse"
)

// Horizontal alignment values for text schemas.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Vertical alignment values for text schemas.
const (
	VerticalTop    = "top"
	VerticalMiddle = "middle"
	VerticalBottom = "bottom"
)

// Fit modes for dynamic font sizing.
const (
	FitHorizontal = "horizontal"
	FitVertical   = "vertical"
)

// Template is the root of a page template: one or more fixed-size pages, each
// holding absolutely positioned schemas. Templates are read-only inputs to
// the layout engine; nothing in this module mutates them.
type Template struct {
	Name  string `json:"name,omitempty"`
	Pages []Page `json:"pages"`
}

// Page describes one canvas. Size accepts a preset name ("A4", "A5",
// "letter", optionally "... landscape") or a pair of unit-suffixed lengths
// such as "148mm 210mm". An empty Size means A4 portrait.
type Page struct {
	Size    string   `json:"size,omitempty"`
	Schemas []Schema `json:"schemas"`
}

// Position is the top-left corner of a schema in page coordinates (mm).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DynamicFontSize configures the auto-sizing range for a text schema.
// Fit decides which measured dimension drives grow/shrink decisions.
type DynamicFontSize struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Fit string  `json:"fit,omitempty"` // horizontal | vertical (default vertical)
}

// Schema is a single positioned field. Type selects which of the optional
// fields are meaningful; unrelated fields are left at their zero value.
// Position/Width/Height are millimeters, FontSize is points, LineHeight is a
// multiplier (default 1.0), CharacterSpacing is points between codepoints.
type Schema struct {
	Type     string   `json:"type"`
	Name     string   `json:"name,omitempty"`
	Position Position `json:"position"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`

	// text
	Content           string           `json:"content,omitempty"`
	FontName          string           `json:"fontName,omitempty"`
	FontSize          float64          `json:"fontSize,omitempty"`
	CharacterSpacing  float64          `json:"characterSpacing,omitempty"`
	LineHeight        float64          `json:"lineHeight,omitempty"`
	Alignment         string           `json:"alignment,omitempty"`
	VerticalAlignment string           `json:"verticalAlignment,omitempty"`
	FontColor         string           `json:"fontColor,omitempty"`
	DynamicFontSize   *DynamicFontSize `json:"dynamicFontSize,omitempty"`

	// image: Content carries a path or base64 payload
	Fit string `json:"fit,omitempty"`

	// barcode: Content carries the encoded value
	BarcodeType string `json:"barcodeType,omitempty"`

	// shapes
	Color       string  `json:"color,omitempty"`
	BorderWidth float64 `json:"borderWidth,omitempty"`
}

// FontResource describes one entry of a font table. Data carries the raw
// font program when the caller already has the bytes; otherwise Src holds a
// textual reference, either an http(s) URL to fetch or a base64 payload.
type FontResource struct {
	Data     []byte `json:"-"`
	Src      string `json:"data,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
	Subset   bool   `json:"subset,omitempty"`
}

// FontTable maps a font name to its resource. Exactly one entry must be
// flagged as fallback; CheckFontTable enforces that before any layout runs.
type FontTable map[string]FontResource

var pagePresets = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
}

// Dimensions resolves the page's canvas size in millimeters.
func (p Page) Dimensions() (width, height float64, err error) {
	spec := strings.TrimSpace(p.Size)
	if spec == "" {
		spec = "A4"
	}
	fields := strings.Fields(spec)
	landscape := false
	if n := len(fields); n > 1 && strings.EqualFold(fields[n-1], "landscape") {
		landscape = true
		fields = fields[:n-1]
	}

	switch len(fields) {
	case 1:
		base, ok := pagePresets[strings.ToUpper(fields[0])]
		if !ok {
			return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", fields[0])
		}
		width, height = base[0], base[1]
	case 2:
		w := unit.ParseLength(fields[0])
		h := unit.ParseLength(fields[1])
		if w.Value <= 0 || h.Value <= 0 {
			return 0, 0, fmt.Errorf("无法解析页面尺寸：%s", p.Size)
		}
		width, height = w.ToMM(), h.ToMM()
	default:
		return 0, 0, fmt.Errorf("无法解析页面尺寸：%s", p.Size)
	}

	if landscape {
		width, height = height, width
	}
	return width, height, nil
}

// NormalizedAlignment maps start/end aliases and defaults to left.
func (s Schema) NormalizedAlignment() string {
	switch strings.ToLower(strings.TrimSpace(s.Alignment)) {
	case "center", "middle":
		return AlignCenter
	case "right", "end":
		return AlignRight
	default:
		return AlignLeft
	}
}

// NormalizedVerticalAlignment defaults to top.
func (s Schema) NormalizedVerticalAlignment() string {
	switch strings.ToLower(strings.TrimSpace(s.VerticalAlignment)) {
	case "middle", "center":
		return VerticalMiddle
	case "bottom":
		return VerticalBottom
	default:
		return VerticalTop
	}
}
