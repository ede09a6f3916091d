package font

import (
	"fmt"

	tdfont "github.com/tdewolff/font"
)

// Resolved is a parsed font program plus the derived constants every
// measurement needs. Instances are created once per font name, cached by the
// provider and shared read-only by all callers.
type Resolved struct {
	Name string
	SFNT *tdfont.SFNT

	Ascent     float64 // font units, positive up
	Descent    float64 // font units, negative below the baseline
	UnitsPerEm float64
}

// Parse parses raw font-program bytes (TTF/OTF/WOFF/WOFF2) into a Resolved.
func Parse(name string, data []byte) (*Resolved, error) {
	sfnt, err := tdfont.ParseFont(data, 0)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", name, err)
	}
	return &Resolved{
		Name:       name,
		SFNT:       sfnt,
		Ascent:     float64(sfnt.Hhea.Ascender),
		Descent:    float64(sfnt.Hhea.Descender),
		UnitsPerEm: float64(sfnt.Head.UnitsPerEm),
	}, nil
}

// GlyphAdvance returns the advance width of r in font units. Unmapped runes
// resolve to glyph 0 (.notdef) and use its advance, matching how the final
// renderer will draw them.
func (f *Resolved) GlyphAdvance(r rune) float64 {
	return float64(f.SFNT.GlyphAdvance(f.SFNT.GlyphIndex(r)))
}

// HeightRatio is the font's design line height fraction
// (ascent − descent) / unitsPerEm, independent of any caller-specified
// line-height multiplier.
func (f *Resolved) HeightRatio() float64 {
	return (f.Ascent - f.Descent) / f.UnitsPerEm
}
