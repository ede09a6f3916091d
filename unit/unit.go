package unit

import (
	"strconv"
	"strings"
)

// This file defines unit conversions and a unit-safe length type shared by
// every other package. Layout works in millimeters, font math in points and
// the interactive editor in device pixels.

// Conversion constants between pt, mm and px.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PtToPx = 4.0 / 3.0 // 96dpi device pixels per 72dpi point
	PxToPt = 1.0 / PtToPx
)

// Mm2Pt converts millimeters to points.
func Mm2Pt(mm float64) float64 { return mm * MmToPt }

// Pt2Mm converts points to millimeters.
func Pt2Mm(pt float64) float64 { return pt * PtToMm }

// Pt2Px converts points to device pixels.
func Pt2Px(pt float64) float64 { return pt * PtToPx }

// Px2Pt converts device pixels to points.
func Px2Pt(px float64) float64 { return px * PxToPt }

// Unit represents the original unit of a length value as written in a template.
type Unit int

const (
	None Unit = iota // unit-less numbers like factors
	MM               // millimeters
	CM               // centimeters
	IN               // inches
	PT               // points
)

// String returns the short suffix for a Unit value.
func (u Unit) String() string {
	switch u {
	case MM:
		return "mm"
	case CM:
		return "cm"
	case IN:
		return "in"
	case PT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// To converts this length to the target unit. Supported targets: MM, PT.
func (l Length) To(target Unit) float64 {
	mm := l.Value
	switch l.Unit {
	case CM:
		mm = l.Value * 10
	case IN:
		mm = l.Value * 25.4
	case PT:
		if target == PT {
			return l.Value
		}
		mm = l.Value * PtToMm
	case MM, None:
		// already mm (unit-less values are treated as mm by callers)
	}
	if target == PT {
		return mm * MmToPt
	}
	return mm
}

func (l Length) ToMM() float64 { return l.To(MM) }
func (l Length) ToPT() float64 { return l.To(PT) }

// ParseLength parses a length string preserving its unit, e.g. "12pt", "5mm".
// Unknown or malformed input yields a zero Length with Unit None.
func ParseLength(value string) Length {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return Length{}
	}
	unit := None
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", MM}, {"cm", CM}, {"in", IN}, {"pt", PT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}
	}
	return Length{Value: f, Unit: unit}
}
