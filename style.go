package easyplot

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// LineStyle describes how a signal or marker line is stroked.
type LineStyle struct {
	// Legend entry. Empty means the line does not appear in the legend.
	Label string
	Color color.Color
	// Width in points.
	Width float64
	// Alternating on/off lengths in points. nil is a solid line.
	Dashes []float64
}

type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

type VAlign int

const (
	AlignBottom VAlign = iota
	AlignMiddle
	AlignTop
	AlignBaseline
)

// TextStyle positions a text relative to its anchor point.
type TextStyle struct {
	HAlign HAlign
	VAlign VAlign
	Color  color.Color
}

// ColorShorthands extends the CSS color names of colornames.Map with the
// single letter and tab: names common in plotting configs.
var ColorShorthands = map[string]color.RGBA{
	// Single letter shorthands.
	"k": {0x00, 0x00, 0x00, 0xff},
	"w": {0xff, 0xff, 0xff, 0xff},
	"r": {0xff, 0x00, 0x00, 0xff},
	"g": {0x00, 0x80, 0x00, 0xff},
	"b": {0x00, 0x00, 0xff, 0xff},
	"c": {0x00, 0xbf, 0xbf, 0xff},
	"m": {0xbf, 0x00, 0xbf, 0xff},
	"y": {0xbf, 0xbf, 0x00, 0xff},

	// Tableau palette, the usual default line colors.
	"tab:blue":   {0x1f, 0x77, 0xb4, 0xff},
	"tab:orange": {0xff, 0x7f, 0x0e, 0xff},
	"tab:green":  {0x2c, 0xa0, 0x2c, 0xff},
	"tab:red":    {0xd6, 0x27, 0x28, 0xff},
	"tab:purple": {0x94, 0x67, 0xbd, 0xff},
	"tab:brown":  {0x8c, 0x56, 0x4b, 0xff},
	"tab:pink":   {0xe3, 0x77, 0xc2, 0xff},
	"tab:gray":   {0x7f, 0x7f, 0x7f, 0xff},
	"tab:olive":  {0xbc, 0xbd, 0x22, 0xff},
	"tab:cyan":   {0x17, 0xbe, 0xcf, 0xff},
}

// ParseColor understands CSS color names, the names in ColorShorthands as
// well as #rrggbb and #rrggbbaa.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") {
		if len(s) != 7 && len(s) != 9 {
			return nil, fmt.Errorf("invalid hex color %q", s)
		}

		var r, g, b uint8
		a := uint8(0xff)
		if _, err := fmt.Sscanf(s[1:7], "%2x%2x%2x", &r, &g, &b); err != nil {
			return nil, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		if len(s) == 9 {
			if _, err := fmt.Sscanf(s[7:9], "%2x", &a); err != nil {
				return nil, fmt.Errorf("invalid hex color %q: %w", s, err)
			}
		}
		return color.NRGBA{r, g, b, a}, nil
	}

	if col, ok := ColorShorthands[s]; ok {
		return col, nil
	}
	if col, ok := colornames.Map[s]; ok {
		return col, nil
	}

	return nil, fmt.Errorf("unknown color %q", s)
}

// ParseDashes maps a line style name to a dash pattern in points.
func ParseDashes(style string) ([]float64, error) {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", "-", "solid":
		return nil, nil
	case "--", "dashed":
		return []float64{6, 3}, nil
	case ":", "dotted":
		return []float64{1, 3}, nil
	case "-.", "dashdot":
		return []float64{6, 3, 1, 3}, nil
	}

	return nil, fmt.Errorf("unknown line style %q", style)
}

func ParseHAlign(s string) (HAlign, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}

	return AlignLeft, fmt.Errorf("unknown horizontal alignment %q", s)
}

func ParseVAlign(s string) (VAlign, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bottom":
		return AlignBottom, nil
	case "center", "centre", "middle", "center_baseline":
		return AlignMiddle, nil
	case "top":
		return AlignTop, nil
	case "baseline":
		return AlignBaseline, nil
	}

	return AlignBottom, fmt.Errorf("unknown vertical alignment %q", s)
}

func withAlpha(c color.Color, a float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(a * 0xff)
	return n
}
