package easyplot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
)

type Renderer string

const (
	RendererGonum   Renderer = "gonum"
	RendererGoChart Renderer = "gochart"
)

var ErrUnknownRenderer = errors.New("unknown renderer")

// FigureSize is the output image size in inches at DPI dots per inch.
type FigureSize struct {
	Width  float64
	Height float64
	DPI    float64
}

var DefaultFigureSize = FigureSize{Width: 12, Height: 6, DPI: 100}

func (s FigureSize) Pixels() (int, int) {
	return int(s.Width * s.DPI), int(s.Height * s.DPI)
}

// GridSpec configures tick spacing and grid lines. A zero spacing lets the
// backend pick ticks on its own.
type GridSpec struct {
	X, Y bool

	XMajor, XMinor float64
	YMajor, YMinor float64
}

var (
	gridMajorColor = withAlpha(color.Gray{0x80}, 0.4)
	gridMinorColor = withAlpha(color.Gray{0x80}, 0.2)
	gridMinorDash  = []float64{1, 2}
)

// Canvas is the drawing surface behind a PlotBuilder. Implementations keep
// every call until WritePNG so limits set early still win over data added
// later.
type Canvas interface {
	SetTitle(title string)
	SetXLabel(label string)
	SetYLabel(label string)
	SetXLimits(min, max float64)
	SetYLimits(min, max float64)
	SetGrid(grid GridSpec)

	// AddLine draws y over x. Both slices have the same length and only
	// finite values.
	AddLine(x, y []float64, style LineStyle) error
	AddVerticalLine(x float64, style LineStyle)
	AddText(x, y float64, text string, style TextStyle) error

	// SetFooter places a text centered below the plot area.
	SetFooter(text string)

	WritePNG(w io.Writer, size FigureSize) error
}

func NewCanvas(renderer Renderer) (Canvas, error) {
	switch renderer {
	case RendererGonum, "":
		return newGonumCanvas(), nil
	case RendererGoChart:
		return newGoChartCanvas(), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, renderer)
}
