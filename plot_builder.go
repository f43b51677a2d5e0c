package easyplot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Without an axis interval, the x axis gets major ticks every 5 units.
const (
	defaultXMajorTick  = 5
	minorTicksPerMajor = 5
)

var errNotSaved = errors.New("plot has not been saved yet")

// AxisRange is a parsed "start::stop::interval" string. Start may be above
// Stop and Interval may be zero or negative; the builder normalizes both.
type AxisRange struct {
	Start    float64
	Stop     float64
	Interval float64
}

func ParseAxisRange(s string) (AxisRange, error) {
	parts := strings.Split(s, "::")
	if len(parts) != 3 {
		return AxisRange{}, fmt.Errorf("expected start::stop::interval, got %q", s)
	}

	var values [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return AxisRange{}, fmt.Errorf("invalid axis value %q: %w", part, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return AxisRange{}, fmt.Errorf("invalid axis value %q", part)
		}
		values[i] = v
	}

	return AxisRange{Start: values[0], Stop: values[1], Interval: values[2]}, nil
}

// PlotBuilder accumulates drawing operations for one chart. Every setter
// returns the builder so calls can be chained; failures inside the chain are
// logged and the first one is kept for Save to return.
type PlotBuilder struct {
	canvas    Canvas
	size      FigureSize
	displayer Displayer
	logger    logrus.FieldLogger

	xAxis *AxisRange
	yAxis *AxisRange

	err       error
	savedPath string
	numLines  int
}

func NewPlotBuilder(canvas Canvas, logger logrus.FieldLogger) *PlotBuilder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	b := &PlotBuilder{
		canvas: canvas,
		size:   DefaultFigureSize,
		logger: logger.WithField("tag", "PlotBuilder"),
	}
	b.logger.Debug("initialized plot builder")

	return b
}

func (b *PlotBuilder) SetFigureSize(size FigureSize) *PlotBuilder {
	b.size = size
	return b
}

func (b *PlotBuilder) SetDisplayer(d Displayer) *PlotBuilder {
	b.displayer = d
	return b
}

func (b *PlotBuilder) SetTitle(title string) *PlotBuilder {
	b.canvas.SetTitle(title)
	b.logger.Infof("set title: %s", title)
	return b
}

func (b *PlotBuilder) SetXLabel(label string) *PlotBuilder {
	b.canvas.SetXLabel(label)
	b.logger.Infof("set x-axis label: %s", label)
	return b
}

func (b *PlotBuilder) SetYLabel(label string) *PlotBuilder {
	b.canvas.SetYLabel(label)
	b.logger.Infof("set y-axis label: %s", label)
	return b
}

// SetXAxis sets the x limits from "start::stop::interval". A malformed string
// is logged and leaves the limits untouched.
func (b *PlotBuilder) SetXAxis(axis string) *PlotBuilder {
	r, ok := b.parseAxis("x", axis)
	if !ok {
		return b
	}

	b.xAxis = &r
	b.canvas.SetXLimits(r.Start, r.Stop)
	return b
}

func (b *PlotBuilder) SetYAxis(axis string) *PlotBuilder {
	r, ok := b.parseAxis("y", axis)
	if !ok {
		return b
	}

	b.yAxis = &r
	b.canvas.SetYLimits(r.Start, r.Stop)
	return b
}

// parseAxis orders the limits ascending and widens equal limits by one unit.
// A non-positive interval is kept and ignored by the grid.
func (b *PlotBuilder) parseAxis(name, axis string) (AxisRange, bool) {
	logger := b.logger.WithField("axis", name)

	r, err := ParseAxisRange(axis)
	if err != nil {
		logger.WithError(err).Errorf("failed to set %s-axis limits", name)
		return AxisRange{}, false
	}

	switch {
	case r.Start > r.Stop:
		logger.Warnf("axis start %v is above stop %v, swapping", r.Start, r.Stop)
		r.Start, r.Stop = r.Stop, r.Start
	case r.Start == r.Stop:
		logger.Warnf("axis start and stop are both %v, widening", r.Start)
		r.Start, r.Stop = r.Start-1, r.Stop+1
	}

	if r.Interval <= 0 {
		logger.Warnf("axis interval %v is not positive, using default grid spacing", r.Interval)
	}

	return r, true
}

// XLimits reports the x limits set through SetXAxis.
func (b *PlotBuilder) XLimits() (min, max float64, ok bool) {
	if b.xAxis == nil {
		return 0, 0, false
	}
	return b.xAxis.Start, b.xAxis.Stop, true
}

func (b *PlotBuilder) YLimits() (min, max float64, ok bool) {
	if b.yAxis == nil {
		return 0, 0, false
	}
	return b.yAxis.Start, b.yAxis.Stop, true
}

// SetGrids enables grid lines per axis. Tick spacing follows the interval of
// the axis ranges set so far.
func (b *PlotBuilder) SetGrids(x, y bool) *PlotBuilder {
	grid := b.gridSpec(x, y)
	b.canvas.SetGrid(grid)
	b.logger.WithFields(logrus.Fields{
		"xMajor": grid.XMajor,
		"yMajor": grid.YMajor,
	}).Infof("set grids: x=%v, y=%v", x, y)
	return b
}

func (b *PlotBuilder) gridSpec(x, y bool) GridSpec {
	grid := GridSpec{X: x, Y: y, XMajor: defaultXMajorTick}
	if b.xAxis != nil && b.xAxis.Interval > 0 {
		grid.XMajor = b.xAxis.Interval
	}
	grid.XMinor = grid.XMajor / minorTicksPerMajor

	if b.yAxis != nil && b.yAxis.Interval > 0 {
		grid.YMajor = b.yAxis.Interval
		grid.YMinor = grid.YMajor / minorTicksPerMajor
	}

	return grid
}

// AddSignal draws y over x. Points where either coordinate is not finite are
// dropped.
func (b *PlotBuilder) AddSignal(x, y []float64, style LineStyle) *PlotBuilder {
	if len(x) != len(y) {
		b.fail(fmt.Errorf("signal %q: x has %d values but y has %d", style.Label, len(x), len(y)))
		return b
	}

	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if isFinite(x[i]) && isFinite(y[i]) {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}

	if dropped := len(x) - len(xs); dropped > 0 {
		b.logger.WithField("label", style.Label).Warnf("dropped %d non-finite data points", dropped)
	}

	if len(xs) == 0 {
		b.logger.WithField("label", style.Label).Warn("signal has no data points, skipping")
		return b
	}

	if err := b.canvas.AddLine(xs, ys, style); err != nil {
		b.fail(fmt.Errorf("signal %q: %w", style.Label, err))
		return b
	}

	b.numLines++
	b.logger.Infof("add signal with %d data points", len(xs))
	return b
}

func (b *PlotBuilder) AddVerticalLine(x float64, style LineStyle) *PlotBuilder {
	if !isFinite(x) {
		b.logger.Errorf("cannot draw a vertical line at %v", x)
		return b
	}

	b.canvas.AddVerticalLine(x, style)
	b.numLines++
	b.logger.Infof("add a vertical line at %v", x)
	return b
}

func (b *PlotBuilder) AddText(x, y float64, text string, style TextStyle) *PlotBuilder {
	if err := b.canvas.AddText(x, y, text, style); err != nil {
		b.fail(fmt.Errorf("text %q: %w", text, err))
		return b
	}

	b.logger.Infof("add text '%s' at (%v, %v)", text, x, y)
	return b
}

// AddAnnotation places text centered at the bottom of the figure.
func (b *PlotBuilder) AddAnnotation(text string) *PlotBuilder {
	b.canvas.SetFooter(text)
	b.logger.Infof("add annotation '%s'", text)
	return b
}

// NumLines is the number of signal and vertical lines drawn so far.
func (b *PlotBuilder) NumLines() int {
	return b.numLines
}

// Err returns the first error recorded while building.
func (b *PlotBuilder) Err() error {
	return b.err
}

// Save renders the chart as PNG into path.
func (b *PlotBuilder) Save(path string) error {
	if b.err != nil {
		return b.err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if err := b.canvas.WritePNG(f, b.size); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	b.savedPath = path
	b.logger.Infof("save the plot to %s", path)
	return nil
}

// Show hands the saved image to the displayer. Without a displayer this is a
// no-op.
func (b *PlotBuilder) Show(ctx context.Context) error {
	if b.displayer == nil {
		b.logger.Debug("no displayer configured, not showing plot")
		return nil
	}

	if b.savedPath == "" {
		return errNotSaved
	}

	return b.displayer.Display(ctx, b.savedPath)
}

func (b *PlotBuilder) fail(err error) {
	b.logger.WithError(err).Error("plot operation failed")
	if b.err == nil {
		b.err = err
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
