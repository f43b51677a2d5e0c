package easyplot

import (
	"image/color"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"
)

// Signal and vertical line defaults.
const (
	defaultColor          = "black"
	defaultSignalStyle    = "-"
	defaultVerticalStyle  = "--"
	defaultLineWidth      = 1.0
	defaultTextYAlignment = "bottom"
	defaultTextXAlignment = "left"
	annotationSeparator   = ": "
)

// Plotter applies one part of a plot configuration to a builder.
type Plotter interface {
	Apply(b *PlotBuilder)
}

func componentLogger(logger logrus.FieldLogger, tag string) logrus.FieldLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger.WithField("tag", tag)
}

// PlotSettings sets up the coordinate system: title, labels, limits, grid.
type PlotSettings struct {
	title  string
	xLabel string
	xAxis  string
	yLabel string
	yAxis  string
	xGrid  bool
	yGrid  bool
}

func NewPlotSettings(cfg PlotSettingsConfig, logger logrus.FieldLogger) *PlotSettings {
	s := &PlotSettings{
		title:  cfg.Title,
		xLabel: cfg.XAxisSettings.XLabel,
		xAxis:  cfg.XAxisSettings.XAxis,
		yLabel: cfg.YAxisSettings.YLabel,
		yAxis:  cfg.YAxisSettings.YAxis,
		xGrid:  cfg.XGrid == nil || *cfg.XGrid,
		yGrid:  cfg.YGrid == nil || *cfg.YGrid,
	}

	componentLogger(logger, "PlotSettings").Debug("initialized plot settings")
	return s
}

func (s *PlotSettings) Apply(b *PlotBuilder) {
	b.SetTitle(s.title).
		SetXLabel(s.xLabel).
		SetYLabel(s.yLabel).
		SetXAxis(s.xAxis).
		SetYAxis(s.yAxis).
		SetGrids(s.xGrid, s.yGrid)
}

type signalEntry struct {
	name   string
	values []float64
	style  LineStyle
}

// PlotSignals draws the configured signals of a data set. Signals missing
// from the data set are skipped.
type PlotSignals struct {
	time    []float64
	signals []signalEntry
	logger  logrus.FieldLogger
}

func NewPlotSignals(dataSet *DataSet, signals []SignalConfig, logger logrus.FieldLogger) *PlotSignals {
	p := &PlotSignals{
		time:   dataSet.Time,
		logger: componentLogger(logger, "PlotSignals"),
	}

	for _, cfg := range signals {
		values, _ := dataSet.Signal(cfg.SignalName)

		label := cfg.Label
		if label == "" {
			label = cfg.SignalName
		}

		entryLogger := p.logger.WithField("signal", cfg.SignalName)
		p.signals = append(p.signals, signalEntry{
			name:   cfg.SignalName,
			values: values,
			style: LineStyle{
				Label:  label,
				Color:  resolveColor(cfg.Color, entryLogger),
				Width:  resolveWidth(cfg.Width),
				Dashes: resolveDashes(cfg.Style, defaultSignalStyle, entryLogger),
			},
		})
	}

	p.logger.Debug("initialized plot signals")
	return p
}

func (p *PlotSignals) Apply(b *PlotBuilder) {
	for _, signal := range p.signals {
		if signal.values == nil {
			p.logger.Warnf("signal %s not found in data. skipping.", signal.name)
			continue
		}

		p.logger.Infof("adding signal %s", signal.style.Label)
		b.AddSignal(p.time, signal.values, signal.style)
	}
}

type verticalLineEntry struct {
	x     float64
	style LineStyle
	text  *verticalLineText
}

type verticalLineText struct {
	y       float64
	content string
	style   TextStyle
}

// PlotVerticalLines draws markers at fixed x positions, optionally with a
// text next to them.
type PlotVerticalLines struct {
	lines  []verticalLineEntry
	logger logrus.FieldLogger
}

func NewPlotVerticalLines(vLines []VerticalLineConfig, logger logrus.FieldLogger) *PlotVerticalLines {
	p := &PlotVerticalLines{logger: componentLogger(logger, "PlotVerticalLines")}

	for i, cfg := range vLines {
		entryLogger := p.logger.WithField("index", i)

		x, err := cfg.XPosition.Float()
		if err != nil {
			entryLogger.WithError(err).Errorf("cannot parse x_position %q, skipping vertical line", cfg.XPosition)
			continue
		}

		entry := verticalLineEntry{
			x: x,
			style: LineStyle{
				Label:  cfg.Legend,
				Color:  resolveColor(cfg.Color, entryLogger),
				Width:  resolveWidth(cfg.Width),
				Dashes: resolveDashes(cfg.Style, defaultVerticalStyle, entryLogger),
			},
		}

		if cfg.Text != nil {
			entry.text = newVerticalLineText(cfg.Text, entryLogger)
		}

		p.lines = append(p.lines, entry)
	}

	p.logger.Debug("initialized plot vertical lines")
	return p
}

func newVerticalLineText(cfg *TextConfig, logger logrus.FieldLogger) *verticalLineText {
	y, err := cfg.TextYPosition.Float()
	if err != nil {
		logger.WithError(err).Errorf("cannot parse text_y_position %q, skipping text", cfg.TextYPosition)
		return nil
	}

	yAlignment := cfg.YAlignment
	if yAlignment == "" {
		yAlignment = defaultTextYAlignment
	}
	vAlign, err := ParseVAlign(yAlignment)
	if err != nil {
		logger.WithError(err).Warn("using bottom alignment")
	}

	xAlignment := cfg.XAlignment
	if xAlignment == "" {
		xAlignment = defaultTextXAlignment
	}
	hAlign, err := ParseHAlign(xAlignment)
	if err != nil {
		logger.WithError(err).Warn("using left alignment")
	}

	return &verticalLineText{
		y:       y,
		content: cfg.TextContent,
		style:   TextStyle{HAlign: hAlign, VAlign: vAlign},
	}
}

func (p *PlotVerticalLines) Apply(b *PlotBuilder) {
	for _, line := range p.lines {
		b.AddVerticalLine(line.x, line.style)

		if line.text != nil {
			b.AddText(line.x, line.text.y, line.text.content, line.text.style)
		}
	}
}

// PlotAnnotation writes "<id>: <description>" below the chart.
type PlotAnnotation struct {
	id          string
	description string
	logger      logrus.FieldLogger
}

func NewPlotAnnotation(id, description string, logger logrus.FieldLogger) *PlotAnnotation {
	return &PlotAnnotation{
		id:          id,
		description: description,
		logger:      componentLogger(logger, "PlotAnnotation"),
	}
}

func (p *PlotAnnotation) Apply(b *PlotBuilder) {
	p.logger.Infof("apply annotation %s with description: %s", p.id, p.description)
	b.AddAnnotation(p.id + annotationSeparator + p.description)
}

func resolveColor(name string, logger logrus.FieldLogger) color.Color {
	if name == "" {
		name = defaultColor
	}

	c, err := ParseColor(name)
	if err != nil {
		logger.WithError(err).Warn("using black")
		return colornames.Black
	}
	return c
}

func resolveDashes(style, fallback string, logger logrus.FieldLogger) []float64 {
	if style == "" {
		style = fallback
	}

	dashes, err := ParseDashes(style)
	if err != nil {
		logger.WithError(err).Warn("using solid line")
		return nil
	}
	return dashes
}

func resolveWidth(width *float64) float64 {
	if width == nil || *width <= 0 {
		return defaultLineWidth
	}
	return *width
}
