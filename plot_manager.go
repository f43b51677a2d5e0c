package easyplot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoDataPath    = errors.New("no data file configured")
	ErrInvalidPlotID = errors.New("plot id cannot be used as a file name")
)

type Options struct {
	// Directory the charts are written to. It must exist.
	OutputDir string

	// Data file used by plots without a data_path of their own.
	DefaultDataPath string

	Renderer   Renderer
	FigureSize FigureSize

	// Shows every chart after it has been saved. May be nil.
	Displayer Displayer

	Logger logrus.FieldLogger
}

// PlotManager turns every configured plot into an image file, one after the
// other.
type PlotManager struct {
	cfg      *Config
	opts     Options
	provider *DataProvider
	logger   logrus.FieldLogger
}

func NewPlotManager(cfg *Config, opts Options) (*PlotManager, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	if opts.Renderer == "" {
		opts.Renderer = RendererGonum
	}
	if _, err := NewCanvas(opts.Renderer); err != nil {
		return nil, err
	}

	if opts.FigureSize == (FigureSize{}) {
		opts.FigureSize = DefaultFigureSize
	}

	info, err := os.Stat(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output directory %s is not a directory", opts.OutputDir)
	}

	m := &PlotManager{
		cfg:      cfg,
		opts:     opts,
		provider: NewDataProvider(opts.Logger),
		logger:   opts.Logger.WithField("tag", "PlotManager"),
	}
	m.logger.Debug("initialized plot manager")

	return m, nil
}

// CreatePlots renders all time domain plots in configuration order and stops
// at the first failure.
func (m *PlotManager) CreatePlots(ctx context.Context) error {
	plots := m.cfg.TimeDomainPlots()
	m.logger.Infof("creating %d plots", len(plots))

	for _, plot := range plots {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := m.CreatePlot(ctx, plot); err != nil {
			return fmt.Errorf("plot %s: %w", plot.ID, err)
		}
	}

	return nil
}

// CreatePlot renders a single plot and returns the path of the saved image.
func (m *PlotManager) CreatePlot(ctx context.Context, plot PlotConfig) (string, error) {
	logger := m.logger.WithField("plot", plot.ID)

	if err := checkPlotID(plot.ID); err != nil {
		return "", err
	}

	dataPath, err := m.dataPath(plot)
	if err != nil {
		return "", err
	}

	logger.Infof("load data from %s", dataPath)
	dataSet, err := m.provider.LoadDataSet(dataPath)
	if err != nil {
		return "", err
	}

	canvas, err := NewCanvas(m.opts.Renderer)
	if err != nil {
		return "", err
	}

	builder := NewPlotBuilder(canvas, m.opts.Logger).
		SetFigureSize(m.opts.FigureSize).
		SetDisplayer(m.opts.Displayer)

	plotters := []Plotter{
		NewPlotSettings(plot.PlotSettings, m.opts.Logger),
		NewPlotSignals(dataSet, plot.Signals, m.opts.Logger),
		NewPlotVerticalLines(plot.VerticalLines, m.opts.Logger),
		NewPlotAnnotation(plot.ID, plot.Description, m.opts.Logger),
	}
	for _, p := range plotters {
		p.Apply(builder)
	}

	outputPath := filepath.Join(m.opts.OutputDir, plot.ID+".png")
	if err := builder.Save(outputPath); err != nil {
		return "", err
	}
	logger.Infof("saved plot with %d lines to %s", builder.NumLines(), outputPath)

	if err := builder.Show(ctx); err != nil {
		logger.WithError(err).Warn("failed to display plot")
	}

	return outputPath, nil
}

// dataPath resolves the data file of a plot. Relative paths in the config are
// taken relative to the config file.
func (m *PlotManager) dataPath(plot PlotConfig) (string, error) {
	if plot.DataPath == "" {
		if m.opts.DefaultDataPath == "" {
			return "", ErrNoDataPath
		}
		return m.opts.DefaultDataPath, nil
	}

	if filepath.IsAbs(plot.DataPath) || m.cfg.Dir == "" {
		return plot.DataPath, nil
	}

	return filepath.Join(m.cfg.Dir, plot.DataPath), nil
}

func checkPlotID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidPlotID, id)
	}
	return nil
}
