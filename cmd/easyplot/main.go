package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/cactusdynamics/easyplot"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

// Options holds the command line options.
type Options struct {
	Config    string `short:"c" long:"config" default:"configuration/config.json" description:"Path to the plot configuration (JSON or YAML)"`
	Output    string `short:"o" long:"output" default:"test_results" description:"Directory the plots are written to"`
	Data      string `short:"d" long:"data" default:"tests/data/filtered_signal_segment.csv" description:"Data file for plots without a data_path"`
	Renderer  string `long:"renderer" default:"gonum" choice:"gonum" choice:"gochart" description:"Chart rendering backend"`
	NoDisplay bool   `long:"no-display" description:"Only save the plots, do not open them"`
	LogLevel  string `long:"log-level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Minimum level of log messages"`
	LogFile   string `long:"log-file" description:"Also write log messages to this file"`
	Version   bool   `short:"v" long:"version" description:"Print the version and exit"`
}

func parseArgs(args []string) (Options, error) {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "easyplot"
	parser.ShortDescription = "Create pictures from the test results"

	_, err := parser.ParseArgs(args)
	return opts, err
}

// newLogger builds the logger described by opts. The returned function closes
// the log file, if any.
func newLogger(opts Options, stderr io.Writer) (*logrus.Logger, func() error, error) {
	level, err := logrus.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(stderr)

	if opts.LogFile == "" {
		return logger, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger.SetOutput(io.MultiWriter(stderr, f))
	return logger, f.Close, nil
}

func run(ctx context.Context, opts Options, stdout, stderr io.Writer) error {
	if opts.Version {
		fmt.Fprintf(stdout, "easyplot %s\n", easyplot.Version)
		return nil
	}

	logger, closeLog, err := newLogger(opts, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := createPlots(ctx, opts, logger); err != nil {
		logger.WithError(err).Error("failed to create plots")
		return err
	}

	return nil
}

func createPlots(ctx context.Context, opts Options, logger *logrus.Logger) error {
	if err := os.MkdirAll(opts.Output, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cfg, err := easyplot.LoadConfig(opts.Config)
	if err != nil {
		return err
	}

	var displayer easyplot.Displayer
	if !opts.NoDisplay {
		displayer = easyplot.NewSystemViewer(logger)
	}

	manager, err := easyplot.NewPlotManager(cfg, easyplot.Options{
		OutputDir:       opts.Output,
		DefaultDataPath: opts.Data,
		Renderer:        easyplot.Renderer(opts.Renderer),
		Displayer:       displayer,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	return manager.CreatePlots(ctx)
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, opts, os.Stdout, os.Stderr)
	stop()

	if err != nil {
		os.Exit(1)
	}
}
