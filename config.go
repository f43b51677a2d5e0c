package easyplot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingPlotID     = errors.New("plot entry has no id")
	ErrMissingSignalName = errors.New("signal entry has no signal_name")
	ErrDuplicatePlotID   = errors.New("duplicate plot id")
)

type ConfigFormat int

const (
	FormatJSON ConfigFormat = iota
	FormatYAML
)

// Config is the parsed configuration file.
type Config struct {
	Visualization Visualization `json:"visualization" yaml:"visualization"`

	// Directory of the file the config was loaded from. Relative data paths
	// are resolved against it.
	Dir string `json:"-" yaml:"-"`
}

type Visualization struct {
	TimeDomainPlots []PlotConfig `json:"time_domain_plot" yaml:"time_domain_plot"`
}

// PlotConfig fully describes one output chart.
type PlotConfig struct {
	ID            string               `json:"id" yaml:"id"`
	Description   string               `json:"description" yaml:"description"`
	DataPath      string               `json:"data_path,omitempty" yaml:"data_path,omitempty"`
	PlotSettings  PlotSettingsConfig   `json:"plot_settings" yaml:"plot_settings"`
	Signals       []SignalConfig       `json:"signals" yaml:"signals"`
	VerticalLines []VerticalLineConfig `json:"vertical_lines" yaml:"vertical_lines"`
}

type PlotSettingsConfig struct {
	Title         string        `json:"title" yaml:"title"`
	XAxisSettings XAxisSettings `json:"x_axis_settings" yaml:"x_axis_settings"`
	YAxisSettings YAxisSettings `json:"y_axis_settings" yaml:"y_axis_settings"`

	// Both default to true.
	XGrid *bool `json:"x_grid,omitempty" yaml:"x_grid,omitempty"`
	YGrid *bool `json:"y_grid,omitempty" yaml:"y_grid,omitempty"`
}

type XAxisSettings struct {
	XLabel string `json:"x_label" yaml:"x_label"`
	// "start::stop::interval"
	XAxis string `json:"x_axis" yaml:"x_axis"`
}

type YAxisSettings struct {
	YLabel string `json:"y_label" yaml:"y_label"`
	YAxis  string `json:"y_axis" yaml:"y_axis"`
}

type SignalConfig struct {
	SignalName string   `json:"signal_name" yaml:"signal_name"`
	Label      string   `json:"label,omitempty" yaml:"label,omitempty"`
	Color      string   `json:"color,omitempty" yaml:"color,omitempty"`
	Style      string   `json:"style,omitempty" yaml:"style,omitempty"`
	Width      *float64 `json:"width,omitempty" yaml:"width,omitempty"`
}

type VerticalLineConfig struct {
	XPosition Position    `json:"x_position" yaml:"x_position"`
	Color     string      `json:"color,omitempty" yaml:"color,omitempty"`
	Style     string      `json:"style,omitempty" yaml:"style,omitempty"`
	Width     *float64    `json:"width,omitempty" yaml:"width,omitempty"`
	Legend    string      `json:"legend,omitempty" yaml:"legend,omitempty"`
	Text      *TextConfig `json:"text,omitempty" yaml:"text,omitempty"`
}

type TextConfig struct {
	TextYPosition Position `json:"text_y_position" yaml:"text_y_position"`
	TextContent   string   `json:"text_content" yaml:"text_content"`
	YAlignment    string   `json:"y_alignment,omitempty" yaml:"y_alignment,omitempty"`
	XAlignment    string   `json:"x_alignment,omitempty" yaml:"x_alignment,omitempty"`
}

// Position is a coordinate written either as a number or as a string whose
// first whitespace separated token is a number, e.g. "5 m". Anything after
// the first token is currently ignored.
type Position string

func (p *Position) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Position(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("position must be a number or a string: %w", err)
	}
	*p = Position(n.String())
	return nil
}

func (p *Position) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: position must be a scalar", value.Line)
	}
	*p = Position(value.Value)
	return nil
}

func (p Position) Float() (float64, error) {
	fields := strings.Fields(string(p))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty position")
	}

	return strconv.ParseFloat(fields[0], 64)
}

// LoadConfig reads a configuration file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}

	cfg, err := ParseConfig(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

func ParseConfig(data []byte, format ConfigFormat) (*Config, error) {
	cfg := &Config{}

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) TimeDomainPlots() []PlotConfig {
	return c.Visualization.TimeDomainPlots
}

func (c *Config) validate() error {
	seen := make(map[string]bool)
	for i, plot := range c.Visualization.TimeDomainPlots {
		if strings.TrimSpace(plot.ID) == "" {
			return fmt.Errorf("time_domain_plot[%d]: %w", i, ErrMissingPlotID)
		}

		if seen[plot.ID] {
			return fmt.Errorf("time_domain_plot[%d]: %w: %s", i, ErrDuplicatePlotID, plot.ID)
		}
		seen[plot.ID] = true

		for j, signal := range plot.Signals {
			if signal.SignalName == "" {
				return fmt.Errorf("time_domain_plot[%d].signals[%d]: %w", i, j, ErrMissingSignalName)
			}
		}
	}

	return nil
}
