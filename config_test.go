package easyplot

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const testConfigJSON = `{
  "visualization": {
    "time_domain_plot": [
      {
        "id": "plot1",
        "description": "AEB warning",
        "plot_settings": {
          "title": "Warning",
          "x_axis_settings": {"x_label": "Time [s]", "x_axis": "0::10::1"},
          "y_axis_settings": {"y_label": "State", "y_axis": "-1::2::1"}
        },
        "signals": [
          {"signal_name": "AWV_Warnung", "label": "warning", "color": "red", "style": "--", "width": 2}
        ],
        "vertical_lines": [
          {"x_position": "5 m", "legend": "TTC",
           "text": {"text_y_position": "1.5", "text_content": "brake", "x_alignment": "center"}},
          {"x_position": 7}
        ]
      }
    ]
  }
}`

const testConfigYAML = `
visualization:
  time_domain_plot:
    - id: plot1
      description: AEB warning
      plot_settings:
        title: Warning
        x_axis_settings:
          x_label: Time [s]
          x_axis: "0::10::1"
        y_axis_settings:
          y_label: State
          y_axis: "-1::2::1"
      signals:
        - signal_name: AWV_Warnung
          label: warning
          color: red
          style: "--"
          width: 2
      vertical_lines:
        - x_position: 5 m
          legend: TTC
          text:
            text_y_position: "1.5"
            text_content: brake
            x_alignment: center
        - x_position: 7
`

func TestParseConfig(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(testConfigJSON), FormatJSON)
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}

		plots := cfg.TimeDomainPlots()
		if len(plots) != 1 {
			t.Fatalf("expected 1 plot, got %d", len(plots))
		}

		plot := plots[0]
		if plot.ID != "plot1" || plot.PlotSettings.XAxisSettings.XAxis != "0::10::1" {
			t.Fatalf("unexpected plot: %+v", plot)
		}

		if plot.Signals[0].Width == nil || *plot.Signals[0].Width != 2 {
			t.Fatalf("unexpected width: %v", plot.Signals[0].Width)
		}

		if plot.VerticalLines[0].XPosition != "5 m" || plot.VerticalLines[1].XPosition != "7" {
			t.Fatalf("unexpected positions: %q %q", plot.VerticalLines[0].XPosition, plot.VerticalLines[1].XPosition)
		}

		if plot.VerticalLines[0].Text == nil || plot.VerticalLines[1].Text != nil {
			t.Fatalf("unexpected texts: %+v", plot.VerticalLines)
		}
	})

	t.Run("YAMLMatchesJSON", func(t *testing.T) {
		fromJSON, err := ParseConfig([]byte(testConfigJSON), FormatJSON)
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}

		fromYAML, err := ParseConfig([]byte(testConfigYAML), FormatYAML)
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}

		if !reflect.DeepEqual(fromJSON, fromYAML) {
			t.Fatalf("YAML and JSON differ:\n%+v\n%+v", fromJSON, fromYAML)
		}
	})

	t.Run("NoVisualization", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(`{}`), FormatJSON)
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}

		if len(cfg.TimeDomainPlots()) != 0 {
			t.Fatalf("expected no plots, got %v", cfg.TimeDomainPlots())
		}
	})

	t.Run("MissingID", func(t *testing.T) {
		_, err := ParseConfig([]byte(`{"visualization":{"time_domain_plot":[{"description":"x"}]}}`), FormatJSON)
		if !errors.Is(err, ErrMissingPlotID) {
			t.Fatalf("expected ErrMissingPlotID, got %v", err)
		}
	})

	t.Run("DuplicateID", func(t *testing.T) {
		_, err := ParseConfig([]byte(`{"visualization":{"time_domain_plot":[{"id":"a"},{"id":"a"}]}}`), FormatJSON)
		if !errors.Is(err, ErrDuplicatePlotID) {
			t.Fatalf("expected ErrDuplicatePlotID, got %v", err)
		}
	})

	t.Run("MissingSignalName", func(t *testing.T) {
		_, err := ParseConfig([]byte(`{"visualization":{"time_domain_plot":[{"id":"a","signals":[{"label":"x"}]}]}}`), FormatJSON)
		if !errors.Is(err, ErrMissingSignalName) {
			t.Fatalf("expected ErrMissingSignalName, got %v", err)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		_, err := ParseConfig([]byte(`{`), FormatJSON)
		if err == nil {
			t.Fatal("expected error for invalid JSON")
		}
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("JSONFile", func(t *testing.T) {
		path := filepath.Join(dir, "config.json")
		if err := os.WriteFile(path, []byte(testConfigJSON), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}

		if cfg.Dir != dir {
			t.Fatalf("expected Dir %q, got %q", dir, cfg.Dir)
		}
	})

	t.Run("YAMLFile", func(t *testing.T) {
		path := filepath.Join(dir, "config.yml")
		if err := os.WriteFile(path, []byte(testConfigYAML), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}

		if cfg.TimeDomainPlots()[0].ID != "plot1" {
			t.Fatalf("unexpected plots: %+v", cfg.TimeDomainPlots())
		}
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "missing.json"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected os.ErrNotExist, got %v", err)
		}
	})
}

func TestPosition(t *testing.T) {
	tests := []struct {
		in      Position
		want    float64
		wantErr bool
	}{
		{"5 m", 5, false},
		{"5", 5, false},
		{"  -2.5\tkm/h", -2.5, false},
		{"1e2 s", 100, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tc := range tests {
		got, err := tc.in.Float()
		if (err != nil) != tc.wantErr {
			t.Fatalf("Position(%q).Float() error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if err == nil && got != tc.want {
			t.Fatalf("Position(%q).Float() = %v, want %v", tc.in, got, tc.want)
		}
	}

	t.Run("RejectsObject", func(t *testing.T) {
		var p Position
		if err := json.Unmarshal([]byte(`{"a":1}`), &p); err == nil {
			t.Fatal("expected error for object position")
		}
	})
}
