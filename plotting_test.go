package easyplot

import (
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/image/colornames"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func newTestBuilder() (*PlotBuilder, *fakeCanvas) {
	canvas := &fakeCanvas{}
	return NewPlotBuilder(canvas, nil), canvas
}

func testDataSet() *DataSet {
	return &DataSet{
		Time: []float64{0, 1, 2},
		Signals: map[string][]float64{
			"speed":           {1, 2, 3},
			DefaultSignalName: {0, 0, 1},
		},
		Columns: []string{"speed"},
	}
}

func TestPlotSettings(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		b, canvas := newTestBuilder()
		NewPlotSettings(PlotSettingsConfig{
			Title:         "Warning",
			XAxisSettings: XAxisSettings{XLabel: "Time [s]", XAxis: "0::20::2"},
			YAxisSettings: YAxisSettings{YLabel: "Value", YAxis: "0::1::0.5"},
		}, nil).Apply(b)

		if canvas.title != "Warning" || canvas.xLabel != "Time [s]" || canvas.yLabel != "Value" {
			t.Fatalf("labels not applied: %+v", canvas)
		}

		if canvas.xLimits == nil || *canvas.xLimits != [2]float64{0, 20} {
			t.Fatalf("unexpected x limits %v", canvas.xLimits)
		}

		want := GridSpec{X: true, Y: true, XMajor: 2, XMinor: 0.4, YMajor: 0.5, YMinor: 0.1}
		if canvas.grid == nil || *canvas.grid != want {
			t.Fatalf("unexpected grid: got %+v want %+v", canvas.grid, want)
		}
	})

	t.Run("GridDisabled", func(t *testing.T) {
		b, canvas := newTestBuilder()
		NewPlotSettings(PlotSettingsConfig{XGrid: boolPtr(false)}, nil).Apply(b)

		if canvas.grid == nil || canvas.grid.X || !canvas.grid.Y {
			t.Fatalf("unexpected grid %+v", canvas.grid)
		}
	})

	t.Run("MissingAxesLogged", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		canvas := &fakeCanvas{}
		b := NewPlotBuilder(canvas, logger)
		NewPlotSettings(PlotSettingsConfig{}, logger).Apply(b)

		if canvas.xLimits != nil || canvas.yLimits != nil {
			t.Fatalf("expected limits to stay unset, got %v %v", canvas.xLimits, canvas.yLimits)
		}

		if countLevel(hook, logrus.ErrorLevel) != 2 {
			t.Fatalf("expected two error logs, got %v", hook.AllEntries())
		}
	})
}

func TestPlotSignals(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		b, canvas := newTestBuilder()
		NewPlotSignals(testDataSet(), []SignalConfig{{SignalName: "speed"}}, nil).Apply(b)

		if len(canvas.lines) != 1 {
			t.Fatalf("expected one line, got %d", len(canvas.lines))
		}

		got := canvas.lines[0]
		if got.Label != "speed" || got.Width != 1 || got.Dashes != nil {
			t.Fatalf("unexpected style %+v", got)
		}

		if got.Color != colornames.Black {
			t.Fatalf("expected black, got %v", got.Color)
		}
	})

	t.Run("Configured", func(t *testing.T) {
		b, canvas := newTestBuilder()
		NewPlotSignals(testDataSet(), []SignalConfig{{
			SignalName: DefaultSignalName,
			Label:      "Warning",
			Color:      "red",
			Style:      "--",
			Width:      floatPtr(2),
		}}, nil).Apply(b)

		want := LineStyle{Label: "Warning", Color: colornames.Red, Width: 2, Dashes: []float64{6, 3}}
		if len(canvas.lines) != 1 || !reflect.DeepEqual(canvas.lines[0], want) {
			t.Fatalf("unexpected lines %+v", canvas.lines)
		}
	})

	t.Run("MissingSignalSkipped", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		canvas := &fakeCanvas{}
		b := NewPlotBuilder(canvas, logger)

		NewPlotSignals(testDataSet(), []SignalConfig{
			{SignalName: "missing"},
			{SignalName: "speed"},
		}, logger).Apply(b)

		if len(canvas.lines) != 1 || canvas.lines[0].Label != "speed" {
			t.Fatalf("expected only speed to be drawn, got %+v", canvas.lines)
		}

		if countLevel(hook, logrus.WarnLevel) != 1 {
			t.Fatalf("expected one warning, got %v", hook.AllEntries())
		}

		if b.Err() != nil {
			t.Fatalf("missing signal must not fail the builder, got %v", b.Err())
		}
	})

	t.Run("UnknownColor", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		b, canvas := newTestBuilder()
		NewPlotSignals(testDataSet(), []SignalConfig{{SignalName: "speed", Color: "octarine"}}, logger).Apply(b)

		if len(canvas.lines) != 1 || canvas.lines[0].Color != colornames.Black {
			t.Fatalf("expected fallback to black, got %+v", canvas.lines)
		}

		if countLevel(hook, logrus.WarnLevel) != 1 {
			t.Fatalf("expected one warning, got %v", hook.AllEntries())
		}
	})
}

func TestPlotVerticalLines(t *testing.T) {
	t.Run("PositionWithUnit", func(t *testing.T) {
		b, canvas := newTestBuilder()
		NewPlotVerticalLines([]VerticalLineConfig{{
			XPosition: "5 m",
			Text: &TextConfig{
				TextYPosition: "0.8",
				TextContent:   "brake",
			},
		}}, nil).Apply(b)

		if !reflect.DeepEqual(canvas.vlines, []float64{5}) {
			t.Fatalf("unexpected vertical lines %v", canvas.vlines)
		}

		if len(canvas.texts) != 1 {
			t.Fatalf("expected one text, got %d", len(canvas.texts))
		}

		want := fakeText{x: 5, y: 0.8, text: "brake", style: TextStyle{HAlign: AlignLeft, VAlign: AlignBottom}}
		if !reflect.DeepEqual(canvas.texts[0], want) {
			t.Fatalf("unexpected text: got %+v want %+v", canvas.texts[0], want)
		}
	})

	t.Run("Alignment", func(t *testing.T) {
		b, canvas := newTestBuilder()
		NewPlotVerticalLines([]VerticalLineConfig{{
			XPosition: "2",
			Text: &TextConfig{
				TextYPosition: "1",
				TextContent:   "t",
				YAlignment:    "top",
				XAlignment:    "right",
			},
		}}, nil).Apply(b)

		if len(canvas.texts) != 1 {
			t.Fatalf("expected one text, got %d", len(canvas.texts))
		}

		style := canvas.texts[0].style
		if style.HAlign != AlignRight || style.VAlign != AlignTop {
			t.Fatalf("unexpected alignment %+v", style)
		}
	})

	t.Run("BadPositionSkipped", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		b, canvas := newTestBuilder()
		NewPlotVerticalLines([]VerticalLineConfig{
			{XPosition: "soon"},
			{XPosition: "3"},
		}, logger).Apply(b)

		if !reflect.DeepEqual(canvas.vlines, []float64{3}) {
			t.Fatalf("unexpected vertical lines %v", canvas.vlines)
		}

		if countLevel(hook, logrus.ErrorLevel) != 1 {
			t.Fatalf("expected one error log, got %v", hook.AllEntries())
		}
	})

	t.Run("BadTextPositionKeepsLine", func(t *testing.T) {
		b, canvas := newTestBuilder()
		NewPlotVerticalLines([]VerticalLineConfig{{
			XPosition: "1",
			Text:      &TextConfig{TextYPosition: "", TextContent: "t"},
		}}, nil).Apply(b)

		if len(canvas.vlines) != 1 || len(canvas.texts) != 0 {
			t.Fatalf("expected line without text, got vlines=%v texts=%v", canvas.vlines, canvas.texts)
		}
	})
}

func TestPlotAnnotation(t *testing.T) {
	b, canvas := newTestBuilder()
	NewPlotAnnotation("plot1", "brake test", nil).Apply(b)

	if canvas.footer != "plot1: brake test" {
		t.Fatalf("unexpected footer %q", canvas.footer)
	}
}
