package easyplot

import (
	"image/color"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// goChartCanvas draws with github.com/wcharczuk/go-chart. Text alignment is
// not supported by its annotations; texts are always drawn to the right of
// their anchor.
type goChartCanvas struct {
	title  string
	xLabel string
	yLabel string

	xLimits *[2]float64
	yLimits *[2]float64

	grid *GridSpec

	lines     []chart.ContinuousSeries
	vertical  []goChartVerticalLine
	texts     []chart.Value2
	footer    string
	dataYSpan [2]float64
	hasData   bool
}

type goChartVerticalLine struct {
	x     float64
	style LineStyle
}

var _ Canvas = (*goChartCanvas)(nil)

func newGoChartCanvas() *goChartCanvas {
	return &goChartCanvas{}
}

func (g *goChartCanvas) SetTitle(title string) {
	g.title = title
}

func (g *goChartCanvas) SetXLabel(label string) {
	g.xLabel = label
}

func (g *goChartCanvas) SetYLabel(label string) {
	g.yLabel = label
}

func (g *goChartCanvas) SetXLimits(min, max float64) {
	g.xLimits = &[2]float64{min, max}
}

func (g *goChartCanvas) SetYLimits(min, max float64) {
	g.yLimits = &[2]float64{min, max}
}

func (g *goChartCanvas) SetGrid(grid GridSpec) {
	g.grid = &grid
}

func (g *goChartCanvas) AddLine(x, y []float64, style LineStyle) error {
	g.lines = append(g.lines, chart.ContinuousSeries{
		Name:    style.Label,
		XValues: x,
		YValues: y,
		Style:   seriesStyle(style),
	})

	if lo, hi, ok := Span(y); ok {
		if !g.hasData {
			g.dataYSpan = [2]float64{lo, hi}
			g.hasData = true
		}
		g.dataYSpan[0] = Min(g.dataYSpan[0], lo)
		g.dataYSpan[1] = Max(g.dataYSpan[1], hi)
	}

	return nil
}

func (g *goChartCanvas) AddVerticalLine(x float64, style LineStyle) {
	g.vertical = append(g.vertical, goChartVerticalLine{x: x, style: style})
}

func (g *goChartCanvas) AddText(x, y float64, txt string, style TextStyle) error {
	g.texts = append(g.texts, chart.Value2{XValue: x, YValue: y, Label: txt})
	return nil
}

func (g *goChartCanvas) SetFooter(txt string) {
	g.footer = txt
}

func (g *goChartCanvas) WritePNG(w io.Writer, size FigureSize) error {
	width, height := size.Pixels()

	padBottom := 20
	if g.footer != "" {
		padBottom += footerFontSize + 8
	}

	ch := chart.Chart{
		Title:      g.title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: padBottom}},
		XAxis:      chart.XAxis{Name: g.xLabel},
		YAxis:      chart.YAxis{Name: g.yLabel},
	}

	// go-chart rejects zero width ranges, so a single x position or a
	// constant signal gets one unit of room on each side.
	if g.xLimits != nil {
		ch.XAxis.Range = &chart.ContinuousRange{Min: g.xLimits[0], Max: g.xLimits[1]}
	} else if lo, hi, ok := g.xSpan(); ok && lo == hi {
		ch.XAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	} else if ok && len(g.lines) == 0 && len(g.vertical) == 0 {
		// Annotations alone do not feed go-chart's range detection.
		ch.XAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
	}
	if g.yLimits != nil {
		ch.YAxis.Range = &chart.ContinuousRange{Min: g.yLimits[0], Max: g.yLimits[1]}
	} else if !g.hasData || g.dataYSpan[0] == g.dataYSpan[1] {
		lo, hi := g.yExtent()
		ch.YAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
	}
	g.applyGrid(&ch)

	for _, line := range g.lines {
		ch.Series = append(ch.Series, line)
	}

	yLo, yHi := g.yExtent()
	for _, v := range g.vertical {
		series := chart.ContinuousSeries{
			Name:    v.style.Label,
			XValues: []float64{v.x, v.x},
			YValues: []float64{yLo, yHi},
			Style:   seriesStyle(v.style),
		}
		ch.Series = append(ch.Series, series)
	}

	if len(g.texts) > 0 {
		ch.Series = append(ch.Series, chart.AnnotationSeries{Annotations: g.texts})
	}

	if len(ch.Series) == 0 {
		// go-chart refuses to render without series.
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			XValues: []float64{0, 1},
			YValues: []float64{yLo, yHi},
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
		})
	}

	// The legend only lists named series.
	named := Filter(ch.Series, func(s chart.Series) bool { return s.GetName() != "" })
	if len(named) > 0 {
		legendChart := ch
		legendChart.Series = named
		ch.Elements = append(ch.Elements, chart.Legend(&legendChart))
	}
	if g.footer != "" {
		ch.Elements = append(ch.Elements, goChartFooter(g.footer, height))
	}

	return ch.Render(chart.PNG, w)
}

func (g *goChartCanvas) applyGrid(ch *chart.Chart) {
	ch.XAxis.GridMajorStyle, ch.XAxis.GridMinorStyle = chart.Hidden(), chart.Hidden()
	ch.YAxis.GridMajorStyle, ch.YAxis.GridMinorStyle = chart.Hidden(), chart.Hidden()
	if g.grid == nil {
		return
	}

	major := chart.Style{StrokeColor: drawingColor(gridMajorColor), StrokeWidth: 1}
	minor := chart.Style{StrokeColor: drawingColor(gridMinorColor), StrokeWidth: 1, StrokeDashArray: gridMinorDash}

	if g.grid.XMajor > 0 && g.xLimits != nil {
		ticks, lines := goChartTicks(g.xLimits[0], g.xLimits[1], g.grid.XMajor, g.grid.XMinor, major, minor)
		ch.XAxis.Ticks = ticks
		if g.grid.X {
			ch.XAxis.GridLines = lines
		}
	}
	if g.grid.X {
		ch.XAxis.GridMajorStyle = major
		ch.XAxis.GridMinorStyle = minor
	}

	if g.grid.YMajor > 0 && g.yLimits != nil {
		ticks, lines := goChartTicks(g.yLimits[0], g.yLimits[1], g.grid.YMajor, g.grid.YMinor, major, minor)
		ch.YAxis.Ticks = ticks
		if g.grid.Y {
			ch.YAxis.GridLines = lines
		}
	}
	if g.grid.Y {
		ch.YAxis.GridMajorStyle = major
		ch.YAxis.GridMinorStyle = minor
	}
}

// xSpan is the x range covered by lines, vertical lines and texts.
func (g *goChartCanvas) xSpan() (float64, float64, bool) {
	var xs []float64
	for _, line := range g.lines {
		xs = append(xs, line.XValues...)
	}
	for _, v := range g.vertical {
		xs = append(xs, v.x)
	}
	for _, t := range g.texts {
		xs = append(xs, t.XValue)
	}
	return Span(xs)
}

// yExtent is the y range vertical lines have to cover.
func (g *goChartCanvas) yExtent() (float64, float64) {
	switch {
	case g.yLimits != nil:
		return g.yLimits[0], g.yLimits[1]
	case g.hasData && g.dataYSpan[0] < g.dataYSpan[1]:
		return g.dataYSpan[0], g.dataYSpan[1]
	case g.hasData:
		return g.dataYSpan[0] - 1, g.dataYSpan[1] + 1
	}
	return 0, 1
}

func goChartTicks(min, max, majorStep, minorStep float64, major, minor chart.Style) ([]chart.Tick, []chart.GridLine) {
	var ticks []chart.Tick
	var lines []chart.GridLine
	for _, tk := range (multipleTicks{Major: majorStep, Minor: minorStep}).Ticks(min, max) {
		if tk.IsMinor() {
			lines = append(lines, chart.GridLine{IsMinor: true, Style: minor, Value: tk.Value})
			continue
		}
		ticks = append(ticks, chart.Tick{Value: tk.Value, Label: tk.Label})
		lines = append(lines, chart.GridLine{Style: major, Value: tk.Value})
	}
	return ticks, lines
}

func goChartFooter(txt string, height int) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		r.SetFont(defaults.GetFont())
		r.SetFontSize(footerFontSize)
		r.SetFontColor(drawing.ColorBlack)

		box := r.MeasureText(txt)
		x := (canvasBox.Left+canvasBox.Right)/2 - box.Width()/2
		r.Text(txt, x, height-6)
	}
}

func seriesStyle(style LineStyle) chart.Style {
	return chart.Style{
		StrokeColor:     drawingColor(style.Color),
		StrokeWidth:     math.Max(style.Width, 0.5),
		StrokeDashArray: style.Dashes,
	}
}

func drawingColor(c color.Color) drawing.Color {
	if c == nil {
		return drawing.ColorBlack
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}
