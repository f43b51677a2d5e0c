package easyplot

import (
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const footerFontSize = 10

// gonumCanvas draws with gonum.org/v1/plot.
type gonumCanvas struct {
	plot *plot.Plot

	xLimits *[2]float64
	yLimits *[2]float64

	grid   *tickGrid
	footer string
}

var _ Canvas = (*gonumCanvas)(nil)

func newGonumCanvas() *gonumCanvas {
	p := plot.New()
	p.Legend.Top = true
	p.Legend.Left = false

	return &gonumCanvas{plot: p}
}

func (g *gonumCanvas) SetTitle(title string) {
	g.plot.Title.Text = title
}

func (g *gonumCanvas) SetXLabel(label string) {
	g.plot.X.Label.Text = label
}

func (g *gonumCanvas) SetYLabel(label string) {
	g.plot.Y.Label.Text = label
}

func (g *gonumCanvas) SetXLimits(min, max float64) {
	g.xLimits = &[2]float64{min, max}
}

func (g *gonumCanvas) SetYLimits(min, max float64) {
	g.yLimits = &[2]float64{min, max}
}

func (g *gonumCanvas) SetGrid(grid GridSpec) {
	if grid.XMajor > 0 {
		g.plot.X.Tick.Marker = multipleTicks{Major: grid.XMajor, Minor: grid.XMinor}
	}
	if grid.YMajor > 0 {
		g.plot.Y.Tick.Marker = multipleTicks{Major: grid.YMajor, Minor: grid.YMinor}
	}

	// The grid is added once so it stays below every line added later.
	if g.grid == nil {
		g.grid = &tickGrid{
			major: draw.LineStyle{Color: gridMajorColor, Width: vg.Points(0.5)},
			minor: draw.LineStyle{Color: gridMinorColor, Width: vg.Points(0.5), Dashes: points(gridMinorDash)},
		}
		g.plot.Add(g.grid)
	}
	g.grid.vertical = grid.X
	g.grid.horizontal = grid.Y
}

func (g *gonumCanvas) AddLine(x, y []float64, style LineStyle) error {
	xys := make(plotter.XYs, len(x))
	for i := range x {
		xys[i].X = x[i]
		xys[i].Y = y[i]
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.LineStyle = lineStyle(style)

	g.plot.Add(line)
	if style.Label != "" {
		g.plot.Legend.Add(style.Label, line)
	}

	return nil
}

func (g *gonumCanvas) AddVerticalLine(x float64, style LineStyle) {
	v := &verticalLine{x: x, style: lineStyle(style)}
	g.plot.Add(v)
	if style.Label != "" {
		g.plot.Legend.Add(style.Label, v)
	}
}

func (g *gonumCanvas) AddText(x, y float64, txt string, style TextStyle) error {
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: x, Y: y}},
		Labels: []string{txt},
	})
	if err != nil {
		return err
	}

	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = xAlign(style.HAlign)
		labels.TextStyle[i].YAlign = yAlign(style.VAlign)
		if style.Color != nil {
			labels.TextStyle[i].Color = style.Color
		}
	}

	g.plot.Add(labels)
	return nil
}

func (g *gonumCanvas) SetFooter(txt string) {
	g.footer = txt
}

func (g *gonumCanvas) WritePNG(w io.Writer, size FigureSize) error {
	if g.xLimits != nil {
		g.plot.X.Min, g.plot.X.Max = g.xLimits[0], g.xLimits[1]
	}
	if g.yLimits != nil {
		g.plot.Y.Min, g.plot.Y.Max = g.yLimits[0], g.yLimits[1]
	}

	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(size.Width)*vg.Inch, vg.Length(size.Height)*vg.Inch),
		vgimg.UseDPI(int(size.DPI)),
	)
	dc := draw.New(img)

	if g.footer != "" {
		sty := g.plot.Title.TextStyle
		sty.Font.Size = vg.Points(footerFontSize)
		sty.XAlign = draw.XCenter
		sty.YAlign = draw.YBottom

		pad := vg.Points(4)
		dc.FillText(sty, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Min.Y + pad}, g.footer)
		dc = draw.Crop(dc, 0, 0, sty.Height(g.footer)+2*pad, 0)
	}

	g.plot.Draw(dc)

	png := vgimg.PngCanvas{Canvas: img}
	_, err := png.WriteTo(w)
	return err
}

// verticalLine spans the whole height of the plot area at x.
type verticalLine struct {
	x     float64
	style draw.LineStyle
}

func (v *verticalLine) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, _ := plt.Transforms(&c)
	x := trX(v.x)
	if x < c.Min.X || x > c.Max.X {
		return
	}
	c.StrokeLine2(v.style, x, c.Min.Y, x, c.Max.Y)
}

// DataRange widens only the x axis. The infinite y bounds leave the y range
// to the other plotters.
func (v *verticalLine) DataRange() (xmin, xmax, ymin, ymax float64) {
	return v.x, v.x, math.Inf(1), math.Inf(-1)
}

func (v *verticalLine) Thumbnail(c *draw.Canvas) {
	y := (c.Min.Y + c.Max.Y) / 2
	c.StrokeLine2(v.style, c.Min.X, y, c.Max.X, y)
}

// tickGrid draws grid lines at every tick, with a lighter style for minor
// ticks.
type tickGrid struct {
	vertical   bool
	horizontal bool
	major      draw.LineStyle
	minor      draw.LineStyle
}

func (t *tickGrid) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	if t.vertical {
		for _, tk := range plt.X.Tick.Marker.Ticks(plt.X.Min, plt.X.Max) {
			x := trX(tk.Value)
			c.StrokeLine2(t.styleFor(tk), x, c.Min.Y, x, c.Max.Y)
		}
	}

	if t.horizontal {
		for _, tk := range plt.Y.Tick.Marker.Ticks(plt.Y.Min, plt.Y.Max) {
			y := trY(tk.Value)
			c.StrokeLine2(t.styleFor(tk), c.Min.X, y, c.Max.X, y)
		}
	}
}

func (t *tickGrid) styleFor(tk plot.Tick) draw.LineStyle {
	if tk.IsMinor() {
		return t.minor
	}
	return t.major
}

func lineStyle(style LineStyle) draw.LineStyle {
	return draw.LineStyle{
		Color:  style.Color,
		Width:  vg.Points(style.Width),
		Dashes: points(style.Dashes),
	}
}

func points(values []float64) []vg.Length {
	if len(values) == 0 {
		return nil
	}

	lengths := make([]vg.Length, len(values))
	for i, v := range values {
		lengths[i] = vg.Points(v)
	}
	return lengths
}

func xAlign(a HAlign) text.XAlignment {
	switch a {
	case AlignCenter:
		return draw.XCenter
	case AlignRight:
		return draw.XRight
	}
	return draw.XLeft
}

func yAlign(a VAlign) text.YAlignment {
	switch a {
	case AlignMiddle:
		return draw.YCenter
	case AlignTop:
		return draw.YTop
	case AlignBaseline:
		// gonum text has no baseline anchor; bottom is the closest.
		return draw.YBottom
	}
	return draw.YBottom
}
