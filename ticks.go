package easyplot

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// Above this many ticks per axis the fixed spacing is abandoned in favor of
// the default ticker.
const maxTicks = 500

// multipleTicks places major ticks on multiples of Major and unlabeled minor
// ticks on multiples of Minor in between.
type multipleTicks struct {
	Major float64
	Minor float64
}

var _ plot.Ticker = multipleTicks{}

func (m multipleTicks) Ticks(min, max float64) []plot.Tick {
	if m.Major <= 0 || max <= min || (max-min)/m.Major > maxTicks {
		return plot.DefaultTicks{}.Ticks(min, max)
	}

	var ticks []plot.Tick
	for _, v := range multiples(min, max, m.Major) {
		ticks = append(ticks, plot.Tick{Value: v, Label: formatTick(v)})
	}

	if m.Minor <= 0 || m.Minor >= m.Major || (max-min)/m.Minor > maxTicks {
		return ticks
	}

	for _, v := range multiples(min, max, m.Minor) {
		if isMultiple(v, m.Major) {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v})
	}

	return ticks
}

// multiples returns every multiple of step within [min, max].
func multiples(min, max, step float64) []float64 {
	var values []float64
	first := math.Ceil(min/step - 1e-9)
	last := math.Floor(max/step + 1e-9)
	for i := first; i <= last; i++ {
		v := i * step
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		values = append(values, v)
	}
	return values
}

func isMultiple(v, step float64) bool {
	r := math.Abs(math.Remainder(v, step))
	return r < step*1e-6
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
