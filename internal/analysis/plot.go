package analysis

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

// Plot draws log10 power against frequency bins as an ASCII chart.
func Plot(s Spectrum, width, height int, caption string) string {
	if len(s.Power) == 0 {
		return ""
	}
	series := make([]float64, len(s.Power))
	for i, p := range s.Power {
		series[i] = math.Log10(p + 1e-12)
	}
	return asciigraph.Plot(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}

// Sparkline draws a short unlabelled series, used for the x(t) panel.
func Sparkline(series []float64, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	return asciigraph.Plot(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
	)
}
