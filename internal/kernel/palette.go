package kernel

import (
	"image/color"
	"math"
	"sort"
)

type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() color.RGBA { return color.RGBA{c.R, c.G, c.B, 255} }

// Palette maps t in [0, 1] to a colour.
type Palette func(t float64) RGB

func channel(base, span, t float64) uint8 {
	return uint8(math.Floor(base + span*t))
}

func infernoPalette(t float64) RGB {
	switch {
	case t < 0.25:
		s := t / 0.25
		return RGB{channel(10, 68, s), channel(7, 5, s), channel(46, 72, s)}
	case t < 0.5:
		s := (t - 0.25) / 0.25
		return RGB{channel(78, 90, s), channel(12, 46, s), channel(118, -35, s)}
	case t < 0.75:
		s := (t - 0.5) / 0.25
		return RGB{channel(168, 58, s), channel(58, 74, s), channel(83, -69, s)}
	default:
		s := (t - 0.75) / 0.25
		return RGB{channel(226, 26, s), channel(132, 122, s), channel(14, 238, s)}
	}
}

var palettes = map[string]Palette{
	"inferno": infernoPalette,
	"gold":    func(t float64) RGB { return RGB{channel(30, 170, t), channel(10, 152, t), channel(5, 101, t)} },
	"ocean":   func(t float64) RGB { return RGB{channel(5, 40, t), channel(20, 130, t), channel(60, 195, t)} },
	"grayscale": func(t float64) RGB {
		v := channel(0, 255, t)
		return RGB{v, v, v}
	},
}

// PaletteNames lists palettes in cycling order.
var PaletteNames = []string{"inferno", "gold", "ocean", "grayscale"}

// GetPalette returns the named palette, falling back to inferno.
func GetPalette(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return infernoPalette
}

// Stop is one colourscale anchor.
type Stop struct {
	At    float64
	Color RGB
}

// Colorscale interpolates linearly between ascending stops.
type Colorscale []Stop

func (cs Colorscale) At(t float64) RGB {
	if len(cs) == 0 {
		return RGB{}
	}
	if t <= cs[0].At {
		return cs[0].Color
	}
	last := cs[len(cs)-1]
	if t >= last.At {
		return last.Color
	}
	i := sort.Search(len(cs), func(i int) bool { return cs[i].At >= t })
	lo, hi := cs[i-1], cs[i]
	s := (t - lo.At) / (hi.At - lo.At)
	lerp := func(a, b uint8) uint8 { return uint8(math.Round(float64(a) + (float64(b)-float64(a))*s)) }
	return RGB{lerp(lo.Color.R, hi.Color.R), lerp(lo.Color.G, hi.Color.G), lerp(lo.Color.B, hi.Color.B)}
}

// LUT samples the scale into n evenly spaced colours.
func (cs Colorscale) LUT(n int) []RGB {
	out := make([]RGB, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = cs.At(t)
	}
	return out
}

var (
	Inferno = Colorscale{
		{0.00, RGB{0, 0, 4}}, {0.05, RGB{10, 7, 46}},
		{0.10, RGB{31, 12, 87}}, {0.15, RGB{55, 12, 110}},
		{0.20, RGB{78, 10, 118}}, {0.25, RGB{101, 10, 119}},
		{0.30, RGB{124, 13, 113}}, {0.35, RGB{147, 22, 100}},
		{0.40, RGB{168, 39, 83}}, {0.45, RGB{187, 58, 64}},
		{0.50, RGB{203, 80, 45}}, {0.55, RGB{216, 105, 27}},
		{0.60, RGB{226, 132, 14}}, {0.65, RGB{233, 161, 9}},
		{0.70, RGB{237, 190, 18}}, {0.75, RGB{237, 218, 48}},
		{0.80, RGB{233, 241, 89}}, {0.85, RGB{236, 252, 132}},
		{0.90, RGB{245, 254, 176}}, {0.95, RGB{252, 254, 215}},
		{1.00, RGB{252, 255, 252}},
	}

	Twilight = Colorscale{
		{0, RGB{30, 10, 60}},
		{0.5, RGB{120, 60, 20}},
		{1, RGB{200, 162, 106}},
	}

	Dusk = Colorscale{
		{0, RGB{10, 5, 40}},
		{0.3, RGB{80, 20, 100}},
		{0.6, RGB{160, 80, 60}},
		{1, RGB{200, 162, 106}},
	}
)
