package export

import (
	"errors"
	"image"
	"image/color/palette"
	"image/gif"
	"io"

	"golang.org/x/image/draw"
)

// Recorder collects frames for an animated GIF.
type Recorder struct {
	delay  int // hundredths of a second
	factor float64
	anim   gif.GIF
}

// NewRecorder records frames shown for delay hundredths of a second,
// scaled by factor.
func NewRecorder(delay int, factor float64) *Recorder {
	if delay <= 0 {
		delay = 2
	}
	if factor <= 0 {
		factor = 1
	}
	return &Recorder{delay: delay, factor: factor}
}

// Add quantizes img to the web-safe palette with Floyd-Steinberg dithering.
func (r *Recorder) Add(img image.Image) {
	src := Scale(img, r.factor)
	frame := image.NewPaletted(src.Rect, palette.WebSafe)
	draw.FloydSteinberg.Draw(frame, frame.Rect, src, image.Point{})
	r.anim.Image = append(r.anim.Image, frame)
	r.anim.Delay = append(r.anim.Delay, r.delay)
}

func (r *Recorder) Frames() int { return len(r.anim.Image) }

var ErrNoFrames = errors.New("export: no frames recorded")

// Encode writes the animation, looping forever.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.anim.Image) == 0 {
		return ErrNoFrames
	}
	r.anim.LoopCount = 0
	return gif.EncodeAll(w, &r.anim)
}
