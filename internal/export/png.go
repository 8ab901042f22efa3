package export

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/mathviz/internal/viz"
)

// Scale resizes img by factor with Catmull-Rom resampling. A factor of 1
// returns a copy.
func Scale(img image.Image, factor float64) *image.RGBA {
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor))
	h := max(1, int(float64(b.Dy())*factor))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Rect, img, b, draw.Src, nil)
	return dst
}

// Caption stamps text near the bottom-left corner on a translucent band.
func Caption(img *image.RGBA, text string, theme viz.Theme) {
	if strings.TrimSpace(text) == "" {
		return
	}
	b := img.Bounds()
	face := basicfont.Face7x13
	pad := 6

	dr := &font.Drawer{Dst: img, Src: image.NewUniform(viz.RGBA(theme.Text)), Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6

	bg := viz.RGBA(theme.Background)
	bg.A = 200
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(img, rect, image.NewUniform(bg), image.Point{}, draw.Over)

	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
}

// WritePNG scales img, stamps caption and encodes the result.
func WritePNG(w io.Writer, img image.Image, factor float64, caption string, theme viz.Theme) error {
	out := Scale(img, factor)
	Caption(out, caption, theme)
	return png.Encode(w, out)
}

// SceneImage rasterizes a projected scene at w×h.
func SceneImage(s *viz.Scene, w, h int, theme viz.Theme) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, image.NewUniform(viz.RGBA(theme.Background)), image.Point{}, draw.Src)
	for _, seg := range viz.ProjectScene(s, w, h, theme) {
		line(img, int(seg.X1), int(seg.Y1), int(seg.X2), int(seg.Y2), seg.Color)
	}
	return img
}

// line is Bresenham clipped to the image bounds. Segments are already
// depth sorted, so later pixels win.
func line(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	b := img.Rect
	if (x0 < b.Min.X && x1 < b.Min.X) || (x0 >= b.Max.X && x1 >= b.Max.X) ||
		(y0 < b.Min.Y && y1 < b.Min.Y) || (y0 >= b.Max.Y && y1 >= b.Max.Y) {
		return
	}
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if image.Pt(x0, y0).In(b) {
			img.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
