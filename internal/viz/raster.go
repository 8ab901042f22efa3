package viz

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"

	"github.com/san-kum/mathviz/internal/kernel"
)

// Raster is the pixel-buffer surface. Drawing goes to the back buffer;
// Flush publishes it in one full-canvas paint.
type Raster struct {
	back   *image.RGBA
	front  *image.RGBA
	paints int
}

func NewRaster(w, h int) *Raster {
	r := image.Rect(0, 0, w, h)
	return &Raster{back: image.NewRGBA(r), front: image.NewRGBA(r)}
}

func (r *Raster) Bounds() image.Rectangle { return r.back.Rect }
func (r *Raster) W() int                  { return r.back.Rect.Dx() }
func (r *Raster) H() int                  { return r.back.Rect.Dy() }

// Back is the working buffer for kernels that write pixels directly.
func (r *Raster) Back() *image.RGBA { return r.back }

// Front is the last flushed frame.
func (r *Raster) Front() *image.RGBA { return r.front }

// Fill paints the whole back buffer.
func (r *Raster) Fill(c color.RGBA) {
	draw.Draw(r.back, r.back.Rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// Set writes one pixel; out of range writes are dropped.
func (r *Raster) Set(x, y int, c color.RGBA) {
	r.back.SetRGBA(x, y, c)
}

// FillTriangle rasterizes t, sampling pixel centres.
func (r *Raster) FillTriangle(t kernel.Triangle, c color.RGBA) {
	minX := math.Floor(math.Min(t.A.X, math.Min(t.B.X, t.C.X)))
	maxX := math.Ceil(math.Max(t.A.X, math.Max(t.B.X, t.C.X)))
	minY := math.Floor(math.Min(t.A.Y, math.Min(t.B.Y, t.C.Y)))
	maxY := math.Ceil(math.Max(t.A.Y, math.Max(t.B.Y, t.C.Y)))
	b := r.back.Rect
	x0, x1 := max(int(minX), b.Min.X), min(int(maxX), b.Max.X-1)
	y0, y1 := max(int(minY), b.Min.Y), min(int(maxY), b.Max.Y-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if t.Contains(kernel.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}, 1e-9) {
				r.back.SetRGBA(x, y, c)
			}
		}
	}
}

// Flush publishes the back buffer. It is called once per batch.
func (r *Raster) Flush() {
	copy(r.front.Pix, r.back.Pix)
	r.paints++
}

// Paints counts flushes since creation.
func (r *Raster) Paints() int { return r.paints }

// Cells scales the front buffer to w columns by 2h pixel rows, two pixel
// rows per terminal cell.
func (r *Raster) Cells(w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(2*h, 2)))
	draw.ApproxBiLinear.Scale(dst, dst.Rect, r.front, r.front.Rect, draw.Src, nil)
	return dst
}

// HalfBlocks renders an image as upper-half-block characters, foreground
// for the top pixel and background for the bottom one.
func HalfBlocks(img *image.RGBA) string {
	var b strings.Builder
	bnd := img.Rect
	for y := bnd.Min.Y; y+1 < bnd.Max.Y; y += 2 {
		for x := bnd.Min.X; x < bnd.Max.X; x++ {
			top, bot := img.RGBAAt(x, y), img.RGBAAt(x, y+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(Hex(top))).
				Background(lipgloss.Color(Hex(bot))).
				Render("▀"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
