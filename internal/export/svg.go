// Package export writes finished visualizations to SVG, PNG and GIF.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/viz"
)

func svgHeader(sb *strings.Builder, width, height float64, bg string) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, bg)
}

// CanvasToSVG converts a braille canvas to SVG, one circle per dot in its
// cell's ink.
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.DotsW()) * scale
	height := float64(canvas.DotsH()) * scale

	var sb strings.Builder
	svgHeader(&sb, width, height, string(theme.Background))

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := viz.Hex(canvas.Ink[row][col])

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotBits[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill)
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

var dotBits = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// SceneToSVG projects a 3D scene and writes its segments far to near.
func SceneToSVG(s *viz.Scene, width, height int, theme viz.Theme) string {
	var sb strings.Builder
	svgHeader(&sb, float64(width), float64(height), string(theme.Background))
	sb.WriteString(`<g stroke-width="1.2" stroke-linecap="round">` + "\n")
	for _, seg := range viz.ProjectScene(s, width, height, theme) {
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
`, seg.X1, seg.Y1, seg.X2, seg.Y2, viz.Hex(seg.Color))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrianglesToSVG draws the recursive Sierpinski figure: the outer triangle
// filled, then each removal level up to depth in the background colour.
func TrianglesToSVG(outer kernel.Triangle, removed [][]kernel.Triangle, depth, width, height int, theme viz.Theme) string {
	var sb strings.Builder
	svgHeader(&sb, float64(width), float64(height), string(theme.Background))
	writeTriangle(&sb, outer, string(theme.Accent))
	for d := 1; d <= depth && d < len(removed); d++ {
		for _, t := range removed[d] {
			writeTriangle(&sb, t, string(theme.Background))
		}
	}
	sb.WriteString("</svg>")
	return sb.String()
}

func writeTriangle(sb *strings.Builder, t kernel.Triangle, fill string) {
	fmt.Fprintf(sb, `<polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s"/>
`, t.A.X, t.A.Y, t.B.X, t.B.Y, t.C.X, t.C.Y, fill)
}

// PointsToSVG plots chaos-game points as one-unit squares.
func PointsToSVG(points []kernel.Point, width, height int, theme viz.Theme) string {
	var sb strings.Builder
	svgHeader(&sb, float64(width), float64(height), string(theme.Background))
	fmt.Fprintf(&sb, `<g fill="%s">`+"\n", theme.Accent)
	for _, p := range points {
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="1" height="1"/>`+"\n", p.X, p.Y)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WriteSVG writes doc to w.
func WriteSVG(w io.Writer, doc string) error {
	if doc == "" {
		return fmt.Errorf("export: empty svg")
	}
	_, err := io.WriteString(w, doc)
	return err
}
