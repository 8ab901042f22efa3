package export

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/san-kum/mathviz/internal/anim"
	"github.com/san-kum/mathviz/internal/visual"
	"github.com/san-kum/mathviz/internal/viz"
)

var ErrNoSurface = errors.New("export: visualization has no drawable surface")

type machined interface {
	Machine() *anim.Machine
}

// FastForward skips through every phase of a finite animation. Views that
// never finish, or cannot skip, are left where they are.
func FastForward(v visual.Visualization) {
	s, ok := v.(visual.Skipper)
	if !ok {
		return
	}
	m, ok := v.(machined)
	if !ok {
		s.Skip()
		return
	}
	for i := 0; i < 8 && m.Machine() != nil && !m.Machine().Done(); i++ {
		s.Skip()
	}
}

// Run ticks v n times, spacing ticks by step on clock.
func Run(v visual.Visualization, clock *anim.ManualClock, n int, step time.Duration, each func(int)) {
	for i := 0; i < n; i++ {
		v.Tick(clock.Advance(step))
		if each != nil {
			each(i)
		}
	}
}

// Frame renders the current state of v: the front buffer for raster views,
// a w×h projection for 3D views.
func Frame(v visual.Visualization, w, h int, theme viz.Theme) (image.Image, error) {
	switch x := v.(type) {
	case visual.RasterView:
		if x.Raster() == nil {
			return nil, ErrNoSurface
		}
		return x.Raster().Front(), nil
	case visual.SceneView:
		if x.Scene() == nil {
			return nil, ErrNoSurface
		}
		return SceneImage(x.Scene(), w, h, theme), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSurface, v.Name())
}

// SVG renders v as a vector document.
func SVG(v visual.Visualization, w, h int, theme viz.Theme) (string, error) {
	switch x := v.(type) {
	case *visual.Sierpinski:
		if x.Mode() == visual.MethodChaos {
			return PointsToSVG(x.Points(), visual.SierpinskiW, visual.SierpinskiH, theme), nil
		}
		depth, _ := x.Param(visual.DepthParam.Name)
		return TrianglesToSVG(x.Triangle(), x.Removed(), int(depth), visual.SierpinskiW, visual.SierpinskiH, theme), nil
	case visual.SceneView:
		if x.Scene() == nil {
			return "", ErrNoSurface
		}
		return SceneToSVG(x.Scene(), w, h, theme), nil
	}
	return "", fmt.Errorf("%w: %s has no vector form", ErrNoSurface, v.Name())
}

// CaptionFor is the stamp text for an exported frame.
func CaptionFor(v visual.Visualization, now time.Time) string {
	st := v.Status(now)
	text := v.Name() + "  " + st.Detail
	if st.Extra != "" {
		text += "  " + st.Extra
	}
	return text
}
