package deps

import (
	"context"
	"sync"

	"github.com/san-kum/mathviz/internal/kernel"
)

// LUTSize is the resolution of every colour table.
const LUTSize = 1024

// Tables holds the colour lookup tables the render libraries build when
// they load. Views read from it only after their library is ready.
type Tables struct {
	mu  sync.RWMutex
	lut map[string][]kernel.RGB
}

func NewTables() *Tables {
	return &Tables{lut: make(map[string][]kernel.RGB)}
}

// Get returns the named table, or nil before it has been built.
func (t *Tables) Get(name string) []kernel.RGB {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lut[name]
}

func (t *Tables) put(name string, lut []kernel.RGB) {
	t.mu.Lock()
	t.lut[name] = lut
	t.mu.Unlock()
}

// Lookup maps f in [0, 1] into a table.
func Lookup(lut []kernel.RGB, f float64) kernel.RGB {
	if len(lut) == 0 {
		return kernel.RGB{}
	}
	i := int(f * float64(len(lut)-1))
	i = max(0, min(len(lut)-1, i))
	return lut[i]
}

// Standard returns the scene3d and raster libraries, both filling t.
func Standard(t *Tables) []Library {
	return []Library{
		{Name: Scene3D, Load: func(ctx context.Context) error {
			for name, cs := range map[string]kernel.Colorscale{
				"inferno":  kernel.Inferno,
				"twilight": kernel.Twilight,
				"dusk":     kernel.Dusk,
			} {
				if err := ctx.Err(); err != nil {
					return err
				}
				t.put(name, cs.LUT(LUTSize))
			}
			return nil
		}},
		{Name: Raster, Load: func(ctx context.Context) error {
			for _, name := range kernel.PaletteNames {
				if err := ctx.Err(); err != nil {
					return err
				}
				pal := kernel.GetPalette(name)
				lut := make([]kernel.RGB, LUTSize)
				for i := range lut {
					lut[i] = pal(float64(i) / LUTSize)
				}
				t.put("palette/"+name, lut)
			}
			return nil
		}},
	}
}
