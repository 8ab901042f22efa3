package visual

import (
	"context"
	"testing"
	"time"

	"github.com/san-kum/mathviz/internal/anim"
	"github.com/san-kum/mathviz/internal/deps"
)

// readyEnv returns an environment whose libraries are already loaded.
func readyEnv(t *testing.T) (*Env, *anim.ManualClock) {
	t.Helper()
	tables := deps.NewTables()
	loader := deps.NewLoader(deps.Standard(tables)...)
	for _, lib := range []string{deps.Scene3D, deps.Raster} {
		if err := loader.Load(context.Background(), lib); err != nil {
			t.Fatal(err)
		}
	}
	clock := &anim.ManualClock{T: time.Unix(1_700_000_000, 0)}
	return &Env{
		Loader:  loader,
		Tables:  tables,
		Surface: FixedSurface(60, 20),
		Clock:   clock,
		Seed:    1,
	}, clock
}

func mustInit(t *testing.T, v Visualization) {
	t.Helper()
	if err := v.Init(context.Background()); err != nil {
		t.Fatalf("%s init: %v", v.Name(), err)
	}
}

// ticks drives n ticks, moving the clock one 60 Hz frame each time.
func ticks(v Visualization, clock *anim.ManualClock, n int) {
	for i := 0; i < n; i++ {
		v.Tick(clock.Advance(time.Second / 60))
	}
}

func lifecycleOf(v Visualization) *lifecycle {
	switch x := v.(type) {
	case *Lorenz:
		return &x.lifecycle
	case *Mobius:
		return &x.lifecycle
	case *Klein:
		return &x.lifecycle
	case *Sierpinski:
		return &x.lifecycle
	case *Mandelbrot:
		return &x.lifecycle
	}
	return nil
}

func smallMandelbrot() MandelbrotOptions {
	opts := DefaultMandelbrotOptions()
	opts.Viewport.W, opts.Viewport.H = 80, 60
	return opts
}

func allViews(env *Env) []Visualization {
	return []Visualization{
		NewLorenz(env, DefaultLorenzOptions()),
		NewMobius(env, DefaultMobiusOptions()),
		NewKlein(env, DefaultKleinOptions()),
		NewSierpinski(env, DefaultSierpinskiOptions()),
		NewMandelbrot(env, smallMandelbrot()),
	}
}
