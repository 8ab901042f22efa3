package coord

import (
	"fmt"

	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/visual"
)

// Factory builds a view on first visit.
type Factory func(env *visual.Env) visual.Visualization

type Registry struct {
	order     []string
	factories map[string]Factory
}

func NewRegistry(opts visual.Options) *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("lorenz", func(env *visual.Env) visual.Visualization { return visual.NewLorenz(env, opts.Lorenz) })
	r.Register("mobius", func(env *visual.Env) visual.Visualization { return visual.NewMobius(env, opts.Mobius) })
	r.Register("klein", func(env *visual.Env) visual.Visualization { return visual.NewKlein(env, opts.Klein) })
	r.Register("sierpinski", func(env *visual.Env) visual.Visualization { return visual.NewSierpinski(env, opts.Sierpinski) })
	r.Register("mandelbrot", func(env *visual.Env) visual.Visualization { return visual.NewMandelbrot(env, opts.Mandelbrot) })
	return r
}

// Register adds a factory, replacing any previous one with the same name.
func (r *Registry) Register(name string, f Factory) {
	if _, ok := r.factories[name]; !ok {
		r.order = append(r.order, name)
	}
	r.factories[name] = f
}

func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

func (r *Registry) Get(name string, env *visual.Env) (visual.Visualization, error) {
	fn, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", kernel.ErrUnknownVisualization, name)
	}
	return fn(env), nil
}

// Names lists registered views in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
