package visual

// Options seeds every view's parameters.
type Options struct {
	Lorenz     LorenzOptions
	Mobius     MobiusOptions
	Klein      KleinOptions
	Sierpinski SierpinskiOptions
	Mandelbrot MandelbrotOptions
}

func DefaultOptions() Options {
	return Options{
		Lorenz:     DefaultLorenzOptions(),
		Mobius:     DefaultMobiusOptions(),
		Klein:      DefaultKleinOptions(),
		Sierpinski: DefaultSierpinskiOptions(),
		Mandelbrot: DefaultMandelbrotOptions(),
	}
}
