package kernel

import "errors"

// Domain errors shared by the visualization packages.
var (
	// ErrMissingDependency indicates a render library has not finished loading.
	// Work that hits it is deferred, never dropped.
	ErrMissingDependency = errors.New("mathviz: render dependency not loaded")

	// ErrMissingSurface indicates the front-end could not provide a render surface.
	ErrMissingSurface = errors.New("mathviz: render surface unavailable")

	// ErrUnknownParam indicates a parameter name the visualization does not declare.
	ErrUnknownParam = errors.New("mathviz: unknown parameter")

	// ErrUnknownVisualization indicates a name absent from the registry.
	ErrUnknownVisualization = errors.New("mathviz: unknown visualization")

	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("mathviz: invalid state (NaN or Inf detected)")
)

// VisualizationError wraps an error with the visualization and lifecycle
// operation it came from.
type VisualizationError struct {
	Name    string
	Op      string
	Wrapped error
}

func (e *VisualizationError) Error() string {
	return e.Name + " " + e.Op + ": " + e.Wrapped.Error()
}

func (e *VisualizationError) Unwrap() error {
	return e.Wrapped
}
