// Package deps loads render libraries on demand. Concurrent requests for the
// same library share one in-flight load, and completion is signalled by
// closing a channel.
package deps

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/logging"
)

// Library names.
const (
	Scene3D = "scene3d"
	Raster  = "raster"
)

// Library is something a visualization needs before it can render.
type Library struct {
	Name string
	Load func(ctx context.Context) error
}

type entry struct {
	lib      Library
	done     chan struct{}
	finished bool
	err      error
	loads    int
}

// Loader tracks library readiness.
type Loader struct {
	mu      sync.Mutex
	group   singleflight.Group
	entries map[string]*entry
}

func NewLoader(libs ...Library) *Loader {
	l := &Loader{entries: make(map[string]*entry)}
	for _, lib := range libs {
		l.Register(lib)
	}
	return l
}

// Register adds or replaces a library. Replacing resets its state.
func (l *Loader) Register(lib Library) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[lib.Name] = &entry{lib: lib, done: make(chan struct{})}
}

func (l *Loader) get(name string) (*entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[name]
	if !ok {
		return nil, fmt.Errorf("library %s: %w", name, kernel.ErrMissingDependency)
	}
	return e, nil
}

// IsReady reports whether name loaded successfully.
func (l *Loader) IsReady(name string) bool {
	e, err := l.get(name)
	if err != nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return e.finished && e.err == nil
}

// Err is the load error for name, if its load finished with one.
func (l *Loader) Err(name string) error {
	e, err := l.get(name)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return e.err
}

// Loads counts how many times name's load function actually ran.
func (l *Loader) Loads(name string) int {
	e, err := l.get(name)
	if err != nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return e.loads
}

// Begin starts loading name in the background if nobody has yet and returns
// a channel closed when the load finishes, successfully or not.
func (l *Loader) Begin(ctx context.Context, name string) (<-chan struct{}, error) {
	e, err := l.get(name)
	if err != nil {
		return nil, err
	}
	l.group.DoChan(name, func() (any, error) {
		return nil, l.run(context.WithoutCancel(ctx), e)
	})
	return e.done, nil
}

// Load blocks until name is loaded or ctx ends.
func (l *Loader) Load(ctx context.Context, name string) error {
	e, err := l.get(name)
	if err != nil {
		return err
	}
	ch := l.group.DoChan(name, func() (any, error) {
		return nil, l.run(context.WithoutCancel(ctx), e)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run executes the load once per entry; later calls return the stored
// result.
func (l *Loader) run(ctx context.Context, e *entry) error {
	l.mu.Lock()
	if e.finished {
		err := e.err
		l.mu.Unlock()
		return err
	}
	e.loads++
	l.mu.Unlock()

	start := time.Now()
	var err error
	if e.lib.Load != nil {
		err = e.lib.Load(ctx)
	}

	l.mu.Lock()
	e.finished = true
	e.err = err
	close(e.done)
	l.mu.Unlock()

	log := logging.Logger().With("library", e.lib.Name, "elapsed", time.Since(start))
	if err != nil {
		log.Warn("library load failed", "error", err)
	} else {
		log.Info("library loaded")
	}
	return err
}
