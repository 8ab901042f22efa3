package deps

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/san-kum/mathviz/internal/kernel"
)

func gated(name string, gate chan struct{}) Library {
	return Library{Name: name, Load: func(ctx context.Context) error {
		<-gate
		return nil
	}}
}

func TestBeginSharesOneLoad(t *testing.T) {
	gate := make(chan struct{})
	l := NewLoader(gated(Scene3D, gate))

	var wg sync.WaitGroup
	chans := make([]<-chan struct{}, 8)
	for i := range chans {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ch, err := l.Begin(context.Background(), Scene3D)
			if err != nil {
				t.Error(err)
			}
			chans[i] = ch
		}(i)
	}
	wg.Wait()
	if l.IsReady(Scene3D) {
		t.Fatal("ready before load finished")
	}
	close(gate)
	for _, ch := range chans {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("ready signal never arrived")
		}
	}
	if got := l.Loads(Scene3D); got != 1 {
		t.Fatalf("loads = %d, want 1", got)
	}
	if !l.IsReady(Scene3D) {
		t.Fatal("not ready after load")
	}
	if err := l.Load(context.Background(), Scene3D); err != nil || l.Loads(Scene3D) != 1 {
		t.Fatal("load after completion should not rerun")
	}
}

func TestLoadFailureIsSticky(t *testing.T) {
	boom := errors.New("boom")
	l := NewLoader(Library{Name: Raster, Load: func(context.Context) error { return boom }})
	if err := l.Load(context.Background(), Raster); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if err := l.Load(context.Background(), Raster); !errors.Is(err, boom) {
		t.Fatalf("second err = %v", err)
	}
	if l.Loads(Raster) != 1 || l.IsReady(Raster) || !errors.Is(l.Err(Raster), boom) {
		t.Fatal("failed load should run once and stay failed")
	}
}

func TestUnknownLibrary(t *testing.T) {
	l := NewLoader()
	if _, err := l.Begin(context.Background(), "webgl"); !errors.Is(err, kernel.ErrMissingDependency) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadHonoursContext(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	l := NewLoader(gated(Raster, gate))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Load(ctx, Raster); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
}

func TestStandardTables(t *testing.T) {
	tables := NewTables()
	l := NewLoader(Standard(tables)...)
	if tables.Get("inferno") != nil {
		t.Fatal("table built before load")
	}
	for _, name := range []string{Scene3D, Raster} {
		if err := l.Load(context.Background(), name); err != nil {
			t.Fatal(err)
		}
	}
	inf := tables.Get("inferno")
	if len(inf) != LUTSize || inf[0] != (kernel.RGB{R: 0, G: 0, B: 4}) {
		t.Fatalf("inferno table = %d entries, first %v", len(inf), inf[0])
	}
	if got := Lookup(inf, 1); got != (kernel.RGB{R: 252, G: 255, B: 252}) {
		t.Fatalf("top of scale = %v", got)
	}
	if len(tables.Get("palette/gold")) != LUTSize {
		t.Fatal("raster palettes missing")
	}
}
