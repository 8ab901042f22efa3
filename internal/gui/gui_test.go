package gui

import (
	"context"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/mathviz/internal/anim"
	"github.com/san-kum/mathviz/internal/coord"
	"github.com/san-kum/mathviz/internal/deps"
	"github.com/san-kum/mathviz/internal/visual"
	"github.com/san-kum/mathviz/internal/viz"
)

func newTestApp(t *testing.T, libs ...deps.Library) (*App, *anim.ManualClock) {
	t.Helper()
	ctx := context.Background()
	tables := deps.NewTables()
	preload := len(libs) == 0
	if preload {
		libs = deps.Standard(tables)
	}
	loader := deps.NewLoader(libs...)
	for _, lib := range []string{deps.Scene3D, deps.Raster} {
		if !preload && lib == deps.Scene3D {
			continue
		}
		if err := loader.Load(ctx, lib); err != nil {
			t.Fatal(err)
		}
	}
	clock := &anim.ManualClock{T: time.Unix(1_700_000_000, 0)}
	env := &visual.Env{Loader: loader, Tables: tables, Surface: visual.FixedSurface(SurfaceW, SurfaceH), Clock: clock, Seed: 5}
	opts := visual.DefaultOptions()
	opts.Mandelbrot.Viewport.W, opts.Mandelbrot.Viewport.H = 80, 60
	c := coord.New(coord.NewRegistry(opts), env)
	t.Cleanup(func() {
		c.Close()
		viz.SetTheme(viz.ThemeDark.Name)
	})
	return newApp(ctx, c, Options{Clock: clock}), clock
}

func TestApplyActions(t *testing.T) {
	a, _ := newTestApp(t)
	a.show("lorenz")
	l := a.coord.Instance("lorenz").(*visual.Lorenz)

	if !a.apply(actPause) || !l.Machine().Paused() {
		t.Fatal("pause action should pause lorenz")
	}
	if a.apply(actNone) {
		t.Error("no-op action reported dirty")
	}
	a.apply(actHelp)
	if !a.help {
		t.Error("help not toggled")
	}
	theme := viz.CurrentTheme().Name
	a.apply(actTheme)
	if viz.CurrentTheme().Name == theme {
		t.Error("theme not cycled")
	}
	a.apply(actQuit)
	if !a.quit {
		t.Error("quit not set")
	}
}

func TestPress(t *testing.T) {
	a, clock := newTestApp(t)
	a.show("mandelbrot")
	mb := a.coord.Instance("mandelbrot").(*visual.Mandelbrot)
	zoom := mb.Viewport().Zoom

	if a.press(10, 10, clock.Now()) {
		t.Error("press above the view area should be ignored")
	}
	r := a.viewRect()
	if !a.press(r.X+r.Width/2, r.Y+r.Height/2, clock.Now()) {
		t.Fatal("press inside the view area ignored")
	}
	if got := mb.Viewport().Zoom; got != 2*zoom {
		t.Errorf("zoom = %v, want %v", got, 2*zoom)
	}

	a.show("klein")
	k := a.coord.Instance("klein").(*visual.Klein)
	a.press(r.X+1, r.Y+1, clock.Now())
	if !k.Machine().Paused() {
		t.Error("press on klein should hold the spin")
	}
}

func TestPressMapsLetterboxedRaster(t *testing.T) {
	a, clock := newTestApp(t)
	a.show("mandelbrot")
	mb := a.coord.Instance("mandelbrot").(*visual.Mandelbrot)
	start := mb.Viewport()

	view, img := a.viewRect(), a.contentRect()
	if img.X <= view.X || img.Width >= view.Width {
		t.Fatalf("raster not letterboxed: view %+v image %+v", view, img)
	}
	if a.press(view.X+img.X/2, img.Y+img.Height/2, clock.Now()) {
		t.Error("press on the letterbox bar should be ignored")
	}
	if mb.Viewport() != start {
		t.Fatal("bar press changed the viewport")
	}

	if !a.press(img.X+img.Width/4, img.Y+img.Height/2, clock.Now()) {
		t.Fatal("press on the image ignored")
	}
	want := start.ZoomAt(0.25*float64(start.W), 0.5*float64(start.H), 2)
	got := mb.Viewport()
	if math.Abs(got.CenterX-want.CenterX) > 1e-5 || math.Abs(got.CenterY-want.CenterY) > 1e-5 {
		t.Errorf("centre = (%v, %v), want (%v, %v)", got.CenterX, got.CenterY, want.CenterX, want.CenterY)
	}
}

func TestUpdateTicksAndRefreshes(t *testing.T) {
	a, clock := newTestApp(t)
	a.show("sierpinski")
	sp := a.coord.Instance("sierpinski").(*visual.Sierpinski)

	a.Update(clock.Advance(time.Second/60), true)
	if a.frames != 1 || !a.hasStatus {
		t.Fatalf("frames = %d, status = %v", a.frames, a.hasStatus)
	}
	for i := 0; i < 10; i++ {
		a.Update(clock.Advance(time.Second/60), false)
	}
	if sp.Machine().Progress() == 0 {
		t.Error("sierpinski did not advance")
	}

	a.show(coord.Home)
	frames := a.frames
	a.Update(clock.Advance(time.Second/60), false)
	if a.frames != frames {
		t.Error("home should not tick")
	}
}

func TestDeferredRetry(t *testing.T) {
	gate := make(chan struct{})
	tables := deps.NewTables()
	std := deps.Standard(tables)
	a, clock := newTestApp(t, deps.Library{Name: deps.Scene3D, Load: func(ctx context.Context) error {
		<-gate
		return std[0].Load(ctx)
	}}, std[1])

	a.show("lorenz")
	if a.note == "" || !a.waiting["lorenz"] {
		t.Fatalf("expected a loading note and a watcher, got %q", a.note)
	}
	a.show("lorenz")
	close(gate)

	deadline := time.Now().Add(5 * time.Second)
	for a.waiting["lorenz"] && time.Now().Before(deadline) {
		a.Update(clock.Now(), false)
		time.Sleep(time.Millisecond)
	}
	if a.waiting["lorenz"] {
		t.Fatal("ready signal never arrived")
	}
	if !a.coord.NeedsTick() {
		t.Error("lorenz should run after retry")
	}
}

func TestFit(t *testing.T) {
	r := rl.NewRectangle(0, 80, 1280, 580)
	got := fit(r, 80, 60)
	if math.Abs(float64(got.Height-580)) > 1e-3 {
		t.Errorf("height = %v", got.Height)
	}
	if math.Abs(float64(got.Width/got.Height)-80.0/60.0) > 1e-3 {
		t.Errorf("aspect = %v", got.Width/got.Height)
	}
	if math.Abs(float64(got.X-(1280-got.Width)/2)) > 1e-3 {
		t.Errorf("not centred: x = %v", got.X)
	}
}

func TestToColors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(2, 1, color.RGBA{1, 2, 3, 255})
	buf := toColors(img, nil)
	if len(buf) != 6 || buf[5] != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("buf = %v", buf)
	}
	again := toColors(img, buf)
	if &again[0] != &buf[0] {
		t.Error("buffer not reused")
	}
}

func TestCamera(t *testing.T) {
	cam := camera(viz.Eye(1, 2, 3))
	if cam.Position != rl.NewVector3(1, 2, 3) || cam.Up != rl.NewVector3(0, 0, 1) {
		t.Errorf("camera = %+v", cam)
	}
	if cam.Fovy != 45 {
		t.Errorf("fovy = %v", cam.Fovy)
	}
}
