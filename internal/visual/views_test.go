package visual

import (
	"math"
	"testing"
	"time"

	"github.com/san-kum/mathviz/internal/anim"
	"github.com/san-kum/mathviz/internal/hud"
	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/viz"
)

func TestLorenzPhases(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewLorenz(env, DefaultLorenzOptions())
	mustInit(t, v)

	ticks(v, clock, 1)
	if st := v.Status(clock.Now()); st.Label != "DRAWING" || st.Detail != "21 / 10,000 points" {
		t.Fatalf("status = %+v", st)
	}

	ticks(v, clock, 499)
	if !v.Machine().Is(PhaseOrbit) || v.Machine().Frame() != 0 {
		t.Fatalf("phase %s frame %d, want orbit 0", v.Machine().Phase().Name, v.Machine().Frame())
	}
	if v.Drawn() != LorenzSteps {
		t.Fatalf("drawn = %d", v.Drawn())
	}

	ticks(v, clock, lorenzOrbit)
	if !v.Machine().Done() {
		t.Fatal("orbit did not finish")
	}
	if st := v.Status(clock.Now()); st.Label != "COMPLETE" || st.Fill != 1 {
		t.Fatalf("status = %+v", st)
	}
}

func TestLorenzSkipTwice(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewLorenz(env, DefaultLorenzOptions())
	mustInit(t, v)
	ticks(v, clock, 3)

	v.Skip()
	if !v.Machine().Is(PhaseOrbit) || v.Drawn() != LorenzSteps {
		t.Fatal("skip during draw should reveal everything and orbit")
	}
	v.Skip()
	if !v.Machine().Done() {
		t.Fatal("second skip should finish")
	}
	v.Skip()
	v.TogglePause()
	if v.Machine().Paused() {
		t.Fatal("pause should be ignored once complete")
	}
}

func TestLorenzParamJumpsToDone(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewLorenz(env, DefaultLorenzOptions())
	mustInit(t, v)
	ticks(v, clock, 10)
	v.TogglePause()

	if err := v.SetParam("rho", 99); err != nil {
		t.Fatal(err)
	}
	if !v.Machine().Done() || v.Machine().Paused() {
		t.Fatal("param change should land on an unpaused done phase")
	}
	if v.Drawn() != LorenzSteps {
		t.Fatalf("drawn = %d", v.Drawn())
	}
	if got, _ := v.Param("rho"); got != 99 {
		t.Fatalf("rho = %v", got)
	}
	st := v.Status(clock.Advance(hud.FadeDuration))
	if st.Caption != "σ=10.0 ρ=99 β=2.67. Drag to explore" {
		t.Fatalf("caption = %q", st.Caption)
	}
}

func TestLorenzInteractionPause(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewLorenz(env, DefaultLorenzOptions())
	mustInit(t, v)

	v.Interact(clock.Now())
	frame := v.Machine().Frame()
	ticks(v, clock, 10)
	if v.Machine().Frame() != frame {
		t.Fatal("advanced while interaction-paused")
	}
	if st := v.Status(clock.Now()); !st.Paused {
		t.Fatalf("status = %+v", st)
	}
	v.Tick(clock.Advance(anim.DefaultResumeDelay))
	if v.Machine().Paused() || v.Machine().Frame() != frame+1 {
		t.Fatal("did not auto-resume")
	}
}

func TestMobiusParamDuringDraw(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewMobius(env, DefaultMobiusOptions())
	mustInit(t, v)
	ticks(v, clock, 10)

	if err := v.SetParam("twists", 3); err != nil {
		t.Fatal(err)
	}
	if !v.Machine().Done() {
		t.Fatalf("phase = %s", v.Machine().Phase().Name)
	}
	st := v.Status(clock.Advance(hud.FadeDuration))
	if st.Label != "COMPLETE" || st.Caption != "3 half-twists, width 0.40. Drag to explore" {
		t.Fatalf("status = %+v", st)
	}

	_ = v.SetParam("twists", 99)
	if got, _ := v.Param("twists"); got != TwistsParam.Max {
		t.Fatalf("twists = %v, want clamp to %v", got, TwistsParam.Max)
	}
	grid := v.Scene().Traces[0].Grid
	if len(grid) != kernel.MobiusUSteps+1 {
		t.Fatalf("strip not rebuilt in full: %d slices", len(grid))
	}
}

func TestMobiusPhases(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewMobius(env, DefaultMobiusOptions())
	mustInit(t, v)

	ticks(v, clock, mobiusDraw/2)
	if st := v.Status(clock.Now()); st.Detail != "40 / 80 slices" {
		t.Fatalf("detail = %q", st.Detail)
	}
	ticks(v, clock, mobiusDraw/2)
	if !v.Machine().Is(PhaseOrbit) {
		t.Fatalf("phase = %s", v.Machine().Phase().Name)
	}
	ticks(v, clock, mobiusOrbit)
	if !v.Machine().Done() {
		t.Fatal("orbit did not finish")
	}
	if v.Canvas().String() == "" {
		t.Fatal("nothing drawn")
	}
}

func TestTwistCaption(t *testing.T) {
	if got := TwistCaption(1, 0.4); got != "1 half-twist, width 0.40. Drag to explore" {
		t.Errorf("got %q", got)
	}
	if got := TwistCaption(2, 0.25); got != "2 half-twists, width 0.25. Drag to explore" {
		t.Errorf("got %q", got)
	}
}

func TestKleinThrottle(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewKlein(env, DefaultKleinOptions())
	mustInit(t, v)
	start := v.Angle()

	v.Tick(clock.Now())
	first := v.Angle()
	if want := start + kleinSpin/KleinFPS; math.Abs(first-want) > 1e-9 {
		t.Fatalf("first tick angle %v, want %v", first, want)
	}

	v.Tick(clock.Advance(10 * time.Millisecond))
	if v.Angle() != first {
		t.Fatal("tick inside the frame interval should be dropped")
	}

	v.Tick(clock.Advance(30 * time.Millisecond))
	if want := first + kleinSpin*0.04; math.Abs(v.Angle()-want) > 1e-9 {
		t.Fatalf("angle %v, want %v", v.Angle(), want)
	}
}

func TestKleinCameraPaths(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewKlein(env, DefaultKleinOptions())
	mustInit(t, v)
	for i := 0; i < 5; i++ {
		v.Tick(clock.Advance(50 * time.Millisecond))
	}
	s := v.Scene()
	if s.Relayouts() != 1 || s.CameraSets() != 5 {
		t.Fatalf("relayouts %d camera sets %d", s.Relayouts(), s.CameraSets())
	}
	v.Reset()
	if s.Relayouts() != 2 {
		t.Fatalf("reset should relayout, got %d", s.Relayouts())
	}
	if math.Abs(v.Angle()-math.Pi/4) > 1e-12 {
		t.Fatalf("angle = %v", v.Angle())
	}
}

func TestKleinPauseInteraction(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewKlein(env, DefaultKleinOptions())
	mustInit(t, v)

	v.TogglePause()
	v.Interact(clock.Now())
	if st := v.Status(clock.Now()); st.Label != "PAUSED" || st.Detail != "Paused" {
		t.Fatalf("manual pause overridden: %+v", st)
	}
	v.TogglePause()

	v.Interact(clock.Now())
	if st := v.Status(clock.Now()); st.Detail != "Drag to explore" {
		t.Fatalf("status = %+v", st)
	}
	before := v.Angle()
	v.Tick(clock.Advance(anim.DefaultResumeDelay))
	if v.Status(clock.Now()).Label != "ROTATING" || v.Angle() == before {
		t.Fatal("spin did not resume")
	}
}

func TestKleinOpacity(t *testing.T) {
	env, _ := readyEnv(t)
	v := NewKlein(env, DefaultKleinOptions())
	mustInit(t, v)
	v.AdjustParameter(-1)
	v.AdjustParameter(-1)
	if got, _ := v.Param("opacity"); got != 0.8 {
		t.Fatalf("opacity = %v", got)
	}
	if v.Scene().Traces[0].Opacity != 0.8 {
		t.Fatal("trace not restyled")
	}
}

func TestSierpinskiDepthRestart(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewSierpinski(env, DefaultSierpinskiOptions())
	mustInit(t, v)

	ticks(v, clock, 100)
	if v.Shown() != 1 {
		t.Fatalf("shown = %d", v.Shown())
	}
	if err := v.SetParam("depth", 3); err != nil {
		t.Fatal(err)
	}
	if v.Machine().Frame() != 0 || v.Shown() != 0 || !v.Machine().Is(PhaseBuilding) {
		t.Fatal("depth change should restart from frame 0")
	}
	ticks(v, clock, 3*FramesPerDepth)
	st := v.Status(clock.Now())
	if st.Label != "COMPLETE" || st.Detail != "27 triangles at depth 3" {
		t.Fatalf("status = %+v", st)
	}
}

func TestSierpinskiDepthZero(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewSierpinski(env, SierpinskiOptions{Depth: 0})
	mustInit(t, v)
	if !v.Machine().Done() {
		t.Fatal("depth 0 should be complete immediately")
	}
	if st := v.Status(clock.Advance(hud.FadeDuration)); st.Caption != depthZeroCaption {
		t.Fatalf("caption = %q", st.Caption)
	}
}

func TestSierpinskiChaos(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewSierpinski(env, DefaultSierpinskiOptions())
	mustInit(t, v)

	v.CycleMode()
	if v.Mode() != MethodChaos {
		t.Fatalf("mode = %s", v.Mode())
	}
	ticks(v, clock, 3)
	if len(v.Points()) != 3*ChaosBatch {
		t.Fatalf("points = %d", len(v.Points()))
	}
	v.Skip()
	if len(v.Points()) != ChaosTotal {
		t.Fatalf("points = %d", len(v.Points()))
	}
	if st := v.Status(clock.Now()); st.Detail != "50,000 points plotted" {
		t.Fatalf("detail = %q", st.Detail)
	}
	tri := kernel.Equilateral(SierpinskiW, SierpinskiH, sierpinskiPad)
	for _, p := range v.Points() {
		if !tri.Contains(p, 1e-6) {
			t.Fatalf("point %v outside the triangle", p)
		}
	}

	// depth does not affect the chaos game
	_ = v.SetParam("depth", 2)
	if !v.Machine().Done() {
		t.Fatal("chaos game restarted on depth change")
	}
}

func TestSierpinskiRepaintKeepsProgress(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewSierpinski(env, DefaultSierpinskiOptions())
	mustInit(t, v)
	ticks(v, clock, 95)
	frame := v.Machine().Frame()

	v.Repaint(viz.ThemeLight)
	if v.Machine().Frame() != frame || v.Shown() != 1 {
		t.Fatal("repaint touched animation state")
	}
	if got := v.Raster().Front().RGBAAt(0, 0); got != viz.RGBA(viz.ThemeLight.Background) {
		t.Fatalf("corner = %v", got)
	}
}

func TestMandelbrotBatches(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewMandelbrot(env, smallMandelbrot())
	mustInit(t, v)

	ticks(v, clock, 10)
	if st := v.Status(clock.Now()); st.Detail != "50% rendered" {
		t.Fatalf("detail = %q", st.Detail)
	}
	ticks(v, clock, 10)
	if !v.Machine().Done() || v.Row() != 60 {
		t.Fatalf("done=%v row=%d", v.Machine().Done(), v.Row())
	}
	if got := v.Raster().Paints(); got != 21 {
		t.Fatalf("paints = %d", got)
	}
	st := v.Status(clock.Now())
	if st.Detail != "200 max iterations" || st.Extra != "Re: -0.500000  Im: 0.000000  Zoom: 200x" {
		t.Fatalf("status = %+v", st)
	}
}

func TestMandelbrotZoom(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewMandelbrot(env, smallMandelbrot())
	mustInit(t, v)
	ticks(v, clock, 5)

	v.Click(0.5, 0.5)
	if vp := v.Viewport(); vp.Zoom != 400 || vp.CenterX != -0.5 || vp.CenterY != 0 {
		t.Fatalf("viewport = %+v", vp)
	}
	if v.Row() != 0 || v.Machine().Frame() != 0 {
		t.Fatal("click should restart the render")
	}

	for _, want := range []float64{200, 100, 50, 50} {
		v.ZoomOut()
		if got := v.Viewport().Zoom; got != want {
			t.Fatalf("zoom = %v, want %v", got, want)
		}
	}
	v.Reset()
	if v.Viewport().Zoom != 200 {
		t.Fatal("reset did not restore the home viewport")
	}
}

func TestMandelbrotParamsAndPalette(t *testing.T) {
	env, clock := readyEnv(t)
	v := NewMandelbrot(env, smallMandelbrot())
	mustInit(t, v)
	ticks(v, clock, 20)

	_ = v.SetParam("maxIter", 5000)
	if got, _ := v.Param("maxIter"); got != MaxIterParam.Max {
		t.Fatalf("maxIter = %v", got)
	}
	if v.Machine().Done() {
		t.Fatal("param change should restart the render")
	}
	v.AdjustParameter(-1)
	if got, _ := v.Param("maxIter"); got != 950 {
		t.Fatalf("maxIter = %v", got)
	}

	first := v.Mode()
	for range kernel.PaletteNames {
		v.CycleMode()
	}
	if v.Mode() != first {
		t.Fatal("palette cycle did not wrap")
	}
	v.Skip()
	if !v.Machine().Done() || v.Row() != 60 {
		t.Fatal("skip did not finish the render")
	}
}
