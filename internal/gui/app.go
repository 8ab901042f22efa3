// Package gui is the raylib front-end. Scenes are drawn as 3D line work
// through a Camera3D; rasters are uploaded to a texture when they change.
package gui

import (
	"context"
	"image/color"
	"time"

	"github.com/charmbracelet/lipgloss"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/mathviz/internal/anim"
	"github.com/san-kum/mathviz/internal/coord"
	"github.com/san-kum/mathviz/internal/hud"
	"github.com/san-kum/mathviz/internal/visual"
	"github.com/san-kum/mathviz/internal/viz"
)

const (
	WindowW = 1280
	WindowH = 720

	// SurfaceW and SurfaceH size the views' own cell surfaces; the window
	// draws from the full-resolution scene and raster instead.
	SurfaceW = 160
	SurfaceH = 45

	marginTop    = 80
	marginBottom = 60

	fontPath = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

type Options struct {
	Tab   string
	FPS   int
	Clock anim.Clock
}

type App struct {
	ctx   context.Context
	coord *coord.Coordinator
	clock anim.Clock

	width, height int
	font          rl.Font
	hasFont       bool

	tex       rl.Texture2D
	hasTex    bool
	texPaints int
	texOwner  *viz.Raster
	pixels    []color.RGBA

	ready   chan string
	waiting map[string]bool

	frames    int
	status    hud.Status
	hasStatus bool
	help      bool
	note      string
	quit      bool
}

func newApp(ctx context.Context, c *coord.Coordinator, opts Options) *App {
	clock := opts.Clock
	if clock == nil {
		clock = anim.SystemClock
	}
	return &App{
		ctx:     ctx,
		coord:   c,
		clock:   clock,
		width:   WindowW,
		height:  WindowH,
		ready:   make(chan string, len(coord.Tabs)),
		waiting: make(map[string]bool),
	}
}

func initWindow(fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(WindowW, WindowH, "mathviz")
	if fps <= 0 {
		fps = 60
	}
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono, falling back to raylib's built-in font.
func loadFont() (rl.Font, bool) {
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault(), false
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font, true
}

// Run opens the window on opts.Tab and blocks until it is closed.
func Run(ctx context.Context, c *coord.Coordinator, opts Options) {
	initWindow(opts.FPS)
	defer rl.CloseWindow()

	a := newApp(ctx, c, opts)
	a.font, a.hasFont = loadFont()
	defer a.unload()
	if opts.Tab != "" {
		a.show(opts.Tab)
	}
	a.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit && a.ctx.Err() == nil {
		a.width, a.height = rl.GetScreenWidth(), rl.GetScreenHeight()
		a.Update(a.clock.Now(), a.pollInput(a.clock.Now()))
		a.Draw()
	}
}

func (a *App) unload() {
	if a.hasTex {
		rl.UnloadTexture(a.tex)
	}
	if a.hasFont {
		rl.UnloadFont(a.font)
	}
}

// show switches tabs. A view waiting on its library gets a watcher that
// reports back through the ready channel; the retry runs on the loop.
func (a *App) show(name string) {
	err := a.coord.Switch(a.ctx, name)
	a.note = ""
	switch {
	case err == nil:
	case visual.IsDeferred(err):
		a.note = "loading " + name + "…"
		a.watch(name)
	default:
		a.note = err.Error()
	}
}

func (a *App) watch(name string) {
	ch := a.coord.Ready(name)
	if ch == nil || a.waiting[name] {
		return
	}
	a.waiting[name] = true
	go func() {
		<-ch
		a.ready <- name
	}()
}

// Update retries views whose library arrived, ticks the current view while
// it wants ticks and refreshes the HUD on its interval or when dirty.
func (a *App) Update(now time.Time, dirty bool) {
drain:
	for {
		select {
		case name := <-a.ready:
			delete(a.waiting, name)
			a.note = ""
			if err := a.coord.Retry(a.ctx, name); err != nil {
				a.note = err.Error()
			}
			dirty = true
		default:
			break drain
		}
	}

	if a.coord.NeedsTick() {
		a.coord.Tick(now)
		a.frames++
	}
	if dirty || a.frames%hud.UpdateInterval == 0 {
		a.status, a.hasStatus = a.coord.Status(now)
	}
}

// viewRect is the area the current view draws into.
func (a *App) viewRect() rl.Rectangle {
	return rl.NewRectangle(0, marginTop, float32(a.width), float32(max(a.height-marginTop-marginBottom, 1)))
}

// contentRect is where the current view's pixels land: the letterboxed
// image for raster views, the whole view area otherwise.
func (a *App) contentRect() rl.Rectangle {
	r := a.viewRect()
	rv, ok := a.coord.Active().(visual.RasterView)
	if !ok || rv.Raster() == nil || rv.Raster().Front() == nil {
		return r
	}
	b := rv.Raster().Front().Rect
	if b.Dx() == 0 || b.Dy() == 0 {
		return r
	}
	return fit(r, float32(b.Dx()), float32(b.Dy()))
}

func rlColor(c color.RGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

func themeColor(c lipgloss.Color) rl.Color { return rlColor(viz.RGBA(c)) }

func (a *App) drawText(text string, x, y int, size int, col rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, col)
}
