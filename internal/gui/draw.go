package gui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/mathviz/internal/coord"
	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/logging"
	"github.com/san-kum/mathviz/internal/visual"
	"github.com/san-kum/mathviz/internal/viz"
)

func (a *App) Draw() {
	theme := viz.CurrentTheme()
	rl.BeginDrawing()
	rl.ClearBackground(themeColor(theme.Background))

	name := a.coord.Current()
	switch v := a.coord.Active().(type) {
	case nil:
		a.drawHome(theme)
	case visual.SceneView:
		if a.coord.Err(name) == nil && v.Scene() != nil {
			a.drawScene(v.Scene(), theme)
		}
	case visual.RasterView:
		if a.coord.Err(name) == nil && v.Raster() != nil {
			a.drawRaster(v.Raster())
		}
	}
	if name != coord.Home {
		a.DrawHUD(theme)
	}
	rl.EndDrawing()
}

// camera converts a scene camera; scene units are the normalized cube.
func camera(cam viz.CameraState) rl.Camera3D {
	vec := func(v kernel.Vec3) rl.Vector3 { return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z)) }
	up := cam.Up
	if up.Length() == 0 {
		up = viz.DefaultUp
	}
	return rl.NewCamera3D(vec(cam.Eye), vec(cam.Center), vec(up), 45, rl.CameraPerspective)
}

func (a *App) drawScene(s *viz.Scene, theme viz.Theme) {
	r := a.viewRect()
	rl.BeginScissorMode(int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height))
	rl.BeginMode3D(camera(s.Camera))
	viz.Walk(s, theme, func(p, q kernel.Vec3, c color.RGBA, _ bool) {
		from := rl.NewVector3(float32(p.X), float32(p.Y), float32(p.Z))
		if p == q {
			rl.DrawPoint3D(from, rlColor(c))
			return
		}
		rl.DrawLine3D(from, rl.NewVector3(float32(q.X), float32(q.Y), float32(q.Z)), rlColor(c))
	})
	rl.EndMode3D()
	rl.EndScissorMode()
}

// drawRaster uploads the front buffer when it changed and draws it
// letterboxed into the view rectangle.
func (a *App) drawRaster(r *viz.Raster) {
	front := r.Front()
	w, h := front.Rect.Dx(), front.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}
	switch {
	case !a.hasTex || a.texOwner != r || int(a.tex.Width) != w || int(a.tex.Height) != h:
		if a.hasTex {
			rl.UnloadTexture(a.tex)
		}
		img := rl.NewImageFromImage(front)
		a.tex = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		a.hasTex, a.texOwner, a.texPaints = true, r, r.Paints()
		logging.Logger().Debug("raster texture loaded", "viz", a.coord.Current(), "w", w, "h", h)
	case a.texPaints != r.Paints():
		a.pixels = toColors(front, a.pixels)
		rl.UpdateTexture(a.tex, a.pixels)
		a.texPaints = r.Paints()
	}

	dst := a.contentRect()
	src := rl.NewRectangle(0, 0, float32(w), float32(h))
	rl.DrawTexturePro(a.tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
}

// toColors flattens img into buf, reusing its storage.
func toColors(img *image.RGBA, buf []color.RGBA) []color.RGBA {
	b := img.Rect
	buf = buf[:0]
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			buf = append(buf, img.RGBAAt(x, y))
		}
	}
	return buf
}

// fit scales a w by h image into r keeping its aspect, centred.
func fit(r rl.Rectangle, w, h float32) rl.Rectangle {
	scale := min(r.Width/w, r.Height/h)
	dw, dh := w*scale, h*scale
	return rl.NewRectangle(r.X+(r.Width-dw)/2, r.Y+(r.Height-dh)/2, dw, dh)
}

func (a *App) drawHome(theme viz.Theme) {
	a.drawText("mathviz", 30, 30, 24, themeColor(theme.Accent))
	a.drawText("five animated mathematical objects", 30, 64, 16, themeColor(theme.Muted))
	for i, name := range coord.Tabs[1:] {
		a.drawText(fmt.Sprintf("[%d]  %s", i+1, name), 60, 120+i*36, 20, themeColor(theme.Text))
	}
	a.drawText("[0-5] VIEW  [T] THEME  [Q] QUIT", 30, a.height-40, 14, themeColor(theme.Muted))
}

func (a *App) DrawHUD(theme viz.Theme) {
	text, muted, accent := themeColor(theme.Text), themeColor(theme.Muted), themeColor(theme.Accent)
	name := a.coord.Current()
	a.drawText("mathviz", 30, 30, 24, accent)
	a.drawText(":: "+name, 150, 34, 16, muted)

	if err := a.coord.Err(name); err != nil {
		a.drawText(name+" unavailable: "+err.Error(), 30, a.height/2, 16, themeColor(theme.Error))
	}
	if a.hasStatus {
		st := a.status
		col := text
		if st.Paused {
			col = themeColor(theme.Warning)
		}
		x := a.width - 300
		a.drawText(st.Label, x, 24, 16, col)
		rl.DrawRectangle(int32(x), 46, 260, 4, themeColor(theme.Grid))
		rl.DrawRectangle(int32(x), 46, int32(260*st.Fill), 4, accent)
		a.drawText(st.Detail, x, 56, 14, muted)
		if st.Caption != "" {
			a.drawText(st.Caption, 30, a.height-80, 16, rl.Fade(text, float32(st.Fade)))
		}
		if st.Extra != "" {
			a.drawText(st.Extra, 30, 58, 14, muted)
		}
	}
	if c, ok := a.coord.Active().(visual.Cycler); ok {
		a.drawText("mode "+c.Mode(), a.width-300, a.height-80, 14, muted)
	}
	if a.note != "" {
		a.drawText(a.note, 30, a.height/2+24, 14, themeColor(theme.Warning))
	}
	a.drawText(a.helpLine(), 30, a.height-40, 14, muted)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), a.width-90, a.height-40, 14, muted)
}

func (a *App) helpLine() string {
	keys := []string{"[0-5] VIEW", "[SPACE] PAUSE", "[R] RESET", "[S] SKIP", "[/] MORE", "[Q] QUIT"}
	if a.help {
		keys = []string{"[←/→] ADJUST", "[M] MODE", "[-] ZOOM OUT", "[T] THEME", "[CLICK] ZOOM / HOLD"}
	}
	return strings.Join(keys, "  ")
}
