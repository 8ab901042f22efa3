package gui

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/mathviz/internal/coord"
	"github.com/san-kum/mathviz/internal/viz"
)

type action int

const (
	actNone action = iota
	actQuit
	actPause
	actReset
	actSkip
	actLess
	actMore
	actCycle
	actZoomOut
	actTheme
	actHelp
)

var keymap = []struct {
	key int32
	act action
}{
	{rl.KeyQ, actQuit},
	{rl.KeySpace, actPause},
	{rl.KeyR, actReset},
	{rl.KeyS, actSkip},
	{rl.KeyLeft, actLess},
	{rl.KeyRight, actMore},
	{rl.KeyM, actCycle},
	{rl.KeyMinus, actZoomOut},
	{rl.KeyT, actTheme},
	{rl.KeySlash, actHelp},
}

var tabKeys = []int32{rl.KeyZero, rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive}

// apply forwards an action to the coordinator. It reports whether the HUD
// should refresh now.
func (a *App) apply(act action) bool {
	switch act {
	case actQuit:
		a.quit = true
	case actPause:
		a.coord.TogglePause()
	case actReset:
		a.coord.Reset()
	case actSkip:
		a.coord.Skip()
	case actLess:
		a.coord.Adjust(-1)
	case actMore:
		a.coord.Adjust(1)
	case actCycle:
		a.coord.CycleMode()
	case actZoomOut:
		a.coord.ZoomOut()
	case actTheme:
		viz.NextTheme()
	case actHelp:
		a.help = !a.help
	default:
		return false
	}
	return true
}

// press sends a left press at window position (x, y) to the view: a click
// at normalized image coordinates where supported, otherwise an
// interaction. Presses on the letterbox bars are ignored.
func (a *App) press(x, y float32, now time.Time) bool {
	r := a.contentRect()
	if x < r.X || y < r.Y || x >= r.X+r.Width || y >= r.Y+r.Height {
		return false
	}
	fx := float64((x - r.X) / r.Width)
	fy := float64((y - r.Y) / r.Height)
	if !a.coord.Click(fx, fy) {
		a.coord.Interact(now)
	}
	return true
}

// pollInput reads one frame of keyboard and mouse state.
func (a *App) pollInput(now time.Time) bool {
	dirty := false
	for i, k := range tabKeys {
		if rl.IsKeyPressed(k) {
			a.show(coord.Tabs[i])
			dirty = true
		}
	}
	for _, km := range keymap {
		if rl.IsKeyPressed(km.key) && a.apply(km.act) {
			dirty = true
		}
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		pos := rl.GetMousePosition()
		if a.press(pos.X, pos.Y, now) {
			dirty = true
		}
	}
	return dirty
}
