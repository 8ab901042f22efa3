// Package tui is the terminal front-end. It forwards keys and clicks to the
// coordinator and re-arms its tick only while the current view wants one.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mathviz/internal/analysis"
	"github.com/san-kum/mathviz/internal/anim"
	"github.com/san-kum/mathviz/internal/coord"
	"github.com/san-kum/mathviz/internal/hud"
	"github.com/san-kum/mathviz/internal/visual"
	"github.com/san-kum/mathviz/internal/viz"
)

const (
	sidebarWidth = 34
	barWidth     = 30
	sparkWidth   = 26
	sparkHeight  = 4
	headerRows   = 2
	footerRows   = 2
)

var blurbs = map[string]string{
	"lorenz":     "strange attractor, traced then orbited",
	"mobius":     "one-sided strip, drawn slice by slice",
	"klein":      "immersed bottle, spinning",
	"sierpinski": "triangle by subdivision or chaos game",
	"mandelbrot": "escape-time set, click to zoom",
}

// Surface is the view area left of the sidebar, in cells. Views read it
// through Provide when they set up or resume.
type Surface struct{ W, H int }

func (s *Surface) Provide(name string) (visual.Size, error) {
	return visual.FixedSurface(s.W, s.H)(name)
}

// Fit sizes the surface for a terminal of width by height cells.
func (s *Surface) Fit(width, height int) {
	s.W = max(width-sidebarWidth-1, 0)
	s.H = max(height-headerRows-footerRows, 0)
}

type Options struct {
	Tab   string
	FPS   int
	Clock anim.Clock
}

type tickMsg time.Time

// readyMsg carries the name of a view whose library finished loading.
type readyMsg string

type Model struct {
	ctx      context.Context
	coord    *coord.Coordinator
	surface  *Surface
	clock    anim.Clock
	interval time.Duration
	start    string

	width, height int
	sized         bool
	ticking       bool
	frames        int

	status    hud.Status
	hasStatus bool
	help      bool
	note      string
}

func New(ctx context.Context, c *coord.Coordinator, s *Surface, opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	clock := opts.Clock
	if clock == nil {
		clock = anim.SystemClock
	}
	start := opts.Tab
	if start == "" {
		start = coord.Home
	}
	return Model{
		ctx:      ctx,
		coord:    c,
		surface:  s,
		clock:    clock,
		interval: time.Second / time.Duration(fps),
		start:    start,
	}
}

// Init waits for the first window size; nothing can mount before it.
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.surface.Fit(msg.Width, msg.Height)
		if !m.sized {
			m.sized = true
			return m.show(m.start)
		}
		failed := m.coord.Err(m.coord.Current()) != nil
		err := m.coord.Resize(m.ctx)
		m.noteErr(err)
		if failed && err == nil {
			m.note = ""
		}
		m.refresh()
		next := m.schedule()
		return m, next

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tickMsg:
		m.ticking = false
		m.coord.Tick(time.Time(msg))
		m.frames++
		if m.frames%hud.UpdateInterval == 0 {
			m.refresh()
		}
		next := m.schedule()
		return m, next

	case readyMsg:
		m.note = ""
		m.noteErr(m.coord.Retry(m.ctx, string(msg)))
		m.refresh()
		next := m.schedule()
		return m, next
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(coord.Tabs) {
		return m.show(coord.Tabs[i])
	}
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.show(coord.Tabs[(m.tabIndex()+1)%len(coord.Tabs)])
	case "?":
		m.help = !m.help
	case "t":
		viz.NextTheme()
	case " ":
		m.coord.TogglePause()
	case "r":
		m.coord.Reset()
	case "s":
		m.coord.Skip()
	case "left", "h":
		m.coord.Adjust(-1)
	case "right", "l":
		m.coord.Adjust(1)
	case "m":
		m.coord.CycleMode()
	case "-":
		m.coord.ZoomOut()
	}
	m.refresh()
	next := m.schedule()
	return m, next
}

// handleMouse sends a left press inside the surface to the view: a click
// at normalized coordinates where supported, otherwise an interaction.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	x, y := msg.X, msg.Y-headerRows
	if x < 0 || y < 0 || x >= m.surface.W || y >= m.surface.H {
		return m, nil
	}
	fx := (float64(x) + 0.5) / float64(m.surface.W)
	fy := (float64(y) + 0.5) / float64(m.surface.H)
	if !m.coord.Click(fx, fy) {
		m.coord.Interact(m.clock.Now())
	}
	m.refresh()
	next := m.schedule()
	return m, next
}

func (m Model) show(name string) (Model, tea.Cmd) {
	err := m.coord.Switch(m.ctx, name)
	m.note = ""
	var wait tea.Cmd
	switch {
	case err == nil:
	case visual.IsDeferred(err):
		m.note = "loading " + name + "…"
		wait = waitReady(name, m.coord.Ready(name))
	default:
		m.noteErr(err)
	}
	m.refresh()
	next := m.schedule()
	return m, tea.Batch(wait, next)
}

func waitReady(name string, ready <-chan struct{}) tea.Cmd {
	if ready == nil {
		return nil
	}
	return func() tea.Msg {
		<-ready
		return readyMsg(name)
	}
}

// schedule arms one tick if the view wants it and none is in flight.
func (m *Model) schedule() tea.Cmd {
	if m.ticking || !m.coord.NeedsTick() {
		return nil
	}
	m.ticking = true
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) refresh() {
	m.status, m.hasStatus = m.coord.Status(m.clock.Now())
}

func (m *Model) noteErr(err error) {
	if err != nil && !visual.IsDeferred(err) {
		m.note = err.Error()
	}
}

func (m Model) tabIndex() int {
	for i, t := range coord.Tabs {
		if t == m.coord.Current() {
			return i
		}
	}
	return 0
}

func (m Model) View() string {
	if !m.sized {
		return ""
	}
	surface := lipgloss.NewStyle().
		Width(m.surface.W).
		Height(m.surface.H).
		MaxHeight(m.surface.H).
		Render(m.viewSurface())

	var b strings.Builder
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, surface, " ", m.viewSidebar()))
	b.WriteString("\n\n")
	b.WriteString(m.viewHelp())
	return b.String()
}

func (m Model) viewTabs() string {
	var parts []string
	for i, t := range coord.Tabs {
		label := fmt.Sprintf("%d %s", i, t)
		if t == m.coord.Current() {
			parts = append(parts, accent().Render(label))
		} else {
			parts = append(parts, dim.Render(label))
		}
	}
	return strings.Join(parts, dimmer.Render("  │  "))
}

func (m Model) viewSurface() string {
	name := m.coord.Current()
	if name == coord.Home {
		return m.viewHome()
	}
	if err := m.coord.Err(name); err != nil {
		return red.Render("✗ "+name+" unavailable") + "\n\n" + dim.Render(err.Error())
	}
	switch v := m.coord.Active().(type) {
	case visual.SceneView:
		if c := v.Canvas(); c != nil {
			return strings.TrimRight(c.Render(), "\n")
		}
	case visual.RasterView:
		if img := v.Cells(); img != nil {
			return strings.TrimRight(viz.HalfBlocks(img), "\n")
		}
	}
	return dim.Render("loading " + name + "…")
}

func (m Model) viewHome() string {
	var b strings.Builder
	b.WriteString(accent().Render("mathviz"))
	b.WriteString("\n")
	b.WriteString(muted().Render("five animated mathematical objects"))
	b.WriteString("\n\n")
	for i, name := range coord.Tabs[1:] {
		fmt.Fprintf(&b, "  %s  %s %s\n",
			white.Render(strconv.Itoa(i+1)),
			accent().Render(fmt.Sprintf("%-11s", name)),
			dim.Render(blurbs[name]))
	}
	return b.String()
}

func (m Model) viewSidebar() string {
	name := m.coord.Current()
	lines := []string{accent().Render(strings.ToUpper(name)), ""}
	if m.hasStatus {
		st := m.status
		dot := green.Render("●")
		if st.Paused {
			dot = yellow.Render("○")
		}
		lines = append(lines, dot+" "+white.Render(st.Label), bar(st.Fill, barWidth), dim.Render(st.Detail))
		if st.Extra != "" {
			lines = append(lines, dim.Render(st.Extra))
		}
		if st.Caption != "" {
			lines = append(lines, "", faded(st.Caption, st.Fade))
		}
	} else {
		lines = append(lines, dim.Render("theme "+viz.CurrentTheme().Name))
	}

	v := m.coord.Active()
	if c, ok := v.(visual.Cycler); ok {
		lines = append(lines, "", muted().Render("mode ")+white.Render(c.Mode()))
	}
	if p, ok := v.(visual.Parametric); ok {
		lines = append(lines, "")
		for _, prm := range p.Params() {
			val, err := p.Param(prm.Name)
			if err != nil {
				continue
			}
			lines = append(lines, muted().Render(fmt.Sprintf("%-9s", prm.Name))+white.Render(strconv.FormatFloat(val, 'g', 5, 64)))
		}
	}
	if l, ok := v.(*visual.Lorenz); ok {
		if spark := lorenzSpark(l); spark != "" {
			lines = append(lines, "", muted().Render("x(t)"), spark)
		}
	}
	if m.note != "" {
		lines = append(lines, "", yellow.Render(m.note))
	}
	return lipgloss.NewStyle().Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

// lorenzSpark plots x over the drawn part of the trajectory.
func lorenzSpark(l *visual.Lorenz) string {
	traj := l.Trajectory()
	n := min(l.Drawn(), len(traj))
	if n < 2 {
		return ""
	}
	stride := max(1, n/(4*sparkWidth))
	series := make([]float64, 0, n/stride+1)
	for i := 0; i < n; i += stride {
		series = append(series, traj[i].Pos.X)
	}
	return analysis.Sparkline(series, sparkWidth, sparkHeight)
}

func (m Model) viewHelp() string {
	if !m.help {
		return dim.Render("0-5 view  space pause  r reset  s skip  ? more  q quit")
	}
	return dim.Render("←/→ adjust  m mode  - zoom out  t theme  click zoom/interact  tab next")
}

// Run shows the terminal front-end and blocks until the user quits.
func Run(ctx context.Context, c *coord.Coordinator, s *Surface, opts Options) error {
	p := tea.NewProgram(New(ctx, c, s, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
