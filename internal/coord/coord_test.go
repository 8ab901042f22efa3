package coord_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mathviz/internal/anim"
	"github.com/san-kum/mathviz/internal/coord"
	"github.com/san-kum/mathviz/internal/deps"
	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/visual"
	"github.com/san-kum/mathviz/internal/viz"
)

func smallOptions() visual.Options {
	opts := visual.DefaultOptions()
	opts.Mandelbrot.Viewport.W, opts.Mandelbrot.Viewport.H = 80, 60
	return opts
}

var _ = Describe("Coordinator", func() {
	var (
		ctx   context.Context
		env   *visual.Env
		clock *anim.ManualClock
		reg   *coord.Registry
		c     *coord.Coordinator
	)

	BeforeEach(func() {
		ctx = context.Background()
		tables := deps.NewTables()
		loader := deps.NewLoader(deps.Standard(tables)...)
		Expect(loader.Load(ctx, deps.Scene3D)).To(Succeed())
		Expect(loader.Load(ctx, deps.Raster)).To(Succeed())
		clock = &anim.ManualClock{T: time.Unix(1_700_000_000, 0)}
		env = &visual.Env{Loader: loader, Tables: tables, Surface: visual.FixedSurface(60, 20), Clock: clock, Seed: 7}

		reg = coord.NewRegistry(smallOptions())
		c = coord.New(reg, env)
	})

	AfterEach(func() {
		c.Close()
		viz.SetTheme(viz.ThemeDark.Name)
	})

	It("starts on home with nothing to tick", func() {
		Expect(c.Current()).To(Equal(coord.Home))
		Expect(c.Active()).To(BeNil())
		Expect(c.NeedsTick()).To(BeFalse())
		_, ok := c.Status(clock.Now())
		Expect(ok).To(BeFalse())
		Expect(c.Skip()).To(BeFalse())
	})

	It("lists views in tab order", func() {
		Expect(c.Names()).To(Equal(coord.Tabs[1:]))
	})

	It("constructs a view only on its first visit", func() {
		Expect(c.Instance("lorenz")).To(BeNil())
		Expect(c.Switch(ctx, "lorenz")).To(Succeed())
		first := c.Instance("lorenz")
		Expect(first).NotTo(BeNil())
		Expect(c.Instance("mobius")).To(BeNil())
		for i := 0; i < 3; i++ {
			c.Tick(clock.Advance(time.Second / 60))
		}

		Expect(c.Switch(ctx, "mobius")).To(Succeed())
		Expect(c.Switch(ctx, "lorenz")).To(Succeed())
		Expect(c.Instance("lorenz")).To(BeIdenticalTo(first))
		Expect(first.(*visual.Lorenz).Machine().Frame()).To(Equal(3))
	})

	It("pauses the outgoing view before the incoming one starts", func() {
		Expect(c.Switch(ctx, "lorenz")).To(Succeed())
		Expect(c.Switch(ctx, "klein")).To(Succeed())

		lorenz := c.Instance("lorenz").(*visual.Lorenz)
		klein := c.Instance("klein").(*visual.Klein)
		Expect(lorenz.Active()).To(BeFalse())
		Expect(klein.Active()).To(BeTrue())

		before := klein.Angle()
		c.Tick(clock.Now())
		Expect(klein.Angle()).To(BeNumerically(">", before))
		Expect(lorenz.Machine().Frame()).To(BeZero())
	})

	It("treats switching to the current tab as a no-op", func() {
		Expect(c.Switch(ctx, "sierpinski")).To(Succeed())
		c.Tick(clock.Advance(time.Second / 60))
		Expect(c.Switch(ctx, "sierpinski")).To(Succeed())
		s := c.Instance("sierpinski").(*visual.Sierpinski)
		Expect(s.Active()).To(BeTrue())
		Expect(s.Machine().Frame()).To(Equal(1))
	})

	It("rejects unknown tabs without leaving the current one", func() {
		Expect(c.Switch(ctx, "lorenz")).To(Succeed())
		err := c.Switch(ctx, "hopf")
		Expect(errors.Is(err, kernel.ErrUnknownVisualization)).To(BeTrue())
		Expect(c.Current()).To(Equal("lorenz"))
		Expect(c.Instance("lorenz").Active()).To(BeTrue())
	})

	It("pauses the view when going home", func() {
		Expect(c.Switch(ctx, "mobius")).To(Succeed())
		Expect(c.NeedsTick()).To(BeTrue())
		Expect(c.Switch(ctx, coord.Home)).To(Succeed())
		Expect(c.NeedsTick()).To(BeFalse())
		Expect(c.Instance("mobius").Active()).To(BeFalse())
	})

	It("only dispatches the operations a view offers", func() {
		Expect(c.Switch(ctx, "mandelbrot")).To(Succeed())
		Expect(c.TogglePause()).To(BeFalse())
		Expect(c.Interact(clock.Now())).To(BeFalse())
		Expect(c.Supports(visual.CapZoomOut)).To(BeTrue())
		Expect(c.Click(0.5, 0.5)).To(BeTrue())
		Expect(c.Instance("mandelbrot").(*visual.Mandelbrot).Viewport().Zoom).To(Equal(400.0))
		Expect(c.ZoomOut()).To(BeTrue())

		Expect(c.Switch(ctx, "sierpinski")).To(Succeed())
		Expect(c.Interact(clock.Now())).To(BeFalse())
		Expect(c.CycleMode()).To(BeTrue())
		Expect(c.Click(0.1, 0.1)).To(BeFalse())
	})

	It("reports the current view's status", func() {
		Expect(c.Switch(ctx, "lorenz")).To(Succeed())
		c.Tick(clock.Advance(time.Second / 60))
		st, ok := c.Status(clock.Now())
		Expect(ok).To(BeTrue())
		Expect(st.Label).To(Equal("DRAWING"))
	})

	It("repaints every constructed view on a theme change", func() {
		Expect(c.Switch(ctx, "sierpinski")).To(Succeed())
		Expect(c.Switch(ctx, "lorenz")).To(Succeed())

		viz.SetTheme(viz.ThemeLight.Name)

		s := c.Instance("sierpinski").(*visual.Sierpinski)
		Expect(s.Raster().Front().RGBAAt(0, 0)).To(Equal(viz.RGBA(viz.ThemeLight.Background)))
		Expect(s.Machine().Frame()).To(BeZero())
	})

	Context("when one view cannot get a surface", func() {
		var missing bool

		BeforeEach(func() {
			missing = true
			env.Surface = func(name string) (visual.Size, error) {
				if name == "klein" && missing {
					return visual.Size{}, kernel.ErrMissingSurface
				}
				return visual.Size{W: 60, H: 20}, nil
			}
		})

		It("contains the failure to that view", func() {
			err := c.Switch(ctx, "klein")
			Expect(errors.Is(err, kernel.ErrMissingSurface)).To(BeTrue())
			Expect(c.Err("klein")).To(HaveOccurred())
			Expect(c.NeedsTick()).To(BeFalse())

			Expect(c.Switch(ctx, "lorenz")).To(Succeed())
			Expect(c.NeedsTick()).To(BeTrue())
			Expect(c.Err("lorenz")).NotTo(HaveOccurred())

			err = c.Switch(ctx, "klein")
			Expect(errors.Is(err, kernel.ErrMissingSurface)).To(BeTrue())
			Expect(c.Err("klein")).To(HaveOccurred())
			Expect(c.NeedsTick()).To(BeFalse())
		})

		It("mounts the view on a later visit once the surface is back", func() {
			Expect(c.Switch(ctx, "klein")).NotTo(Succeed())
			Expect(c.Switch(ctx, coord.Home)).To(Succeed())

			missing = false
			Expect(c.Switch(ctx, "klein")).To(Succeed())
			Expect(c.Err("klein")).NotTo(HaveOccurred())
			Expect(c.NeedsTick()).To(BeTrue())
			Expect(c.Instance("klein").(visual.SceneView).Canvas()).NotTo(BeNil())
		})

		It("mounts the current view when a resize brings the surface back", func() {
			Expect(c.Switch(ctx, "klein")).NotTo(Succeed())

			missing = false
			Expect(c.Resize(ctx)).To(Succeed())
			Expect(c.Err("klein")).NotTo(HaveOccurred())
			Expect(c.NeedsTick()).To(BeTrue())
		})
	})

	It("keeps an interaction pause deadline across resizes", func() {
		Expect(c.Switch(ctx, "lorenz")).To(Succeed())
		l := c.Instance("lorenz").(*visual.Lorenz)
		Expect(c.Interact(clock.Now())).To(BeTrue())
		left := l.Machine().ResumeIn(clock.Now())

		for i := 0; i < 4; i++ {
			clock.Advance(time.Second)
			Expect(c.Resize(ctx)).To(Succeed())
		}
		Expect(l.Machine().ResumeIn(clock.Now())).To(Equal(left - 4*time.Second))

		c.Tick(clock.Advance(left - 4*time.Second))
		Expect(l.Machine().Paused()).To(BeFalse())
	})

	Context("when a library is still loading", func() {
		var gate chan struct{}

		BeforeEach(func() {
			gate = make(chan struct{})
			tables := deps.NewTables()
			std := deps.Standard(tables)
			env.Tables = tables
			env.Loader = deps.NewLoader(
				deps.Library{Name: deps.Scene3D, Load: func(ctx context.Context) error {
					<-gate
					return std[0].Load(ctx)
				}},
				std[1],
			)
			Expect(env.Loader.Load(ctx, deps.Raster)).To(Succeed())
		})

		AfterEach(func() {
			select {
			case <-gate:
			default:
				close(gate)
			}
		})

		It("defers init and finishes it on retry", func() {
			err := c.Switch(ctx, "mobius")
			Expect(visual.IsDeferred(err)).To(BeTrue())
			Expect(c.Err("mobius")).NotTo(HaveOccurred())
			Expect(c.NeedsTick()).To(BeFalse())

			// other views are unaffected
			Expect(c.Switch(ctx, "sierpinski")).To(Succeed())
			Expect(c.Switch(ctx, "mobius")).To(Succeed())

			ready := c.Ready("mobius")
			Expect(ready).NotTo(BeNil())
			close(gate)
			Eventually(ready).Should(BeClosed())

			Expect(c.Retry(ctx, "mobius")).To(Succeed())
			Expect(c.NeedsTick()).To(BeTrue())
			Expect(c.Ready("mobius")).To(BeNil())
		})
	})
})
