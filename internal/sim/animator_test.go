package sim_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wheelsim/internal/sim"
)

var _ = Describe("Animator", func() {
	var (
		s        *sim.Session
		a        *sim.Animator
		calls    []string
		rendered []sim.Snapshot
		shown    []sim.Snapshot
	)

	BeforeEach(func() {
		s = sim.New()
		calls = nil
		rendered = nil
		shown = nil
		a = sim.NewAnimator(s,
			func(snap sim.Snapshot) {
				calls = append(calls, "render")
				rendered = append(rendered, snap)
			},
			func(snap sim.Snapshot) {
				calls = append(calls, "display")
				shown = append(shown, snap)
			})
	})

	It("renders before displaying and both read the same snapshot", func() {
		s.Start()
		a.Frame(0)
		a.Frame(100 * time.Millisecond)
		Expect(calls).To(Equal([]string{"render", "display", "render", "display"}))
		Expect(rendered).To(Equal(shown))
		Expect(rendered[1].Distance).To(BeNumerically("~", 3, 1e-9))
	})

	It("idles once stopped at the start", func() {
		Expect(a.Frame(0)).To(BeFalse())

		s.Start()
		Expect(a.Frame(0)).To(BeTrue())
		Expect(a.Frame(time.Second)).To(BeTrue())

		s.Pause()
		Expect(a.Frame(2 * time.Second)).To(BeTrue())

		s.Reset()
		Expect(a.Frame(3 * time.Second)).To(BeFalse())
	})

	It("reflects a radius change on the next frame", func() {
		s.Start()
		a.Frame(0)
		Expect(s.SetRadius(10)).To(Succeed())
		a.Frame(time.Millisecond)
		last := rendered[len(rendered)-1]
		Expect(last.Radius).To(Equal(10.0))
		Expect(last.Scale).To(Equal(s.PixelScale()))
	})

	Describe("RunFixed", func() {
		It("plays a run to completion", func() {
			Expect(s.SetTargetRevolutions(1)).To(Succeed())
			s.Start()
			n, err := sim.RunFixed(context.Background(), a, time.Second/60, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(a.Frames()))
			Expect(s.IsComplete()).To(BeTrue())
			Expect(rendered[len(rendered)-1].Revolutions).To(Equal(1.0))
			// 351.68 cm at 30 cm/s is about 11.7 s of frames
			Expect(n).To(BeNumerically("~", 11.72*60, 5))
		})

		It("honours the frame budget", func() {
			s.Start()
			n, err := sim.RunFixed(context.Background(), a, time.Second/60, 10)
			Expect(err).To(MatchError(sim.ErrFrameLimit))
			Expect(n).To(Equal(10))
		})

		It("stops on a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			s.Start()
			_, err := sim.RunFixed(ctx, a, time.Second/60, 0)
			Expect(err).To(MatchError(sim.ErrCanceled))
		})

		It("returns after one frame when nothing is playing", func() {
			n, err := sim.RunFixed(context.Background(), a, time.Second/60, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
		})
	})
})
