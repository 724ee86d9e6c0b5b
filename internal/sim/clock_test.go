package sim_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wheelsim/internal/sim"
)

var _ = Describe("Clock", func() {
	var s *sim.Session

	BeforeEach(func() {
		s = sim.New()
	})

	It("does not move while paused", func() {
		s.Tick(1000)
		Expect(s.CurrentRevolutions()).To(BeZero())
	})

	It("advances at 30 cm/s times the speed multiplier", func() {
		s.Start()
		s.Tick(1000)
		Expect(s.CurrentDistance()).To(BeNumerically("~", 30, 1e-9))

		Expect(s.SetSpeedMultiplier(2)).To(Succeed())
		s.Tick(1000)
		Expect(s.CurrentDistance()).To(BeNumerically("~", 90, 1e-9))

		Expect(s.SetSpeedMultiplier(0.5)).To(Succeed())
		s.Tick(2000)
		Expect(s.CurrentDistance()).To(BeNumerically("~", 120, 1e-9))
	})

	It("is non-decreasing across ticks", func() {
		s.Start()
		prev := s.CurrentRevolutions()
		for _, d := range []float64{16, 0, 33, 16.7, -50, 1000, 0.1} {
			s.Tick(d)
			Expect(s.CurrentRevolutions()).To(BeNumerically(">=", prev))
			prev = s.CurrentRevolutions()
		}
	})

	Describe("completion", func() {
		It("clamps exactly at the target and stops", func() {
			Expect(s.SetTargetRevolutions(1)).To(Succeed())
			s.Start()
			s.Tick(1e7)
			Expect(s.CurrentRevolutions()).To(Equal(1.0))
			Expect(s.Playing()).To(BeFalse())
			Expect(s.IsComplete()).To(BeTrue())
		})

		It("fires the completion event exactly once per run", func() {
			var got []sim.Snapshot
			s.OnCompletion(func(snap sim.Snapshot) { got = append(got, snap) })
			Expect(s.SetTargetRevolutions(0.5)).To(Succeed())

			s.Start()
			s.Tick(1e6)
			s.Tick(1e6)
			Expect(got).To(HaveLen(1))
			Expect(got[0].Revolutions).To(Equal(0.5))
			Expect(got[0].Complete).To(BeTrue())
			Expect(got[0].Playing).To(BeFalse())

			s.Start()
			Expect(s.CurrentRevolutions()).To(BeZero())
			s.Tick(1e6)
			Expect(got).To(HaveLen(2))
		})

		It("stops notifying cancelled listeners", func() {
			calls := 0
			cancel := s.OnCompletion(func(sim.Snapshot) { calls++ })
			cancel()
			cancel()
			s.Start()
			s.Tick(1e9)
			Expect(calls).To(BeZero())
		})

		It("lets a listener cancel itself while firing", func() {
			calls := 0
			var cancel func()
			cancel = s.OnCompletion(func(sim.Snapshot) {
				calls++
				cancel()
			})
			other := 0
			s.OnCompletion(func(sim.Snapshot) { other++ })

			s.Start()
			s.Tick(1e9)
			s.Start()
			s.Tick(1e9)
			Expect(calls).To(Equal(1))
			Expect(other).To(Equal(2))
		})
	})

	Describe("Start", func() {
		It("keeps progress when resuming a paused run", func() {
			s.Start()
			s.Tick(2000)
			s.Pause()
			revs := s.CurrentRevolutions()
			s.Start()
			Expect(s.CurrentRevolutions()).To(Equal(revs))
		})
	})

	Describe("Advance", func() {
		It("treats the first frame after start as zero elapsed time", func() {
			s.Start()
			s.Advance(10 * time.Hour)
			Expect(s.CurrentRevolutions()).To(BeZero())

			s.Advance(10*time.Hour + time.Second)
			Expect(s.CurrentDistance()).To(BeNumerically("~", 30, 1e-9))
		})

		It("discards the stale timestamp after a pause", func() {
			s.Start()
			s.Advance(0)
			s.Advance(time.Second)
			s.Pause()
			s.Advance(time.Minute)

			s.Start()
			s.Advance(time.Hour)
			Expect(s.CurrentDistance()).To(BeNumerically("~", 30, 1e-9))
		})
	})

	Describe("Reset", func() {
		It("stops and rewinds", func() {
			s.Start()
			s.Tick(3000)
			s.Reset()
			Expect(s.Playing()).To(BeFalse())
			Expect(s.CurrentRevolutions()).To(BeZero())
		})

		It("is idempotent", func() {
			s.Start()
			s.Tick(3000)
			s.Reset()
			once := s.Snapshot()
			s.Reset()
			Expect(s.Snapshot()).To(Equal(once))
		})

		It("gives the next run a fresh first frame", func() {
			s.Start()
			s.Advance(0)
			s.Advance(time.Second)
			s.Reset()
			s.Start()
			s.Advance(time.Hour)
			Expect(s.CurrentRevolutions()).To(BeZero())
		})
	})
})
