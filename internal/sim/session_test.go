package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wheelsim/internal/camera"
	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/wheel"
)

var _ = Describe("Session", func() {
	var s *sim.Session

	BeforeEach(func() {
		s = sim.New()
	})

	Describe("defaults", func() {
		It("starts with the 56 cm wheel and 10 revolutions", func() {
			Expect(s.Radius()).To(Equal(56.0))
			Expect(s.TargetRevolutions()).To(Equal(10.0))
			Expect(s.SpeedMultiplier()).To(Equal(1.0))
			Expect(s.PiMode()).To(Equal(wheel.PiDecimal))
			Expect(s.Playing()).To(BeFalse())
			Expect(s.CurrentRevolutions()).To(BeZero())
		})

		It("reports circumference and total distance", func() {
			Expect(s.Circumference()).To(BeNumerically("~", 351.68, 1e-9))
			Expect(s.TotalDistance()).To(BeNumerically("~", 3516.8, 1e-9))
		})

		It("derives scale and interval from the default viewport", func() {
			want := camera.ComputeScale(56, sim.DefaultWidth, sim.DefaultHeight)
			Expect(s.PixelScale()).To(Equal(want))
			Expect(s.MarkerInterval()).To(Equal(camera.ComputeMarkerInterval(want)))
		})
	})

	Describe("SetRadius", func() {
		It("recomputes scale and interval", func() {
			Expect(s.SetRadius(5)).To(Succeed())
			Expect(s.PixelScale()).To(Equal(camera.ComputeScale(5, sim.DefaultWidth, sim.DefaultHeight)))
			Expect(s.MarkerInterval()).To(Equal(camera.ComputeMarkerInterval(s.PixelScale())))
		})

		DescribeTable("rejects invalid radii without mutating",
			func(r float64) {
				before := s.Snapshot()
				Expect(s.SetRadius(r)).To(MatchError(sim.ErrNonPositive))
				Expect(s.Snapshot()).To(Equal(before))
			},
			Entry("zero", 0.0),
			Entry("negative", -3.0),
			Entry("NaN", math.NaN()),
			Entry("infinity", math.Inf(1)),
		)
	})

	Describe("SetPiMode", func() {
		It("applies the fraction to every query", func() {
			Expect(s.SetPiMode(wheel.PiFraction)).To(Succeed())
			Expect(s.Circumference()).To(BeNumerically("~", 352.0, 1e-9))
			snap := s.Snapshot()
			Expect(snap.PiMode).To(Equal(wheel.PiFraction))
			Expect(snap.Circumference).To(Equal(s.Circumference()))
			Expect(snap.TotalDistance).To(Equal(wheel.Distance(56, 10, wheel.PiFraction)))
		})

		It("rejects unknown modes", func() {
			Expect(s.SetPiMode("3")).To(MatchError(wheel.ErrUnknownPiMode))
			Expect(s.PiMode()).To(Equal(wheel.PiDecimal))
		})
	})

	Describe("SetSpeedMultiplier", func() {
		It("accepts only 0.5, 1 and 2", func() {
			Expect(s.SetSpeedMultiplier(2)).To(Succeed())
			Expect(s.SetSpeedMultiplier(0.5)).To(Succeed())
			Expect(s.SetSpeedMultiplier(3)).To(MatchError(sim.ErrInvalidSpeed))
			Expect(s.SpeedMultiplier()).To(Equal(0.5))
		})

		It("cycles through the multipliers", func() {
			Expect(s.CycleSpeed()).To(Equal(2.0))
			Expect(s.CycleSpeed()).To(Equal(0.5))
			Expect(s.CycleSpeed()).To(Equal(1.0))
		})
	})

	Describe("SetTargetRevolutions", func() {
		It("rejects non-positive targets", func() {
			Expect(s.SetTargetRevolutions(0)).To(MatchError(sim.ErrNonPositive))
			Expect(s.TargetRevolutions()).To(Equal(10.0))
		})

		It("clamps and completes a run when lowered below the rolled distance", func() {
			fired := 0
			s.OnCompletion(func(sim.Snapshot) { fired++ })
			s.Start()
			s.Tick(60_000)
			Expect(s.CurrentRevolutions()).To(BeNumerically(">", 2))

			Expect(s.SetTargetRevolutions(2)).To(Succeed())
			Expect(s.CurrentRevolutions()).To(Equal(2.0))
			Expect(s.Playing()).To(BeFalse())
			Expect(fired).To(Equal(1))
		})
	})

	Describe("ResizeViewport", func() {
		It("recomputes scale for the new size", func() {
			Expect(s.ResizeViewport(1920, 1080)).To(Succeed())
			Expect(s.Viewport()).To(Equal(camera.Viewport{Width: 1920, Height: 1080}))
			Expect(s.PixelScale()).To(Equal(camera.ComputeScale(56, 1920, 1080)))
		})

		It("rejects empty viewports", func() {
			Expect(s.ResizeViewport(0, 100)).To(MatchError(sim.ErrNonPositive))
			Expect(s.Viewport().Width).To(Equal(sim.DefaultWidth))
		})
	})

	It("computes rotation as arc length over radius", func() {
		s.Start()
		s.Tick(5000)
		Expect(s.RotationAngle()).To(BeNumerically("~", s.CurrentDistance()/56, 1e-12))
		Expect(s.CurrentDistance()).To(BeNumerically("~", 150, 1e-9))
	})
})
