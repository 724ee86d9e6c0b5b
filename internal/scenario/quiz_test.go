package scenario_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wheelsim/internal/scenario"
	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/wheel"
)

func runToEnd(s *sim.Session) {
	a := sim.NewAnimator(s, nil, nil)
	_, err := sim.RunFixed(context.Background(), a, time.Second/60, 0)
	Expect(err).NotTo(HaveOccurred())
}

var _ = Describe("Question", func() {
	q := scenario.Question{Kind: scenario.KindDistance, Radius: 20, Revolutions: 3, Pi: wheel.PiDecimal}

	It("rounds the distance key", func() {
		Expect(q.Exact()).To(BeNumerically("~", 376.8, 1e-9))
		Expect(q.Answer()).To(Equal(377.0))
	})

	DescribeTable("accepts answers within 5 cm",
		func(given float64, ok bool) {
			Expect(q.Check(given)).To(Equal(ok))
		},
		Entry("exact", 377.0, true),
		Entry("lower edge", 372.0, true),
		Entry("below", 371.0, false),
		Entry("upper edge", 382.0, true),
		Entry("above", 383.0, false),
		Entry("unrounded", 376.8, true),
	)

	It("uses the circumference for circumference questions", func() {
		c := scenario.Question{Kind: scenario.KindCircumference, Radius: 56, Revolutions: 4, Pi: wheel.PiFraction}
		Expect(c.Answer()).To(Equal(352.0))
		Expect(c.Prompt()).To(ContainSubstring("circumference"))
		Expect(c.Prompt()).To(ContainSubstring("22/7"))
	})

	It("loads its wheel into the session", func() {
		s := sim.New()
		Expect(q.Apply(s)).To(Succeed())
		Expect(s.Radius()).To(Equal(20.0))
		Expect(s.TargetRevolutions()).To(Equal(3.0))
		Expect(s.PiMode()).To(Equal(wheel.PiDecimal))
		Expect(s.CurrentRevolutions()).To(BeZero())
	})

	It("rolls one revolution for a circumference question", func() {
		s := sim.New()
		c := scenario.Question{Kind: scenario.KindCircumference, Radius: 10, Revolutions: 7, Pi: wheel.PiDecimal}
		Expect(c.Apply(s)).To(Succeed())
		Expect(s.TargetRevolutions()).To(Equal(1.0))
	})
})

var _ = Describe("Generator", func() {
	It("is deterministic for a seed", func() {
		a, b := scenario.NewGenerator(7), scenario.NewGenerator(7)
		for i := 0; i < 20; i++ {
			Expect(a.Next()).To(Equal(b.Next()))
		}
	})

	It("stays in range with whole-number inputs", func() {
		g := scenario.NewGenerator(1)
		for i := 0; i < 200; i++ {
			q := g.Next()
			Expect(q.Radius).To(BeNumerically(">=", g.MinRadius))
			Expect(q.Radius).To(BeNumerically("<=", g.MaxRadius))
			Expect(q.Revolutions).To(BeNumerically(">=", 1))
			Expect(q.Revolutions).To(BeNumerically("<=", g.MaxRevolutions))
			Expect(q.Radius).To(Equal(float64(int(q.Radius))))
			Expect(q.Pi.Valid()).To(BeTrue())
		}
	})
})

var _ = Describe("Quiz", func() {
	var (
		s       *sim.Session
		quiz    *scenario.Quiz
		results []scenario.Result
	)

	BeforeEach(func() {
		s = sim.New()
		quiz = scenario.NewQuiz(s, scenario.NewGenerator(42))
		results = nil
		quiz.OnResult(func(r scenario.Result) { results = append(results, r) })
	})

	AfterEach(func() {
		quiz.Close()
	})

	It("rejects an answer before a question", func() {
		_, err := quiz.Submit(10)
		Expect(err).To(MatchError(scenario.ErrNoQuestion))
	})

	It("reveals the verdict only when the run completes", func() {
		q, err := quiz.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Radius()).To(Equal(q.Radius))

		r, err := quiz.Submit(q.Answer() + 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Correct).To(BeTrue())
		Expect(s.Playing()).To(BeTrue())
		Expect(results).To(BeEmpty())

		runToEnd(s)
		Expect(results).To(HaveLen(1))
		Expect(results[0].Correct).To(BeTrue())
		Expect(results[0].Verdict()).To(HavePrefix("Correct!"))
		correct, asked := quiz.Score()
		Expect(correct).To(Equal(1))
		Expect(asked).To(Equal(1))
	})

	It("scores wrong answers", func() {
		q, _ := quiz.Next()
		_, err := quiz.Submit(q.Answer() + 6)
		Expect(err).NotTo(HaveOccurred())
		runToEnd(s)

		Expect(results).To(HaveLen(1))
		Expect(results[0].Correct).To(BeFalse())
		Expect(results[0].Verdict()).To(ContainSubstring("Not quite"))
		correct, asked := quiz.Score()
		Expect(correct).To(Equal(0))
		Expect(asked).To(Equal(1))
	})

	It("takes one answer per question", func() {
		q, _ := quiz.Next()
		_, err := quiz.Submit(q.Answer())
		Expect(err).NotTo(HaveOccurred())
		_, err = quiz.Submit(q.Answer())
		Expect(err).To(MatchError(scenario.ErrAnswered))
	})

	It("ignores runs that were not answers", func() {
		_, _ = quiz.Next()
		s.Start()
		runToEnd(s)
		Expect(results).To(BeEmpty())
		_, asked := quiz.Score()
		Expect(asked).To(BeZero())
	})

	It("drops an unrevealed answer when moving on", func() {
		q, _ := quiz.Next()
		_, _ = quiz.Submit(q.Answer())
		_, err := quiz.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Playing()).To(BeFalse())

		s.Start()
		runToEnd(s)
		Expect(results).To(BeEmpty())
	})

	It("does not judge later runs after Abandon", func() {
		q, _ := quiz.Next()
		_, _ = quiz.Submit(q.Answer())
		quiz.Abandon()
		s.Reset()

		_, ok := quiz.Current()
		Expect(ok).To(BeFalse())
		s.Start()
		runToEnd(s)
		Expect(results).To(BeEmpty())
		_, asked := quiz.Score()
		Expect(asked).To(BeZero())

		_, err := quiz.Submit(10)
		Expect(err).To(MatchError(scenario.ErrNoQuestion))
	})

	It("stops listening after Close", func() {
		q, _ := quiz.Next()
		_, _ = quiz.Submit(q.Answer())
		quiz.Close()
		runToEnd(s)
		Expect(results).To(BeEmpty())
	})
})
