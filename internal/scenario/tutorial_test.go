package scenario_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wheelsim/internal/scenario"
	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/wheel"
)

var _ = Describe("Script", func() {
	It("ships a valid default lesson", func() {
		script := scenario.DefaultScript()
		Expect(script.Name).To(Equal("circumference"))
		Expect(len(script.Steps)).To(BeNumerically(">=", 4))
	})

	It("rejects empty scripts", func() {
		_, err := scenario.ParseScript([]byte("name: empty\nsteps: []\n"))
		Expect(err).To(MatchError(scenario.ErrEmptyScript))
	})

	It("rejects unknown pi modes", func() {
		_, err := scenario.ParseScript([]byte("steps:\n  - text: hi\n    pi: \"3\"\n"))
		Expect(err).To(MatchError(wheel.ErrUnknownPiMode))
	})

	It("rejects broken templates", func() {
		_, err := scenario.ParseScript([]byte("steps:\n  - text: \"{{.Radius\"\n"))
		Expect(err).To(HaveOccurred())
	})

	It("loads from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "lesson.yaml")
		Expect(os.WriteFile(path, []byte("name: tiny\nsteps:\n  - text: r={{num .Radius}}\n    radius: 12.5\n"), 0644)).To(Succeed())
		script, err := scenario.LoadScript(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(script.Steps).To(HaveLen(1))
		Expect(*script.Steps[0].Radius).To(Equal(12.5))
	})
})

var _ = Describe("Tutorial", func() {
	var (
		s        *sim.Session
		tut      *scenario.Tutorial
		outcomes []string
	)

	BeforeEach(func() {
		s = sim.New()
		var err error
		tut, err = scenario.NewTutorial(s, scenario.DefaultScript())
		Expect(err).NotTo(HaveOccurred())
		outcomes = nil
		tut.OnOutcome(func(text string) { outcomes = append(outcomes, text) })
	})

	AfterEach(func() {
		tut.Close()
	})

	It("has no current step before starting", func() {
		_, _, ok := tut.Current()
		Expect(ok).To(BeFalse())
	})

	It("walks the default lesson", func() {
		text, err := tut.Advance()
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(ContainSubstring("radius of 56 cm"))
		Expect(s.TargetRevolutions()).To(Equal(1.0))
		Expect(s.Playing()).To(BeFalse())

		_, err = tut.Advance()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Playing()).To(BeTrue())
		runToEnd(s)
		Expect(outcomes).To(HaveLen(1))
		Expect(outcomes[0]).To(ContainSubstring("351.68 cm"))

		text, _ = tut.Advance()
		Expect(text).To(ContainSubstring("2 × 3.14 × 56 = 351.68 cm"))

		_, _ = tut.Advance()
		runToEnd(s)
		Expect(outcomes).To(HaveLen(2))
		Expect(outcomes[1]).To(ContainSubstring("351.68 × 5 = 1758.4 cm"))

		text, _ = tut.Advance()
		Expect(s.PiMode()).To(Equal(wheel.PiFraction))
		Expect(text).To(ContainSubstring("352 cm"))
		Expect(text).To(ContainSubstring("1760 cm"))

		_, _ = tut.Advance()
		Expect(tut.Done()).To(BeTrue())
		_, err = tut.Advance()
		Expect(err).To(MatchError(scenario.ErrFinished))
	})

	It("keeps the wheel for steps without settings", func() {
		_, _ = tut.Advance()
		_, _ = tut.Advance()
		runToEnd(s)
		_, _ = tut.Advance()
		Expect(s.CurrentRevolutions()).To(Equal(1.0))
	})

	It("drops a pending outcome after Abandon", func() {
		_, _ = tut.Advance()
		_, _ = tut.Advance()
		Expect(s.Playing()).To(BeTrue())
		tut.Abandon()
		s.Reset()

		s.Start()
		runToEnd(s)
		Expect(outcomes).To(BeEmpty())
	})

	It("restarts from the top", func() {
		_, _ = tut.Advance()
		_, _ = tut.Advance()
		tut.Restart()
		Expect(s.Playing()).To(BeFalse())
		Expect(s.CurrentRevolutions()).To(BeZero())
		_, n, ok := tut.Current()
		Expect(ok).To(BeFalse())
		Expect(n).To(BeZero())
		text, err := tut.Advance()
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(ContainSubstring("radius of 56 cm"))
	})

	It("requires a script", func() {
		_, err := scenario.NewTutorial(s, nil)
		Expect(err).To(MatchError(scenario.ErrEmptyScript))
	})
})
