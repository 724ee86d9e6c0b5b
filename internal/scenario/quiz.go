package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/wheel"
)

// AnswerTolerance is how far, in cm, an answer may sit from the rounded key.
const AnswerTolerance = 5.0

// Kind selects what a question asks for.
type Kind int

const (
	KindDistance Kind = iota
	KindCircumference
)

func (k Kind) String() string {
	if k == KindCircumference {
		return "circumference"
	}
	return "distance"
}

// Question is one quiz item.
type Question struct {
	Kind        Kind
	Radius      float64
	Revolutions float64
	Pi          wheel.PiMode
}

// Exact is the unrounded key, computed with the same formulas the session uses.
func (q Question) Exact() float64 {
	if q.Kind == KindCircumference {
		return wheel.Circumference(q.Radius, q.Pi)
	}
	return wheel.Distance(q.Radius, q.Revolutions, q.Pi)
}

// Answer is the rounded answer key.
func (q Question) Answer() float64 {
	return math.Round(q.Exact())
}

// Check reports whether x is within AnswerTolerance of the key.
func (q Question) Check(x float64) bool {
	return math.Abs(x-q.Answer()) <= AnswerTolerance
}

// Prompt is the question text.
func (q Question) Prompt() string {
	if q.Kind == KindCircumference {
		return fmt.Sprintf("A wheel has a radius of %s cm. Using π = %s, what is its circumference in cm?",
			num(q.Radius), q.Pi)
	}
	return fmt.Sprintf("A wheel with a radius of %s cm rolls %s revolutions. Using π = %s, how far does it travel in cm?",
		num(q.Radius), num(q.Revolutions), q.Pi)
}

// Apply stops the session and loads the question's wheel. A circumference
// question rolls exactly one revolution.
func (q Question) Apply(c Controller) error {
	c.Reset()
	revs := q.Revolutions
	if q.Kind == KindCircumference {
		revs = 1
	}
	if err := c.SetPiMode(q.Pi); err != nil {
		return err
	}
	if err := c.SetRadius(q.Radius); err != nil {
		return err
	}
	return c.SetTargetRevolutions(revs)
}

// Generator produces random questions with whole-number inputs.
type Generator struct {
	rng *rand.Rand

	MinRadius, MaxRadius int
	MaxRevolutions       int
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:            rand.New(rand.NewSource(seed)),
		MinRadius:      5,
		MaxRadius:      60,
		MaxRevolutions: 10,
	}
}

func (g *Generator) Next() Question {
	q := Question{
		Kind:        KindDistance,
		Radius:      float64(g.MinRadius + g.rng.Intn(g.MaxRadius-g.MinRadius+1)),
		Revolutions: float64(1 + g.rng.Intn(g.MaxRevolutions)),
		Pi:          wheel.Modes()[g.rng.Intn(len(wheel.Modes()))],
	}
	if g.rng.Intn(4) == 0 {
		q.Kind = KindCircumference
	}
	return q
}

// Result is a judged answer.
type Result struct {
	Question Question
	Given    float64
	Correct  bool
}

func (r Result) Verdict() string {
	if r.Correct {
		return fmt.Sprintf("Correct! The answer is %s cm.", num(r.Question.Answer()))
	}
	return fmt.Sprintf("Not quite: you said %s cm, the answer is %s cm (%s %s).",
		num(r.Given), num(r.Question.Answer()), r.Question.Kind, formula(r.Question))
}

func formula(q Question) string {
	if q.Kind == KindCircumference {
		return fmt.Sprintf("C = 2 × %s × %s", q.Pi, num(q.Radius))
	}
	return fmt.Sprintf("D = 2 × %s × %s × %s", q.Pi, num(q.Radius), num(q.Revolutions))
}

// Quiz asks one question at a time. Submit plays the run; the verdict is
// delivered to OnResult listeners when the wheel reaches its target.
type Quiz struct {
	ctl     Controller
	gen     *Generator
	current *Question
	pending *Result

	correct, asked int
	listeners      []func(Result)
	cancel         func()
}

func NewQuiz(ctl Controller, gen *Generator) *Quiz {
	q := &Quiz{ctl: ctl, gen: gen}
	q.cancel = ctl.OnCompletion(q.onComplete)
	return q
}

// Next generates a question and loads it into the session. An unrevealed
// answer to the previous question is dropped.
func (q *Quiz) Next() (Question, error) {
	next := q.gen.Next()
	if err := next.Apply(q.ctl); err != nil {
		return Question{}, err
	}
	q.current = &next
	q.pending = nil
	return next, nil
}

// Current returns the question being asked.
func (q *Quiz) Current() (Question, bool) {
	if q.current == nil {
		return Question{}, false
	}
	return *q.current, true
}

// Submit judges answer and plays the run that reveals it.
func (q *Quiz) Submit(answer float64) (Result, error) {
	if q.current == nil {
		return Result{}, ErrNoQuestion
	}
	if q.pending != nil {
		return Result{}, ErrAnswered
	}
	r := Result{Question: *q.current, Given: answer, Correct: q.current.Check(answer)}
	q.pending = &r
	q.ctl.Reset()
	q.ctl.Start()
	return r, nil
}

// OnResult registers fn for revealed verdicts.
func (q *Quiz) OnResult(fn func(Result)) {
	q.listeners = append(q.listeners, fn)
}

// Score returns correct and revealed answer counts.
func (q *Quiz) Score() (correct, asked int) {
	return q.correct, q.asked
}

// Abandon forgets the current question and any unrevealed answer, so a later
// run of the session is not judged. The score is kept.
func (q *Quiz) Abandon() {
	q.current = nil
	q.pending = nil
}

// Close detaches the quiz from the session.
func (q *Quiz) Close() {
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}

func (q *Quiz) onComplete(sim.Snapshot) {
	if q.pending == nil {
		return
	}
	r := *q.pending
	q.pending = nil
	q.current = nil
	q.asked++
	if r.Correct {
		q.correct++
	}
	for _, fn := range q.listeners {
		fn(r)
	}
}
