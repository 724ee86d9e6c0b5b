package scenario

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/wheel"
)

//go:embed default_tutorial.yaml
var defaultTutorial []byte

// Step is one tutorial stage. Unset wheel fields keep the session's value.
// Text and Outcome are text/template sources rendered against [Facts].
type Step struct {
	Title       string   `yaml:"title"`
	Text        string   `yaml:"text"`
	Radius      *float64 `yaml:"radius,omitempty"`
	Revolutions *float64 `yaml:"revolutions,omitempty"`
	Pi          string   `yaml:"pi,omitempty"`
	Speed       *float64 `yaml:"speed,omitempty"`
	Play        bool     `yaml:"play,omitempty"`
	Outcome     string   `yaml:"outcome,omitempty"`
}

type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Facts is what step templates can print.
type Facts struct {
	Step, Steps   int
	Radius        float64
	Pi            wheel.PiMode
	PiValue       float64
	Circumference float64
	Revolutions   float64
	Target        float64
	Distance      float64
	TotalDistance float64
	Speed         float64
}

func factsOf(snap sim.Snapshot, step, steps int) Facts {
	return Facts{
		Step:          step,
		Steps:         steps,
		Radius:        snap.Radius,
		Pi:            snap.PiMode,
		PiValue:       wheel.PiValue(snap.PiMode),
		Circumference: snap.Circumference,
		Revolutions:   snap.Revolutions,
		Target:        snap.Target,
		Distance:      snap.Distance,
		TotalDistance: snap.TotalDistance,
		Speed:         snap.Speed,
	}
}

var funcs = template.FuncMap{"num": num}

// ParseScript decodes and checks a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, ErrEmptyScript
	}
	for i, st := range s.Steps {
		if st.Pi != "" {
			if _, err := wheel.ParsePiMode(st.Pi); err != nil {
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		for _, src := range []string{st.Text, st.Outcome} {
			if _, err := template.New("").Funcs(funcs).Parse(src); err != nil {
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return &s, nil
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

// DefaultScript teaches C = 2πr and then D = C × N.
func DefaultScript() *Script {
	s, err := ParseScript(defaultTutorial)
	if err != nil {
		panic("scenario: bad built-in tutorial: " + err.Error())
	}
	return s
}

// Tutorial steps through a script. Advance applies the next step; a step
// that plays reports its outcome to OnOutcome listeners when the run ends.
type Tutorial struct {
	ctl    Controller
	script *Script
	index  int

	awaiting  bool
	listeners []func(string)
	cancel    func()
}

func NewTutorial(ctl Controller, script *Script) (*Tutorial, error) {
	if script == nil || len(script.Steps) == 0 {
		return nil, ErrEmptyScript
	}
	t := &Tutorial{ctl: ctl, script: script, index: -1}
	t.cancel = ctl.OnCompletion(t.onComplete)
	return t, nil
}

func (t *Tutorial) Script() *Script { return t.script }

// Advance moves to the next step and returns its narration.
func (t *Tutorial) Advance() (string, error) {
	if t.index+1 >= len(t.script.Steps) {
		return "", ErrFinished
	}
	t.index++
	st := t.script.Steps[t.index]
	t.awaiting = false

	if err := t.apply(st); err != nil {
		return "", fmt.Errorf("step %d: %w", t.index+1, err)
	}
	text, err := t.render(st.Text)
	if err != nil {
		return "", err
	}
	if st.Play {
		t.awaiting = st.Outcome != ""
		t.ctl.Start()
	}
	return text, nil
}

func (t *Tutorial) apply(st Step) error {
	if st.Radius == nil && st.Revolutions == nil && st.Pi == "" && st.Speed == nil && !st.Play {
		return nil
	}
	t.ctl.Reset()
	if st.Pi != "" {
		mode, err := wheel.ParsePiMode(st.Pi)
		if err != nil {
			return err
		}
		if err := t.ctl.SetPiMode(mode); err != nil {
			return err
		}
	}
	if st.Radius != nil {
		if err := t.ctl.SetRadius(*st.Radius); err != nil {
			return err
		}
	}
	if st.Revolutions != nil {
		if err := t.ctl.SetTargetRevolutions(*st.Revolutions); err != nil {
			return err
		}
	}
	if st.Speed != nil {
		if err := t.ctl.SetSpeedMultiplier(*st.Speed); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tutorial) render(src string) (string, error) {
	tmpl, err := template.New("step").Funcs(funcs).Parse(src)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	facts := factsOf(t.ctl.Snapshot(), t.index+1, len(t.script.Steps))
	if err := tmpl.Execute(&sb, facts); err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}

// Current returns the active step and its 1-based number, or false before
// the first Advance.
func (t *Tutorial) Current() (Step, int, bool) {
	if t.index < 0 {
		return Step{}, 0, false
	}
	return t.script.Steps[t.index], t.index + 1, true
}

// Done reports whether the last step has been shown.
func (t *Tutorial) Done() bool {
	return t.index >= len(t.script.Steps)-1
}

// Restart rewinds to before the first step and stops the wheel.
func (t *Tutorial) Restart() {
	t.index = -1
	t.awaiting = false
	t.ctl.Reset()
}

func (t *Tutorial) OnOutcome(fn func(string)) {
	t.listeners = append(t.listeners, fn)
}

// Abandon stops waiting for the outcome of a played step. The lesson
// position is kept.
func (t *Tutorial) Abandon() {
	t.awaiting = false
}

// Close detaches the tutorial from the session.
func (t *Tutorial) Close() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Tutorial) onComplete(sim.Snapshot) {
	if !t.awaiting {
		return
	}
	t.awaiting = false
	text, err := t.render(t.script.Steps[t.index].Outcome)
	if err != nil {
		text = err.Error()
	}
	for _, fn := range t.listeners {
		fn(text)
	}
}
