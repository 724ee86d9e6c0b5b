package viz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/wheelsim/internal/logging"
	"github.com/san-kum/wheelsim/internal/render"
	"github.com/san-kum/wheelsim/internal/scenario"
	"github.com/san-kum/wheelsim/internal/sim"
)

const (
	defaultCols     = 80
	defaultRows     = 20
	minCols         = 20
	minRows         = 6
	historyCapacity = 240

	// virtualWidth is the viewport width the scene is laid out in before it
	// is scaled down to braille dots.
	virtualWidth = 800.0
)

// Mode is the TUI interaction mode.
type Mode int

const (
	ModeFree Mode = iota
	ModeStep
	ModeQuiz
)

var modeNames = [...]string{"free", "step", "quiz"}

func (m Mode) String() string { return modeNames[m] }

// FrameMsg carries the frame timestamp relative to program start.
type FrameMsg time.Duration

// Observer receives every displayed snapshot. *audio.Clicker implements it.
type Observer interface {
	Observe(sim.Snapshot)
}

// Options configures NewModel. Zero values pick defaults.
type Options struct {
	Theme    render.Theme
	FPS      int
	Seed     int64
	Script   *scenario.Script
	Logger   *slog.Logger
	Observer Observer
	Events   *logging.EventLog
}

// Model is the Bubble Tea model for the terminal front end.
type Model struct {
	session  *sim.Session
	anim     *sim.Animator
	renderer *render.Renderer
	canvas   *Canvas
	surface  render.Surface

	start   time.Time
	fps     int
	ticking bool

	mode      Mode
	tutorial  *scenario.Tutorial
	quiz      *scenario.Quiz
	narration string
	outcome   string
	input     string
	message   string

	history  []float64
	observer Observer
	events   *logging.EventLog
	log      *slog.Logger
	showHelp bool
}

// NewModel wires s to a braille canvas. The session keeps its settings; the
// viewport is replaced on the first window size message.
func NewModel(s *sim.Session, opts Options) (*Model, error) {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Theme.Name == "" {
		opts.Theme = render.DefaultTheme
	}
	if opts.Script == nil {
		opts.Script = scenario.DefaultScript()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	m := &Model{
		session:  s,
		renderer: render.New(opts.Theme),
		start:    time.Now(),
		fps:      opts.FPS,
		observer: opts.Observer,
		events:   opts.Events,
		log:      opts.Logger,
		history:  make([]float64, 0, historyCapacity),
	}
	m.anim = sim.NewAnimator(s, m.draw, m.display)
	m.resize(defaultCols, defaultRows)

	tut, err := scenario.NewTutorial(s, opts.Script)
	if err != nil {
		return nil, err
	}
	tut.OnOutcome(func(text string) { m.outcome = text })
	m.tutorial = tut

	m.quiz = scenario.NewQuiz(s, scenario.NewGenerator(opts.Seed))
	m.quiz.OnResult(m.onResult)

	s.OnCompletion(m.onComplete)
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	m.anim.Redraw()
	return m.schedule()
}

// schedule arms the frame tick if playback needs it and it is not armed.
func (m *Model) schedule() tea.Cmd {
	if m.ticking || !m.session.Playing() {
		return nil
	}
	m.ticking = true
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	start := m.start
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return FrameMsg(t.Sub(start))
	})
}

// Update handles input events and advances frames.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width-panelWidth-6, msg.Height-4)
		m.anim.Redraw()
		return m, nil
	case FrameMsg:
		if m.anim.Frame(time.Duration(msg)) {
			return m, m.tick()
		}
		m.ticking = false
		return m, nil
	case tea.KeyMsg:
		if quit := m.handleKey(msg.String()); quit {
			return m, tea.Quit
		}
		m.anim.Redraw()
		return m, m.schedule()
	}
	return m, nil
}

func (m *Model) handleKey(key string) (quit bool) {
	switch key {
	case "ctrl+c", "q", "esc":
		return true
	case "tab":
		m.setMode((m.mode + 1) % Mode(len(modeNames)))
		return false
	case "?":
		m.showHelp = !m.showHelp
		return false
	case "t":
		m.renderer.Theme = render.NextTheme(m.renderer.Theme.Name)
		return false
	}

	switch m.mode {
	case ModeQuiz:
		m.quizKey(key)
	case ModeStep:
		m.stepKey(key)
	default:
		m.freeKey(key)
	}
	return false
}

func (m *Model) freeKey(key string) {
	s := m.session
	var err error
	switch key {
	case " ":
		s.Toggle()
	case "r":
		s.Reset()
	case "p":
		err = s.SetPiMode(s.PiMode().Next())
	case "s":
		s.CycleSpeed()
	case "up", "k":
		err = s.SetRadius(s.Radius() + 1)
	case "down", "j":
		err = s.SetRadius(s.Radius() - 1)
	case "pgup", "K":
		err = s.SetRadius(s.Radius() + 10)
	case "pgdown", "J":
		err = s.SetRadius(s.Radius() - 10)
	case "right", "l":
		err = s.SetTargetRevolutions(s.TargetRevolutions() + 1)
	case "left", "h":
		err = s.SetTargetRevolutions(s.TargetRevolutions() - 1)
	}
	if err != nil {
		m.log.Debug("input ignored", "key", key, "err", err)
	}
}

func (m *Model) stepKey(key string) {
	switch key {
	case "enter", "n", "right":
		m.advanceLesson()
	case " ":
		m.session.Toggle()
	case "r":
		m.tutorial.Restart()
		m.advanceLesson()
	}
}

func (m *Model) advanceLesson() {
	text, err := m.tutorial.Advance()
	if errors.Is(err, scenario.ErrFinished) {
		m.narration = "That's the whole lesson. Press r to start again or Tab for the quiz."
		return
	}
	if err != nil {
		m.log.Warn("tutorial step failed", "err", err)
		m.narration = err.Error()
		return
	}
	m.outcome = ""
	step, n, _ := m.tutorial.Current()
	m.narration = fmt.Sprintf("%d/%d %s\n\n%s", n, len(m.tutorial.Script().Steps), step.Title, text)
}

func (m *Model) quizKey(key string) {
	switch key {
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case "enter":
		m.submit()
	case "n":
		m.nextQuestion()
	default:
		if len(key) == 1 && (key[0] >= '0' && key[0] <= '9' || key == ".") && len(m.input) < 12 {
			m.input += key
		}
	}
}

func (m *Model) nextQuestion() {
	if _, err := m.quiz.Next(); err != nil {
		m.log.Warn("quiz question failed", "err", err)
		return
	}
	m.input = ""
	m.message = ""
}

func (m *Model) submit() {
	v, err := strconv.ParseFloat(m.input, 64)
	if err != nil {
		m.message = "Type a number of centimetres first."
		return
	}
	if _, err := m.quiz.Submit(v); err != nil {
		m.log.Debug("answer ignored", "err", err)
		return
	}
	m.message = "Rolling..."
}

func (m *Model) setMode(mode Mode) {
	m.mode = mode
	m.message = ""
	m.outcome = ""
	switch mode {
	case ModeStep:
		m.quiz.Abandon()
		m.tutorial.Restart()
		m.advanceLesson()
	case ModeQuiz:
		m.tutorial.Abandon()
		m.nextQuestion()
	default:
		m.quiz.Abandon()
		m.tutorial.Abandon()
		m.session.Reset()
	}
	m.log.Debug("mode changed", "mode", mode.String())
}

func (m *Model) onResult(r scenario.Result) {
	m.input = ""
	if r.Correct {
		m.message = Correct.Render(r.Verdict())
	} else {
		m.message = Wrong.Render(r.Verdict())
	}
	m.events.Log("quiz", map[string]any{
		"kind":    r.Question.Kind.String(),
		"radius":  r.Question.Radius,
		"answer":  r.Question.Answer(),
		"given":   r.Given,
		"correct": r.Correct,
	})
}

func (m *Model) onComplete(snap sim.Snapshot) {
	m.log.Info("run complete", "distance_cm", snap.Distance, "revolutions", snap.Revolutions)
	m.events.Log("complete", map[string]any{
		"radius":      snap.Radius,
		"pi":          string(snap.PiMode),
		"revolutions": snap.Revolutions,
		"distance":    snap.Distance,
	})
}

func (m *Model) resize(cols, rows int) {
	cols = max(cols, minCols)
	rows = max(rows, minRows)
	m.canvas = NewCanvas(cols, rows)
	w, h := m.canvas.Size()
	factor := w / virtualWidth
	m.surface = render.Scale(m.canvas, factor)
	if err := m.session.ResizeViewport(virtualWidth, h/factor); err != nil {
		m.log.Debug("resize ignored", "err", err)
	}
}

func (m *Model) draw(snap sim.Snapshot) {
	m.renderer.Draw(m.surface, snap)
}

func (m *Model) display(snap sim.Snapshot) {
	if m.observer != nil {
		m.observer.Observe(snap)
	}
	if snap.Revolutions == 0 {
		m.history = m.history[:0]
		return
	}
	if n := len(m.history); n > 0 && m.history[n-1] == snap.Distance {
		return
	}
	if len(m.history) == historyCapacity {
		copy(m.history, m.history[1:])
		m.history = m.history[:historyCapacity-1]
	}
	m.history = append(m.history, snap.Distance)
	m.log.Log(context.Background(), logging.LevelTrace, "frame",
		"revolutions", snap.Revolutions, "distance_cm", snap.Distance)
}

// Ticking reports whether a frame tick is armed.
func (m *Model) Ticking() bool { return m.ticking }

// Mode returns the interaction mode.
func (m *Model) Mode() Mode { return m.mode }

// View renders the TUI interface.
func (m *Model) View() string {
	snap := m.session.Snapshot()
	canvasView := canvasStyle.Render(m.canvas.Render())

	var s strings.Builder
	s.WriteString(headerStyle.Render("WHEELSIM · "+strings.ToUpper(m.mode.String())) + "\n")
	switch {
	case snap.Playing:
		s.WriteString(StatusPlaying.Render("ROLLING"))
	case snap.Complete:
		s.WriteString(StatusDone.Render("COMPLETE"))
	default:
		s.WriteString(StatusPaused.Render("STOPPED"))
	}
	s.WriteString("  " + ProgressBar(snap.Progress(), 20) + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Radius", fmt.Sprintf("%s cm", trim(snap.Radius)))
	row("π", string(snap.PiMode))
	row("Circumference", fmt.Sprintf("%s cm", trim(snap.Circumference)))
	row("Revolutions", fmt.Sprintf("%.2f / %s", snap.Revolutions, trim(snap.Target)))
	row("Distance", fmt.Sprintf("%.1f cm", snap.Distance))
	row("Total", fmt.Sprintf("%s cm", trim(snap.TotalDistance)))
	row("Speed", fmt.Sprintf("%s×", trim(snap.Speed)))

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Distance (cm)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	switch m.mode {
	case ModeStep:
		s.WriteString("\n" + textStyle.Render(m.narration) + "\n")
		if m.outcome != "" {
			s.WriteString("\n" + activeStyle.Render(textStyle.Render(m.outcome)) + "\n")
		}
	case ModeQuiz:
		if q, ok := m.quiz.Current(); ok {
			s.WriteString("\n" + textStyle.Render(q.Prompt()) + "\n")
			s.WriteString(activeStyle.Render("> "+m.input+"_") + "\n")
		}
		if m.message != "" {
			s.WriteString("\n" + textStyle.Render(m.message) + "\n")
		}
		correct, asked := m.quiz.Score()
		s.WriteString(labelStyle.Render("Score") + valueStyle.Render(fmt.Sprintf("%d / %d", correct, asked)) + "\n")
	}

	s.WriteString(helpStyle.Render(m.helpLine()))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func (m *Model) helpLine() string {
	switch m.mode {
	case ModeStep:
		return "─────────────────────\nEnter:Next SP:Play R:Restart\nTab:Mode T:Theme Q:Quit"
	case ModeQuiz:
		return "─────────────────────\n0-9:Answer Enter:Check N:New\nTab:Mode T:Theme Q:Quit"
	}
	return "─────────────────────\nSP:Play R:Reset P:π S:Speed\n↑↓:Radius ←→:Revs Tab:Mode\nT:Theme ?:Help Q:Quit"
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Play/Pause               ║
║  R        - Reset                    ║
║  P        - Toggle π (3.14 / 22/7)   ║
║  S        - Cycle speed              ║
║  Up/Down  - Radius ±1 cm             ║
║  PgUp/Dn  - Radius ±10 cm            ║
║  Lft/Rgt  - Revolutions ±1           ║
║  Tab      - Free / Step / Quiz       ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func trim(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// RunTUI runs the model until the user quits.
func RunTUI(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
