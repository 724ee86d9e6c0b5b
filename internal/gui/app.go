package gui

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/wheelsim/internal/audio"
	"github.com/san-kum/wheelsim/internal/logging"
	"github.com/san-kum/wheelsim/internal/render"
	"github.com/san-kum/wheelsim/internal/scenario"
	"github.com/san-kum/wheelsim/internal/sim"
)

const (
	hudSize    = 18
	hudMargin  = 16
	panelAlpha = 200
)

// Options configures the window. Zero values pick defaults.
type Options struct {
	Width, Height int
	FPS           int
	Theme         render.Theme
	Sound         bool
	Seed          int64
	Script        *scenario.Script
	Logger        *slog.Logger
	Events        *logging.EventLog
}

type mode int

const (
	modeFree mode = iota
	modeStep
	modeQuiz
)

var modeNames = [...]string{"free", "step", "quiz"}

type App struct {
	session  *sim.Session
	anim     *sim.Animator
	renderer *render.Renderer
	surface  *Surface
	clicker  *audio.Clicker
	log      *slog.Logger
	events   *logging.EventLog

	start  time.Time
	active bool

	mode     mode
	tutorial *scenario.Tutorial
	quiz     *scenario.Quiz
	text     string
	outcome  string
	input    string
	verdict  string
	showHelp bool
}

// initWindow opens a resizable window and disables the default exit key.
func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), "wheelsim")
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed.
func Run(s *sim.Session, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = int(sim.DefaultWidth), int(sim.DefaultHeight)
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	initWindow(opts)
	defer rl.CloseWindow()

	app, err := NewApp(s, opts)
	if err != nil {
		return err
	}
	defer app.Close()
	app.RunLoop()
	return nil
}

// NewApp wires the session to the window. The window must be open.
func NewApp(s *sim.Session, opts Options) (*App, error) {
	if opts.Theme.Name == "" {
		opts.Theme = render.DefaultTheme
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Script == nil {
		opts.Script = scenario.DefaultScript()
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	a := &App{
		session:  s,
		renderer: render.New(opts.Theme),
		surface:  &Surface{Font: rl.GetFontDefault()},
		log:      opts.Logger,
		events:   opts.Events,
		start:    time.Now(),
	}
	a.anim = sim.NewAnimator(s, a.draw, a.display)

	if opts.Sound {
		a.clicker = audio.NewClicker(opts.Logger)
		if err := a.clicker.Open(); err != nil {
			a.log.Warn("sound disabled", "err", err)
			a.clicker = nil
		}
	}

	tut, err := scenario.NewTutorial(s, opts.Script)
	if err != nil {
		return nil, err
	}
	tut.OnOutcome(func(text string) { a.outcome = text })
	a.tutorial = tut

	a.quiz = scenario.NewQuiz(s, scenario.NewGenerator(opts.Seed))
	a.quiz.OnResult(func(r scenario.Result) {
		a.verdict = r.Verdict()
		a.input = ""
		a.events.Log("quiz", map[string]any{
			"answer": r.Question.Answer(), "given": r.Given, "correct": r.Correct,
		})
	})

	s.OnCompletion(func(snap sim.Snapshot) {
		a.log.Info("run complete", "distance_cm", snap.Distance, "revolutions", snap.Revolutions)
		a.events.Log("complete", map[string]any{
			"radius": snap.Radius, "pi": string(snap.PiMode), "distance": snap.Distance,
		})
	})

	a.resize()
	a.active = s.Playing()
	return a, nil
}

func (a *App) Close() {
	if a.clicker != nil {
		a.clicker.Close()
	}
	a.quiz.Close()
	a.tutorial.Close()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if quit := a.Update(); quit {
			return
		}
		a.Draw()
	}
}

// Update handles input. It reports whether the user asked to quit.
func (a *App) Update() bool {
	if rl.IsWindowResized() {
		a.resize()
	}
	if rl.IsKeyPressed(rl.KeyQ) && a.mode != modeQuiz || rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}

	switch {
	case rl.IsKeyPressed(rl.KeyTab):
		a.setMode((a.mode + 1) % mode(len(modeNames)))
	case rl.IsKeyPressed(rl.KeyF):
		a.toggleFullscreen()
	case rl.IsKeyPressed(rl.KeyT):
		a.renderer.Theme = render.NextTheme(a.renderer.Theme.Name)
	case rl.IsKeyPressed(rl.KeySlash):
		a.showHelp = !a.showHelp
	}

	switch a.mode {
	case modeQuiz:
		a.updateQuiz()
	case modeStep:
		a.updateStep()
	default:
		a.updateFree()
	}

	if a.session.Playing() {
		a.active = true
	}
	return false
}

func (a *App) updateFree() {
	s := a.session
	var err error
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		s.Toggle()
	case rl.IsKeyPressed(rl.KeyR):
		s.Reset()
	case rl.IsKeyPressed(rl.KeyP):
		err = s.SetPiMode(s.PiMode().Next())
	case rl.IsKeyPressed(rl.KeyS):
		s.CycleSpeed()
	case rl.IsKeyPressed(rl.KeyUp):
		err = s.SetRadius(s.Radius() + a.step(1, 10))
	case rl.IsKeyPressed(rl.KeyDown):
		err = s.SetRadius(s.Radius() - a.step(1, 10))
	case rl.IsKeyPressed(rl.KeyRight):
		err = s.SetTargetRevolutions(s.TargetRevolutions() + a.step(1, 0.5))
	case rl.IsKeyPressed(rl.KeyLeft):
		err = s.SetTargetRevolutions(s.TargetRevolutions() - a.step(1, 0.5))
	}
	if err != nil {
		a.log.Debug("input ignored", "err", err)
	}
}

// step returns big while shift is held and small otherwise.
func (a *App) step(small, big float64) float64 {
	if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
		return big
	}
	return small
}

func (a *App) updateStep() {
	switch {
	case rl.IsKeyPressed(rl.KeyEnter), rl.IsKeyPressed(rl.KeyN):
		a.advanceLesson()
	case rl.IsKeyPressed(rl.KeySpace):
		a.session.Toggle()
	case rl.IsKeyPressed(rl.KeyR):
		a.tutorial.Restart()
		a.advanceLesson()
	}
}

func (a *App) advanceLesson() {
	text, err := a.tutorial.Advance()
	switch {
	case errors.Is(err, scenario.ErrFinished):
		a.text = "That's the whole lesson. Press R to start again or Tab for the quiz."
	case err != nil:
		a.log.Warn("tutorial step failed", "err", err)
		a.text = err.Error()
	default:
		step, n, _ := a.tutorial.Current()
		a.text = fmt.Sprintf("%d/%d  %s: %s", n, len(a.tutorial.Script().Steps), step.Title, text)
		a.outcome = ""
	}
}

func (a *App) updateQuiz() {
	for ch := rl.GetCharPressed(); ch > 0; ch = rl.GetCharPressed() {
		r := rune(ch)
		if (r >= '0' && r <= '9' || r == '.') && len(a.input) < 12 {
			a.input += string(r)
		}
		if r == 'n' || r == 'N' {
			a.nextQuestion()
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(a.input) > 0 {
		a.input = a.input[:len(a.input)-1]
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		v, err := strconv.ParseFloat(a.input, 64)
		if err != nil {
			a.verdict = "Type a number of centimetres first."
			return
		}
		if _, err := a.quiz.Submit(v); err != nil {
			a.log.Debug("answer ignored", "err", err)
			return
		}
		a.verdict = "Rolling..."
	}
}

func (a *App) nextQuestion() {
	if _, err := a.quiz.Next(); err != nil {
		a.log.Warn("quiz question failed", "err", err)
		return
	}
	a.input, a.verdict = "", ""
}

func (a *App) setMode(m mode) {
	a.mode = m
	a.outcome, a.verdict = "", ""
	switch m {
	case modeStep:
		a.quiz.Abandon()
		a.tutorial.Restart()
		a.advanceLesson()
	case modeQuiz:
		a.tutorial.Abandon()
		a.nextQuestion()
	default:
		a.quiz.Abandon()
		a.tutorial.Abandon()
		a.session.Reset()
	}
}

func (a *App) toggleFullscreen() {
	if !rl.IsWindowFullscreen() {
		mon := rl.GetCurrentMonitor()
		rl.SetWindowSize(rl.GetMonitorWidth(mon), rl.GetMonitorHeight(mon))
	}
	rl.ToggleFullscreen()
	a.resize()
}

func (a *App) resize() {
	w, h := a.surface.Size()
	if err := a.session.ResizeViewport(w, h); err != nil {
		a.log.Debug("resize ignored", "err", err)
	}
}

// Draw runs one frame. The clock only advances while the loop is active;
// a stopped wheel back at the start is redrawn without touching it.
func (a *App) Draw() {
	rl.BeginDrawing()
	if a.active {
		a.active = a.anim.Frame(time.Since(a.start))
	} else {
		a.anim.Redraw()
	}
	a.drawHUD()
	rl.EndDrawing()
}

func (a *App) draw(snap sim.Snapshot) {
	a.renderer.Draw(a.surface, snap)
}

func (a *App) display(snap sim.Snapshot) {
	if a.clicker != nil {
		a.clicker.Observe(snap)
	}
}

func (a *App) drawHUD() {
	snap := a.session.Snapshot()
	th := a.renderer.Theme
	style := render.TextStyle{Size: hudSize, Color: th.Label}

	y := float64(hudMargin + hudSize)
	for _, line := range hudLines(snap) {
		a.surface.Text(hudMargin, y, line, style)
		y += hudSize + 4
	}

	title := render.TextStyle{Size: hudSize + 4, Bold: true, Align: render.AlignRight, Color: th.Trail}
	w, h := a.surface.Size()
	a.surface.Text(w-hudMargin, hudMargin+hudSize+4, "wheelsim :: "+modeNames[a.mode], title)

	var body []string
	switch a.mode {
	case modeStep:
		body = append(body, wrap(a.text, 70)...)
		body = append(body, wrap(a.outcome, 70)...)
	case modeQuiz:
		if q, ok := a.quiz.Current(); ok {
			body = append(body, wrap(q.Prompt(), 70)...)
			body = append(body, "> "+a.input+"_")
		}
		body = append(body, wrap(a.verdict, 70)...)
		correct, asked := a.quiz.Score()
		body = append(body, fmt.Sprintf("score %d / %d", correct, asked))
	}
	if len(body) > 0 {
		top := float64(hudMargin) + 8*(hudSize+4)
		bg := th.Background
		bg.A = panelAlpha
		rl.DrawRectangle(hudMargin/2, int32(top-hudSize-4), int32(w-hudMargin), int32(len(body)*(hudSize+4)+8), bg)
		for i, line := range body {
			a.surface.Text(hudMargin, top+float64(i*(hudSize+4)), line, style)
		}
	}

	help := "[SPACE] PLAY  [R] RESET  [P] PI  [S] SPEED  [ARROWS] RADIUS/REVS  [TAB] MODE  [F] FULLSCREEN  [T] THEME  [Q] QUIT"
	if a.showHelp {
		help = "SHIFT+ARROWS: big steps   STEP: [ENTER] next   QUIZ: type digits, [ENTER] check, [N] new"
	}
	a.surface.Text(hudMargin, h-8, help, render.TextStyle{Size: 12, Color: th.Tick})
}

// hudLines formats the numeric readouts.
func hudLines(snap sim.Snapshot) []string {
	status := "STOPPED"
	switch {
	case snap.Playing:
		status = "ROLLING"
	case snap.Complete:
		status = "COMPLETE"
	}
	return []string{
		status,
		fmt.Sprintf("radius         %s cm", trim(snap.Radius)),
		fmt.Sprintf("π              %s", snap.PiMode),
		fmt.Sprintf("circumference  %s cm", trim(snap.Circumference)),
		fmt.Sprintf("revolutions    %.2f / %s", snap.Revolutions, trim(snap.Target)),
		fmt.Sprintf("distance       %.1f cm", snap.Distance),
		fmt.Sprintf("speed          %s×", trim(snap.Speed)),
	}
}

// wrap splits s into lines of at most width runes on word boundaries.
func wrap(s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		var line strings.Builder
		for _, word := range strings.Fields(para) {
			if line.Len() > 0 && len([]rune(line.String()))+1+len([]rune(word)) > width {
				lines = append(lines, line.String())
				line.Reset()
			}
			if line.Len() > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(word)
		}
		if line.Len() > 0 {
			lines = append(lines, line.String())
		}
	}
	return lines
}

func trim(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
