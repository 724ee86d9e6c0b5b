package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/wheelsim/internal/audio"
	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/export"
	"github.com/san-kum/wheelsim/internal/gui"
	"github.com/san-kum/wheelsim/internal/logging"
	"github.com/san-kum/wheelsim/internal/render"
	"github.com/san-kum/wheelsim/internal/scenario"
	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/store"
	"github.com/san-kum/wheelsim/internal/viz"
	"github.com/san-kum/wheelsim/internal/wheel"
)

var (
	// Config sources
	configFile string
	preset     string
	logLevel   string
	logFile    string
	eventLog   string
	// Wheel
	radius      float64
	revolutions float64
	speed       float64
	piMode      string
	// Display
	width  float64
	height float64
	fps    int
	theme  string
	sound  bool
	seed   int64
	// Output
	script      string
	format      string
	traceEvery  int
	saveDir     string
	runsDir     string
	renderOut   string
	atRevs      float64
	recordOut   string
	recordEvery int
	maxFrames   int
	count       int
)

// main registers commands and flags; with no subcommand it opens the window.
// It exits with status 1 if the command returns an error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "wheelsim",
		Short:        "rolling wheel: radius, circumference and distance",
		RunE:         runGUI,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (info, debug, trace)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	pf.StringVar(&eventLog, "events", "", "append run and quiz events to this JSONL file")
	pf.Float64Var(&radius, "radius", sim.DefaultRadius, "wheel radius in cm")
	pf.Float64Var(&revolutions, "revolutions", sim.DefaultRevolutions, "target revolutions")
	pf.Float64Var(&speed, "speed", sim.DefaultSpeed, "speed multiplier (0.5, 1, 2)")
	pf.StringVar(&piMode, "pi", string(wheel.DefaultPiMode), "pi approximation (3.14 or 22/7)")
	pf.Float64Var(&width, "width", sim.DefaultWidth, "viewport width in pixels")
	pf.Float64Var(&height, "height", sim.DefaultHeight, "viewport height in pixels")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(render.ThemeNames(), ", ")+")")
	pf.BoolVar(&sound, "sound", false, "click on every revolution")
	pf.Int64Var(&seed, "seed", 0, "quiz seed (0 picks one)")
	pf.StringVar(&script, "script", "", "lesson script (yaml) for step mode")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the wheel in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "roll the wheel in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "print circumference and distance for both pi modes",
		Args:  cobra.NoArgs,
		RunE:  runCalc,
	}

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "run headless and print distance over time",
		Args:  cobra.NoArgs,
		RunE:  runTrace,
	}
	traceCmd.Flags().StringVar(&format, "format", "plot", "output format (plot, csv, json)")
	traceCmd.Flags().IntVar(&traceEvery, "every", 6, "sample every N frames")
	traceCmd.Flags().StringVar(&saveDir, "save", "", "also store the run under this directory")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored traces",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	runsCmd.PersistentFlags().StringVar(&runsDir, "dir", "runs", "run directory")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "print a stored trace",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&format, "format", "plot", "output format (plot, csv, json)")
	runsCmd.AddCommand(showCmd)

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render a still frame to PNG or SVG",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "wheel.png", "output file (.png or .svg)")
	renderCmd.Flags().Float64Var(&atRevs, "at", 0, "revolutions rolled in the frame")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record the run as an animated GIF",
		Args:  cobra.NoArgs,
		RunE:  runRecord,
	}
	recordCmd.Flags().StringVarP(&recordOut, "out", "o", "wheel.gif", "output file")
	recordCmd.Flags().IntVar(&recordEvery, "every", 3, "keep every Nth frame")
	recordCmd.Flags().IntVar(&maxFrames, "max-frames", 20000, "simulated frame budget")

	quizCmd := &cobra.Command{
		Use:   "quiz",
		Short: "answer distance questions on stdin",
		Args:  cobra.NoArgs,
		RunE:  runQuiz,
	}
	quizCmd.Flags().IntVarP(&count, "count", "n", 5, "number of questions")

	tutorialCmd := &cobra.Command{
		Use:   "tutorial",
		Short: "print the step-by-step lesson",
		Args:  cobra.NoArgs,
		RunE:  runTutorial,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list wheel presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, calcCmd, traceCmd, runsCmd, renderCmd, recordCmd, quizCmd, tutorialCmd, presetsCmd)
	return rootCmd
}

// resolveConfig layers the preset, the config file and explicitly set flags,
// in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		cfg, err = config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("radius") {
		cfg.Radius = radius
	}
	if flags.Changed("revolutions") {
		cfg.Revolutions = revolutions
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("pi") {
		cfg.PiMode = piMode
	}
	if flags.Changed("width") {
		cfg.Viewport.Width = width
	}
	if flags.Changed("height") {
		cfg.Viewport.Height = height
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("sound") {
		cfg.Sound = sound
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("events") {
		cfg.EventLog = eventLog
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup resolves the config and builds the logger and session. quiet sends
// logs nowhere unless --log-file is set, for front ends that own the terminal.
func setup(cmd *cobra.Command, quiet bool) (*config.Config, *sim.Session, *slog.Logger, func(), error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	var out io.Writer = cmd.ErrOrStderr()
	closeLog := func() {}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeLog = func() { f.Close() }
	case quiet:
		out = io.Discard
	}
	log := logging.NewLogger(cfg.LogLevel, out)

	s := sim.New(sim.WithLogger(log), sim.WithViewport(cfg.Viewport.Width, cfg.Viewport.Height))
	if err := cfg.Apply(s); err != nil {
		closeLog()
		return nil, nil, nil, nil, err
	}
	log.Debug("session ready",
		"radius", cfg.Radius, "revolutions", cfg.Revolutions,
		"speed", cfg.Speed, "pi", cfg.PiMode)
	return cfg, s, log, closeLog, nil
}

func loadScript() (*scenario.Script, error) {
	if script == "" {
		return scenario.DefaultScript(), nil
	}
	return scenario.LoadScript(script)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, s, log, done, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer done()

	events, err := logging.OpenEventLog(cfg.EventLog)
	if err != nil {
		return err
	}
	defer events.Close()

	sc, err := loadScript()
	if err != nil {
		return err
	}
	return gui.Run(s, gui.Options{
		Width:  int(cfg.Viewport.Width),
		Height: int(cfg.Viewport.Height),
		FPS:    cfg.FPS,
		Theme:  render.GetTheme(cfg.Theme),
		Sound:  cfg.Sound,
		Seed:   cfg.Seed,
		Script: sc,
		Logger: log,
		Events: events,
	})
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, s, log, done, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer done()

	events, err := logging.OpenEventLog(cfg.EventLog)
	if err != nil {
		return err
	}
	defer events.Close()

	sc, err := loadScript()
	if err != nil {
		return err
	}
	opts := viz.Options{
		Theme:  render.GetTheme(cfg.Theme),
		FPS:    cfg.FPS,
		Seed:   cfg.Seed,
		Script: sc,
		Logger: log,
		Events: events,
	}
	if cfg.Sound {
		clicker := audio.NewClicker(log)
		if err := clicker.Open(); err != nil {
			log.Warn("sound disabled", "err", err)
		} else {
			defer clicker.Close()
			opts.Observer = clicker
		}
	}

	m, err := viz.NewModel(s, opts)
	if err != nil {
		return err
	}
	return viz.RunTUI(m)
}

func runCalc(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "radius %s cm, %s revolutions\n\n", trim(cfg.Radius), trim(cfg.Revolutions))
	fmt.Fprintln(w, "PI\tCIRCUMFERENCE (cm)\tDISTANCE (cm)\tDISTANCE (m)")
	for _, mode := range wheel.Modes() {
		c := wheel.Circumference(cfg.Radius, mode)
		d := wheel.Distance(cfg.Radius, cfg.Revolutions, mode)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mode, trim(c), trim(d), trim(d/100))
	}
	return w.Flush()
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, s, log, done, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer done()
	every := traceEvery
	if every <= 0 {
		every = 1
	}

	step := time.Second / time.Duration(cfg.FPS)
	var samples []store.Sample
	frame := 0
	anim := sim.NewAnimator(s, nil, func(snap sim.Snapshot) {
		if frame%every == 0 || !snap.Playing {
			samples = append(samples, store.Sample{
				Time:        float64(frame) * step.Seconds(),
				Revolutions: snap.Revolutions,
				Distance:    snap.Distance,
				Rotation:    snap.Rotation,
			})
		}
		frame++
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	s.Start()
	n, err := sim.RunFixed(ctx, anim, step, 0)
	if err != nil {
		return err
	}
	duration := float64(n-1) * step.Seconds()
	log.Info("trace done", "frames", n, "samples", len(samples))

	if saveDir != "" {
		st := store.New(saveDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(store.RunMetadata{
			Radius:        cfg.Radius,
			Revolutions:   cfg.Revolutions,
			Speed:         cfg.Speed,
			PiMode:        cfg.PiMode,
			Circumference: s.Circumference(),
			Distance:      s.CurrentDistance(),
			Duration:      duration,
		}, samples)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		log.Info("run saved", "id", id, "dir", saveDir)
	}

	return writeSamples(cmd.OutOrStdout(), samples, duration)
}

func writeSamples(out io.Writer, samples []store.Sample, duration float64) error {
	switch format {
	case "csv":
		return store.WriteCSV(out, samples)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(samples)
	case "plot":
		if len(samples) == 0 {
			return nil
		}
		data := make([]float64, len(samples))
		for i, p := range samples {
			data[i] = p.Distance
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(12),
			asciigraph.Width(70),
			asciigraph.Caption(fmt.Sprintf("distance (cm) over %.1fs, %s cm total", duration, trim(data[len(data)-1]))))
		fmt.Fprintln(out, graph)
		return nil
	}
	return fmt.Errorf("unknown format: %s (use plot, csv or json)", format)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.New(runsDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no runs in %s\n", runsDir)
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRADIUS (cm)\tREVOLUTIONS\tPI\tDISTANCE (cm)\tSAMPLES")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", r.ID, trim(r.Radius), trim(r.Revolutions), r.PiMode, trim(r.Distance), r.Samples)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := store.New(runsDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return writeSamples(cmd.OutOrStdout(), samples, meta.Duration)
}

// rollTo moves a stopped session forward to revs revolutions, capped at its
// target.
func rollTo(s *sim.Session, revs float64) {
	if revs <= 0 {
		return
	}
	cm := revs * s.Circumference()
	s.Start()
	s.Tick(cm / (sim.BaseSpeed * s.SpeedMultiplier()) * 1000)
	s.Pause()
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, s, log, done, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer done()

	rollTo(s, atRevs)
	snap := s.Snapshot()
	renderer := render.New(render.GetTheme(cfg.Theme))

	f, err := os.Create(renderOut)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(renderOut)) {
	case ".svg":
		svg := export.NewSVG(snap.Viewport.Width, snap.Viewport.Height)
		renderer.Draw(svg, snap)
		if _, err := svg.WriteTo(f); err != nil {
			return err
		}
	case ".png":
		raster := export.NewRaster(int(snap.Viewport.Width), int(snap.Viewport.Height))
		renderer.Draw(raster, snap)
		if err := raster.EncodePNG(f); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output: %s (use .png or .svg)", renderOut)
	}

	log.Info("frame written", "path", renderOut, "revolutions", snap.Revolutions, "distance_cm", snap.Distance)
	return nil
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, s, log, done, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer done()

	f, err := os.Create(recordOut)
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	n, err := export.RecordGIF(ctx, f, s, export.GIFOptions{
		Width:     int(cfg.Viewport.Width),
		Height:    int(cfg.Viewport.Height),
		FPS:       cfg.FPS,
		Every:     recordEvery,
		MaxFrames: maxFrames,
		Theme:     render.GetTheme(cfg.Theme),
	})
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}
	if !s.IsComplete() {
		log.Warn("frame budget reached before the run finished", "max_frames", maxFrames)
	}
	log.Info("gif written", "path", recordOut, "frames", n)
	return nil
}

func runQuiz(cmd *cobra.Command, args []string) error {
	cfg, s, _, done, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer done()

	events, err := logging.OpenEventLog(cfg.EventLog)
	if err != nil {
		return err
	}
	defer events.Close()

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	out := cmd.OutOrStdout()
	quiz := scenario.NewQuiz(s, scenario.NewGenerator(cfg.Seed))
	defer quiz.Close()
	quiz.OnResult(func(r scenario.Result) {
		fmt.Fprintln(out, r.Verdict())
		events.Log("quiz", map[string]any{
			"kind": r.Question.Kind.String(), "answer": r.Question.Answer(),
			"given": r.Given, "correct": r.Correct,
		})
	})

	anim := sim.NewAnimator(s, nil, nil)
	in := bufio.NewScanner(cmd.InOrStdin())
questions:
	for i := 1; i <= count; i++ {
		q, err := quiz.Next()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nQ%d. %s\n> ", i, q.Prompt())

		var answer float64
		for {
			if !in.Scan() {
				if err := in.Err(); err != nil {
					return err
				}
				fmt.Fprintln(out)
				break questions
			}
			answer, err = strconv.ParseFloat(strings.TrimSpace(in.Text()), 64)
			if err == nil {
				break
			}
			fmt.Fprint(out, "please type a number of centimetres\n> ")
		}

		if _, err := quiz.Submit(answer); err != nil {
			return err
		}
		if _, err := sim.RunFixed(cmd.Context(), anim, time.Second/time.Duration(cfg.FPS), 0); err != nil {
			return err
		}
	}

	correct, asked := quiz.Score()
	fmt.Fprintf(out, "\nscore: %d / %d\n", correct, asked)
	return nil
}

func runTutorial(cmd *cobra.Command, args []string) error {
	cfg, s, _, done, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer done()

	sc, err := loadScript()
	if err != nil {
		return err
	}
	tut, err := scenario.NewTutorial(s, sc)
	if err != nil {
		return err
	}
	defer tut.Close()

	out := cmd.OutOrStdout()
	tut.OnOutcome(func(text string) { fmt.Fprintf(out, "  => %s\n", text) })
	if sc.Name != "" {
		fmt.Fprintf(out, "%s: %s\n", sc.Name, sc.Description)
	}

	anim := sim.NewAnimator(s, nil, nil)
	for {
		text, err := tut.Advance()
		if errors.Is(err, scenario.ErrFinished) {
			return nil
		}
		if err != nil {
			return err
		}
		step, n, _ := tut.Current()
		fmt.Fprintf(out, "\n%d. %s\n   %s\n", n, step.Title, text)
		if s.Playing() {
			if _, err := sim.RunFixed(cmd.Context(), anim, time.Second/time.Duration(cfg.FPS), 0); err != nil {
				return err
			}
		}
	}
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRADIUS (cm)\tREVOLUTIONS\tSPEED\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, trim(p.Radius), trim(p.Revolutions), trim(p.Speed), p.Description)
	}
	return w.Flush()
}

func trim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
