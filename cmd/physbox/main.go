package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/physbox/internal/config"
	"github.com/san-kum/physbox/internal/logging"
	"github.com/san-kum/physbox/internal/metrics"
	"github.com/san-kum/physbox/internal/registry"
	"github.com/san-kum/physbox/internal/scenes"
	"github.com/san-kum/physbox/internal/script"
	"github.com/san-kum/physbox/internal/session"
	"github.com/san-kum/physbox/internal/sim"
	"github.com/san-kum/physbox/internal/storage"
	"github.com/san-kum/physbox/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string

	steps    int
	preset   string
	seed     int64
	contacts bool
	noStore  bool
	trails   bool
	record   bool
	theme    string
	sessName string
	runs     int
)

// env is what every command shares once flags and the config file are read.
type env struct {
	cfg *config.Config
	log *zap.Logger
	reg *registry.Registry
}

// main wires the physbox commands and runs the root command. With no
// subcommand it opens the live session picker. It exits with status 1 if
// the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "physbox",
		Short:         "rigid-body sandbox sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list registered sessions",
		RunE:  listSessions,
	}

	runCmd := &cobra.Command{
		Use:   "run [session]",
		Short: "step a session headless and store the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runSession,
	}
	runCmd.Flags().IntVar(&steps, "steps", 0, "number of steps (default from config)")
	runCmd.Flags().StringVar(&preset, "preset", "", "step preset")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default from config)")
	runCmd.Flags().BoolVar(&contacts, "contacts", false, "record contact samples")
	runCmd.Flags().BoolVar(&trails, "trails", false, "record body trails")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "do not write the run to the data directory")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [session]",
		Short: "step a session with several seeds in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&runs, "runs", 4, "number of seeds")
	ensembleCmd.Flags().IntVar(&steps, "steps", 0, "number of steps (default from config)")
	ensembleCmd.Flags().StringVar(&preset, "preset", "", "step preset")
	ensembleCmd.Flags().Int64Var(&seed, "seed", 0, "first seed (default from config)")

	replayCmd := &cobra.Command{
		Use:   "replay [script]",
		Short: "replay a scripted input sequence against a session",
		Args:  cobra.ExactArgs(1),
		RunE:  replayScript,
	}
	replayCmd.Flags().StringVar(&sessName, "session", "", "override the script's session")
	replayCmd.Flags().StringVar(&preset, "preset", "", "step preset")
	replayCmd.Flags().BoolVar(&contacts, "contacts", false, "record contact samples")
	replayCmd.Flags().BoolVar(&noStore, "no-store", false, "do not write the run to the data directory")

	liveCmd := &cobra.Command{
		Use:   "live [session]",
		Short: "run a session in the terminal with mouse and keyboard input",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "", "step preset")
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().BoolVar(&record, "record", false, "store the live run")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.log.Sync()
			return storage.New(e.cfg.DataDir).Export(cmd.OutOrStdout(), args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list step presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tHZ\tVEL\tPOS\tSUBSTEP")
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.0f\t%d\t%d\t%v\n", name, p.Hz, p.VelocityIterations, p.PositionIterations, p.SubStepping)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(listCmd, runCmd, ensembleCmd, replayCmd, liveCmd, runsCmd, plotCmd, exportCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads the config, applies global flags, builds the logger and
// registers the built-in sessions.
func setup() (*env, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if preset != "" && !cfg.ApplyPreset(preset) {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if trails {
		cfg.Trails.Enabled = true
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	base, err := cfg.ToSession()
	if err != nil {
		return nil, err
	}
	reg := registry.New()
	if err := scenes.RegisterAll(reg, base); err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, reg: reg}, nil
}

// open creates the session named "category/name" or just "name".
func (e *env) open(name string) (*session.Session, registry.Entry, error) {
	category, short := "", name
	if i := strings.Index(name, "/"); i >= 0 {
		category, short = name[:i], name[i+1:]
	}
	i, err := e.reg.Lookup(category, short)
	if err != nil {
		return nil, registry.Entry{}, err
	}
	entry, _ := e.reg.Entry(i)
	s, err := e.reg.Create(i)
	if err != nil {
		return nil, entry, err
	}
	s.SetLogger(e.log)
	return s, entry, nil
}

func (e *env) begin(st *storage.Store, entry registry.Entry, settings session.Settings, scriptName string) (*storage.Recorder, error) {
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st.Begin(storage.RunMetadata{
		Category:           entry.Category,
		Session:            entry.Name,
		Seed:               e.cfg.Seed,
		Hz:                 settings.Hz,
		VelocityIterations: settings.VelocityIterations,
		PositionIterations: settings.PositionIterations,
		Script:             scriptName,
	}, contacts)
}

// stepDt is the simulated time one step covers. Zero Hz freezes the world.
func stepDt(settings session.Settings) float64 {
	if settings.Hz <= 0 {
		return 0
	}
	return 1 / settings.Hz
}

func listSessions(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.log.Sync()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tCATEGORY\tNAME")
	for i, entry := range e.reg.Enumerate() {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, entry.Category, entry.Name)
	}
	return w.Flush()
}

func runSession(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.log.Sync()

	s, entry, err := e.open(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	n := e.cfg.Step.Steps
	if steps > 0 {
		n = steps
	}
	settings := e.cfg.ToSettings()
	dt := stepDt(settings)

	var rec *storage.Recorder
	if !noStore {
		rec, err = e.begin(storage.New(e.cfg.DataDir), entry, settings, "")
		if err != nil {
			return err
		}
		defer rec.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ms := metrics.Defaults()
	runner := sim.New()
	for _, m := range ms {
		runner.AddMetric(m)
	}
	if rec != nil {
		runner.AddObserver(sim.ObserverFunc(func(_ int, s *session.Session) error {
			return rec.RecordStep(s, dt)
		}))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "running %s/%s for %d steps...\n", entry.Category, entry.Name, n)
	res, err := runner.Run(ctx, s, sim.Config{Steps: n, Settings: settings})
	if errors.Is(err, context.Canceled) {
		e.log.Warn("run interrupted", zap.Int("step", res.StepsTaken))
	} else if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "contacts: %d total, %d max per step\n", res.TotalContacts, res.MaxContacts)
	return finish(cmd, e, s, rec, ms, res.Elapsed)
}

// runEnsemble steps one session with consecutive seeds in parallel and
// prints a row per member.
func runEnsemble(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.log.Sync()

	if runs <= 0 {
		return fmt.Errorf("--runs must be positive, got %d", runs)
	}
	n := e.cfg.Step.Steps
	if steps > 0 {
		n = steps
	}

	factory := func(seed int64) (*session.Session, error) {
		s, _, err := e.open(args[0])
		if err != nil {
			return nil, err
		}
		cfg := s.Config()
		cfg.Seed = seed
		s.Configure(cfg)
		return s, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "running %s %d times for %d steps...\n", args[0], runs, n)
	results, err := sim.NewEnsemble(factory, nil, runs, e.cfg.Seed).Run(ctx, sim.Config{Steps: n, Settings: e.cfg.ToSettings()})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tBODIES\tCONTACTS\tMAX\tENERGY\tP95 MS\tELAPSED")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%.3f\t%.3f\t%v\n",
			r.Seed, r.StepsTaken, r.Bodies, r.TotalContacts, r.MaxContacts,
			r.Metrics["energy"], r.StepTime.P95, r.Elapsed.Round(time.Millisecond))
	}
	return w.Flush()
}

func replayScript(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.log.Sync()

	sc, err := script.Load(args[0])
	if err != nil {
		return err
	}
	name := sc.Session
	if sessName != "" {
		name = sessName
	}
	if name == "" {
		return errors.New("script names no session; pass --session")
	}

	s, entry, err := e.open(name)
	if err != nil {
		return err
	}
	defer s.Close()

	settings := e.cfg.ToSettings()
	dt := stepDt(settings)

	var rec *storage.Recorder
	if !noStore {
		rec, err = e.begin(storage.New(e.cfg.DataDir), entry, settings, sc.Name)
		if err != nil {
			return err
		}
		defer rec.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ms := metrics.Defaults()
	start := time.Now()
	res, err := script.NewRunner(e.log).Run(ctx, s, sc, settings, func(step int, s *session.Session) error {
		for _, m := range ms {
			m.Observe(s)
		}
		if rec != nil {
			return rec.RecordStep(s, dt)
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "replayed %q: %d events over %d steps\n", sc.Name, res.Events, res.Steps)
	fmt.Fprintf(cmd.OutOrStdout(), "contacts: %d total, %d max per step\n", res.TotalContacts, res.MaxContacts)
	return finish(cmd, e, s, rec, ms, time.Since(start))
}

// finish stores the run, if recording, and prints its metrics.
func finish(cmd *cobra.Command, e *env, s *session.Session, rec *storage.Recorder, ms []metrics.Metric, elapsed time.Duration) error {
	out := cmd.OutOrStdout()
	values := metrics.Collect(ms)

	fmt.Fprintf(out, "completed %d steps in %v\n", s.StepCount(), elapsed)
	if rec != nil {
		meta, err := rec.Finish(s, values)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run id: %s\n", meta.ID)
		e.log.Info("run stored", zap.String("id", meta.ID), zap.Int("steps", meta.Steps))
	}

	fmt.Fprintln(out, "\nmetrics:")
	for _, m := range ms {
		fmt.Fprintf(out, "  %s: %.6f\n", m.Name(), values[m.Name()])
		if st, ok := m.(*metrics.StepTime); ok {
			sum := metrics.Summarize(st.Samples())
			fmt.Fprintf(out, "    p95 %.3fms  max %.3fms  std %.3fms\n", sum.P95, sum.Max, sum.Std)
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.log.Sync()

	settings := e.cfg.ToSettings()
	st := storage.New(e.cfg.DataDir)

	if len(args) == 0 {
		p := viz.NewPicker(e.reg, settings, e.log)
		return viz.RunPicker(p)
	}

	s, entry, err := e.open(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	m := viz.NewModel(s, settings).WithTheme(theme)
	var rec *storage.Recorder
	if record {
		rec, err = e.begin(st, entry, settings, "")
		if err != nil {
			return err
		}
		defer rec.Close()
		dt := stepDt(settings)
		m = m.WithStepHook(func(_ int, s *session.Session) error { return rec.RecordStep(s, dt) })
	}

	if err := viz.Run(m); err != nil {
		return err
	}
	if rec != nil {
		meta, err := rec.Finish(s, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "run id: %s\n", meta.ID)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.log.Sync()

	runs, err := storage.New(e.cfg.DataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSESSION\tTIME\tSTEPS\tHZ\tSCRIPT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s/%s\t%s\t%d\t%.0f\t%s\n",
			run.ID,
			run.Category, run.Session,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Hz,
			run.Script,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.log.Sync()

	runID := args[0]
	st := storage.New(e.cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadSteps(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "session: %s/%s\n", meta.Category, meta.Session)
	fmt.Fprintf(out, "steps: %d\n\n", len(records))

	series := []struct {
		caption string
		value   func(storage.StepRecord) float64
	}{
		{"kinetic energy", func(r storage.StepRecord) float64 { return r.KineticEnergy }},
		{"contact points", func(r storage.StepRecord) float64 { return float64(r.Contacts) }},
		{"bodies", func(r storage.StepRecord) float64 { return float64(r.Bodies) }},
		{"step time (ms)", func(r storage.StepRecord) float64 { return r.StepMs }},
	}
	for _, sr := range series {
		data := make([]float64, len(records))
		for i, r := range records {
			data[i] = sr.value(r)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	return nil
}
