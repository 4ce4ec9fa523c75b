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

	"github.com/san-kum/stepsim/internal/automation"
	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/export"
	"github.com/san-kum/stepsim/internal/logging"
	"github.com/san-kum/stepsim/internal/motor"
	"github.com/san-kum/stepsim/internal/sim"
	"github.com/san-kum/stepsim/internal/tui"
)

const maxRecordedSamples = 1 << 16

var (
	configFile   string
	preset       string
	speed        int
	resolution   string
	direction    string
	historyCap   int
	haltAtTarget bool
	logLevel     string
	logFile      string
	theme        string

	// run
	runTime  time.Duration
	target   int
	csvPath  string
	pngPath  string
	jsonPath string

	// config
	outPath string

	// sweep
	sweepTime time.Duration
)

// main registers the commands and runs the interactive presenter when no
// subcommand is given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "stepsim",
		Short:         "stepper motor simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.IntVar(&speed, "speed", config.DefaultSpeed, "steps per second (1-100)")
	pf.StringVar(&resolution, "resolution", config.DefaultResolution, "step resolution: full, half, quarter, eighth")
	pf.StringVar(&direction, "direction", config.DefaultDirection, "forward or backward")
	pf.IntVar(&historyCap, "history", config.DefaultHistory, "positions kept for plotting")
	pf.BoolVar(&haltAtTarget, "halt-at-target", false, "stop the motor when it reaches the target")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn, error")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "presenter theme: "+strings.Join(tui.ThemeNames(), ", "))

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal presenter",
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the motor headless for a fixed time",
		RunE:  runHeadless,
	}
	runCmd.Flags().DurationVar(&runTime, "time", 2*time.Second, "wall time to run")
	runCmd.Flags().IntVar(&target, "target", 0, "target position (steps)")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "export the recorded trace as csv")
	runCmd.Flags().StringVar(&pngPath, "png", "", "export the recorded trace as png")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "export the recorded trace as json (- for stdout)")

	scriptCmd := &cobra.Command{
		Use:   "script <scenario.yaml>",
		Short: "replay a scripted command scenario headless",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().StringVar(&csvPath, "csv", "", "export the recorded trace as csv")
	scriptCmd.Flags().StringVar(&pngPath, "png", "", "export the recorded trace as png")
	scriptCmd.Flags().StringVar(&jsonPath, "json", "", "export the recorded trace as json (- for stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSPEED\tRESOLUTION\tDIRECTION\tHALT")
			for _, name := range config.ListPresets() {
				m := config.Presets[name].Motor
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%v\n", name, m.Speed, m.Resolution, m.Direction, m.HaltAtTarget)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "write the effective configuration as yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if _, err := cfg.Sim(); err != nil {
				return err
			}
			if outPath == "" {
				return config.Encode(os.Stdout, cfg)
			}
			return config.Save(outPath, cfg)
		},
	}
	configCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset...]",
		Short: "run several presets side by side and compare step counts",
		RunE:  runSweep,
	}
	sweepCmd.Flags().DurationVar(&sweepTime, "time", time.Second, "wall time per run")

	rootCmd.AddCommand(liveCmd, runCmd, scriptCmd, sweepCmd, presetsCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig layers defaults, preset, config file and explicit flags, in
// that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Motor.Speed = speed
	}
	if flags.Changed("resolution") {
		cfg.Motor.Resolution = resolution
	}
	if flags.Changed("direction") {
		cfg.Motor.Direction = direction
	}
	if flags.Changed("halt-at-target") {
		cfg.Motor.HaltAtTarget = haltAtTarget
	}
	if flags.Changed("history") {
		cfg.Loop.History = historyCap
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = logFile
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	return cfg, nil
}

func newSimulator(cfg *config.Config, logger *zap.Logger, opts ...sim.Option) (*sim.Simulator, error) {
	sc, err := cfg.Sim()
	if err != nil {
		return nil, err
	}
	return sim.New(sc, append([]sim.Option{sim.WithLogger(logger)}, opts...)...)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stderr belongs to the terminal UI; only log when a file is given
	logger := zap.NewNop()
	if cfg.Logging.File != "" {
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			return err
		}
		defer logger.Sync()
	}

	s, err := newSimulator(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	uiErr := tui.Run(ctx, s, cfg.Theme)
	cancel()
	runErr := <-done

	// an interrupt kills the program; that is a normal exit
	if uiErr != nil && cmd.Context().Err() == nil {
		return uiErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer logger.Sync()

	rec := export.NewRecorder(maxRecordedSamples)
	s, err := newSimulator(cfg, logger, sim.WithObserver(rec))
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("target") {
		if err := s.Send(motor.MoveTo(target)); err != nil {
			return err
		}
	}
	if err := s.Send(motor.Start()); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), runTime)
	defer cancel()
	if err := s.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}

	return report(s.Latest(), rec.Samples(), "stepper position")
}

// runScript plays a scenario file against a headless simulator.
func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer logger.Sync()

	rec := export.NewRecorder(maxRecordedSamples)
	s, err := newSimulator(cfg, logger, sim.WithObserver(rec))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), scenario.Length(s.Config().DrainEvery))
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	playErr := automation.Play(ctx, scenario, s, sim.WallClock(), logger)
	runErr := <-done

	for _, err := range []error{playErr, runErr} {
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	title := scenario.Name
	if title == "" {
		title = "scenario"
	}
	return report(s.Latest(), rec.Samples(), title)
}

// report prints the final state and position history and writes the
// requested exports.
func report(snap sim.Snapshot, samples []export.Sample, title string) error {
	out := os.Stdout
	if jsonPath == "-" {
		out = os.Stderr
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "position\t%g steps\n", snap.Position)
	fmt.Fprintf(w, "target\t%d steps\n", snap.Target)
	fmt.Fprintf(w, "angle\t%.1f°\n", snap.Angle())
	fmt.Fprintf(w, "speed\t%s\n", snap.SpeedLabel())
	fmt.Fprintf(w, "step mode\t%s\n", snap.StepLabel())
	fmt.Fprintf(w, "direction\t%s\n", snap.Direction)
	fmt.Fprintf(w, "status\t%s\n", snap.RunningLabel())
	fmt.Fprintf(w, "steps\t%d\n", snap.Steps)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(snap.History) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(snap.History,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("position history (steps)"),
		))
	}

	if csvPath != "" {
		if err := export.WriteCSV(csvPath, samples); err != nil {
			return err
		}
		fmt.Fprintf(out, "\ntrace written to %s\n", csvPath)
	}
	if pngPath != "" {
		if err := export.WritePNG(pngPath, title, samples); err != nil {
			return err
		}
		fmt.Fprintf(out, "plot written to %s\n", pngPath)
	}
	if jsonPath != "" {
		if err := export.WriteJSON(jsonPath, export.NewRun(snap, samples)); err != nil {
			return err
		}
		if jsonPath != "-" {
			fmt.Fprintf(out, "run written to %s\n", jsonPath)
		}
	}
	return nil
}

// runSweep runs the named presets (all of them when none are given)
// concurrently and prints measured against ideal step counts.
func runSweep(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}

	cfgs := make([]sim.Config, 0, len(names))
	for _, name := range names {
		p := config.GetPreset(name)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		sc, err := p.Sim()
		if err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		// a sweep measures free running speed
		sc.HaltAtTarget = false
		cfgs = append(cfgs, sc)
	}

	logger, err := logging.New(logLevel, logFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	results, err := sim.NewEnsemble(cfgs, sim.WithLogger(logger)).Run(cmd.Context(), sweepTime)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSPEED\tSTEP MODE\tSTEPS\tIDEAL\tPOSITION")
	for i, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0f\t%g\n",
			names[i], r.Final.SpeedLabel(), r.Final.StepLabel(), r.Final.Steps, r.Expected, r.Final.Position)
	}
	return w.Flush()
}
