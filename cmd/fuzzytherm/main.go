package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/san-kum/fuzzytherm/internal/config"
	"github.com/san-kum/fuzzytherm/internal/fuzzy"
	"github.com/san-kum/fuzzytherm/internal/loop"
	"github.com/san-kum/fuzzytherm/internal/storage"
	"github.com/san-kum/fuzzytherm/internal/viz"
)

var (
	dataDir    string
	configFile string
	target     float64
	initial    float64
	skew       float64
	steps      int
	paced      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fuzzytherm",
		Short: "fuzzy logic thermal controller with a simulated plant",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fuzzytherm", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the control loop and save telemetry",
		RunE:  runSimulation,
	}
	addControlFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", 100, "number of simulation steps")
	runCmd.Flags().BoolVar(&paced, "paced", false, "pace steps at the skew rate instead of running flat out")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the control loop with live visualization",
		RunE:  runLive,
	}
	addControlFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run's temperature history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	curvesCmd := &cobra.Command{
		Use:   "curves",
		Short: "plot the output membership curves",
		RunE:  plotCurves,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run telemetry to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and telemetry to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, curvesCmd, exportCSVCmd, exportJSONCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addControlFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&target, "target", 25, "target temperature")
	cmd.Flags().Float64Var(&initial, "init", config.DefaultInitial, "initial environment temperature")
	cmd.Flags().Float64Var(&skew, "skew", config.DefaultSkew, "seconds before an adjustment is observable")
}

// loadConfig merges the config file (if any) with CLI flags; explicitly
// set flags win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if configFile == "" || cmd.Flags().Changed("target") {
		cfg.Target = target
	}
	if configFile == "" || cmd.Flags().Changed("init") {
		cfg.Initial = initial
	}
	if configFile == "" || cmd.Flags().Changed("skew") {
		cfg.Skew = skew
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	l, _, err := cfg.BuildLoop()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.TimeOnly,
	}))

	interval := time.Duration(0)
	if paced {
		interval = cfg.SkewDuration()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	telemetry := make([]loop.Telemetry, 0, steps)
	start := time.Now()

	err = l.Run(ctx, interval, nil, func(tel loop.Telemetry) bool {
		telemetry = append(telemetry, tel)
		logger.Info("step",
			"n", tel.Step,
			"target", tel.Target,
			"temp", tel.Environment,
			"error", tel.CurrentError,
			"error_dot", tel.ChangeInError,
			"action", tel.Action.String(),
			"cog", tel.Crisp,
		)
		return tel.Step < steps
	})
	if err != nil && ctx.Err() == nil {
		return err
	}

	runID, err := st.Save(cfg, telemetry)
	if err != nil {
		return err
	}

	s := l.Snapshot()
	fmt.Printf("completed %d steps in %v\n", len(telemetry), time.Since(start).Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("final temperature: %.2f (target %.2f, error %.2f)\n", s.Environment, s.Target, s.CurrentError)

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	l, eng, err := cfg.BuildLoop()
	if err != nil {
		return err
	}

	m := viz.NewModel(l, eng, cfg.SkewDuration())
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTARGET\tINITIAL\tSTEPS\tFINAL\tERROR")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%d\t%.2f\t%.2f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Target,
			run.Initial,
			run.Steps,
			run.FinalTemperature,
			run.FinalError,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	telemetry, err := st.LoadTelemetry(args[0])
	if err != nil {
		return err
	}
	if len(telemetry) == 0 {
		return fmt.Errorf("no data to plot")
	}

	temps := make([]float64, len(telemetry))
	for i, tel := range telemetry {
		temps[i] = tel.Environment
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("target: %.2f  initial: %.2f  steps: %d\n\n", meta.Target, meta.Initial, meta.Steps)

	graph := asciigraph.Plot(temps,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("environment temperature per step"),
	)
	fmt.Println(graph)

	return nil
}

func plotCurves(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := cfg.BuildEngine()
	if err != nil {
		return err
	}

	graph := asciigraph.PlotMany(
		[][]float64{
			eng.Curve(fuzzy.Cooler),
			eng.Curve(fuzzy.NoChange),
			eng.Curve(fuzzy.Heater),
		},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Yellow, asciigraph.Red),
		asciigraph.SeriesLegends("cooler", "no_change", "heater"),
		asciigraph.Caption(fmt.Sprintf("membership degree over [%g, %g]", cfg.Universe.Min, cfg.Universe.Max)),
	)
	fmt.Println(graph)

	return nil
}
