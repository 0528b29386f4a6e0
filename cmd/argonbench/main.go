package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/argonbench/internal/analysis"
	"github.com/san-kum/argonbench/internal/argon"
	"github.com/san-kum/argonbench/internal/bench"
	"github.com/san-kum/argonbench/internal/config"
	"github.com/san-kum/argonbench/internal/dynamo"
	"github.com/san-kum/argonbench/internal/experiment"
	"github.com/san-kum/argonbench/internal/metrics"
	"github.com/san-kum/argonbench/internal/optim"
	"github.com/san-kum/argonbench/internal/report"
	"github.com/san-kum/argonbench/internal/storage"
	"github.com/san-kum/argonbench/internal/viz"
)

var (
	dataDir  string
	logLevel string

	// suite selection and overrides
	configFile  string
	preset      string
	duration    float64
	particles   int
	integrators []string
	stepSizes   []float64
	normalize   bool
	baseline    string

	// single configuration
	integrator string
	dt         float64
	absTol     float64
	relTol     float64
	saveEvery  int
	target     float64

	// output
	save        bool
	svgDir      string
	withHistory bool
	chartWidth  int
	chartHeight int
	themeName   string

	liveDuration float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "argonbench",
		Short:        "integrator benchmark on a Lennard-Jones argon liquid",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			viz.SetTheme(themeName)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".argonbench", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a benchmark suite and chart the results",
		Args:  cobra.NoArgs,
		RunE:  runSuite,
	}
	suiteFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "store the results under the data directory")
	runCmd.Flags().StringVar(&svgDir, "svg", "", "write SVG charts to this directory")
	runCmd.Flags().BoolVar(&withHistory, "history", false, "also record the energy history run")
	chartFlags(runCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark a single integrator configuration",
		Args:  cobra.NoArgs,
		RunE:  benchOne,
	}
	singleFlags(benchCmd)

	costCmd := &cobra.Command{
		Use:   "cost",
		Short: "measure per-step cost relative to a baseline integrator",
		Args:  cobra.NoArgs,
		RunE:  measureCost,
	}
	suiteFlags(costCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "chart the energy error over time for one configuration",
		Args:  cobra.NoArgs,
		RunE:  energyHistory,
	}
	singleFlags(historyCmd)
	historyCmd.Flags().IntVar(&saveEvery, "save-every", config.DefaultSaveEvery, "accepted steps between samples")
	chartFlags(historyCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "find the largest step size meeting an energy error target",
		Args:  cobra.NoArgs,
		RunE:  tuneSteps,
	}
	suiteFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&target, "target", 1e-4, "energy error target")

	integratorsCmd := &cobra.Command{
		Use:   "integrators",
		Short: "list integrators",
		Args:  cobra.NoArgs,
		RunE:  listIntegrators,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list suite presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-12s T=%g  %v\n", name, p.Duration, p.Integrators)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	chartFlags(showCmd)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run results to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "integrate the argon system with a live view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultHistoryDt, "timestep")
	liveCmd.Flags().Float64Var(&liveDuration, "duration", 10, "duration in reduced time units")
	liveCmd.Flags().IntVar(&particles, "particles", 0, "particle count (default from argon parameters)")

	rootCmd.AddCommand(runCmd, benchCmd, costCmd, historyCmd, tuneCmd, integratorsCmd, presetsCmd,
		listCmd, showCmd, exportCSVCmd, exportJSONCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func suiteFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "suite file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset suite")
	cmd.Flags().Float64Var(&duration, "duration", config.DefaultDuration, "duration in reduced time units")
	cmd.Flags().IntVar(&particles, "particles", 0, "particle count")
	cmd.Flags().StringSliceVar(&integrators, "integrators", nil, "integrators to compare")
	cmd.Flags().Float64SliceVar(&stepSizes, "dt", nil, "step sizes")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "scale step sizes by per-step cost")
	cmd.Flags().StringVar(&baseline, "baseline", config.DefaultBaseline, "cost normalization baseline")
}

func singleFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultHistoryDt, "timestep (fixed-step integrators)")
	cmd.Flags().Float64Var(&absTol, "abstol", 1e-6, "absolute tolerance (adaptive integrators)")
	cmd.Flags().Float64Var(&relTol, "reltol", 1e-6, "relative tolerance (adaptive integrators)")
	cmd.Flags().Float64Var(&duration, "duration", config.DefaultDuration, "duration in reduced time units")
	cmd.Flags().IntVar(&particles, "particles", 0, "particle count")
}

func chartFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&chartWidth, "width", 60, "chart width in cells")
	cmd.Flags().IntVar(&chartHeight, "height", 16, "chart height in cells")
}

// loadSuite resolves preset, then config file, then flags, each overriding
// the last.
func loadSuite(cmd *cobra.Command) (*config.Suite, error) {
	suite := config.DefaultSuite()

	if preset != "" {
		suite = config.GetPreset(preset)
		if suite == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		s, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		suite = s
	}

	flags := cmd.Flags()
	if flags.Changed("duration") {
		suite.Duration = duration
		suite.History.Duration = duration
	}
	if flags.Changed("particles") {
		suite.Argon.Particles = particles
	}
	if flags.Changed("integrators") {
		suite.Integrators = integrators
	}
	if flags.Changed("dt") {
		suite.StepSizes = stepSizes
	}
	if flags.Changed("normalize") {
		suite.Cost.Normalize = normalize
	}
	if flags.Changed("baseline") {
		suite.Cost.Baseline = baseline
	}
	return suite, nil
}

// singleConfig builds the configuration of bench, history and live from
// flags, choosing dt or tolerances by integrator kind.
func singleConfig(reg *experiment.Registry) (experiment.Config, error) {
	kind, err := reg.Kind(integrator)
	if err != nil {
		return experiment.Config{}, err
	}
	cfg := experiment.Config{Integrator: integrator, SaveEvery: saveEvery}
	if kind == experiment.Adaptive {
		cfg.AbsTol, cfg.RelTol = absTol, relTol
	} else {
		cfg.Dt = dt
	}
	return cfg, nil
}

func argonParams(cmd *cobra.Command) argon.Parameters {
	p := argon.DefaultParameters()
	if cmd.Flags().Changed("particles") {
		p.Particles = particles
	}
	return p
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSuite(cmd *cobra.Command, args []string) error {
	suite, err := loadSuite(cmd)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	if err := suite.Validate(reg); err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	runner := bench.NewRunner(suite.Argon, reg)
	r := argon.Reduce(suite.Argon)
	logrus.Infof("suite %s: %d particles, box %.3f sigma, T=%g tau", suite.Name, r.Particles, r.Box, suite.Duration)

	var multipliers map[string]float64
	if suite.Cost.Normalize {
		ratios, err := runner.CostRatios(ctx, suite.Cost.Warmup, fixedStep(reg, suite.Integrators), suite.Cost.Dt, suite.Cost.Baseline)
		if err != nil {
			return err
		}
		multipliers = ratios
		runner.Multipliers = ratios
	}

	start := time.Now()
	table, err := runner.Sweep(ctx, suite.Sweep(multipliers))
	if err != nil {
		if table != nil && table.Len() > 0 {
			logrus.Warnf("sweep stopped after %d rows", table.Len())
			report.WriteTable(os.Stdout, table)
		}
		return err
	}
	logrus.Infof("sweep finished in %v", time.Since(start).Round(time.Millisecond))

	var history []metrics.Point
	if withHistory {
		_, history, err = runner.History(ctx, suite.History.Duration, suite.HistoryExperiment())
		if err != nil {
			return fmt.Errorf("history run: %w", err)
		}
	}

	if err := printResults(table, history, suite.History.Integrator); err != nil {
		return err
	}

	if svgDir != "" {
		if err := writeSVGs(svgDir, table); err != nil {
			return err
		}
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(suite.Name, suite.Duration, suite.Argon, table)
		if err != nil {
			return err
		}
		if history != nil {
			if err := st.SaveHistory(runID, history); err != nil {
				return err
			}
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func fixedStep(reg *experiment.Registry, names []string) []string {
	var out []string
	for _, name := range names {
		if kind, err := reg.Kind(name); err == nil && kind != experiment.Adaptive {
			out = append(out, name)
		}
	}
	return out
}

func printResults(table *bench.Table, history []metrics.Point, historyCaption string) error {
	if err := report.WriteTable(os.Stdout, table); err != nil {
		return err
	}
	fmt.Println()

	for _, c := range []report.Chart{report.ErrorVsRuntime(table), report.RuntimeVsSteps(table)} {
		if err := report.WriteChart(os.Stdout, c, chartWidth, chartHeight); err != nil {
			return err
		}
		fmt.Println()
	}

	if orders := analysis.Orders(table); len(orders) > 0 {
		fmt.Println("observed convergence (log-log slope of energy error):")
		for _, o := range orders {
			fmt.Printf("  %-16s %-10s %6.2f  (%d points)\n", o.Integrator, o.Kind, o.Slope, o.Points)
		}
		fmt.Println()
	}
	costs := analysis.MeanCosts(table)
	if len(costs) > 0 {
		fmt.Println("mean wall clock per accepted step:")
		for _, name := range table.Integrators() {
			if c, ok := costs[name]; ok {
				fmt.Printf("  %-16s %.3e s\n", name, c)
			}
		}
		fmt.Println()
	}
	for _, v := range analysis.CheckMonotonic(table, 1.5) {
		logrus.Warnf("%s: energy error grew from %.3e to %.3e on refinement", v.Integrator, v.Coarse.EnergyError, v.Fine.EnergyError)
	}

	if len(history) > 0 {
		fmt.Print(report.EnergyHistory(history, chartWidth, chartHeight/2, historyCaption))
	}
	return nil
}

func writeSVGs(dir string, table *bench.Table) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	charts := map[string]report.Chart{
		"error_vs_runtime.svg":     report.ErrorVsRuntime(table),
		"runtime_vs_steps.svg":     report.RuntimeVsSteps(table),
		"error_vs_evaluations.svg": report.ErrorVsEvaluations(table),
	}
	for name, c := range charts {
		path := filepath.Join(dir, name)
		if err := report.WriteSVG(path, c, 900, 560); err != nil {
			return err
		}
		logrus.Infof("wrote %s", path)
	}
	return nil
}

func benchOne(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	cfg, err := singleConfig(reg)
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	runner := bench.NewRunner(argonParams(cmd), reg)
	rows, err := runner.Benchmark(ctx, duration, []experiment.Config{cfg})
	if err != nil {
		return err
	}
	return report.WriteTable(os.Stdout, bench.NewTable(rows...))
}

func measureCost(cmd *cobra.Command, args []string) error {
	suite, err := loadSuite(cmd)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	if err := suite.Argon.Validate(); err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	names := fixedStep(reg, suite.Integrators)
	runner := bench.NewRunner(suite.Argon, reg)
	ratios, err := runner.CostRatios(ctx, suite.Cost.Warmup, names, suite.Cost.Dt, suite.Cost.Baseline)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tCOST RATIO\tSCALED STEP SIZES")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.2f\t%v\n", name, ratios[name], bench.ScaleGrid(suite.StepSizes, ratios[name]))
	}
	return w.Flush()
}

func tuneSteps(cmd *cobra.Command, args []string) error {
	suite, err := loadSuite(cmd)
	if err != nil {
		return err
	}
	if err := suite.Argon.Validate(); err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	reg := experiment.NewRegistry()
	runner := bench.NewRunner(suite.Argon, reg)
	search := optim.NewStepSearch(suite.StepSizes, target)
	results, err := search.SearchAll(ctx, optim.BenchmarkRun(runner, suite.Duration), fixedStep(reg, suite.Integrators))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tDT\tENERGY ERROR\tRUNTIME\tEVALS")
	for _, res := range results {
		if !res.Found {
			fmt.Fprintf(w, "%s\t-\tabove %.1e at every step size\t-\t-\n", res.Integrator, target)
			continue
		}
		fmt.Fprintf(w, "%s\t%g\t%.3e\t%v\t%d\n", res.Integrator, res.Dt, res.Row.EnergyError,
			res.Row.Runtime.Round(time.Microsecond), res.Row.Evaluations)
	}
	return w.Flush()
}

func energyHistory(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	cfg, err := singleConfig(reg)
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	runner := bench.NewRunner(argonParams(cmd), reg)
	row, points, err := runner.History(ctx, duration, cfg)
	if err != nil {
		return err
	}

	fmt.Print(report.EnergyHistory(points, chartWidth, chartHeight, cfg.String()))
	fmt.Printf("\nfinal energy error %.3e after %d steps (%d evaluations) in %v\n",
		row.EnergyError, row.Accepted, row.Evaluations, row.Runtime.Round(time.Microsecond))
	return nil
}

func listIntegrators(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tORDER")
	for _, name := range reg.ListIntegrators() {
		kind, _ := reg.Kind(name)
		integ, _ := reg.GetIntegrator(name)
		order := "-"
		if o, ok := integ.(interface{ Order() int }); ok {
			order = fmt.Sprint(o.Order())
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, kind, order)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSUITE\tPARTICLES\tDURATION\tROWS\tTIMESTAMP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%d\t%s\n",
			run.ID, run.Suite, run.Argon.Particles, run.Duration, run.Rows,
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	table, err := st.LoadResults(args[0])
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run %s (%s), %d particles in a %.3f sigma box, T=%g\n\n",
		meta.ID, meta.Suite, meta.Argon.Particles, meta.Box, meta.Duration)
	return printResults(table, history, meta.Suite)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	table, err := st.LoadResults(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, table)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	table, err := st.LoadResults(args[0])
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, table, history)
}

func runLive(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	kind, err := reg.Kind(integrator)
	if err != nil {
		return err
	}
	if kind == experiment.Adaptive {
		return fmt.Errorf("live view steps at a fixed dt, %s is adaptive: %w", integrator, dynamo.ErrParameterBounds)
	}
	integ, err := reg.GetIntegrator(integrator)
	if err != nil {
		return err
	}

	p, lj, err := argon.Setup(argonParams(cmd), liveDuration)
	if err != nil {
		return err
	}

	m := viz.NewModel(lj, lj.Box, integ, p.X0, dt, p.TEnd)
	return viz.Run(m)
}
