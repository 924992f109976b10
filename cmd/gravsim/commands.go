package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/batch"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/field"
	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order. A config file replaces the preset entirely.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	if preset != "" {
		if name == "" {
			return nil, errors.New("--preset needs a scenario argument")
		}
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q for %s (available: %s)",
				preset, name, strings.Join(config.ListPresets(name), ", "))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if name != "" {
		cfg.Scenario.Name = name
	}

	flags := cmd.Flags()
	if flags.Changed("field") {
		cfg.Field.Kind = fieldKind
	}
	if flags.Changed("g") {
		cfg.Field.G = gravity
	}
	if flags.Changed("softening") {
		cfg.Field.Softening = softening
	}
	if flags.Changed("theta") {
		cfg.Field.Theta = theta
	}
	if flags.Changed("max-depth") {
		cfg.Field.MaxDepth = maxDepth
	}
	if flags.Changed("workers") {
		cfg.Field.Workers = workers
	}
	if flags.Changed("ax") || flags.Changed("ay") {
		cfg.Field.Uniform = &config.UniformConfig{AX: accelX, AY: accelY}
	}
	if flags.Changed("count") {
		cfg.Scenario.Count = count
	}
	if flags.Changed("seed") {
		cfg.Scenario.Seed = seed
	}
	if flags.Changed("radius") {
		cfg.Scenario.Radius = radius
	}
	if flags.Changed("mass") {
		cfg.Scenario.Mass = mass
	}
	if flags.Changed("central-mass") {
		cfg.Scenario.CentralMass = centralMass
	}
	if flags.Changed("steps") {
		cfg.Run.Steps = steps
	}
	if flags.Changed("every") {
		cfg.Run.Every = every
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func progressObserver(w io.Writer, total int) sim.Observer {
	interval := max(total/50, 1)
	return sim.ObserverFunc(func(step int, _ *physics.Bodies) {
		done := step + 1
		if done%interval != 0 && done != total {
			return
		}
		pct := float64(done) / float64(total)
		fmt.Fprintf(w, "\r%s %3.0f%%", viz.ProgressBar(pct, 30), pct*100)
	})
}

func printMetrics(w io.Writer, m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "  %s\t%.6g\n", k, m[k])
	}
	tw.Flush()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	ctx, stop := interruptible()
	defer stop()

	fmt.Fprintln(out, viz.Title.Render(fmt.Sprintf("%s / %s, %d steps", cfg.Scenario.Name, cfg.Field.Kind, cfg.Run.Steps)))

	run, result, err := experiment.Execute(ctx, cfg, experiment.NewRegistry(), storage.New(cfg.DataDir),
		progressObserver(out, cfg.Run.Steps))
	if result != nil {
		fmt.Fprintln(out)
	}
	if err != nil {
		if run != nil {
			fmt.Fprintf(out, "%s run %s left incomplete\n", viz.StatusError.Render("failed:"), run.ID)
		}
		return err
	}

	fmt.Fprintf(out, "%s %s\n", viz.StatusPlaying.Render("saved"), run.ID)
	fmt.Fprintf(out, "steps: %d  frames: %d  elapsed: %v\n",
		result.StepsTaken, run.Frames(), result.Elapsed.Round(time.Millisecond))
	printMetrics(out, result.Metrics)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tFIELD\tBODIES\tSTEPS\tELAPSED\tSTATUS")
	for _, r := range runs {
		status := "complete"
		if !r.Complete {
			status = "incomplete"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2fs\t%s\n",
			r.ID, r.Scenario, r.Field, r.Bodies, r.Steps, r.Elapsed, status)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := store.FrameCount(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Title.Render(meta.ID))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "scenario\t%s\n", meta.Scenario)
	fmt.Fprintf(w, "field\t%s\n", meta.Field)
	fmt.Fprintf(w, "created\t%s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "seed\t%d\n", meta.Seed)
	fmt.Fprintf(w, "bodies\t%d\n", meta.Bodies)
	fmt.Fprintf(w, "steps\t%d\n", meta.Steps)
	fmt.Fprintf(w, "frames\t%d\n", frames)
	fmt.Fprintf(w, "g\t%g\n", meta.G)
	fmt.Fprintf(w, "softening\t%g\n", meta.Softening)
	if meta.Theta > 0 {
		fmt.Fprintf(w, "theta\t%g\n", meta.Theta)
	}
	fmt.Fprintf(w, "elapsed\t%.3fs\n", meta.Elapsed)
	fmt.Fprintf(w, "complete\t%v\n", meta.Complete)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(meta.Metrics) > 0 {
		fmt.Fprintln(out, "\nmetrics:")
		printMetrics(out, meta.Metrics)
	}
	return nil
}

func metricColumns(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		if name != "step" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func plotRun(cmd *cobra.Command, args []string) error {
	series, err := storage.New(dataDir).LoadMetrics(args[0])
	if err != nil {
		return err
	}

	data, ok := series[metricName]
	if !ok {
		return fmt.Errorf("unknown metric %q (available: %s)", metricName, strings.Join(metricColumns(series), ", "))
	}
	if len(data) == 0 {
		return fmt.Errorf("no samples for %s", metricName)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s over %d samples", metricName, len(data))),
	)
	fmt.Fprintln(cmd.OutOrStdout(), graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	series, err := storage.New(dataDir).LoadMetrics(args[0])
	if err != nil {
		return err
	}
	data, ok := series[analyzeMetric]
	if !ok {
		return fmt.Errorf("unknown metric %q (available: %s)", analyzeMetric, strings.Join(metricColumns(series), ", "))
	}

	interval := 1
	if s := series["step"]; len(s) > 1 {
		interval = int(s[1] - s[0])
	}
	spec, err := analysis.PowerSpectrum(data, interval)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frequency analysis: %s (%s, every %d steps)\n\n", args[0], analyzeMetric, interval)
	fmt.Fprintln(out, asciigraph.Plot(spec.Power[1:],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", analyzeMetric)),
	))
	fmt.Fprintln(out)

	k, period := spec.Dominant()
	if k == 0 {
		fmt.Fprintln(out, "no periodic component")
		return nil
	}
	fmt.Fprintf(out, "dominant frequency: %.4g cycles/step\n", spec.Frequency(k))
	fmt.Fprintf(out, "period: %.1f steps\n", period)
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	src, err := viz.NewRunSource(store, args[0])
	if err != nil {
		return err
	}

	// energy is optional; runs without metrics.csv still play back
	var energy []float64
	if series, err := store.LoadMetrics(args[0]); err == nil {
		energy = series["energy"]
	}

	title := fmt.Sprintf("%s / %s  %d bodies", meta.Scenario, meta.Field, meta.Bodies)
	b, err := viz.NewBrowser(src, title, energy)
	if err != nil {
		return err
	}
	b = b.WithFPS(frameRate)

	_, err = tea.NewProgram(b, tea.WithAltScreen()).Run()
	return err
}

// scenarioBodies resolves the configuration and generates its bodies
// without running anything.
func scenarioBodies(cmd *cobra.Command, args []string) (*config.Config, *experiment.Registry, *physics.Bodies, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.FieldParams().Validate(); err != nil {
		return nil, nil, nil, err
	}
	reg := experiment.NewRegistry()
	bodies, err := experiment.New(cfg, reg).Bodies()
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, reg, bodies, nil
}

func compareFields(cmd *cobra.Command, args []string) error {
	cfg, reg, bodies, err := scenarioBodies(cmd, args)
	if err != nil {
		return err
	}

	params := cfg.FieldParams()
	ref, err := reg.GetField("bruteforce", params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Title.Render(fmt.Sprintf("%s: %d bodies, theta %g", cfg.Scenario.Name, bodies.Len(), params.Theta)))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tMEAN\tMEDIAN\tMAX\tAGGREGATE\tTIME\tSPEEDUP")
	for _, name := range reg.ListFields() {
		if name == ref.Name() {
			continue
		}
		f, err := reg.GetField(name, params)
		if err != nil {
			return err
		}
		acc := analysis.Compare(ref, f, bodies.Particles())
		fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%.3e\t%.3e\t%v\t%.1fx\n",
			acc.Candidate, acc.Mean, acc.Median, acc.Max, acc.Aggregate, acc.CandidateTime, acc.Speedup())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, viz.Subtle.Render("errors relative to bruteforce"))
	return nil
}

func sweepTheta(cmd *cobra.Command, args []string) error {
	cfg, _, bodies, err := scenarioBodies(cmd, args)
	if err != nil {
		return err
	}

	points, err := analysis.ThetaSweep(bodies.Particles(), cfg.FieldParams(), analysis.Thetas(thetaMin, thetaMax, thetaPoints))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "THETA\tNODES\tMEAN\tMAX\tAGGREGATE\tTIME\tSPEEDUP")
	errs := make([]float64, len(points))
	for i, p := range points {
		errs[i] = p.Aggregate
		fmt.Fprintf(w, "%.3f\t%d\t%.3e\t%.3e\t%.3e\t%v\t%.1fx\n",
			p.Theta, p.Nodes, p.Mean, p.Max, p.Aggregate, p.CandidateTime, p.Speedup())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(errs) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(errs,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("aggregate error, theta %g..%g", thetaMin, thetaMax)),
		))
	}
	return nil
}

func benchFields(cmd *cobra.Command, args []string) error {
	if benchRepeat < 1 {
		return fmt.Errorf("repeat must be positive, got %d", benchRepeat)
	}

	params := field.DefaultConfig()
	params.Theta = theta
	params.Workers = workers

	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tBODIES\tTIME/EVAL\tEVALS/SEC")

	for _, n := range benchSizes {
		bodies, err := scenario.Generate("cluster", scenario.Params{
			Count: n, Seed: seed, Radius: config.DefaultRadius, Mass: 1, G: params.G,
		})
		if err != nil {
			return err
		}
		particles := bodies.Particles()

		for _, name := range reg.ListFields() {
			f, err := reg.GetField(name, params)
			if err != nil {
				return err
			}
			start := time.Now()
			for i := 0; i < benchRepeat; i++ {
				f.Forces(particles)
			}
			per := time.Since(start) / time.Duration(benchRepeat)
			rate := 0.0
			if per > 0 {
				rate = float64(time.Second) / float64(per)
			}
			fmt.Fprintf(w, "%s\t%d\t%v\t%.1f\n", name, n, per, rate)
		}
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenarios := scenario.Names()
	if len(args) > 0 {
		scenarios = args
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tPRESET\tBODIES\tRADIUS\tSTEPS")
	for _, s := range scenarios {
		for _, name := range config.ListPresets(s) {
			p := config.GetPreset(s, name)
			fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%d\n", s, name, p.Scenario.Count, p.Scenario.Radius, p.Run.Steps)
		}
	}
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	script, err := batch.LoadScript(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if script.Name != "" {
		fmt.Fprintln(out, viz.Title.Render(script.Name))
	}

	ctx, stop := interruptible()
	defer stop()

	outcomes, runErr := batch.Execute(ctx, script, experiment.NewRegistry(), storage.New(dataDir), out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSEED\tRUN\tSTATUS")
	for _, o := range outcomes {
		status := "ok"
		if o.Err != nil {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", o.Name, o.Seed, o.RunID, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	if n := batch.Failed(outcomes); n > 0 {
		return fmt.Errorf("%d of %d runs failed", n, len(outcomes))
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).Export(args[0], cmd.OutOrStdout())
}

func readFrames(store *storage.Store, runID string, upto int) ([][]geom.Point, error) {
	frames := make([][]geom.Point, 0, upto)
	for i := 0; i < upto; i++ {
		f, err := store.ReadFrame(runID, i)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runID := args[0]
	meta, err := store.Load(runID)
	if err != nil {
		return err
	}
	n, err := store.FrameCount(runID)
	if err != nil {
		return err
	}
	if n == 0 {
		return export.ErrNoFrames
	}
	if canvasFrame >= n {
		return fmt.Errorf("frame %d out of range, run has %d frames", canvasFrame, n)
	}

	upto := n
	if canvasFrame >= 0 {
		upto = canvasFrame + 1
	}
	frames, err := readFrames(store, runID, upto)
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if canvasFrame >= 0 {
		// 4 px per braille dot
		canvas := viz.NewCanvas(max(svgWidth/8, 1), max(svgHeight/16, 1))
		vp := viz.Fit(frames...)
		stride := max(svgStride, 1)
		for body := range frames[len(frames)-1] {
			trail := make([]geom.Point, 0, len(frames)/stride+1)
			for i := 0; i < len(frames); i += stride {
				trail = append(trail, frames[i][body])
			}
			canvas.Trace(trail, vp)
		}
		canvas.Plot(frames[len(frames)-1], vp)
		if _, err := io.WriteString(f, export.CanvasToSVG(canvas, 4, "#00ffff")); err != nil {
			return err
		}
	} else {
		err = export.Trajectories(f, frames, export.TrajectoryOptions{
			Width:  svgWidth,
			Height: svgHeight,
			Stride: svgStride,
			Masses: meta.Masses,
		})
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d frames)\n", path, len(frames))
	return f.Close()
}

func initConfig(cmd *cobra.Command, args []string) error {
	if err := config.Save(args[0], config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
	return nil
}
