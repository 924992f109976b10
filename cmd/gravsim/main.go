package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir string

	// field
	fieldKind string
	gravity   float64
	softening float64
	theta     float64
	maxDepth  int
	workers   int
	accelX    float64
	accelY    float64

	// scenario
	count       int
	seed        int64
	radius      float64
	mass        float64
	centralMass float64

	// run
	steps int
	every int

	configFile string
	preset     string

	metricName    string
	analyzeMetric string
	frameRate     int

	thetaMin    float64
	thetaMax    float64
	thetaPoints int

	benchSizes  []int
	benchRepeat int

	outFile     string
	svgWidth    int
	svgHeight   int
	svgStride   int
	canvasFrame int
)

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&fieldKind, "field", "barneshut", "force field (bruteforce, barneshut, gonum)")
	cmd.Flags().Float64Var(&gravity, "g", 1.0, "gravitational constant")
	cmd.Flags().Float64Var(&softening, "softening", 1e-2, "softening length")
	cmd.Flags().Float64Var(&theta, "theta", 0.5, "barnes-hut opening threshold")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 48, "quadtree depth cap")
	cmd.Flags().IntVar(&workers, "workers", 1, "parallel force workers")
	cmd.Flags().IntVar(&count, "count", 200, "number of bodies")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&radius, "radius", 50, "scenario radius")
	cmd.Flags().Float64Var(&mass, "mass", 1, "body mass")
	cmd.Flags().Float64Var(&centralMass, "central-mass", 0, "central body mass (disk)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "gravsim",
		Short:        "2-D gravitational n-body simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", 500, "number of steps")
	runCmd.Flags().IntVar(&every, "every", 10, "metrics sampling interval")
	runCmd.Flags().Float64Var(&accelX, "ax", 0, "uniform acceleration x")
	runCmd.Flags().Float64Var(&accelY, "ay", 0, "uniform acceleration y")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metricName, "metric", "energy", "metric column to plot")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a run metric",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeMetric, "metric", "kinetic", "metric column to analyze")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "browse stored frames",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}
	viewCmd.Flags().IntVar(&frameRate, "fps", 20, "playback frames per second")

	compareCmd := &cobra.Command{
		Use:   "compare [scenario]",
		Short: "compare force fields against brute force",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareFields,
	}
	addScenarioFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "barnes-hut error versus theta",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepTheta,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&thetaMin, "min", 0.1, "smallest theta")
	sweepCmd.Flags().Float64Var(&thetaMax, "max", 1.5, "largest theta")
	sweepCmd.Flags().IntVar(&thetaPoints, "points", 8, "number of theta values")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark force fields",
		RunE:  benchFields,
	}
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{100, 500, 1000, 2000}, "body counts")
	benchCmd.Flags().IntVar(&benchRepeat, "repeat", 3, "evaluations per measurement")
	benchCmd.Flags().Float64Var(&theta, "theta", 0.5, "barnes-hut opening threshold")
	benchCmd.Flags().IntVar(&workers, "workers", 1, "parallel force workers")
	benchCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [script]",
		Short: "run a yaml batch script",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export trajectories as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")
	exportSVGCmd.Flags().IntVar(&svgStride, "stride", 1, "draw every n-th frame")
	exportSVGCmd.Flags().IntVar(&canvasFrame, "frame", -1, "render a single frame as a dot canvas instead")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, analyzeCmd, viewCmd, compareCmd, sweepCmd,
		benchCmd, presetsCmd, batchCmd, exportCmd, exportSVGCmd, initCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
