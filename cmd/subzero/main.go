// Command subzero is the entry point for the sea-ice floe simulator:
// it registers the run/list/presets/init-config/live command tree.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/subzero/internal/config"
	"github.com/san-kum/subzero/internal/export"
	"github.com/san-kum/subzero/internal/floe"
	"github.com/san-kum/subzero/internal/geo"
	"github.com/san-kum/subzero/internal/metrics"
	"github.com/san-kum/subzero/internal/sim"
	"github.com/san-kum/subzero/internal/storage"
	"github.com/san-kum/subzero/internal/viz"
)

var (
	dataDir      string
	configFile   string
	presetName   string
	initialFloes int
	outputPath   string
	svgOut       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "subzero",
		Short: "discrete-element sea-ice floe simulator",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".subzero", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a configured simulation to completion",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&presetName, "preset", "", "use a built-in preset configuration")
	runCmd.Flags().IntVar(&initialFloes, "initial-floes", 20, "number of floes to seed via Voronoi fill")
	runCmd.Flags().StringVar(&svgOut, "export-svg", "", "write the final floe field to an SVG file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "enumerate persisted runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in domain configuration presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config",
		Short: "write a default YAML config",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := outputPath
			if path == "" {
				path = "subzero.yaml"
			}
			return config.Save(path, config.DefaultConfig())
		},
	}
	initConfigCmd.Flags().StringVar(&outputPath, "out", "", "output path (default subzero.yaml)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "attach a terminal dashboard to a running simulation",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&presetName, "preset", "", "use a built-in preset configuration")
	liveCmd.Flags().IntVar(&initialFloes, "initial-floes", 20, "number of floes to seed via Voronoi fill")

	rootCmd.AddCommand(runCmd, listCmd, presetsCmd, initConfigCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadAppConfig() (*config.Config, error) {
	if presetName != "" {
		cfg := config.GetPreset(presetName)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		return cfg, nil
	}
	if configFile != "" {
		return config.Load(configFile)
	}
	return config.DefaultConfig(), nil
}

func seedInitialFloes(cfg *config.Config, driver *sim.Driver, n int) error {
	region, err := geo.NewPolygon([]geo.Point{
		{X: cfg.Grid.X0, Y: cfg.Grid.Y0},
		{X: cfg.Grid.Xf, Y: cfg.Grid.Y0},
		{X: cfg.Grid.Xf, Y: cfg.Grid.Yf},
		{X: cfg.Grid.X0, Y: cfg.Grid.Yf},
	})
	if err != nil {
		return err
	}
	opts := floe.DefaultVoronoiOptions(n)
	floes, err := driver.Factory.FillVoronoi(region, cfg.Floe.MaxHeight/2, opts)
	if err != nil && len(floes) == 0 {
		return err
	}
	driver.Floes = floes
	return nil
}

func buildDriver(cfg *config.Config) (*sim.Driver, error) {
	simCfg, err := sim.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	driver, err := sim.New(simCfg, nil)
	if err != nil {
		return nil, err
	}
	if err := seedInitialFloes(cfg, driver, initialFloes); err != nil {
		return nil, fmt.Errorf("seeding initial floes: %w", err)
	}
	return driver, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	driver, err := buildDriver(cfg)
	if err != nil {
		return err
	}

	recorder := &storage.Recorder{}
	driver.AddObserver(recorder)
	driver.AddMetric(metrics.NewEnergyDrift())
	driver.AddMetric(metrics.NewMassConservation())
	driver.AddMetric(metrics.NewFragmentationRate())

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Println("running simulation...")
	start := time.Now()
	result, err := driver.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result.Metrics, result.StepsTaken, recorder.Records)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("final floes: %d\n", len(result.FinalFloes))

	if svgOut != "" {
		if err := writeFloeFieldSVG(cfg, result.FinalFloes, svgOut); err != nil {
			return fmt.Errorf("exporting svg: %w", err)
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func writeFloeFieldSVG(cfg *config.Config, floes []*floe.Floe, path string) error {
	minH, maxH := cfg.Floe.MaxHeight, 0.0
	for _, f := range floes {
		if f.IsGhost() {
			continue
		}
		if f.Height < minH {
			minH = f.Height
		}
		if f.Height > maxH {
			maxH = f.Height
		}
	}
	svg := export.FloesToSVG(floes, cfg.Grid.X0, cfg.Grid.Y0, cfg.Grid.Xf, cfg.Grid.Yf, 1024, 1024, minH, maxH)
	return os.WriteFile(path, []byte(svg), 0644)
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
	fmt.Fprintln(w, "ID\tTIME\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\n", run.ID, run.Timestamp.Format("2006-01-02 15:04:05"), run.NSteps)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	driver, err := buildDriver(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(driver)
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}
