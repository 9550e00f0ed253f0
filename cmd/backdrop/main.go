package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/backdrop"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	width      int
	height     int
	docHeight  float64
	seed       uint64
	debug      bool
	showFPS    bool
	scriptFile string
	shotDir    string
	noLoading  bool
	samples    int
	loading    bool
)

var (
	title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dim   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "backdrop",
		Short: "animated star, grid and particle background",
		RunE:  runBackground,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "open a window showing the background",
		RunE:  runBackground,
	}
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
		c.Flags().IntVar(&width, "width", 1280, "window width")
		c.Flags().IntVar(&height, "height", 720, "window height")
		c.Flags().Float64Var(&docHeight, "doc-height", 0, "virtual page height in pixels (0 = five viewports)")
		c.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = random per mount)")
		c.Flags().BoolVar(&debug, "debug", false, "log per-frame stats")
		c.Flags().BoolVar(&showFPS, "fps", false, "show the FPS overlay")
		c.Flags().StringVar(&scriptFile, "script", "", "JSON input script to replay")
		c.Flags().StringVar(&shotDir, "screenshots", "", "directory for screenshots")
		c.Flags().BoolVar(&noLoading, "no-loading", false, "skip the loading screen")
	}

	curvesCmd := &cobra.Command{
		Use:   "curves",
		Short: "plot the scroll curves",
		RunE:  plotCurves,
	}
	curvesCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	curvesCmd.Flags().IntVar(&samples, "samples", 60, "samples per curve")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the default config as yaml",
		RunE:  printConfig,
	}
	configCmd.Flags().BoolVar(&loading, "loading", false, "print the loading variant")

	rootCmd.AddCommand(runCmd, curvesCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config, then applies flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*backdrop.Config, error) {
	cfg := backdrop.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = backdrop.Load(configFile); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("doc-height") {
		cfg.Input.DocumentHeight = docHeight
	}
	return cfg, cfg.Validate()
}

func runBackground(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Debug {
		backdrop.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	host := backdrop.NewHost(cfg.Input)
	if showFPS {
		host.FPS = backdrop.NewFPSOverlay()
	}
	if shotDir != "" {
		host.Screenshots = backdrop.NewScreenshotQueue(shotDir)
	}
	if scriptFile != "" {
		data, err := os.ReadFile(scriptFile)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := backdrop.LoadTestScript(data)
		if err != nil {
			return err
		}
		host.SetTestRunner(runner)
		if host.Screenshots == nil {
			host.Screenshots = backdrop.NewScreenshotQueue("screenshots")
		}
	}
	newApp(host, cfg, !noLoading)

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("backdrop")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err = ebiten.RunGame(host)
	host.Close()
	if errors.Is(err, backdrop.ErrScriptDone) {
		return nil
	}
	return err
}

func plotCurves(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names, curves, err := cfg.NamedCurves()
	if err != nil {
		return err
	}
	n := max(samples, 2)
	for _, name := range names {
		c := curves[name]
		data := make([]float64, n)
		for i := range data {
			data[i] = c.Interpolate(float64(i) / float64(n-1))
		}
		fmt.Println(title.Render(name))
		fmt.Println(dim.Render(fmt.Sprintf("%d control points, scroll 0 → 1", c.Len())))
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(n),
			asciigraph.Caption(name),
		))
		fmt.Println()
	}
	return nil
}

func printConfig(cmd *cobra.Command, args []string) error {
	cfg := backdrop.DefaultConfig()
	if loading {
		cfg = backdrop.LoadingConfig()
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
