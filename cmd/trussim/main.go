package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/san-kum/trussim/internal/api"
	"github.com/san-kum/trussim/internal/batch"
	"github.com/san-kum/trussim/internal/config"
	"github.com/san-kum/trussim/internal/diagram"
	"github.com/san-kum/trussim/internal/report"
	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/stability"
	"github.com/san-kum/trussim/internal/truss"
	"github.com/san-kum/trussim/internal/viz"
)

var (
	configFile string
	verbose    bool
	cfg        = config.DefaultConfig()

	preset string
	// analyze outputs
	asJSON   bool
	chart    bool
	xlsxPath string
	pdfPath  string
	pngPath  string
	svgPath  string

	theme   string
	workers int
	addr    string
)

// main registers the trussim commands and executes the root command, exiting
// with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "trussim",
		Short:         "2D truss stability and equilibrium solver",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				loaded, err := config.Load(configFile)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				cfg = loaded
			}
			if verbose {
				solver.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log solver details to stderr")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "classify and solve a structure",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyze,
	}
	analyzeCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")
	analyzeCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	analyzeCmd.Flags().BoolVar(&chart, "chart", false, "plot member forces")
	analyzeCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write a spreadsheet report")
	analyzeCmd.Flags().StringVar(&pdfPath, "pdf", "", "write a PDF report")
	analyzeCmd.Flags().StringVar(&pngPath, "png", "", "write a PNG diagram")
	analyzeCmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG diagram")

	classifyCmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "run the stability checks only",
		Args:  cobra.MaximumNArgs(1),
		RunE:  classify,
	}
	classifyCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "  %s\t%s\n", name, config.GetPreset(name).Description)
			}
			return w.Flush()
		},
	}

	viewCmd := &cobra.Command{
		Use:   "view [file]",
		Short: "explore a structure interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, s, err := loadStructure(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("theme") {
				theme = cfg.Theme
			}
			return viz.Run(name, s, theme)
		},
	}
	viewCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")
	viewCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, fmt.Sprintf("color theme %v", viz.ThemeNames()))

	batchCmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "analyze many scenarios concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "concurrent analyses")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address (env TRUSSIM_ADDR)")

	rootCmd.AddCommand(analyzeCmd, classifyCmd, presetsCmd, viewCmd, batchCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadStructure reads the scenario named by args or --preset, falling back
// to the configured default preset.
func loadStructure(args []string) (string, *truss.Structure, error) {
	var sc *config.Scenario
	switch {
	case len(args) == 1 && preset != "":
		return "", nil, errors.New("give either a file or --preset, not both")
	case len(args) == 1:
		loaded, err := config.LoadScenario(args[0])
		if err != nil {
			return "", nil, err
		}
		sc = loaded
	default:
		name := preset
		if name == "" {
			name = cfg.Preset
		}
		sc = config.GetPreset(name)
		if sc == nil {
			return "", nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	s, err := sc.Structure()
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", sc.Name, err)
	}
	return sc.Name, s, nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func analyze(cmd *cobra.Command, args []string) error {
	name, s, err := loadStructure(args)
	if err != nil {
		return err
	}
	rep := report.Analyze(name, s)

	if asJSON {
		if err := report.WriteJSON(os.Stdout, rep); err != nil {
			return err
		}
	} else {
		if err := report.WriteText(os.Stdout, rep, true); err != nil {
			return err
		}
	}

	if chart {
		if g := report.ForceChart(rep, 80, 12); g != "" {
			fmt.Println()
			fmt.Println(g)
		}
	}

	if xlsxPath != "" {
		if err := writeFile(xlsxPath, func(f *os.File) error { return report.WriteXLSX(f, rep) }); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", xlsxPath)
	}
	if pdfPath != "" {
		if err := writeFile(pdfPath, func(f *os.File) error { return report.WritePDF(f, rep) }); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", pdfPath)
	}
	if pngPath != "" {
		if err := diagram.Export(pngPath, name, s, rep.Result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", pngPath)
	}
	if svgPath != "" {
		svg := diagram.SVG(s, rep.Result, 800, 600)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", svgPath)
	}
	return nil
}

func classify(cmd *cobra.Command, args []string) error {
	name, s, err := loadStructure(args)
	if err != nil {
		return err
	}
	r := stability.Classify(s.Joints, s.Beams, solver.ReactionUnknowns)

	mark := "✓"
	if !r.Stable {
		mark = "✗"
	}
	fmt.Printf("%s  %s %s\n", name, mark, r.Reason)
	if len(r.Flagged) > 0 {
		fmt.Printf("  flagged joints: %v\n", r.Flagged)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("workers") {
		workers = cfg.Workers
	}

	jobs := make([]batch.Job, len(args))
	for i, path := range args {
		sc, err := config.LoadScenario(path)
		if err != nil {
			jobs[i] = batch.Job{Name: path, Err: err}
			continue
		}
		jobs[i] = batch.FromScenario(sc)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	out, runErr := batch.NewRunner(workers).Run(ctx, jobs)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "scenario\tstatus\tmax tension\tmax compression\treason")
	failed := 0
	for _, o := range out {
		if o.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\terror\t-\t-\t%v\n", o.Name, o.Err)
			continue
		}
		status := "ok"
		if !o.Result.Success {
			failed++
			status = "fail"
		}
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%.3f\t%s\n", o.Name, status,
			o.Summary.MaxTension.Value, o.Summary.MaxCompression.Value, o.Result.Reason)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	fmt.Printf("\n%d/%d analyzed successfully\n", len(out)-failed, len(out))
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	if !cmd.Flags().Changed("addr") {
		addr = cfg.Addr
		if env := os.Getenv("TRUSSIM_ADDR"); env != "" {
			addr = env
		}
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	handler := api.NewRouter(api.Options{RateLimit: cfg.RateLimit, Burst: cfg.Burst, Logger: log})
	return api.Serve(ctx, addr, handler, log)
}
