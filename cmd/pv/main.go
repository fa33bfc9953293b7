package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/plateview/internal/datasource"
	"github.com/vanderheijden86/plateview/pkg/chart"
	"github.com/vanderheijden86/plateview/pkg/config"
	"github.com/vanderheijden86/plateview/pkg/dashboard"
	"github.com/vanderheijden86/plateview/pkg/loader"
	"github.com/vanderheijden86/plateview/pkg/logging"
	"github.com/vanderheijden86/plateview/pkg/ui"
	"github.com/vanderheijden86/plateview/pkg/version"
	"github.com/vanderheijden86/plateview/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configFlag := flag.String("config", "", "Config file (default "+config.ConfigPath()+")")
	initConfig := flag.Bool("init-config", false, "Run the interactive setup wizard and save the config file")
	dataFlag := flag.String("data", "", "Data location: http(s) base URL or directory (overrides data.location)")
	regionFlag := flag.String("region", "", "Region to select on startup")
	cuisineFlag := flag.String("cuisine", "", "Cuisine to select on startup (requires -region)")
	robotFlag := flag.Bool("robot", false, "Load the selection without a UI and print the dashboard as JSON")
	exportDir := flag.String("export", "", "Load the selection and write its charts into DIR")
	exportFormat := flag.String("export-format", "svg", "Chart format for -export: svg or png")
	flag.Parse()

	if *help {
		fmt.Println("Usage: pv [options]")
		fmt.Println("\nA terminal dashboard for restaurant market analytics.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("pv %s\n", version.String())
		os.Exit(0)
	}

	cfgPath := *configFlag
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}

	if *initConfig {
		if err := runInitConfig(cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	cfg, err := config.LoadFrom(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dataFlag != "" {
		cfg.Data.Location = *dataFlag
	}
	if *cuisineFlag != "" && *regionFlag == "" {
		fmt.Fprintln(os.Stderr, "Error: -cuisine requires -region")
		os.Exit(2)
	}

	closeLog := setupLogging(cfg.Logging)
	defer closeLog()

	src, err := datasource.Open(cfg.Data.Location, datasource.Options{
		Timeout:         cfg.Data.Timeout,
		BreakerFailures: uint32(cfg.Data.BreakerFailures),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data source: %v\n", err)
		os.Exit(1)
	}
	fetcher := loader.NewFetcher(src, loader.Options{})
	opts := dashboard.Options{
		CustomerSophistication: cfg.Dashboard.CustomerSophistication,
		TopCompetitors:         cfg.Dashboard.TopCompetitors,
		DishLimit:              cfg.Dashboard.DishLimit,
	}
	sel := selection{Region: *regionFlag, Cuisine: *cuisineFlag}

	switch {
	case *robotFlag:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = runRobot(ctx, os.Stdout, fetcher, opts, sel)

	case *exportDir != "":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = runExport(ctx, os.Stdout, fetcher, opts, sel, *exportDir, *exportFormat)

	case !term.IsTerminal(int(os.Stdout.Fd())):
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = runReport(ctx, os.Stdout, fetcher, opts, sel)

	default:
		err = runTUI(cfg, src, fetcher, opts, sel)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runInitConfig(path string) error {
	base, err := config.LoadFrom(path)
	if err != nil {
		base = config.DefaultConfig()
	}
	cfg, err := config.RunWizard(base)
	if err != nil {
		return err
	}
	if err := config.SaveTo(cfg, path); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

// setupLogging points the logger at the configured file. Logging stays
// disabled when no file is configured or it cannot be opened.
func setupLogging(cfg config.LoggingConfig) func() {
	if cfg.File == "" {
		return func() {}
	}
	f, err := logging.OpenFile(cfg.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return func() {}
	}
	logging.Init(logging.Config{Level: cfg.Level, Format: cfg.Format, Output: f})
	logging.Info().Str("version", version.Version).Msg("pv starting")
	return func() { _ = f.Close() }
}

func runReport(ctx context.Context, w io.Writer, f dashboard.Fetcher, opts dashboard.Options, sel selection) error {
	charts := chart.NewTextGrapher()
	ctrl := dashboard.New(f, chart.NewRegistry(charts), opts)
	if err := sel.load(ctx, ctrl); err != nil {
		logging.Warn().Err(err).Msg("report selection incomplete")
	}
	width := 100
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		width = cols
	}
	return ui.WriteReport(w, ctrl.Snapshot(), charts, width)
}

func runTUI(cfg config.Config, src datasource.Source, f dashboard.Fetcher, opts dashboard.Options, sel selection) error {
	var w *watcher.Watcher
	if src.Type() == datasource.SourceTypeDir && cfg.Data.Watch {
		w = startWatcher(src.Location())
		if w != nil {
			defer w.Stop()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	charts := chart.NewTextGrapher()
	ctrl := dashboard.New(f, chart.NewRegistry(charts), opts)
	m := ui.NewModel(ctx, ctrl, charts, ui.Options{
		Theme:    cfg.UI.Theme,
		Markdown: cfg.UI.Markdown,
		Region:   sel.Region,
		Cuisine:  sel.Cuisine,
		Watcher:  w,
	})
	return runTUIProgram(m)
}

func startWatcher(root string) *watcher.Watcher {
	w, err := watcher.NewWatcher(root)
	if err != nil {
		logging.Warn().Err(err).Str("root", root).Msg("data watcher unavailable")
		return nil
	}
	if err := w.Start(); err != nil {
		logging.Warn().Err(err).Str("root", root).Msg("data watcher unavailable")
		return nil
	}
	return w
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set PV_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("PV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
