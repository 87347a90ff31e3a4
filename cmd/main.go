package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/sabarim/metaldata/internal/config"
	"github.com/sabarim/metaldata/internal/fetcher"
	"github.com/sabarim/metaldata/internal/historical"
	"github.com/spf13/cobra"
)

var (
	configFile     string
	dataDir        string
	parquetEnabled bool
	parquetDir     string
	symbolsStr     string
	requestDelay   int
	verbose        bool
	version        bool
)

var versionString = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "metaldata",
		Short: "Collects LME cash prices for base metals",
		Long:  `Fetches the published LME cash price tables for aluminium, copper, lead, nickel, zinc and tin and appends new rows to a CSV history per metal.`,
		Args:  cobra.NoArgs,
		Run:   runRootCommand,
	}

	rootCmd.Flags().StringVar(&configFile, "config", "config.yaml", "Path to config file")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding the CSV records")
	rootCmd.Flags().BoolVar(&parquetEnabled, "parquet", false, "Also export records to Parquet")
	rootCmd.Flags().StringVar(&parquetDir, "parquet-dir", "", "Output directory for Parquet files")
	rootCmd.Flags().StringVar(&symbolsStr, "symbols", "", "Comma-separated subset of symbols to update (Al,Cu,Pb,Ni,Zn,Sn)")
	rootCmd.Flags().IntVar(&requestDelay, "request-delay", 0, "Delay between requests in milliseconds")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.Flags().BoolVar(&version, "version", false, "Print version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(debug bool, runID string) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger.With("run_id", runID))
}

func runRootCommand(cmd *cobra.Command, args []string) {
	if version {
		fmt.Printf("metaldata version %s\n", versionString)
		return
	}

	runID := uuid.NewString()
	setupLogging(verbose, runID)

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		slog.Warn("failed to load configuration, using defaults", "err", err)
		cfg = config.Default()
	}

	// Flags win over file and environment.
	if dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}
	if parquetEnabled {
		cfg.Storage.ParquetEnabled = true
	}
	if parquetDir != "" {
		cfg.Storage.ParquetDir = parquetDir
	}
	if symbolsStr != "" {
		cfg.Run.Symbols = strings.Split(symbolsStr, ",")
	}
	if requestDelay > 0 {
		cfg.Run.RequestDelay = requestDelay
	}
	if cfg.Run.Verbose && !verbose {
		setupLogging(true, runID)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run(ctx, os.Stdout, &cfg, fetcher.New(cfg.Source))
}

// run performs one pass over the configured metals. Failures are logged and
// reported in the summary, never returned, so the process always exits 0.
func run(ctx context.Context, w io.Writer, cfg *config.Config, source historical.Fetcher) {
	fmt.Fprintln(w, "Parsing starting...")

	updater, err := historical.NewUpdater(cfg, source)
	if err != nil {
		slog.Error("failed to initialize updater", "err", err)
	} else {
		summary := updater.Run(ctx)
		printSummary(w, summary)
		if n := summary.Failed(); n > 0 {
			slog.Warn("some metals were not updated", "failed", n)
		}
	}

	fmt.Fprintln(w, "Parsing completed!!!")
}
