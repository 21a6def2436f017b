package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meltforce/fittrack/internal/config"
	"github.com/meltforce/fittrack/internal/storage"
	"github.com/meltforce/fittrack/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local import)")
	path := flag.String("path", "", "export file or directory of exports (required): *.json documents replace the data, Alpha Progression *.csv exports are merged")
	serverURL := flag.String("server", "", "fittrack server URL; when set the export is pushed over HTTP instead of written to storage")
	apiKey := flag.String("api-key", os.Getenv("FITTRACK_AUTH_API_KEY"), "API key for -server")
	stateDir := flag.String("state-dir", "", "directory for the import history database (default ~/.fittrack-import)")
	dryRun := flag.Bool("dry-run", false, "parse and validate exports without importing")
	history := flag.Bool("history", false, "list earlier imports and exit")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fittrack-import", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		*stateDir = filepath.Join(homeDir, ".fittrack-import")
	}
	state, err := upload.OpenStateDB(*stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if *history {
		if err := printHistory(state); err != nil {
			log.Error("failed to read import history", "error", err)
			os.Exit(1)
		}
		return
	}

	if *path == "" {
		fmt.Fprintf(os.Stderr, "Usage: fittrack-import -path <export.json|alpha.csv|dir> [-server <URL> -api-key <key>] [-config config.yaml] [-dry-run]\n       fittrack-import -history\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx := context.Background()

	// Target is nil-safe in dry-run mode.
	var target upload.Target
	switch {
	case *dryRun:
		log.Info("DRY RUN mode: exports will be parsed but not imported")
	case *serverURL != "":
		if *apiKey == "" {
			fmt.Fprintf(os.Stderr, "Error: -api-key (or FITTRACK_AUTH_API_KEY) is required with -server\n")
			os.Exit(1)
		}
		target = upload.RemoteTarget{Client: upload.NewClient(*serverURL, *apiKey)}
		log.Info("pushing to server", "url", *serverURL)
	default:
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		provider, err := storage.Open(ctx, cfg.Storage, log)
		if err != nil {
			log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
			os.Exit(1)
		}
		defer provider.Close()
		target = upload.StorageTarget{Provider: provider}
		log.Info("writing to storage", "driver", cfg.Storage.Driver)
	}

	stats, err := upload.New(target, state, *dryRun, log).Run(ctx, *path)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	if stats.FilesErrored > 0 {
		os.Exit(1)
	}
	log.Info("import complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files imported:   %d\n", stats.FilesImported)
	fmt.Printf("  Files skipped:    %d (already imported)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Templates:        %d\n", stats.Templates)
	fmt.Printf("  Workouts:         %d\n", stats.Workouts)
	fmt.Printf("  Runs:             %d\n", stats.Runs)
	fmt.Printf("  Body weight:      %d\n", stats.BodyWeight)
	if stats.SessionsMerged+stats.SessionsSkipped > 0 {
		fmt.Printf("  Alpha sessions:   %d merged, %d already present\n", stats.SessionsMerged, stats.SessionsSkipped)
	}
	fmt.Println()
	if len(stats.Previous) > 0 {
		fmt.Println("=== Skipped (imported before) ===")
		for _, rec := range stats.Previous {
			printRecord(rec)
		}
		fmt.Println()
	}
}

func printHistory(state *upload.StateDB) error {
	records, err := state.History()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No imports recorded.")
		return nil
	}
	for _, rec := range records {
		printRecord(rec)
	}
	return nil
}

func printRecord(rec upload.ImportRecord) {
	fmt.Printf("  %s  %-4s  %s\n", rec.ImportedAt.Local().Format("2006-01-02 15:04"), rec.Kind, rec.Path)
	if rec.Kind == upload.KindAlpha {
		fmt.Printf("      sessions merged %d, already present %d\n", rec.SessionsMerged, rec.SessionsSkipped)
	}
	fmt.Printf("      workouts %d, runs %d, body weight %d\n", rec.Workouts, rec.Runs, rec.BodyWeight)
}
