// Package main provides the fetcher command that lists, fetches and cleans
// news articles for every symbol in the symbol list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"newsfetch/internal/batch"
	"newsfetch/internal/config"
	"newsfetch/internal/dataset"
	"newsfetch/internal/formatter"
	"newsfetch/internal/logger"
	"newsfetch/internal/seekingalpha"
	"newsfetch/internal/session"
)

func main() {
	// 1. Define Command-Line Flags
	// ---------------------------
	configFile := flag.String("config", "", "Path to YAML configuration file")
	from := flag.String("from", "", "First publish date, YYYY-MM-DD (overrides config)")
	to := flag.String("to", "", "End of the publish window, YYYY-MM-DD, exclusive (overrides config)")
	apiKey := flag.String("key", "", "RapidAPI key (overrides "+config.EnvAPIKey+")")
	symbolsFile := flag.String("symbols", "", "Symbol list file (overrides config)")
	reset := flag.Bool("reset", false, "Delete every table and the session state, then exit")

	flag.Parse()

	config.LoadDotEnv()

	cfg, err := config.LoadConfig(config.Locate(*configFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *apiKey != "" {
		cfg.API.Key = *apiKey
	}

	if *from != "" {
		cfg.Window.From = *from
	}

	if *to != "" {
		cfg.Window.To = *to
	}

	if *symbolsFile != "" {
		cfg.Input.SymbolsFile = *symbolsFile
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	since, until, err := cfg.Window.Bounds()
	if err != nil {
		log.Error("❌ Invalid window", "error", err)
		os.Exit(1)
	}

	// 2. Wire Dependencies
	// --------------------
	sessions, err := session.OpenStore(cfg.Session.DBPath)
	if err != nil {
		log.Error("❌ Failed to open session store", "error", err)
		os.Exit(1)
	}
	defer sessions.Close()

	store := dataset.NewStore(cfg.Output.Dir)
	client := seekingalpha.NewClient(&cfg.API)
	runner := batch.NewRunner(client, store, sessions, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *reset {
		if err := runner.Reset(ctx); err != nil {
			log.Error("❌ Reset failed", "error", err)
			os.Exit(1)
		}

		fmt.Printf("🧹 Cleared %s and the session state\n", store.Dir())

		return
	}

	symbols, err := dataset.ReadSymbols(cfg.Input.SymbolsFile)
	if err != nil {
		log.Error("❌ Failed to read symbol list", "error", err)
		os.Exit(1)
	}

	log.Info("🚀 Starting news fetch", "symbols", len(symbols), "from", cfg.Window.From, "to", cfg.Window.To, "output", store.Dir())

	// 3. Run the Passes
	// -----------------
	result, err := runner.Run(ctx, symbols, since, until)
	if errors.Is(err, seekingalpha.ErrMissingCredential) {
		log.Error("❌ Please provide API key", "hint", "set "+config.EnvAPIKey+" or pass -key")
		os.Exit(1)
	}

	if result == nil {
		log.Error("❌ Run failed", "error", err)
		os.Exit(1)
	}

	// 4. Final Report
	// ---------------
	printReport(ctx, runner, result)

	if err != nil {
		log.Error("❌ Run stopped early", "error", err)
		os.Exit(1)
	}
}

func printReport(ctx context.Context, runner *batch.Runner, result *batch.Result) {
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")

	if snap, err := runner.Latest(context.WithoutCancel(ctx)); err == nil && snap != nil {
		fmt.Println(formatter.StatusTable(snap.Status))
		fmt.Println()
	}

	fmt.Printf("Run ID: %s\n", result.RunID)
	fmt.Printf("Articles Listed: %d (%d symbols failed)\n", result.Articles, result.FailedSymbols)
	fmt.Printf("Content Fetched: %d (%d failed)\n", result.ContentFetched, result.ContentFailed)
	fmt.Printf("Content Cleaned: %d (%d empty, %d malformed)\n", result.Cleaned, result.Absent, result.Malformed)
	fmt.Printf("Total Duration: %v\n", result.Duration)
	fmt.Println("------------------------------------------------")
}
