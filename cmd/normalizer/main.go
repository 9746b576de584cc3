// Package main provides the normalizer command that rewrites the Extracted
// column of existing tables from their raw content.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"newsfetch/internal/config"
	"newsfetch/internal/dataset"
	"newsfetch/internal/normalizer"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	dir := flag.String("dir", "", "Output directory holding the tables (overrides config)")
	dryRun := flag.Bool("dry-run", false, "Report what would be cleaned without writing")
	flag.Parse()

	config.LoadDotEnv()

	cfg, err := config.LoadConfig(config.Locate(*configFile))
	if err != nil {
		log.Fatalf("Error loading config: %v\n", err)
	}

	if *dir != "" {
		cfg.Output.Dir = *dir
	}

	store := dataset.NewStore(cfg.Output.Dir)

	symbols, err := store.Symbols()
	if err != nil {
		log.Fatalf("Error listing tables: %v\n", err)
	}

	if len(symbols) == 0 {
		fmt.Printf("⚠️  No tables found in %s\n", store.Dir())
		os.Exit(0)
	}

	processor := normalizer.NewProcessor()

	for _, symbol := range symbols {
		records, err := store.Load(symbol)
		if err != nil {
			fmt.Printf("❌ %s: %v\n", dataset.FileName(symbol), err)
			continue
		}

		fmt.Printf("📂 Reading: %s (%d articles)\n", dataset.FileName(symbol), len(records))

		stats := processor.Process(records)
		fmt.Printf("📊 Cleaned %d, empty %d, malformed %d\n", stats.Cleaned, stats.Absent, len(stats.Malformed))

		for _, id := range stats.Malformed {
			fmt.Printf("⚠️  Malformed content payload for ID %s\n", id)
		}

		if *dryRun {
			continue
		}

		if err := store.Save(symbol, records); err != nil {
			log.Fatalf("Error writing %s: %v\n", dataset.FileName(symbol), err)
		}

		fmt.Printf("✅ Saved to: %s\n", dataset.FileName(symbol))
	}
}
