// Package main provides the report command that prints the latest run's
// status table, its process log and the tables on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"newsfetch/internal/config"
	"newsfetch/internal/dataset"
	"newsfetch/internal/formatter"
	"newsfetch/internal/session"
)

const titleWidth = 60

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	showLog := flag.Bool("log", false, "Print the process log of the latest run")
	symbol := flag.String("symbol", "", "Print the articles of one symbol instead of the summary")
	flag.Parse()

	config.LoadDotEnv()

	cfg, err := config.LoadConfig(config.Locate(*configFile))
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	store := dataset.NewStore(cfg.Output.Dir)

	if *symbol != "" {
		printArticles(store, *symbol)
		return
	}

	sessions, err := session.OpenStore(cfg.Session.DBPath)
	if err != nil {
		log.Fatalf("❌ Failed to open session store: %v\n", err)
	}
	defer sessions.Close()

	snap, err := sessions.Latest(context.Background())
	if err != nil {
		log.Fatalf("❌ Failed to load latest run: %v\n", err)
	}

	if snap == nil {
		fmt.Println("No runs recorded yet.")
	} else {
		state := "finished"
		if !snap.Finished() {
			state = "unfinished"
		}

		fmt.Printf("# Run %s (%s)\n\n", snap.ID, state)
		fmt.Printf("Window: %s to %s\n\n", snap.Since.Format(config.DateLayout), snap.Until.Format(config.DateLayout))
		fmt.Println(formatter.StatusTable(snap.Status))
		fmt.Println()

		if *showLog {
			for _, e := range snap.Log {
				fmt.Printf("%s [%s] %s\n", e.Time.Format("15:04:05"), e.Level, e.Message)
			}

			fmt.Println()
		}
	}

	printFiles(store)
}

func printFiles(store *dataset.Store) {
	names, err := store.Files()
	if err != nil {
		log.Fatalf("❌ Failed to list files: %v\n", err)
	}

	rows := make([][]string, 0, len(names))

	for _, name := range names {
		symbol, _ := dataset.SymbolFromFile(name)

		records, err := store.Load(symbol)
		if err != nil {
			rows = append(rows, []string{name, "unreadable", "", ""})
			continue
		}

		withContent, extracted := 0, 0

		for i := range records {
			if records[i].HasContent() {
				withContent++
			}

			if records[i].Extracted != "" {
				extracted++
			}
		}

		rows = append(rows, []string{
			name,
			fmt.Sprint(len(records)),
			fmt.Sprint(withContent),
			fmt.Sprint(extracted),
		})
	}

	fmt.Println(formatter.FormatTable([]string{"File", "Articles", "Content", "Extracted"}, rows))
}

func printArticles(store *dataset.Store, symbol string) {
	records, err := store.Load(symbol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ID,
			r.PublishDate,
			formatter.Truncate(r.Title, titleWidth),
			fmt.Sprint(r.CommentCount),
			fmt.Sprint(len(r.Extracted)),
		})
	}

	fmt.Println(formatter.FormatTable([]string{"ID", "Publish Date", "Title", "Comments", "Extracted Chars"}, rows))
}
