// Package main provides the statedump command that pretty-prints the
// persisted baselines without touching them.
package main

import (
	"flag"
	"fmt"
	"os"

	"tpowatch/internal/config"
	"tpowatch/internal/report"
	"tpowatch/internal/state"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration file")

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	lastURL, err := state.NewArticleStore(cfg.Watcher.Blog.StateFile).Load()

	switch {
	case err != nil:
		fmt.Printf("Article baseline: unreadable (%v)\n", err)
	case lastURL == nil:
		fmt.Println("Article baseline: none (first run pending)")
	default:
		fmt.Printf("Article baseline: %s\n", *lastURL)
	}

	fmt.Println()

	vacancies, err := state.NewVacancyStore(cfg.Watcher.Vacancy.StateFile).Load()
	if err != nil {
		fmt.Printf("Vacancy baseline: unreadable (%v), showing empty\n", err)
	}

	if len(vacancies.Properties) == 0 {
		fmt.Println("Vacancy baseline: empty")

		return
	}

	if vacancies.LastUpdated != nil {
		fmt.Printf("Vacancy baseline (updated %s):\n", vacancies.LastUpdated.Format("2006-01-02 15:04"))
	}

	fmt.Print(report.VacancyStateTable(vacancies))
}
