// Package main provides the watcher command that runs one pass over the
// blog and vacancy pipelines and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"tpowatch/internal/config"
	"tpowatch/internal/logger"
	"tpowatch/internal/report"
	"tpowatch/internal/watcher"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration file")
	envFile := flag.String("env-file", "", "Optional .env file with mail credentials")
	logLevel := flag.String("log-level", "", "Override logging.level from the config")

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Watcher.Logging.Level
	if *logLevel != "" {
		level = *logLevel
	}

	log := logger.NewLogger(level, cfg.Watcher.Logging.Format)

	var creds config.Credentials
	if *envFile != "" {
		creds = config.LoadCredentials(*envFile)
	} else {
		creds = config.LoadCredentials()
	}

	if !creds.Complete() {
		log.Warn("mail credentials incomplete, notifications will be skipped")
	}

	runner, err := watcher.NewRunner(cfg, creds, log)
	if err != nil {
		log.Error("failed to initialize watcher", "error", err)
		os.Exit(1)
	}

	log.Info("🚀 Starting watcher pass", "blog", cfg.Watcher.Blog.URL,
		"properties", len(cfg.Watcher.Vacancy.Properties))

	results := runner.Run(context.Background())

	// Summary report
	rows := [][]string{{"PIPELINE", "STATUS", "EVENTS", "NOTIFIED", "COMMITTED", "DURATION"}}

	for _, res := range results {
		status := "ok"
		if res.Aborted {
			status = "aborted"
		}

		notified := "-"
		if res.Outcome != "" {
			notified = string(res.Outcome)
		}

		rows = append(rows, []string{
			res.Pipeline,
			status,
			fmt.Sprintf("%d", res.Events),
			notified,
			fmt.Sprintf("%t", res.Committed),
			res.Duration.Round(time.Millisecond).String(),
		})
	}

	fmt.Println()
	fmt.Print(report.Table(rows))

	// A completed pass exits zero even when a pipeline aborted; failures are
	// reported through logs, not the exit status.
	log.Info("✨ Watcher pass complete")
}
