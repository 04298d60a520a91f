// Package watcher sequences the fetch→extract→detect→notify→commit pass for
// both pipelines. One Run performs a single pass and returns; scheduling is
// external. The state files are the only shared mutable resource, and
// nothing guards against overlapping invocations racing on them.
package watcher

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tpowatch/internal/config"
	"tpowatch/internal/extractor"
	"tpowatch/internal/fetcher"
	"tpowatch/internal/logger"
	"tpowatch/internal/models"
	"tpowatch/internal/notifier"
	"tpowatch/internal/state"
)

// Notifier delivers rendered change events.
type Notifier interface {
	SendArticle(ctx context.Context, obs models.ArticleObservation) (notifier.Outcome, error)
	SendVacancies(ctx context.Context, events []models.VacancyChangeEvent) (notifier.Outcome, error)
}

// RoomCounter counts vacant rooms on a single property page.
type RoomCounter interface {
	CountRooms(url string) (int, error)
}

// Result summarizes one pipeline pass.
type Result struct {
	Pipeline  string
	Aborted   bool
	Err       error
	Strategy  string
	Events    int
	Outcome   notifier.Outcome
	Committed bool
	Duration  time.Duration
}

// Runner owns the long-lived pipeline components and executes one pass over
// both pipelines per Run call.
type Runner struct {
	cfg     *config.Config
	fetch   *fetcher.Fetcher
	chain   *extractor.ArticleChain
	counter RoomCounter
	mailer  Notifier
	log     *logger.Logger
}

// NewRunner wires the pipeline components from configuration. This is the
// composition root; cmd/watcher only loads config and calls Run.
func NewRunner(cfg *config.Config, creds config.Credentials, log *logger.Logger) (*Runner, error) {
	counter, err := extractor.NewVacancyCounter(
		cfg.Watcher.Vacancy.RoomSelector,
		cfg.Watcher.Vacancy.RoomPattern,
		cfg.Watcher.Retry.GetTimeout(),
	)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:   cfg,
		fetch: fetcher.NewFetcherWithPolicy(&cfg.Watcher.Retry),
		chain: extractor.NewArticleChain(
			extractor.NewGoqueryArticle(cfg.Watcher.Blog.BaseURL),
			extractor.NewRegexArticle(cfg.Watcher.Blog.BaseURL),
		),
		counter: counter,
		mailer:  notifier.NewMailer(cfg.Watcher.Mail, creds),
		log:     log,
	}, nil
}

// Run executes one pass: article pipeline first, then vacancy, sequentially.
// A failure in one pipeline never stops the other.
func (r *Runner) Run(ctx context.Context) []Result {
	log := r.log.With("run_id", uuid.NewString())

	article := &ArticlePipeline{
		cfg:      r.cfg.Watcher.Blog,
		fetcher:  r.fetch,
		chain:    r.chain,
		store:    state.NewArticleStore(r.cfg.Watcher.Blog.StateFile),
		notifier: r.mailer,
		log:      log.With("pipeline", "article"),
	}

	vacancy := &VacancyPipeline{
		targets:  r.cfg.Watcher.Vacancy.Properties,
		counter:  r.counter,
		store:    state.NewVacancyStore(r.cfg.Watcher.Vacancy.StateFile),
		notifier: r.mailer,
		now:      time.Now,
		log:      log.With("pipeline", "vacancy"),
	}

	return []Result{article.Run(ctx), vacancy.Run(ctx)}
}
