package watcher

import (
	"context"
	"time"

	"tpowatch/internal/config"
	"tpowatch/internal/detector"
	"tpowatch/internal/extractor"
	"tpowatch/internal/fetcher"
	"tpowatch/internal/logger"
	"tpowatch/internal/notifier"
	"tpowatch/internal/state"
)

// ArticlePipeline checks the blog index page for a new article. Its baseline
// is written only when a new article is detected; an unchanged page leaves
// the state file untouched.
type ArticlePipeline struct {
	cfg      config.BlogConfig
	fetcher  *fetcher.Fetcher
	chain    *extractor.ArticleChain
	store    *state.ArticleStore
	notifier Notifier
	log      *logger.Logger
}

// Run performs one pass of the article pipeline.
func (p *ArticlePipeline) Run(ctx context.Context) Result {
	start := time.Now()
	res := Result{Pipeline: "article"}

	defer func() {
		res.Duration = time.Since(start)
	}()

	html, err := p.fetcher.Fetch(ctx, p.cfg.URL)
	if err != nil {
		p.log.Error("failed to fetch blog page", "url", p.cfg.URL, "error", err)
		res.Aborted = true
		res.Err = err

		return res
	}

	obs, strategy, err := p.chain.Extract(html)
	if err != nil {
		p.log.Error("failed to extract latest article", "error", err)
		res.Aborted = true
		res.Err = err

		return res
	}

	res.Strategy = strategy
	p.log.Info("extracted latest article", "strategy", strategy, "title", obs.Title, "url", obs.URL)

	lastURL, err := p.store.Load()
	if err != nil {
		p.log.Warn("article baseline unreadable, treating as first run", "error", err)
		lastURL = nil
	}

	if !detector.HasNewArticle(*obs, lastURL) {
		p.log.Info("no new article found")

		return res
	}

	if lastURL == nil {
		// Self-bootstrapping: the first successful pass notifies once even
		// though nothing "changed".
		p.log.Info("no baseline yet, treating first article as new")
	}

	res.Events = 1
	p.log.Info("found a new article", "title", obs.Title)

	outcome, err := p.notifier.SendArticle(ctx, *obs)
	res.Outcome = outcome

	switch outcome {
	case notifier.OutcomeSent:
		p.log.Info("notification sent")
	case notifier.OutcomeSkipped:
		p.log.Warn("notification skipped, mail disabled or credentials missing")
	case notifier.OutcomeFailed:
		p.log.Error("notification failed, baseline still advances", "error", err)
	}

	// Delivery outcome never blocks the commit; a failed mail is not
	// retried on the next run.
	if err := p.store.Save(obs.URL); err != nil {
		p.log.Error("failed to write article baseline", "error", err)

		return res
	}

	res.Committed = true
	p.log.Info("article baseline updated", "url", obs.URL)

	return res
}
