package watcher

import (
	"context"
	"time"

	"tpowatch/internal/config"
	"tpowatch/internal/detector"
	"tpowatch/internal/logger"
	"tpowatch/internal/models"
	"tpowatch/internal/notifier"
	"tpowatch/internal/state"
)

// VacancyPipeline checks each target property page for vacancy-count
// increases. Unlike the article pipeline, its baseline commits on every pass
// so future increases compare against the most recent counts.
type VacancyPipeline struct {
	targets  []config.TargetProperty
	counter  RoomCounter
	store    *state.VacancyStore
	notifier Notifier
	now      func() time.Time
	log      *logger.Logger
}

// Run performs one pass of the vacancy pipeline.
func (p *VacancyPipeline) Run(ctx context.Context) Result {
	start := time.Now()
	res := Result{Pipeline: "vacancy"}

	defer func() {
		res.Duration = time.Since(start)
	}()

	baseline, err := p.store.Load()
	if err != nil {
		p.log.Warn("vacancy baseline unreadable, starting from empty", "error", err)
	}

	now := p.now()
	current := p.observe(baseline, now)

	events := detector.DetectIncreases(baseline.Properties, current, p.targets)
	res.Events = len(events)

	if len(events) > 0 {
		for _, ev := range events {
			p.log.Info("vacancy increase detected",
				"property", ev.PropertyID, "ward", ev.Ward,
				"old_count", ev.OldCount, "new_count", ev.NewCount)
		}

		outcome, err := p.notifier.SendVacancies(ctx, events)
		res.Outcome = outcome

		switch outcome {
		case notifier.OutcomeSent:
			p.log.Info("notification sent", "events", len(events))
		case notifier.OutcomeSkipped:
			p.log.Warn("notification skipped, mail disabled or credentials missing")
		case notifier.OutcomeFailed:
			p.log.Error("notification failed, baseline still advances", "error", err)
		}
	} else {
		p.log.Info("no vacancy increases detected")
	}

	// The baseline commits even with zero events, keeping per-id freshness
	// current.
	st := &models.VacancyState{LastUpdated: &now, Properties: current}
	if err := p.store.Save(st); err != nil {
		p.log.Error("failed to write vacancy baseline", "error", err)

		return res
	}

	res.Committed = true

	return res
}

// observe builds the current observation map over the static target set.
// A per-page failure is local: the previous observation is carried forward
// when one exists, otherwise a zero-count placeholder is recorded.
func (p *VacancyPipeline) observe(baseline *models.VacancyState, now time.Time) map[string]models.PropertyObservation {
	current := make(map[string]models.PropertyObservation, len(p.targets))

	for _, target := range p.targets {
		count, err := p.counter.CountRooms(target.URL)
		if err != nil {
			if prev, ok := baseline.Properties[target.ID]; ok {
				p.log.Warn("room count failed, carrying forward previous observation",
					"property", target.ID, "error", err)
				current[target.ID] = prev
			} else {
				p.log.Warn("room count failed with no previous observation, recording zero",
					"property", target.ID, "error", err)
				current[target.ID] = models.PropertyObservation{
					Name:        target.Name,
					Ward:        target.Ward,
					URL:         target.URL,
					LastChanged: now,
				}
			}

			continue
		}

		obs := models.PropertyObservation{
			Name:         target.Name,
			Ward:         target.Ward,
			VacancyCount: count,
			URL:          target.URL,
			LastChanged:  now,
		}

		// Preserve the change timestamp while the count holds steady.
		if prev, ok := baseline.Properties[target.ID]; ok && prev.VacancyCount == count {
			obs.LastChanged = prev.LastChanged
		}

		p.log.Debug("room count", "property", target.ID, "count", count)
		current[target.ID] = obs
	}

	return current
}
