// Package detector implements the change-detection core: comparing freshly
// extracted observations against the persisted baseline and deciding whether
// a notification-worthy delta occurred.
package detector

import (
	"tpowatch/internal/config"
	"tpowatch/internal/models"
)

// HasNewArticle reports whether obs describes an article not seen on the
// previous run. A nil lastURL (no prior run) counts as new, so the very
// first successful pass notifies once and bootstraps the baseline. URLs are
// compared by exact string equality with no normalization.
func HasNewArticle(obs models.ArticleObservation, lastURL *string) bool {
	if !obs.HasURL() {
		return false
	}

	if lastURL == nil {
		return true
	}

	return obs.URL != *lastURL
}

// DetectIncreases compares baseline and current vacancy counts over the
// static target list and returns one event per property whose count strictly
// increased. Decreases and unchanged counts emit nothing.
//
// Iteration follows the declaration order of targets, not the key order of
// either map, and an id absent from a map counts as zero.
func DetectIncreases(baseline, current map[string]models.PropertyObservation, targets []config.TargetProperty) []models.VacancyChangeEvent {
	var events []models.VacancyChangeEvent

	for _, target := range targets {
		oldCount := baseline[target.ID].VacancyCount
		obs, ok := current[target.ID]

		if obs.VacancyCount <= oldCount {
			continue
		}

		event := models.VacancyChangeEvent{
			PropertyID: target.ID,
			OldCount:   oldCount,
			NewCount:   obs.VacancyCount,
			Name:       obs.Name,
			Ward:       obs.Ward,
			URL:        obs.URL,
		}

		// A placeholder observation may miss metadata; fill from the target
		// table so the notification stays readable.
		if !ok || event.Name == "" {
			event.Name = target.Name
		}

		if !ok || event.Ward == "" {
			event.Ward = target.Ward
		}

		if !ok || event.URL == "" {
			event.URL = target.URL
		}

		events = append(events, event)
	}

	return events
}
