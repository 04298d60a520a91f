package models

import "time"

// PropertyObservation is the per-property snapshot produced by the vacancy
// pipeline. LastChanged records when the vacancy count last moved, not when
// the property was last checked.
type PropertyObservation struct {
	Name         string    `json:"name"`
	Ward         string    `json:"ward"`
	VacancyCount int       `json:"vacancy_count"`
	URL          string    `json:"url"`
	LastChanged  time.Time `json:"last_changed"`
}

// VacancyState is the persisted baseline for the vacancy pipeline. It is
// overwritten wholesale on every committed run.
type VacancyState struct {
	LastUpdated *time.Time                     `json:"last_updated"`
	Properties  map[string]PropertyObservation `json:"properties"`
}

// EmptyVacancyState returns a baseline with no prior observations, used when
// the state file is absent or unreadable.
func EmptyVacancyState() *VacancyState {
	return &VacancyState{Properties: map[string]PropertyObservation{}}
}

// VacancyChangeEvent is emitted when a property's vacancy count strictly
// increases against the baseline. Metadata fields come from the new
// observation.
type VacancyChangeEvent struct {
	PropertyID string `json:"property_id"`
	OldCount   int    `json:"old_count"`
	NewCount   int    `json:"new_count"`
	Name       string `json:"name"`
	Ward       string `json:"ward"`
	URL        string `json:"url"`
}
