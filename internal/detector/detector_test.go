package detector

import (
	"testing"

	"tpowatch/internal/config"
	"tpowatch/internal/models"
)

func strPtr(s string) *string { return &s }

func TestHasNewArticle(t *testing.T) {
	tests := []struct {
		name    string
		obs     models.ArticleObservation
		lastURL *string
		want    bool
	}{
		{
			name:    "First run always counts as new",
			obs:     models.ArticleObservation{URL: "https://x/1"},
			lastURL: nil,
			want:    true,
		},
		{
			name:    "Different URL is new",
			obs:     models.ArticleObservation{URL: "https://x/2"},
			lastURL: strPtr("https://x/1"),
			want:    true,
		},
		{
			name:    "Equal URL is not new",
			obs:     models.ArticleObservation{URL: "https://x/1"},
			lastURL: strPtr("https://x/1"),
			want:    false,
		},
		{
			name:    "Empty URL never signals",
			obs:     models.ArticleObservation{URL: ""},
			lastURL: nil,
			want:    false,
		},
		{
			name:    "Sentinel URL never signals",
			obs:     models.ArticleObservation{URL: models.NoURL},
			lastURL: strPtr("https://x/1"),
			want:    false,
		},
		{
			name: "No normalization, trailing slash differs",
			obs:  models.ArticleObservation{URL: "https://x/1/"},
			// Semantically identical URLs in different representations are
			// treated as different articles.
			lastURL: strPtr("https://x/1"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasNewArticle(tt.obs, tt.lastURL); got != tt.want {
				t.Errorf("HasNewArticle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectIncreases_SingleProperty(t *testing.T) {
	targets := []config.TargetProperty{{ID: "P1", Name: "物件一", Ward: "港区", URL: "https://x/p1"}}

	old := map[string]models.PropertyObservation{"P1": {VacancyCount: 0}}
	current := map[string]models.PropertyObservation{
		"P1": {Name: "物件一", Ward: "港区", VacancyCount: 2, URL: "https://x/p1"},
	}

	events := DetectIncreases(old, current, targets)
	if len(events) != 1 {
		t.Fatalf("DetectIncreases returned %d events, want 1", len(events))
	}

	ev := events[0]
	if ev.PropertyID != "P1" || ev.OldCount != 0 || ev.NewCount != 2 {
		t.Errorf("unexpected event: %+v", ev)
	}

	if ev.Name != "物件一" || ev.Ward != "港区" || ev.URL != "https://x/p1" {
		t.Errorf("event metadata not taken from new observation: %+v", ev)
	}
}

func TestDetectIncreases_NoEvent(t *testing.T) {
	targets := []config.TargetProperty{
		{ID: "P1", Name: "一", Ward: "A", URL: "u1"},
		{ID: "P2", Name: "二", Ward: "B", URL: "u2"},
	}

	tests := []struct {
		name    string
		old     map[string]models.PropertyObservation
		current map[string]models.PropertyObservation
	}{
		{
			name:    "Unchanged count",
			old:     map[string]models.PropertyObservation{"P1": {VacancyCount: 3}},
			current: map[string]models.PropertyObservation{"P1": {VacancyCount: 3}},
		},
		{
			name:    "Decrease",
			old:     map[string]models.PropertyObservation{"P1": {VacancyCount: 3}},
			current: map[string]models.PropertyObservation{"P1": {VacancyCount: 1}},
		},
		{
			name:    "Absent from both maps counts as zero vs zero",
			old:     map[string]models.PropertyObservation{},
			current: map[string]models.PropertyObservation{},
		},
		{
			name:    "Absent from current counts as zero",
			old:     map[string]models.PropertyObservation{"P1": {VacancyCount: 2}},
			current: map[string]models.PropertyObservation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if events := DetectIncreases(tt.old, tt.current, targets); len(events) != 0 {
				t.Errorf("DetectIncreases returned %d events, want 0: %+v", len(events), events)
			}
		})
	}
}

func TestDetectIncreases_OrderFollowsTargetList(t *testing.T) {
	// Targets declared in a fixed order; map insertion order must not leak
	// into the emitted sequence.
	targets := []config.TargetProperty{
		{ID: "C", Name: "c", Ward: "w", URL: "u"},
		{ID: "A", Name: "a", Ward: "w", URL: "u"},
		{ID: "B", Name: "b", Ward: "w", URL: "u"},
	}

	old := map[string]models.PropertyObservation{}
	current := map[string]models.PropertyObservation{
		"A": {VacancyCount: 1},
		"B": {VacancyCount: 5},
		"C": {VacancyCount: 2},
	}

	events := DetectIncreases(old, current, targets)
	if len(events) != 3 {
		t.Fatalf("DetectIncreases returned %d events, want 3", len(events))
	}

	wantOrder := []string{"C", "A", "B"}
	for i, ev := range events {
		if ev.PropertyID != wantOrder[i] {
			t.Errorf("events[%d].PropertyID = %s, want %s", i, ev.PropertyID, wantOrder[i])
		}
	}
}

func TestDetectIncreases_IgnoresIDsOutsideTargetSet(t *testing.T) {
	targets := []config.TargetProperty{{ID: "P1", Name: "一", Ward: "A", URL: "u1"}}

	old := map[string]models.PropertyObservation{}
	current := map[string]models.PropertyObservation{
		"P1":       {VacancyCount: 1},
		"UNKNOWN":  {VacancyCount: 10},
		"UNKNOWN2": {VacancyCount: 99},
	}

	events := DetectIncreases(old, current, targets)
	if len(events) != 1 || events[0].PropertyID != "P1" {
		t.Errorf("expected only P1 event, got %+v", events)
	}
}

func TestDetectIncreases_MetadataFallbackForPlaceholder(t *testing.T) {
	targets := []config.TargetProperty{{ID: "P1", Name: "物件一", Ward: "港区", URL: "https://x/p1"}}

	old := map[string]models.PropertyObservation{}
	// Observation present but missing metadata, as a placeholder would be.
	current := map[string]models.PropertyObservation{"P1": {VacancyCount: 1}}

	events := DetectIncreases(old, current, targets)
	if len(events) != 1 {
		t.Fatalf("DetectIncreases returned %d events, want 1", len(events))
	}

	if events[0].Name != "物件一" || events[0].Ward != "港区" || events[0].URL != "https://x/p1" {
		t.Errorf("metadata not filled from target table: %+v", events[0])
	}
}

func TestDetectIncreases_Idempotent(t *testing.T) {
	targets := []config.TargetProperty{
		{ID: "P1", Name: "一", Ward: "A", URL: "u1"},
		{ID: "P2", Name: "二", Ward: "B", URL: "u2"},
	}

	current := map[string]models.PropertyObservation{
		"P1": {VacancyCount: 4},
		"P2": {VacancyCount: 1},
	}

	first := DetectIncreases(map[string]models.PropertyObservation{}, current, targets)
	if len(first) != 2 {
		t.Fatalf("first pass returned %d events, want 2", len(first))
	}

	// After the first commit old == new, so a second identical pass is
	// silent.
	second := DetectIncreases(current, current, targets)
	if len(second) != 0 {
		t.Errorf("second pass returned %d events, want 0", len(second))
	}
}
