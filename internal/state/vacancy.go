package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tpowatch/internal/models"
)

// VacancyStore persists the vacancy baseline as an indented UTF-8 JSON
// document.
type VacancyStore struct {
	path string
}

// NewVacancyStore creates a store backed by the given file path.
func NewVacancyStore(path string) *VacancyStore {
	return &VacancyStore{path: path}
}

// Load returns the persisted baseline. The returned state is always usable:
// an absent file yields an empty baseline with a nil error, and a malformed
// file yields an empty baseline alongside the parse error so the caller can
// log it.
func (s *VacancyStore) Load() (*models.VacancyState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.EmptyVacancyState(), nil
		}

		return models.EmptyVacancyState(), fmt.Errorf("failed to read vacancy state: %w", err)
	}

	var st models.VacancyState
	if err := json.Unmarshal(data, &st); err != nil {
		return models.EmptyVacancyState(), fmt.Errorf("failed to parse vacancy state: %w", err)
	}

	if st.Properties == nil {
		st.Properties = map[string]models.PropertyObservation{}
	}

	return &st, nil
}

// Save overwrites the baseline wholesale, creating parent directories as
// needed.
func (s *VacancyStore) Save(st *models.VacancyState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal vacancy state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write vacancy state: %w", err)
	}

	return nil
}
