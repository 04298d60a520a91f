// Package state persists the per-pipeline baselines between runs: a plain
// text file holding the last-seen article URL, and a JSON document holding
// the per-property vacancy observations.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArticleStore persists the last-seen article URL.
type ArticleStore struct {
	path string
}

// NewArticleStore creates a store backed by the given file path.
func NewArticleStore(path string) *ArticleStore {
	return &ArticleStore{path: path}
}

// Load returns the baseline URL, or nil when no baseline exists yet. The
// stored value is trimmed of surrounding whitespace.
func (s *ArticleStore) Load() (*string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read article state: %w", err)
	}

	url := strings.TrimSpace(string(data))

	return &url, nil
}

// Save overwrites the baseline with the given URL, creating parent
// directories as needed.
func (s *ArticleStore) Save(url string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, []byte(url), 0644); err != nil {
		return fmt.Errorf("failed to write article state: %w", err)
	}

	return nil
}
