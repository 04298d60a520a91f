// Package extractor turns raw page content into structured observations.
//
// Article extraction is strategy-based: a selector-driven extractor is
// preferred, with a pattern-based one as fallback. The chain tries each
// strategy in order and reports which one produced the observation.
package extractor

import (
	"errors"
	"fmt"

	"tpowatch/internal/models"
)

// Extraction errors shared by the article strategies.
var (
	ErrNoArticleBlock = errors.New("no article block found in page")
	ErrNoArticleTitle = errors.New("article block has no usable title")
	ErrNoArticleURL   = errors.New("article block has no usable URL")
	ErrNoStrategies   = errors.New("article chain has no strategies")
)

// ArticleStrategy extracts the newest article from raw blog index HTML.
type ArticleStrategy interface {
	// Name identifies the strategy in logs.
	Name() string
	// Extract returns the newest article observation, or an error when no
	// parseable record is present.
	Extract(html string) (*models.ArticleObservation, error)
}

// ArticleChain tries an ordered list of strategies, first success wins.
type ArticleChain struct {
	strategies []ArticleStrategy
}

// NewArticleChain creates a chain over the given strategies in priority
// order.
func NewArticleChain(strategies ...ArticleStrategy) *ArticleChain {
	return &ArticleChain{strategies: strategies}
}

// Extract runs the strategies in order and returns the first successful
// observation together with the name of the strategy that produced it.
func (c *ArticleChain) Extract(html string) (*models.ArticleObservation, string, error) {
	if len(c.strategies) == 0 {
		return nil, "", ErrNoStrategies
	}

	var lastErr error

	for _, s := range c.strategies {
		obs, err := s.Extract(html)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", s.Name(), err)

			continue
		}

		return obs, s.Name(), nil
	}

	return nil, "", lastErr
}
