package extractor

import (
	"fmt"
	"regexp"
	"time"

	"github.com/gocolly/colly/v2"
)

// VacancyCounter counts vacant rooms on a property page. Rooms are matched
// by a CSS selector; when the selector matches nothing, a regex over the raw
// body is tried so that a markup change degrades to the pattern count
// instead of a false zero.
type VacancyCounter struct {
	collector *colly.Collector
	selector  string
	pattern   *regexp.Regexp
}

// NewVacancyCounter creates a counter using the given room selector and
// optional fallback pattern (empty string disables the fallback).
func NewVacancyCounter(selector, pattern string, timeout time.Duration) (*VacancyCounter, error) {
	var re *regexp.Regexp

	if pattern != "" {
		var err error

		re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid room pattern: %w", err)
		}
	}

	// Revisits must stay allowed: clones share the parent's visited-URL
	// store, and two targets may point at the same listing page.
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(timeout)

	return &VacancyCounter{
		collector: c,
		selector:  selector,
		pattern:   re,
	}, nil
}

// CountRooms visits the property page and returns the number of vacant
// rooms it advertises.
func (v *VacancyCounter) CountRooms(url string) (int, error) {
	c := v.collector.Clone()

	count := 0

	var body []byte

	var visitErr error

	if v.selector != "" {
		c.OnHTML(v.selector, func(_ *colly.HTMLElement) {
			count++
		})
	}

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		visitErr = fmt.Errorf("request %s failed (status %d): %w", url, r.StatusCode, err)
	})

	if err := c.Visit(url); err != nil {
		return 0, fmt.Errorf("visit %s: %w", url, err)
	}

	c.Wait()

	if visitErr != nil {
		return 0, visitErr
	}

	if count == 0 && v.pattern != nil {
		count = len(v.pattern.FindAllIndex(body, -1))
	}

	return count, nil
}
