package extractor

import (
	"regexp"
	"strings"

	"tpowatch/internal/models"
)

// Patterns mirror the blog's list markup. Brittle against markup changes,
// which is why this strategy sits behind the selector-based one.
var (
	articleItemRe  = regexp.MustCompile(`(?s)<li id="post-.*?">.*?</li>`)
	articleTitleRe = regexp.MustCompile(`(?s)<h2>(.*?)</h2>`)
	articleMoreRe  = regexp.MustCompile(`(?s)<div class="blog-more"><a href="(.*?)">MORE</a></div>`)
	articleThumbRe = regexp.MustCompile(`(?s)<figure class="thumb">.*?<img.*?src="(.*?)".*?>.*?</figure>`)
)

// RegexArticle extracts the newest article using regular expressions. It is
// the fallback strategy for when the selector-based pass finds nothing.
type RegexArticle struct {
	baseURL string
}

// NewRegexArticle creates the pattern-based article strategy.
func NewRegexArticle(baseURL string) *RegexArticle {
	return &RegexArticle{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Name identifies the strategy in logs.
func (r *RegexArticle) Name() string { return "regex" }

// Extract returns the newest article observation.
func (r *RegexArticle) Extract(html string) (*models.ArticleObservation, error) {
	item := articleItemRe.FindString(html)
	if item == "" {
		return nil, ErrNoArticleBlock
	}

	title := models.NoTitle
	if m := articleTitleRe.FindStringSubmatch(item); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			title = t
		}
	}

	url := models.NoURL
	if m := articleMoreRe.FindStringSubmatch(item); m != nil && m[1] != "" {
		url = r.absolute(m[1])
	}

	thumbnail := models.NoThumbnail
	if m := articleThumbRe.FindStringSubmatch(item); m != nil && m[1] != "" {
		thumbnail = r.absolute(m[1])
	}

	obs := &models.ArticleObservation{
		Title:        title,
		URL:          url,
		ThumbnailURL: thumbnail,
	}

	// A pattern match missing the title or the URL is rejected outright;
	// only the selector-based strategy tolerates a missing title.
	if title == models.NoTitle {
		return nil, ErrNoArticleTitle
	}

	if !obs.HasURL() {
		return nil, ErrNoArticleURL
	}

	return obs, nil
}

func (r *RegexArticle) absolute(path string) string {
	if strings.HasPrefix(path, "/") {
		return r.baseURL + path
	}

	return path
}
