package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tpowatch/internal/models"
)

// GoqueryArticle extracts the newest article using CSS selectors. This is
// the preferred strategy; the selectors target the blog's list markup where
// each post is an <li id="post-..."> entry.
type GoqueryArticle struct {
	baseURL string
}

// NewGoqueryArticle creates the selector-based article strategy. baseURL is
// prefixed onto relative article and thumbnail paths.
func NewGoqueryArticle(baseURL string) *GoqueryArticle {
	return &GoqueryArticle{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Name identifies the strategy in logs.
func (g *GoqueryArticle) Name() string { return "goquery" }

// Extract returns the newest article observation.
func (g *GoqueryArticle) Extract(html string) (*models.ArticleObservation, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	item := doc.Find(`li[id^="post-"]`).First()
	if item.Length() == 0 {
		return nil, ErrNoArticleBlock
	}

	title := models.NoTitle
	if t := strings.TrimSpace(item.Find("h2").First().Text()); t != "" {
		title = t
	}

	url := models.NoURL
	if href, ok := item.Find(".blog-more a").First().Attr("href"); ok && href != "" {
		url = g.absolute(href)
	}

	thumbnail := models.NoThumbnail
	if src, ok := item.Find("figure.thumb img").First().Attr("src"); ok && src != "" {
		thumbnail = g.absolute(src)
	}

	obs := &models.ArticleObservation{
		Title:        title,
		URL:          url,
		ThumbnailURL: thumbnail,
	}

	if !obs.HasURL() {
		return nil, ErrNoArticleURL
	}

	return obs, nil
}

func (g *GoqueryArticle) absolute(path string) string {
	if strings.HasPrefix(path, "/") {
		return g.baseURL + path
	}

	return path
}
