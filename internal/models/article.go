// Package models defines the observations, change events and persisted
// state documents shared by the watcher pipelines.
package models

// Sentinel values recorded when a fragment of the article cannot be
// extracted from the page.
const (
	NoTitle     = "No Title"
	NoURL       = "No URL"
	NoThumbnail = "No Thumbnail"
)

// ArticleObservation is a snapshot of the newest article on the blog index
// page. The URL is the identity key; two observations describe the same
// article exactly when their URLs are byte-for-byte equal. No normalization
// is applied before comparison.
type ArticleObservation struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// HasURL reports whether the observation carries a usable article URL.
func (a ArticleObservation) HasURL() bool {
	return a.URL != "" && a.URL != NoURL
}
