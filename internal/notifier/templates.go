package notifier

import (
	"fmt"
	"html/template"
	"strings"

	"tpowatch/internal/models"
)

var articleBodyTmpl = template.Must(template.New("article").Parse(`<html>
<body>
  <h2>新しい記事が投稿されました！</h2>
  <h3>{{.Title}}</h3>
  <p><a href="{{.URL}}">記事を読む</a></p>
  <p><img src="{{.ThumbnailURL}}" alt="Thumbnail" width="300"></p>
</body>
</html>
`))

var vacancyBodyTmpl = template.Must(template.New("vacancy").Parse(`<html>
<body>
  <h2>空室が増えた物件があります！</h2>
  <table border="1" cellpadding="6" cellspacing="0">
    <tr><th>区</th><th>物件名</th><th>空室数</th><th>リンク</th></tr>
    {{- range .}}
    <tr>
      <td>{{.Ward}}</td>
      <td>{{.Name}}</td>
      <td>{{.OldCount}} → {{.NewCount}}</td>
      <td><a href="{{.URL}}">物件ページ</a></td>
    </tr>
    {{- end}}
  </table>
</body>
</html>
`))

// ArticleSubject builds the subject line for a new-article notification.
func ArticleSubject(obs models.ArticleObservation) string {
	return fmt.Sprintf("ブログ更新通知: %s", obs.Title)
}

// VacancySubject builds the subject line for a vacancy-increase
// notification.
func VacancySubject(events []models.VacancyChangeEvent) string {
	return fmt.Sprintf("空室状況更新通知: %d物件で空室が増えました", len(events))
}

// RenderArticleBody renders the HTML body for a new-article notification.
func RenderArticleBody(obs models.ArticleObservation) (string, error) {
	var sb strings.Builder
	if err := articleBodyTmpl.Execute(&sb, obs); err != nil {
		return "", fmt.Errorf("failed to render article body: %w", err)
	}

	return sb.String(), nil
}

// RenderVacancyBody renders the HTML body for a vacancy-increase
// notification.
func RenderVacancyBody(events []models.VacancyChangeEvent) (string, error) {
	var sb strings.Builder
	if err := vacancyBodyTmpl.Execute(&sb, events); err != nil {
		return "", fmt.Errorf("failed to render vacancy body: %w", err)
	}

	return sb.String(), nil
}
