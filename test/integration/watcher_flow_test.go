package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"tpowatch/internal/config"
	"tpowatch/internal/logger"
	"tpowatch/internal/notifier"
	"tpowatch/internal/state"
	"tpowatch/internal/watcher"
)

// mutableSite serves a blog index and one property page whose contents can be
// swapped between runs.
type mutableSite struct {
	mu     sync.Mutex
	postID int
	rooms  int
	server *httptest.Server
}

func newMutableSite(t *testing.T) *mutableSite {
	t.Helper()

	site := &mutableSite{postID: 1, rooms: 0}

	mux := http.NewServeMux()
	mux.HandleFunc("/blog/", func(w http.ResponseWriter, _ *http.Request) {
		site.mu.Lock()
		defer site.mu.Unlock()

		fmt.Fprintf(w, `<html><body>
<li id="post-%d"><h2>記事 %d</h2>
<figure class="thumb"><img src="/images/%d.jpg"></figure>
<div class="blog-more"><a href="/blog/%d/">MORE</a></div></li>
</body></html>`, site.postID, site.postID, site.postID, site.postID)
	})
	mux.HandleFunc("/property/", func(w http.ResponseWriter, _ *http.Request) {
		site.mu.Lock()
		defer site.mu.Unlock()

		var sb strings.Builder
		sb.WriteString(`<html><body><ul class="room-list">`)

		for i := 0; i < site.rooms; i++ {
			fmt.Fprintf(&sb, `<li class="room">空室 %d</li>`, i+1)
		}

		sb.WriteString(`</ul></body></html>`)
		_, _ = w.Write([]byte(sb.String()))
	})

	site.server = httptest.NewServer(mux)
	t.Cleanup(site.server.Close)

	return site
}

func (s *mutableSite) set(postID, rooms int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postID = postID
	s.rooms = rooms
}

func testConfig(t *testing.T, site *mutableSite) *config.Config {
	t.Helper()

	stateDir := t.TempDir()

	cfg := &config.Config{
		Watcher: config.WatcherConfig{
			Blog: config.BlogConfig{
				URL:       site.server.URL + "/blog/",
				BaseURL:   site.server.URL,
				StateFile: filepath.Join(stateDir, "last_article.txt"),
			},
			Vacancy: config.VacancyConfig{
				StateFile:    filepath.Join(stateDir, "vacancies.json"),
				RoomSelector: "ul.room-list li.room",
				RoomPattern:  "空室",
				Properties: []config.TargetProperty{
					{ID: "test-prop", Name: "テスト物件", Ward: "港区", URL: site.server.URL + "/property/"},
				},
			},
			Retry: config.RetryPolicy{
				MaxAttempts:       2,
				InitialDelayMs:    1,
				MaxDelayMs:        10,
				BackoffMultiplier: 2.0,
				TimeoutSec:        5,
			},
			Mail: config.MailConfig{
				SMTPHost: "smtp.gmail.com",
				SMTPPort: 465,
				Enabled:  false,
			},
			Logging: config.LoggingConfig{Level: "error", Format: "text"},
		},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}

	return cfg
}

func runOnce(t *testing.T, cfg *config.Config) []watcher.Result {
	t.Helper()

	runner, err := watcher.NewRunner(cfg, config.Credentials{}, logger.NewLogger("error", "text"))
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	return runner.Run(context.Background())
}

func TestWatcherFlow_BootstrapThenSteadyState(t *testing.T) {
	site := newMutableSite(t)
	site.set(1, 2)
	cfg := testConfig(t, site)

	// First run: no baselines exist. The article bootstraps with one event
	// and both baselines are written.
	results := runOnce(t, cfg)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	article, vacancy := results[0], results[1]

	if article.Pipeline != "article" || article.Aborted {
		t.Fatalf("article result: %+v", article)
	}

	if article.Events != 1 || !article.Committed {
		t.Errorf("first article run: %+v", article)
	}

	if article.Outcome != notifier.OutcomeSkipped {
		t.Errorf("mail disabled, outcome = %v", article.Outcome)
	}

	if vacancy.Events != 1 || !vacancy.Committed {
		t.Errorf("first vacancy run: %+v", vacancy)
	}

	data, err := os.ReadFile(cfg.Watcher.Blog.StateFile)
	if err != nil {
		t.Fatalf("article baseline missing: %v", err)
	}

	wantURL := site.server.URL + "/blog/1/"
	if string(data) != wantURL {
		t.Errorf("article baseline = %q, want %q", string(data), wantURL)
	}

	// Second run with nothing changed is completely silent.
	results = runOnce(t, cfg)
	article, vacancy = results[0], results[1]

	if article.Events != 0 || article.Committed {
		t.Errorf("steady-state article run: %+v", article)
	}

	if vacancy.Events != 0 {
		t.Errorf("steady-state vacancy run: %+v", vacancy)
	}

	// Vacancy still commits on a silent pass.
	if !vacancy.Committed {
		t.Errorf("vacancy baseline must commit every pass: %+v", vacancy)
	}
}

func TestWatcherFlow_DetectsNewArticleAndVacancyIncrease(t *testing.T) {
	site := newMutableSite(t)
	site.set(1, 1)
	cfg := testConfig(t, site)

	runOnce(t, cfg)

	// A new post appears and a second room opens up.
	site.set(2, 2)

	results := runOnce(t, cfg)
	article, vacancy := results[0], results[1]

	if article.Events != 1 || !article.Committed {
		t.Errorf("article change not detected: %+v", article)
	}

	if vacancy.Events != 1 || !vacancy.Committed {
		t.Errorf("vacancy increase not detected: %+v", vacancy)
	}

	data, err := os.ReadFile(cfg.Watcher.Blog.StateFile)
	if err != nil {
		t.Fatal(err)
	}

	wantURL := site.server.URL + "/blog/2/"
	if string(data) != wantURL {
		t.Errorf("article baseline = %q, want %q", string(data), wantURL)
	}

	st, err := state.NewVacancyStore(cfg.Watcher.Vacancy.StateFile).Load()
	if err != nil {
		t.Fatal(err)
	}

	if st.Properties["test-prop"].VacancyCount != 2 {
		t.Errorf("persisted count = %d, want 2", st.Properties["test-prop"].VacancyCount)
	}
}

func TestWatcherFlow_BlogOutageDoesNotStopVacancyPipeline(t *testing.T) {
	site := newMutableSite(t)
	site.set(1, 1)
	cfg := testConfig(t, site)

	// Point the blog URL at a 404 path; the vacancy pipeline still runs.
	cfg.Watcher.Blog.URL = site.server.URL + "/missing/"

	results := runOnce(t, cfg)
	article, vacancy := results[0], results[1]

	if !article.Aborted || article.Err == nil {
		t.Errorf("article pass should abort: %+v", article)
	}

	if _, err := os.Stat(cfg.Watcher.Blog.StateFile); !os.IsNotExist(err) {
		t.Error("article baseline written on aborted pass")
	}

	if vacancy.Aborted || !vacancy.Committed {
		t.Errorf("vacancy pass affected by article outage: %+v", vacancy)
	}
}
