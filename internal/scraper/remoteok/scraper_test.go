package remoteok

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/config"
	"jobscout/internal/scraper"
)

const feed = `[
  {"legal": "API terms of use", "last_updated": 1756600000},
  {"position": "Backend Software Engineer", "company": "Acme", "url": "https://remoteok.com/jobs/1",
   "description": "Build APIs in Go", "location": "Worldwide", "date": "2026-08-29", "tags": ["golang", "backend"]},
  {"position": "Sous Chef", "company": "Bistro", "url": "https://remoteok.com/jobs/2",
   "description": "Cook things", "date": "2026-08-29"},
  {"position": "Software Developer", "company": "Beta", "apply_url": "https://remoteok.com/jobs/3",
   "description": "Ship features", "date": "2026-08-28"}
]`

func testConfig() *config.Config {
	return &config.Config{
		SearchTerms:         []string{"software engineer", "software developer"},
		MaxResultsPerSource: 200,
	}
}

func TestScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(feed))
	}))
	defer server.Close()

	s := NewWithURL(testConfig(), scraper.NewClient(), server.URL)
	jobs, err := s.Scrape(context.Background())
	require.NoError(t, err)

	//chef dropped by keyword pre-filter, metadata element skipped
	require.Len(t, jobs, 2)
	assert.Equal(t, "Backend Software Engineer", jobs[0].Title)
	assert.Equal(t, "Acme", jobs[0].Company)
	assert.Equal(t, "Worldwide", jobs[0].Location)
	assert.Equal(t, "RemoteOK", jobs[0].Source)

	//apply_url fills in when url is missing, empty location defaults to Remote
	assert.Equal(t, "https://remoteok.com/jobs/3", jobs[1].URL)
	assert.Equal(t, "Remote", jobs[1].Location)
}

func TestScrapeRespectsMaxResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feed))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxResultsPerSource = 1

	s := NewWithURL(cfg, scraper.NewClient(), server.URL)
	jobs, err := s.Scrape(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestScrapeEmptyFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"legal": "terms"}]`))
	}))
	defer server.Close()

	s := NewWithURL(testConfig(), scraper.NewClient(), server.URL)
	jobs, err := s.Scrape(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestScrapeBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	s := NewWithURL(testConfig(), scraper.NewClient(), server.URL)
	_, err := s.Scrape(context.Background())
	assert.Error(t, err)
}
