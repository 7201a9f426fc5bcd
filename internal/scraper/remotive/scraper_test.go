package remotive

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

const payload = `{
  "jobs": [
    {"title": "Software Engineer, Platform", "company_name": "Acme",
     "url": "https://remotive.com/remote-jobs/software-dev/1",
     "description": "Distributed systems work", "candidate_required_location": "India",
     "publication_date": "2026-08-29T10:00:00"},
    {"title": "Growth Marketer", "company_name": "AdCo",
     "url": "https://remotive.com/remote-jobs/marketing/2",
     "description": "Run campaigns", "publication_date": "2026-08-29T10:00:00"}
  ]
}`

func testConfig() *config.Config {
	return &config.Config{
		SearchTerms:         []string{"software engineer"},
		MaxResultsPerSource: 200,
	}
}

func TestScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer server.Close()

	s := NewWithURL(testConfig(), scraper.NewClient(), server.URL)
	jobs, err := s.Scrape(context.Background())
	require.NoError(t, err)

	require.Len(t, jobs, 1)
	assert.Equal(t, "Software Engineer, Platform", jobs[0].Title)
	assert.Equal(t, "Acme", jobs[0].Company)
	assert.Equal(t, "India", jobs[0].Location)
	assert.Equal(t, "2026-08-29T10:00:00", jobs[0].PostedDate)
	assert.Equal(t, "Remotive", jobs[0].Source)
}

func TestScrapeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewWithURL(testConfig(), scraper.NewClient(), server.URL)
	_, err := s.Scrape(context.Background())
	assert.Error(t, err)
}
