package weworkremotely

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

const feed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>We Work Remotely: Remote Programming Jobs</title>
    <item>
      <title>Acme: Senior Backend Engineer</title>
      <link>https://weworkremotely.com/remote-jobs/acme-senior-backend-engineer</link>
      <description>Build Go services</description>
      <pubDate>Fri, 29 Aug 2026 09:00:00 +0000</pubDate>
      <region>Anywhere in the World</region>
    </item>
    <item>
      <title>Director of Engineering</title>
      <link>https://weworkremotely.com/remote-jobs/director-of-engineering</link>
      <description>Lead the team</description>
      <pubDate>Thu, 28 Aug 2026 09:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

func TestScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feed))
	}))
	defer server.Close()

	cfg := &config.Config{MaxResultsPerSource: 200}
	s := NewWithURL(cfg, scraper.NewClient(), server.URL)

	jobs, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "Acme", jobs[0].Company)
	assert.Equal(t, "Senior Backend Engineer", jobs[0].Title)
	assert.Equal(t, "Anywhere in the World", jobs[0].Location)
	assert.Equal(t, "Fri, 29 Aug 2026 09:00:00 +0000", jobs[0].PostedDate)
	assert.Equal(t, "WeWorkRemotely", jobs[0].Source)

	//title without the "Company:" prefix keeps the whole string as the title
	assert.Equal(t, "", jobs[1].Company)
	assert.Equal(t, "Director of Engineering", jobs[1].Title)
	assert.Equal(t, "Remote", jobs[1].Location)
}

func TestSplitFeedTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		company string
		job     string
	}{
		{"usual shape", "Acme: Backend Engineer", "Acme", "Backend Engineer"},
		{"extra colon stays in title", "Acme: Backend: Platform", "Acme", "Backend: Platform"},
		{"no colon", "Backend Engineer", "", "Backend Engineer"},
		{"trailing colon", "Acme:", "", "Acme:"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			company, job := splitFeedTitle(tt.title)
			assert.Equal(t, tt.company, company)
			assert.Equal(t, tt.job, job)
		})
	}
}

func TestScrapeBadXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "xml"}`))
	}))
	defer server.Close()

	cfg := &config.Config{MaxResultsPerSource: 200}
	s := NewWithURL(cfg, scraper.NewClient(), server.URL)

	_, err := s.Scrape(context.Background())
	assert.Error(t, err)
}
