package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/config"
	"jobscout/internal/dedup"
	"jobscout/internal/filter"
	"jobscout/internal/models"
	"jobscout/internal/score"
	"jobscout/internal/scraper"
	"jobscout/internal/store"
)

type fakeSource struct {
	name string
	jobs []models.Job
	err  error
}

func (f *fakeSource) Name() string { return f.name }
func (f *fakeSource) Scrape(context.Context) ([]models.Job, error) {
	return f.jobs, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		SearchTerms:      []string{"software engineer", "backend engineer"},
		ExperienceLevels: []string{"fresher", "0-1 years", "1-3 years"},
		ExcludeKeywords:  []string{"intern", "internship"},
		Skills:           []string{"go", "python", "docker", "kubernetes"},
	}
}

func testPipeline(t *testing.T, sources []scraper.Source) (*Pipeline, *store.Store) {
	t.Helper()
	dir := t.TempDir()

	cfg := testConfig()
	st := store.New(filepath.Join(dir, "jobs.csv"), filepath.Join(dir, "history"))
	seen := dedup.NewFileStore(filepath.Join(dir, "cache"))
	t.Cleanup(func() { seen.Close() })

	scorer := score.NewScorer(cfg, score.LoadTierTable(filepath.Join(dir, "missing.json")))
	p := New(sources, filter.New(cfg), scorer, st, seen, nil, filepath.Join(dir, "failures.csv"))
	return p, st
}

func job(title, url, posted string) models.Job {
	return models.Job{
		Title:       title,
		Company:     "Acme",
		URL:         url,
		PostedDate:  posted,
		Description: "We build backends in go and python",
		Source:      "Fake",
	}
}

func TestRunEndToEnd(t *testing.T) {
	sources := []scraper.Source{
		&fakeSource{name: "one", jobs: []models.Job{
			job("Backend Engineer", "https://example.com/jobs/1", "1 days ago"),
			job("Senior Backend Engineer", "https://example.com/jobs/2", "1 days ago"),
			job("Backend Engineer", "https://example.com/jobs/1", "1 days ago"),
		}},
		&fakeSource{name: "two", jobs: []models.Job{
			job("Software Engineer", "https://example.com/jobs/3", "20 days ago"),
			job("Chef", "https://example.com/jobs/4", "1 days ago"),
		}},
		&fakeSource{name: "broken", err: errors.New("boom")},
	}

	p, st := testPipeline(t, sources)
	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	//senior role and chef filtered out, duplicate and failing source dropped
	require.Len(t, summary.PerSource, 3)
	assert.Equal(t, 3, summary.PerSource[0].Scraped)
	assert.Equal(t, 2, summary.PerSource[0].Kept)
	assert.Error(t, summary.PerSource[2].Err)
	assert.Equal(t, 5, summary.Scraped)
	assert.Equal(t, 3, summary.Filtered)
	assert.Equal(t, 1, summary.Dropped)

	require.Len(t, summary.New, 2)
	//fresher job scores higher and ranks first
	assert.Equal(t, "https://example.com/jobs/1", summary.New[0].URL)
	assert.Equal(t, "https://example.com/jobs/3", summary.New[1].URL)
	assert.Greater(t, summary.New[0].PriorityScore, summary.New[1].PriorityScore)

	rows, err := st.ReadRows()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRunSecondPassFindsNothingNew(t *testing.T) {
	src := &fakeSource{name: "one", jobs: []models.Job{
		job("Backend Engineer", "https://example.com/jobs/1", "1 days ago"),
	}}

	p, _ := testPipeline(t, []scraper.Source{src})

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, first.New, 1)

	second, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second.New)
	assert.Equal(t, 1, second.Dropped)
}

func TestRunTieBreaksOnRecency(t *testing.T) {
	//same score, younger posting first, unknown date last
	src := &fakeSource{name: "one", jobs: []models.Job{
		job("Backend Engineer", "https://example.com/jobs/nodate", ""),
		job("Backend Engineer", "https://example.com/jobs/young", "16 days ago"),
		job("Backend Engineer", "https://example.com/jobs/old", "30 days ago"),
	}}

	p, _ := testPipeline(t, []scraper.Source{src})
	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.New, 3)
	assert.Equal(t, "https://example.com/jobs/young", summary.New[0].URL)
	assert.Equal(t, "https://example.com/jobs/old", summary.New[1].URL)
	assert.Equal(t, "https://example.com/jobs/nodate", summary.New[2].URL)
}
