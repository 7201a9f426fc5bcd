package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/models"
)

func sampleJob(url string) models.ScoredJob {
	days := 2
	return models.ScoredJob{
		Job: models.Job{
			Title:       "Backend Engineer",
			Company:     "Acme",
			Location:    "Remote",
			URL:         url,
			PostedDate:  "2026-08-29",
			Source:      "RemoteOK",
			Description: "Build services in Go",
		},
		PriorityScore:   85,
		DaysSincePosted: &days,
		Freshness:       models.FreshnessFresh,
		Salary:          "$90k-110k",
		SkillsMatchPct:  50.0,
	}
}

func TestWriteAndReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "jobs.csv"), filepath.Join(dir, "history"))

	job := sampleJob("https://remoteok.com/jobs/1")
	require.NoError(t, s.WriteJobs([]models.ScoredJob{job}, false))

	rows, err := s.ReadRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.Equal(t, "Backend Engineer", got.Title)
	assert.Equal(t, "https://remoteok.com/jobs/1", got.URL)
	assert.Equal(t, 85, got.PriorityScore)
	require.NotNil(t, got.DaysSincePosted)
	assert.Equal(t, 2, *got.DaysSincePosted)
	assert.Equal(t, 50.0, got.SkillsMatchPct)
	assert.Equal(t, "Yes", got.ReadyToApply)
	assert.Equal(t, models.StatusNotApplied, got.Status)
}

func TestExistingURLs(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "jobs.csv"), filepath.Join(dir, "history"))

	//missing file yields an empty set, not an error
	urls, err := s.ExistingURLs()
	require.NoError(t, err)
	assert.Empty(t, urls)

	require.NoError(t, s.WriteJobs([]models.ScoredJob{
		sampleJob("https://remoteok.com/jobs/1"),
		sampleJob("https://remotive.com/jobs/2"),
	}, false))

	urls, err = s.ExistingURLs()
	require.NoError(t, err)
	assert.True(t, urls["https://remoteok.com/jobs/1"])
	assert.True(t, urls["https://remotive.com/jobs/2"])
	assert.False(t, urls["https://example.com/other"])
}

func TestAppendModeKeepsExistingRows(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "jobs.csv"), filepath.Join(dir, "history"))

	require.NoError(t, s.WriteJobs([]models.ScoredJob{sampleJob("https://remoteok.com/jobs/1")}, false))
	require.NoError(t, s.WriteJobs([]models.ScoredJob{sampleJob("https://remotive.com/jobs/2")}, true))

	rows, err := s.ReadRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	//only one header line in the file
	data, err := os.ReadFile(s.OutputFile())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "Job Title"))
}

func TestSanitizeFormulaInjection(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"equals prefix", "=SUM(A1:A9)", "'=SUM(A1:A9)"},
		{"plus prefix", "+1234", "'+1234"},
		{"at prefix", "@cmd", "'@cmd"},
		{"minus prefix", "-rf", "'-rf"},
		{"plain text", "Backend Engineer", "Backend Engineer"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize(tt.value))
		})
	}
}

func TestDescriptionTruncated(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "jobs.csv"), filepath.Join(dir, "history"))

	job := sampleJob("https://remoteok.com/jobs/1")
	job.Description = strings.Repeat("x", 600)
	require.NoError(t, s.WriteJobs([]models.ScoredJob{job}, false))

	rows, err := s.ReadRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].Description, maxDescriptionLength+3)
	assert.True(t, strings.HasSuffix(rows[0].Description, "..."))
}

func TestUpdateStatuses(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "jobs.csv"), filepath.Join(dir, "history"))

	require.NoError(t, s.WriteJobs([]models.ScoredJob{
		sampleJob("https://remoteok.com/jobs/1"),
		sampleJob("https://remotive.com/jobs/2"),
		sampleJob("https://remotive.com/jobs/3"),
	}, false))

	results := []models.ApplicationResult{
		{URL: "https://remoteok.com/jobs/1", Success: true, Method: models.MethodAPI},
		{URL: "https://remotive.com/jobs/2", Success: false, Method: models.MethodBrowser, Error: "form changed", ErrorCategory: models.ErrCategoryFormChanged},
	}
	require.NoError(t, s.UpdateStatuses(results))

	rows, err := s.ReadRows()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Yes", rows[0].Applied)
	assert.Equal(t, models.StatusApplied, rows[0].Status)
	assert.Equal(t, string(models.MethodAPI), rows[0].ApplicationMethod)
	assert.NotEmpty(t, rows[0].AppliedDate)

	assert.Equal(t, "No", rows[1].Applied)
	assert.Equal(t, models.StatusFailed, rows[1].Status)
	assert.Equal(t, "form changed", rows[1].ApplicationError)

	//untouched row keeps its defaults
	assert.Equal(t, models.StatusNotApplied, rows[2].Status)
}

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "jobs.csv"), filepath.Join(dir, "history"))

	path, err := s.WriteSnapshot([]models.ScoredJob{sampleJob("https://remoteok.com/jobs/1")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "jobs_"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Backend Engineer")
}
