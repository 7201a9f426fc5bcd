package score

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/config"
	"jobscout/internal/models"
)

func writeCompanies(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.json")
	data := `{
		"Google": {"tier": "FAANG"},
		"Amazon": {"tier": "FAANG"},
		"Stripe": {"tier": "unicorn"},
		"Postman": {"tier": "well_funded"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func testScorer(t *testing.T, skills []string) *Scorer {
	t.Helper()
	tiers := LoadTierTable(writeCompanies(t))
	return NewScorer(&config.Config{Skills: skills}, tiers)
}

func TestCalculateScoreComposite(t *testing.T) {
	s := testScorer(t, []string{"python", "docker", "kubernetes", "aws"})

	job := models.Job{
		Title:       "Software Engineer",
		Company:     "Google",
		URL:         "https://example.com/jobs/1",
		Description: "python and docker experience, salary $90k-110k",
		PostedDate:  "2 days ago",
	}

	scored := s.CalculateScore(job)

	assert.Equal(t, 30, scored.Breakdown.Recency)
	assert.Equal(t, 30, scored.Breakdown.Company)
	assert.Equal(t, 20, scored.Breakdown.Salary)
	assert.Equal(t, 5, scored.Breakdown.Skills) //2 of 4 skills = 50% => 5 pts
	assert.Equal(t, 85, scored.PriorityScore)

	assert.Equal(t, "$90k-110k", scored.Salary)
	assert.Equal(t, models.TierFAANG, scored.CompanyTier)
	require.NotNil(t, scored.DaysSincePosted)
	assert.Equal(t, 2, *scored.DaysSincePosted)
	assert.Equal(t, models.FreshnessRecent, scored.Freshness)
	assert.Equal(t, 50.0, scored.SkillsMatchPct)

	//input record untouched
	assert.Equal(t, job, scored.Job)
}

func TestCalculateScoreDefaults(t *testing.T) {
	s := testScorer(t, nil)

	//no posted date, unknown company, no salary, empty vocabulary
	scored := s.CalculateScore(models.Job{
		Title: "Software Engineer",
		URL:   "https://example.com/jobs/2",
	})

	assert.Equal(t, 0, scored.PriorityScore)
	assert.Nil(t, scored.DaysSincePosted)
	assert.Equal(t, models.FreshnessUnknown, scored.Freshness)
	assert.Empty(t, scored.Salary)
	assert.Empty(t, scored.Deadline)
	assert.Nil(t, scored.DaysUntilDeadline)
	assert.Empty(t, scored.CompanyTier)
}

func TestScoreBounds(t *testing.T) {
	s := testScorer(t, []string{"go"})

	jobs := []models.Job{
		{Title: "Software Engineer", Company: "Google", Description: "go, $90k-110k salary", PostedDate: time.Now().Format("2006-01-02")},
		{Title: "Engineer", Company: "Nobody", Description: ""},
		{Title: "Engineer", Company: "Stripe", Description: "go", PostedDate: "30 days ago"},
	}

	for _, job := range jobs {
		scored := s.CalculateScore(job)
		assert.GreaterOrEqual(t, scored.PriorityScore, 0)
		assert.LessOrEqual(t, scored.PriorityScore, 100)

		sum := scored.Breakdown.Recency + scored.Breakdown.Company + scored.Breakdown.Salary + scored.Breakdown.Skills
		expected := sum
		if expected > 100 {
			expected = 100
		}
		assert.Equal(t, expected, scored.PriorityScore)
	}
}

func TestRecencyPoints(t *testing.T) {
	tests := []struct {
		days     int
		expected int
	}{
		{0, 40}, {1, 40}, {2, 30}, {3, 30}, {5, 20}, {7, 20}, {10, 10}, {14, 10}, {15, 0}, {90, 0},
	}

	for _, tt := range tests {
		d := tt.days
		assert.Equal(t, tt.expected, recencyPoints(&d), fmt.Sprintf("days=%d", tt.days))
	}
	assert.Equal(t, 0, recencyPoints(nil))
}

func TestFreshnessMonotonic(t *testing.T) {
	order := map[string]int{
		models.FreshnessFresh:    0,
		models.FreshnessRecent:   1,
		models.FreshnessModerate: 2,
		models.FreshnessOld:      3,
	}

	prev := -1
	for d := 0; d <= 60; d++ {
		days := d
		bucket := FreshnessFor(&days)
		rank, ok := order[bucket]
		assert.True(t, ok, bucket)
		assert.GreaterOrEqual(t, rank, prev, fmt.Sprintf("freshness regressed at day %d", d))
		prev = rank
	}

	assert.Equal(t, models.FreshnessUnknown, FreshnessFor(nil))
}

func TestTierTableLookup(t *testing.T) {
	tiers := LoadTierTable(writeCompanies(t))

	tests := []struct {
		company  string
		expected string
	}{
		{"Google", models.TierFAANG},
		{"google", models.TierFAANG},
		{"GOOGLE", models.TierFAANG},
		{"Amazon Dev Center India", models.TierFAANG}, //substring containment
		{"Stripe", models.TierUnicorn},
		{"Postman", models.TierWellFunded},
		{"Acme Corp", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tiers.Lookup(tt.company), tt.company)
	}
}

func TestTierTableMissingFile(t *testing.T) {
	tiers := LoadTierTable(filepath.Join(t.TempDir(), "nope.json"))
	assert.Empty(t, tiers.Lookup("Google"))
}

func TestParsePostedDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"iso", "2024-01-15", true},
		{"iso with time", "2024-01-15 10:30:00", true},
		{"rfc3339", "2024-01-15T10:30:00Z", true},
		{"month name", "Jan 15, 2024", true},
		{"relative days", "2 days ago", true},
		{"relative weeks", "1 week ago", true},
		{"garbage", "Recent", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parsePostedDate(tt.in)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
