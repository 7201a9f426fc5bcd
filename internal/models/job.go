package models

import (
	"net/url"
	"strings"
)

// Job is one raw posting as produced by a source scraper.
// URL is the identity key used for deduplication.
type Job struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Experience  string `json:"experience"`
	Description string `json:"description"`
	PostedDate  string `json:"posted_date"`
	Source      string `json:"source"`
}

// Valid reports whether the record is usable downstream: a non-empty title
// and an absolute http(s) URL. Anything else is dropped at the ingestion
// boundary and counted as malformed.
func (j Job) Valid() bool {
	if strings.TrimSpace(j.Title) == "" {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(j.URL))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Freshness buckets derived from days since posted.
const (
	FreshnessFresh    = "Fresh"
	FreshnessRecent   = "Recent"
	FreshnessModerate = "Moderate"
	FreshnessOld      = "Old"
	FreshnessUnknown  = "Unknown"
)

// Company quality tiers used as a scoring signal.
const (
	TierFAANG      = "FAANG"
	TierUnicorn    = "unicorn"
	TierWellFunded = "well_funded"
)

// ScoreBreakdown holds the per-component points of a composite score.
type ScoreBreakdown struct {
	Recency int `json:"recency"`
	Company int `json:"company"`
	Salary  int `json:"salary"`
	Skills  int `json:"skills"`
}

// ScoredJob decorates a Job with computed ranking fields. The embedded Job
// is never mutated by scoring.
type ScoredJob struct {
	Job

	PriorityScore     int            `json:"priority_score"`
	DaysSincePosted   *int           `json:"days_since_posted,omitempty"`
	Freshness         string         `json:"freshness"`
	Salary            string         `json:"salary,omitempty"`
	Deadline          string         `json:"deadline,omitempty"`
	DaysUntilDeadline *int           `json:"days_until_deadline,omitempty"`
	SkillsMatchPct    float64        `json:"skills_match_pct"`
	CompanyTier       string         `json:"company_tier,omitempty"`
	Breakdown         ScoreBreakdown `json:"breakdown"`
}
