package filter

import (
	"regexp"
	"strings"

	"jobscout/internal/config"
	"jobscout/internal/models"
)

var (
	//junior-experience cues: explicit low ranges, fresher/entry wording
	juniorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(0|zero)\s*(to|-)?\s*[1-2]\s*(years?|yrs?)\b`),
		regexp.MustCompile(`\b[1-5]\+\s*(years?|yrs?)\b`),
		regexp.MustCompile(`\b[1-5]\s*(to|-)\s*[1-9]\s*(years?|yrs?)\b`),
		regexp.MustCompile(`\bfresher\b`),
		regexp.MustCompile(`\bentry\s*level\b`),
		regexp.MustCompile(`\bjunior\b`),
	}

	//clear senior-level disqualifiers
	seniorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b[4-9]\+\s*(years?|yrs?)\b`),
		regexp.MustCompile(`\b(1[0-9]|[2-9][0-9])\+\s*(years?|yrs?)\b`),
		regexp.MustCompile(`\bsenior\b`),
		regexp.MustCompile(`\blead\b`),
		regexp.MustCompile(`\bprincipal\b`),
		regexp.MustCompile(`\barchitect\b`),
	}

	reasonableExpRegex = regexp.MustCompile(`\b([1-3])\s*(years?|yrs?)\b`)
)

// JobFilter rejects postings that do not match the configured role, the
// configured locations (optional) or the junior experience band.
type JobFilter struct {
	searchTerms      []string
	locations        []string
	experienceLevels []string
	excludeKeywords  []string
	requireLocation  bool
}

func New(cfg *config.Config) *JobFilter {
	return &JobFilter{
		searchTerms:      lowerAll(cfg.SearchTerms),
		locations:        lowerAll(cfg.Locations),
		experienceLevels: lowerAll(cfg.ExperienceLevels),
		excludeKeywords:  lowerAll(cfg.ExcludeKeywords),
		requireLocation:  cfg.RequireLocation,
	}
}

func lowerAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// MatchesRole reports whether any search term appears in title+description.
func (f *JobFilter) MatchesRole(title, description string) bool {
	text := strings.ToLower(title + " " + description)
	for _, term := range f.searchTerms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// MatchesLocation reports whether the location contains a configured
// location keyword. An empty location never matches.
func (f *JobFilter) MatchesLocation(location string) bool {
	if location == "" {
		return false
	}
	location = strings.ToLower(location)
	for _, loc := range f.locations {
		if strings.Contains(location, loc) {
			return true
		}
	}
	return false
}

// IsExperienceEligible accepts fresher/junior roles and anything without an
// explicit experience requirement. Internships are rejected unless marked
// full-time/permanent; clear senior signals are rejected.
func (f *JobFilter) IsExperienceEligible(title, description string) bool {
	text := strings.ToLower(title + " " + description)

	//internship exclusion, with full-time/permanent override
	for _, kw := range f.excludeKeywords {
		if !strings.Contains(text, kw) {
			continue
		}
		if strings.Contains(text, "full-time") || strings.Contains(text, "permanent") {
			continue
		}
		return false
	}

	//a junior cue matching a configured acceptable level wins outright
	hasJuniorCue := false
	for _, re := range juniorPatterns {
		if re.MatchString(text) {
			hasJuniorCue = true
			break
		}
	}
	if hasJuniorCue {
		for _, level := range f.experienceLevels {
			if strings.Contains(text, level) {
				return true
			}
		}
	}

	//clearly senior => reject
	for _, re := range seniorPatterns {
		if re.MatchString(text) {
			return false
		}
	}

	//no experience mention at all => eligible (might be fresher or 1+)
	if !hasJuniorCue {
		return true
	}

	//a plain "1-3 years" mention is acceptable
	if reasonableExpRegex.MatchString(text) {
		return true
	}

	//default: include if no clear exclusion
	return true
}

// FilterJob applies all gates to one record.
func (f *JobFilter) FilterJob(job models.Job) bool {
	if !job.Valid() {
		return false
	}

	//role match stays strict
	if !f.MatchesRole(job.Title, job.Description) {
		return false
	}

	//Location filtering is opt-in. Many career pages carry no usable
	//location string, so the strict gate drops valid jobs when enabled.
	if f.requireLocation && !f.MatchesLocation(job.Location) {
		return false
	}

	if !f.IsExperienceEligible(job.Title, job.Description) {
		return false
	}

	return true
}

// FilterJobs returns the order-preserving subsequence of jobs passing
// FilterJob.
func (f *JobFilter) FilterJobs(jobs []models.Job) []models.Job {
	filtered := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if f.FilterJob(job) {
			filtered = append(filtered, job)
		}
	}
	return filtered
}
