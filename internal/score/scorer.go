package score

import (
	"math"
	"regexp"
	"strings"

	"jobscout/internal/config"
	"jobscout/internal/extract"
	"jobscout/internal/models"
)

//Component caps of the composite score.
const (
	maxScore = 100

	recencyFresh    = 40 //posted within 24h
	recencyThreeDay = 30
	recencyWeek     = 20
	recencyTwoWeek  = 10

	tierScoreFAANG      = 30
	tierScoreUnicorn    = 25
	tierScoreWellFunded = 15

	salaryScore = 20
)

// Scorer computes composite priority scores from recency, company quality,
// salary presence and skills match. CalculateScore never fails; a component
// that cannot be computed contributes zero.
type Scorer struct {
	tiers  *TierTable
	skills []*regexp.Regexp
	vocab  int //vocabulary size, duplicates included
}

func NewScorer(cfg *config.Config, tiers *TierTable) *Scorer {
	s := &Scorer{tiers: tiers}
	for _, skill := range cfg.Skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		//word-boundary match so "go" does not fire inside "category"
		s.skills = append(s.skills, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(strings.ToLower(skill))+`\b`))
		s.vocab++
	}
	return s
}

// CalculateScore decorates a job with its priority score and the extracted
// ranking signals. The input record's fields are copied, never mutated.
func (s *Scorer) CalculateScore(job models.Job) models.ScoredJob {
	scored := models.ScoredJob{Job: job}
	text := job.Title + " " + job.Description

	//1. recency (0-40)
	scored.DaysSincePosted = daysSincePosted(job.PostedDate)
	scored.Freshness = FreshnessFor(scored.DaysSincePosted)
	scored.Breakdown.Recency = recencyPoints(scored.DaysSincePosted)

	//2. company quality (0-30)
	scored.CompanyTier = s.tiers.Lookup(job.Company)
	scored.Breakdown.Company = tierPoints(scored.CompanyTier)

	//3. salary presence (0-20)
	scored.Salary = extract.Salary(text)
	if scored.Salary != "" {
		scored.Breakdown.Salary = salaryScore
	}

	//4. skills match (0-10)
	scored.SkillsMatchPct = s.skillsMatchPct(text)
	scored.Breakdown.Skills = int(scored.SkillsMatchPct / 10)

	//deadline is informational, not scored
	scored.Deadline = extract.Deadline(text)
	if scored.Deadline != "" {
		if days, ok := extract.DaysUntil(scored.Deadline); ok {
			scored.DaysUntilDeadline = &days
		}
	}

	total := scored.Breakdown.Recency + scored.Breakdown.Company + scored.Breakdown.Salary + scored.Breakdown.Skills
	if total > maxScore {
		total = maxScore
	}
	scored.PriorityScore = total

	return scored
}

//skillsMatchPct is the share of the configured vocabulary found in the text,
//rounded to one decimal. Duplicate vocabulary entries inflate numerator and
//denominator alike, so relative ranking is unaffected.
func (s *Scorer) skillsMatchPct(text string) float64 {
	if s.vocab == 0 {
		return 0
	}

	matched := 0
	for _, re := range s.skills {
		if re.MatchString(text) {
			matched++
		}
	}

	pct := float64(matched) / float64(s.vocab) * 100
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*10) / 10
}

func recencyPoints(days *int) int {
	if days == nil {
		return 0
	}
	switch {
	case *days <= 1:
		return recencyFresh
	case *days <= 3:
		return recencyThreeDay
	case *days <= 7:
		return recencyWeek
	case *days <= 14:
		return recencyTwoWeek
	default:
		return 0
	}
}

func tierPoints(tier string) int {
	switch tier {
	case models.TierFAANG:
		return tierScoreFAANG
	case models.TierUnicorn:
		return tierScoreUnicorn
	case models.TierWellFunded:
		return tierScoreWellFunded
	default:
		return 0
	}
}
