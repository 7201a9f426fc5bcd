package score

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jobscout/internal/models"
)

var postedLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	"01/02/2006",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

var relativePostedRe = regexp.MustCompile(`(?i)(\d+)\s*(days?|weeks?|months?)\s*ago`)

//parsePostedDate makes a best effort at the many posted-date formats sources
//emit, including relative forms like "2 days ago".
func parsePostedDate(postedDate string) (time.Time, bool) {
	postedDate = strings.TrimSpace(postedDate)
	if postedDate == "" {
		return time.Time{}, false
	}

	for _, layout := range postedLayouts {
		if d, err := time.Parse(layout, postedDate); err == nil {
			return d, true
		}
	}

	if m := relativePostedRe.FindStringSubmatch(postedDate); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		switch {
		case strings.HasPrefix(strings.ToLower(m[2]), "day"):
			return midnight.AddDate(0, 0, -n), true
		case strings.HasPrefix(strings.ToLower(m[2]), "week"):
			return midnight.AddDate(0, 0, -n*7), true
		case strings.HasPrefix(strings.ToLower(m[2]), "month"):
			return midnight.AddDate(0, 0, -n*30), true
		}
	}

	return time.Time{}, false
}

//daysSincePosted returns nil when the date is unparseable. Future dates
//clamp to zero rather than going negative.
func daysSincePosted(postedDate string) *int {
	d, ok := parsePostedDate(postedDate)
	if !ok {
		return nil
	}
	days := int(math.Floor(time.Since(d).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return &days
}

// FreshnessFor buckets days-since-posted into a human-readable label.
func FreshnessFor(days *int) string {
	switch {
	case days == nil:
		return models.FreshnessUnknown
	case *days <= 1:
		return models.FreshnessFresh
	case *days <= 7:
		return models.FreshnessRecent
	case *days <= 14:
		return models.FreshnessModerate
	default:
		return models.FreshnessOld
	}
}
