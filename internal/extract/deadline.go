package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

//Cue phrases that must appear before any deadline pattern is tried.
//Without one of these the text almost certainly has no deadline and the
//date patterns would just pick up noise.
var deadlineCues = []string{"deadline", "closes", "closing", "apply by", "due date", "last date"}

var deadlinePatterns = []*regexp.Regexp{
	//"Apply by Jan 15, 2024", "Deadline: Feb 20, 2024"
	regexp.MustCompile(`(?i)(?:apply\s+by|deadline|closes?|closing|due\s+date)[:\s]+([A-Za-z]{3,9}\s+\d{1,2},?\s+\d{4})`),
	//"Deadline: 15/01/2024", "Apply by 01-15-2024"
	regexp.MustCompile(`(?i)(?:apply\s+by|deadline|closes?|closing|due\s+date)[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
	//"Apply before Jan 15", "Deadline: Feb 20" (year defaults to current)
	regexp.MustCompile(`(?i)(?:apply\s+before|deadline|closes?|closing)[:\s]+([A-Za-z]{3,9}\s+\d{1,2})`),
	//"Last date: 15th Jan 2024" (ordinal suffix stripped before parsing)
	regexp.MustCompile(`(?i)last\s+date[:\s]+(\d{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]{3,9},?\s+\d{4})`),
}

//"Applications close in 5 days", "Deadline in 2 weeks"
var relativeDeadlineRe = regexp.MustCompile(`(?i)(?:closes?|deadline|closing)\s+in\s+(\d+)\s+(days?|weeks?|months?)`)

var ordinalSuffixRe = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)

var deadlineLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2/1/2006",
	"1/2/2006",
	"2006-01-02",
	"2-1-2006",
	"1-2-2006",
	"January 2",
	"Jan 2",
}

// Deadline extracts an application deadline from free text, normalized to
// YYYY-MM-DD. Returns "" when no cue phrase is present or nothing parses.
func Deadline(text string) string {
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	hasCue := false
	for _, cue := range deadlineCues {
		if strings.Contains(lower, cue) {
			hasCue = true
			break
		}
	}
	if !hasCue {
		return ""
	}

	//relative offsets first resolve against the clock, not a calendar date
	if m := relativeDeadlineRe.FindStringSubmatch(text); m != nil {
		if d, ok := relativeDeadline(m[1], m[2]); ok {
			return d.Format("2006-01-02")
		}
	}

	for _, re := range deadlinePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if d, ok := parseDeadlineDate(m[1]); ok {
				return d.Format("2006-01-02")
			}
		}
	}
	return ""
}

// DaysUntil returns the signed number of days from now to an ISO deadline.
// Negative means the deadline has passed. ok is false for malformed input.
func DaysUntil(deadline string) (days int, ok bool) {
	if deadline == "" {
		return 0, false
	}
	d, err := time.Parse("2006-01-02", deadline)
	if err != nil {
		return 0, false
	}
	return int(math.Floor(time.Until(d).Hours() / 24)), true
}

func parseDeadlineDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	candidates := []string{s, ordinalSuffixRe.ReplaceAllString(s, "$1")}
	for _, c := range candidates {
		for _, layout := range deadlineLayouts {
			d, err := time.Parse(layout, c)
			if err != nil {
				continue
			}
			//a parsed year below 2000 means no explicit year was present
			if d.Year() < 2000 {
				d = time.Date(time.Now().Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
			}
			return d, true
		}
	}
	return time.Time{}, false
}

func relativeDeadline(amount, unit string) (time.Time, bool) {
	n, err := strconv.Atoi(amount)
	if err != nil {
		return time.Time{}, false
	}
	now := time.Now()
	switch {
	case strings.HasPrefix(strings.ToLower(unit), "day"):
		return now.AddDate(0, 0, n), true
	case strings.HasPrefix(strings.ToLower(unit), "week"):
		return now.AddDate(0, 0, n*7), true
	case strings.HasPrefix(strings.ToLower(unit), "month"):
		return now.AddDate(0, 0, n*30), true
	}
	return time.Time{}, false
}
