package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

//salaryPattern pairs one regex with the currency it implies.
//Patterns are tried in order; the first match with parseable non-zero
//amounts wins.
type salaryPattern struct {
	re       *regexp.Regexp
	currency string
}

var salaryPatterns = []salaryPattern{
	//USD: $80k-120k, $80,000-$120,000
	{regexp.MustCompile(`(?i)\$(\d+[kK]?)\s*[-–—]\s*\$?(\d+[kK]?)`), "USD"},
	{regexp.MustCompile(`(?i)\$(\d{1,3}(?:,\d{3})*)\s*[-–—]\s*\$?(\d{1,3}(?:,\d{3})*)`), "USD"},
	//INR: ₹15-25 LPA, 15-25 LPA, 15 LPA
	{regexp.MustCompile(`(?i)₹?(\d+)\s*[-–—]\s*(\d+)\s*LPA`), "INR"},
	{regexp.MustCompile(`(?i)₹?(\d+)\s*LPA`), "INR"},
	//EUR: €50k-70k, €50,000-70,000
	{regexp.MustCompile(`(?i)€(\d+[kK]?)\s*[-–—]\s*€?(\d+[kK]?)`), "EUR"},
	{regexp.MustCompile(`(?i)€(\d{1,3}(?:,\d{3})*)\s*[-–—]\s*€?(\d{1,3}(?:,\d{3})*)`), "EUR"},
	//GBP: £40k-60k, £40,000-60,000
	{regexp.MustCompile(`(?i)£(\d+[kK]?)\s*[-–—]\s*£?(\d+[kK]?)`), "GBP"},
	{regexp.MustCompile(`(?i)£(\d{1,3}(?:,\d{3})*)\s*[-–—]\s*£?(\d{1,3}(?:,\d{3})*)`), "GBP"},
	//No currency symbol: 80k-120k, assume USD. RE2 has no lookbehind, so a
	//non-capturing prefix keeps "$80k-120k" away from this fallback.
	{regexp.MustCompile(`(?i)(?:^|[^$€£₹])(\d+[kK])\s*[-–—]\s*(\d+[kK])`), "USD"},
	{regexp.MustCompile(`(?:^|[^$€£₹])(\d{1,3}(?:,\d{3})*)\s*[-–—]\s*(\d{1,3}(?:,\d{3})*)`), "USD"},
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
}

// Salary extracts a normalized salary range from free text, e.g.
// "$80k-120k" or "₹15.0-25.0 LPA". Returns "" when nothing parseable is
// found; extraction is best-effort and never fails hard.
func Salary(text string) string {
	if text == "" {
		return ""
	}

	for _, p := range salaryPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			if out := formatSalaryMatch(m[1:], p.currency); out != "" {
				return out
			}
		}
	}
	return ""
}

func formatSalaryMatch(groups []string, currency string) string {
	switch len(groups) {
	case 2:
		min, okMin := normalizeAmount(groups[0])
		max, okMax := normalizeAmount(groups[1])
		if !okMin || !okMax {
			return ""
		}
		if currency == "INR" {
			//LPA convention: 1 lakh = 100,000. Plain numbers are already
			//lakhs, raw rupee amounts get converted.
			if min >= 1000 {
				min /= 100000
				max /= 100000
			}
			return fmt.Sprintf("₹%.1f-%.1f LPA", min, max)
		}
		symbol := currencySymbols[currency]
		if min >= 1000 {
			return fmt.Sprintf("%s%.0fk-%.0fk", symbol, min/1000, max/1000)
		}
		return fmt.Sprintf("%s%.0f-%.0f", symbol, min, max)
	case 1:
		amount, ok := normalizeAmount(groups[0])
		if !ok {
			return ""
		}
		if currency == "INR" {
			if amount >= 1000 {
				amount /= 100000
			}
			return fmt.Sprintf("₹%.1f LPA", amount)
		}
		symbol := currencySymbols[currency]
		if amount >= 1000 {
			return fmt.Sprintf("%s%.0fk", symbol, amount/1000)
		}
		return fmt.Sprintf("%s%.0f", symbol, amount)
	}
	return ""
}

//normalizeAmount parses "80", "80k" or "80,000" into a number. A zero or
//unparseable amount is rejected so the next pattern gets a chance.
func normalizeAmount(s string) (float64, bool) {
	s = strings.ToUpper(strings.ReplaceAll(s, ",", ""))
	multiplier := 1.0
	if strings.HasSuffix(s, "K") {
		s = strings.TrimSuffix(s, "K")
		multiplier = 1000
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v * multiplier, true
}
