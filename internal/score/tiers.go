package score

import (
	"encoding/json"
	"log"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//companyMeta mirrors one entry of the companies metadata JSON file.
type companyMeta struct {
	Tier string `json:"tier"`
}

// TierTable maps company display names to a quality tier
// (FAANG/unicorn/well_funded). Loaded once, read-only afterwards.
type TierTable struct {
	tiers map[string]string //normalized name -> tier
	names []string          //normalized names, for substring fallback
}

// LoadTierTable reads the companies metadata file. A missing or broken file
// disables the company-quality signal instead of failing the run.
func LoadTierTable(path string) *TierTable {
	table := &TierTable{tiers: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️ Companies metadata not available (%v). Company scoring disabled.", err)
		return table
	}

	var raw map[string]companyMeta
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("⚠️ Failed to parse companies metadata: %v. Company scoring disabled.", err)
		return table
	}

	for name, meta := range raw {
		if meta.Tier == "" {
			continue
		}
		key := normalizeCompany(name)
		if key == "" {
			continue
		}
		table.tiers[key] = meta.Tier
		table.names = append(table.names, key)
	}
	return table
}

// Lookup resolves a company name to its tier, trying case-insensitive
// equality first, then substring containment in both directions
// ("Amazon Dev Center" -> "Amazon"). Returns "" when unknown.
func (t *TierTable) Lookup(company string) string {
	if company == "" || len(t.tiers) == 0 {
		return ""
	}

	key := normalizeCompany(company)
	if tier, ok := t.tiers[key]; ok {
		return tier
	}

	for _, name := range t.names {
		if strings.Contains(key, name) || strings.Contains(name, key) {
			return t.tiers[name]
		}
	}
	return ""
}

//normalizeCompany lowercases and strips diacritics so "Société" and
//"societe" resolve to the same entry.
func normalizeCompany(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, name)
	if err != nil {
		result = name
	}
	return strings.ToLower(strings.TrimSpace(result))
}
