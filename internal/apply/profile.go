package apply

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Profile holds the candidate data poured into application forms.
type Profile struct {
	FullName    string `json:"full_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	LinkedInURL string `json:"linkedin_url"`
	GithubURL   string `json:"github_url"`
	ResumePath  string `json:"resume_path"`
	Skills      string `json:"skills"`
	Experience  string `json:"years_of_experience"`
	CoverLetter string `json:"cover_letter"`
}

func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("profile file not found: %s (copy the template and fill in your details)", path)
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("invalid profile JSON in %s: %w", path, err)
	}

	if err := profile.validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *Profile) validate() error {
	var missing []string
	if strings.TrimSpace(p.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if strings.TrimSpace(p.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("profile missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// FieldValue maps a form field name to the matching profile value.
// Unknown fields return ok=false so callers can keep the form's default.
func (p *Profile) FieldValue(fieldName string) (string, bool) {
	name := strings.ToLower(fieldName)
	switch {
	case strings.Contains(name, "email"):
		return p.Email, true
	case strings.Contains(name, "first") && strings.Contains(name, "name"):
		return p.FirstName, true
	case strings.Contains(name, "last") && strings.Contains(name, "name"):
		return p.LastName, true
	case strings.Contains(name, "name"):
		return p.FullName, true
	case strings.Contains(name, "phone") || strings.Contains(name, "tel"):
		return p.Phone, true
	case strings.Contains(name, "location") || strings.Contains(name, "city"):
		return p.Location, true
	case strings.Contains(name, "linkedin"):
		return p.LinkedInURL, true
	case strings.Contains(name, "github") || strings.Contains(name, "portfolio"):
		return p.GithubURL, true
	case strings.Contains(name, "cover") || strings.Contains(name, "letter") || strings.Contains(name, "message"):
		return p.CoverLetter, true
	case strings.Contains(name, "experience") || strings.Contains(name, "years"):
		return p.Experience, true
	case strings.Contains(name, "skills"):
		return p.Skills, true
	}
	return "", false
}
