package remotive

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"jobscout/internal/config"
	"jobscout/internal/models"
	"jobscout/internal/scraper"
)

const apiURL = "https://remotive.com/api/remote-jobs"

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	Title           string `json:"title"`
	CompanyName     string `json:"company_name"`
	URL             string `json:"url"`
	Description     string `json:"description"`
	Location        string `json:"candidate_required_location"`
	PublicationDate string `json:"publication_date"`
}

type Scraper struct {
	cfg    *config.Config
	client *scraper.Client
	url    string
}

func New(cfg *config.Config, client *scraper.Client) *Scraper {
	return &Scraper{cfg: cfg, client: client, url: apiURL}
}

// NewWithURL is used by tests to point the scraper at a stub server.
func NewWithURL(cfg *config.Config, client *scraper.Client, url string) *Scraper {
	return &Scraper{cfg: cfg, client: client, url: url}
}

func (s *Scraper) Name() string {
	return "Remotive"
}

func (s *Scraper) Scrape(ctx context.Context) ([]models.Job, error) {
	body, err := s.client.Get(ctx, s.url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, fmt.Errorf("remotive fetch: %w", err)
	}

	var payload remotiveResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("remotive parse: %w", err)
	}

	var jobs []models.Job
	for _, item := range payload.Jobs {
		if !scraper.MatchesAny(item.Title+" "+item.Description, s.cfg.SearchTerms) {
			continue
		}

		location := strings.TrimSpace(item.Location)
		if location == "" {
			location = "Remote"
		}

		jobs = append(jobs, models.Job{
			Title:       strings.TrimSpace(item.Title),
			Company:     strings.TrimSpace(item.CompanyName),
			Location:    location,
			URL:         strings.TrimSpace(item.URL),
			Description: strings.TrimSpace(item.Description),
			PostedDate:  strings.TrimSpace(item.PublicationDate),
			Source:      s.Name(),
		})

		if len(jobs) >= s.cfg.MaxResultsPerSource {
			break
		}
	}

	log.Printf("📋 Remotive: %d jobs after keyword pre-filter", len(jobs))
	return jobs, nil
}
