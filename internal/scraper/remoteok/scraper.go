package remoteok

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

const apiURL = "https://remoteok.com/api"

//remoteokItem mirrors one entry of the Remote OK public JSON feed.
type remoteokItem struct {
	Position    string   `json:"position"`
	Company     string   `json:"company"`
	URL         string   `json:"url"`
	ApplyURL    string   `json:"apply_url"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
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
	return "RemoteOK"
}

func (s *Scraper) Scrape(ctx context.Context) ([]models.Job, error) {
	body, err := s.client.Get(ctx, s.url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, fmt.Errorf("remoteok fetch: %w", err)
	}

	//the feed is a JSON array whose first element is legal/metadata, not a job
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("remoteok parse: %w", err)
	}
	if len(items) < 2 {
		return nil, nil
	}

	var jobs []models.Job
	for _, raw := range items[1:] {
		var item remoteokItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}

		url := strings.TrimSpace(item.URL)
		if url == "" {
			url = strings.TrimSpace(item.ApplyURL)
		}

		haystack := item.Position + " " + item.Description + " " + strings.Join(item.Tags, " ")
		if !scraper.MatchesAny(haystack, s.cfg.SearchTerms) {
			continue
		}

		location := strings.TrimSpace(item.Location)
		if location == "" {
			location = "Remote"
		}

		jobs = append(jobs, models.Job{
			Title:       strings.TrimSpace(item.Position),
			Company:     strings.TrimSpace(item.Company),
			Location:    location,
			URL:         url,
			Description: strings.TrimSpace(item.Description),
			PostedDate:  strings.TrimSpace(item.Date),
			Source:      s.Name(),
		})

		if len(jobs) >= s.cfg.MaxResultsPerSource {
			break
		}
	}

	log.Printf("📋 RemoteOK: %d jobs after keyword pre-filter", len(jobs))
	return jobs, nil
}
