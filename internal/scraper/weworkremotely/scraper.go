package weworkremotely

import (
	"context"
	"encoding/xml"
	"fmt"
	"log"
	"strings"

	"jobscout/internal/config"
	"jobscout/internal/models"
	"jobscout/internal/scraper"
)

const feedURL = "https://weworkremotely.com/categories/remote-programming-jobs.rss"

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Region      string `xml:"region"`
}

type Scraper struct {
	cfg    *config.Config
	client *scraper.Client
	url    string
}

func New(cfg *config.Config, client *scraper.Client) *Scraper {
	return &Scraper{cfg: cfg, client: client, url: feedURL}
}

// NewWithURL is used by tests to point the scraper at a stub server.
func NewWithURL(cfg *config.Config, client *scraper.Client, url string) *Scraper {
	return &Scraper{cfg: cfg, client: client, url: url}
}

func (s *Scraper) Name() string {
	return "WeWorkRemotely"
}

func (s *Scraper) Scrape(ctx context.Context) ([]models.Job, error) {
	body, err := s.client.Get(ctx, s.url, map[string]string{
		"Accept": "application/rss+xml, application/xml;q=0.9, */*;q=0.8",
	})
	if err != nil {
		return nil, fmt.Errorf("weworkremotely fetch: %w", err)
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("weworkremotely parse: %w", err)
	}

	var jobs []models.Job
	for _, item := range feed.Channel.Items {
		//feed titles look like "Company: Job title"
		company, title := splitFeedTitle(item.Title)

		location := strings.TrimSpace(item.Region)
		if location == "" {
			location = "Remote"
		}

		jobs = append(jobs, models.Job{
			Title:       title,
			Company:     company,
			Location:    location,
			URL:         strings.TrimSpace(item.Link),
			Description: strings.TrimSpace(item.Description),
			PostedDate:  strings.TrimSpace(item.PubDate),
			Source:      s.Name(),
		})

		if len(jobs) >= s.cfg.MaxResultsPerSource {
			break
		}
	}

	log.Printf("📋 WeWorkRemotely: %d jobs from feed", len(jobs))
	return jobs, nil
}

func splitFeedTitle(title string) (company, job string) {
	title = strings.TrimSpace(title)
	left, right, found := strings.Cut(title, ":")
	if !found || left == "" || strings.TrimSpace(right) == "" {
		return "", title
	}
	return strings.TrimSpace(left), strings.TrimSpace(right)
}
