// Scrape configured company career pages.
// Greenhouse and Lever boards are JSON APIs; anything else is parsed as
// HTML, with an optional headless-browser render for JS-heavy pages.

package careers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	neturl "net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout/internal/config"
	"jobscout/internal/models"
	"jobscout/internal/scraper"
)

// Renderer produces fully-rendered HTML for JS-heavy pages. Implemented by
// the headless-browser package; nil disables the fallback.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

type Scraper struct {
	cfg      *config.Config
	client   *scraper.Client
	renderer Renderer
	failures []scraper.Failure

	greenhouseBase string
	leverBase      string
}

func New(cfg *config.Config, client *scraper.Client, renderer Renderer) *Scraper {
	return &Scraper{
		cfg:            cfg,
		client:         client,
		renderer:       renderer,
		greenhouseBase: "https://boards-api.greenhouse.io/v1/boards",
		leverBase:      "https://api.lever.co/v0/postings",
	}
}

// NewWithBases is used by tests to point board APIs at stub servers.
func NewWithBases(cfg *config.Config, client *scraper.Client, renderer Renderer, greenhouseBase, leverBase string) *Scraper {
	s := New(cfg, client, renderer)
	s.greenhouseBase = greenhouseBase
	s.leverBase = leverBase
	return s
}

func (s *Scraper) Name() string {
	return "CompanyCareers"
}

// Failures lists the companies skipped during the last Scrape call.
func (s *Scraper) Failures() []scraper.Failure {
	return s.failures
}

func (s *Scraper) Scrape(ctx context.Context) ([]models.Job, error) {
	s.failures = nil

	var allJobs []models.Job
	browserPages := 0

	for i, page := range s.cfg.CareerPages {
		if i > 0 {
			scraper.Pause()
		}

		var jobs []models.Job
		var err error

		switch strings.ToLower(page.Kind) {
		case "greenhouse":
			jobs, err = s.scrapeGreenhouse(ctx, page)
		case "lever":
			jobs, err = s.scrapeLever(ctx, page)
		default:
			jobs, err = s.scrapeHTML(ctx, page)
			//JS-heavy pages often serve an empty shell to plain HTTP; retry
			//a limited number of them through the headless browser
			if err == nil && len(jobs) == 0 && s.renderer != nil && s.cfg.UseBrowserFallback && browserPages < s.cfg.BrowserMaxPages {
				browserPages++
				jobs, err = s.scrapeRendered(ctx, page)
			}
		}

		if err != nil {
			log.Printf("⚠️ %s (%s): %v", page.Company, page.Kind, err)
			s.failures = append(s.failures, scraper.Failure{
				Company: page.Company,
				URL:     page.URL,
				Kind:    page.Kind,
				Stage:   "scrape",
				Error:   err.Error(),
			})
			continue
		}

		log.Printf("  ✅ %s: %d jobs", page.Company, len(jobs))
		allJobs = append(allJobs, jobs...)
	}

	return allJobs, nil
}

//--- Greenhouse board API ---

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

type greenhouseJob struct {
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Content     string `json:"content"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
}

func (s *Scraper) scrapeGreenhouse(ctx context.Context, page config.CareerPage) ([]models.Job, error) {
	endpoint := page.URL
	if !strings.Contains(endpoint, "://") {
		//bare value is the board token
		endpoint = fmt.Sprintf("%s/%s/jobs?content=true", s.greenhouseBase, endpoint)
	}

	body, err := s.client.Get(ctx, endpoint, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch: %w", err)
	}

	var payload greenhouseResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("greenhouse parse: %w", err)
	}

	var jobs []models.Job
	for _, item := range payload.Jobs {
		if !scraper.MatchesAny(item.Title+" "+item.Content, s.cfg.SearchTerms) {
			continue
		}
		jobs = append(jobs, models.Job{
			Title:       strings.TrimSpace(item.Title),
			Company:     page.Company,
			Location:    strings.TrimSpace(item.Location.Name),
			URL:         strings.TrimSpace(item.AbsoluteURL),
			Description: stripTags(item.Content),
			PostedDate:  strings.TrimSpace(item.UpdatedAt),
			Source:      s.Name(),
		})
	}
	return jobs, nil
}

//--- Lever postings API ---

type leverJob struct {
	Text             string `json:"text"`
	HostedURL        string `json:"hostedUrl"`
	CreatedAt        int64  `json:"createdAt"` //unix millis
	DescriptionPlain string `json:"descriptionPlain"`
	Categories       struct {
		Location   string `json:"location"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
}

func (s *Scraper) scrapeLever(ctx context.Context, page config.CareerPage) ([]models.Job, error) {
	endpoint := page.URL
	if !strings.Contains(endpoint, "://") {
		endpoint = fmt.Sprintf("%s/%s?mode=json", s.leverBase, endpoint)
	}

	body, err := s.client.Get(ctx, endpoint, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, fmt.Errorf("lever fetch: %w", err)
	}

	var items []leverJob
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("lever parse: %w", err)
	}

	var jobs []models.Job
	for _, item := range items {
		if !scraper.MatchesAny(item.Text+" "+item.DescriptionPlain, s.cfg.SearchTerms) {
			continue
		}

		posted := ""
		if item.CreatedAt > 0 {
			posted = time.UnixMilli(item.CreatedAt).Format("2006-01-02")
		}

		jobs = append(jobs, models.Job{
			Title:       strings.TrimSpace(item.Text),
			Company:     page.Company,
			Location:    strings.TrimSpace(item.Categories.Location),
			URL:         strings.TrimSpace(item.HostedURL),
			Experience:  strings.TrimSpace(item.Categories.Commitment),
			Description: strings.TrimSpace(item.DescriptionPlain),
			PostedDate:  posted,
			Source:      s.Name(),
		})
	}
	return jobs, nil
}

//--- Generic HTML pages ---

var jobClassRe = regexp.MustCompile(`(?i)job|position|opening|posting|career|vacanc`)

func (s *Scraper) scrapeHTML(ctx context.Context, page config.CareerPage) ([]models.Job, error) {
	body, err := s.client.Get(ctx, page.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("careers fetch: %w", err)
	}
	return s.parseCareersHTML(bytes.NewReader(body), page)
}

func (s *Scraper) scrapeRendered(ctx context.Context, page config.CareerPage) ([]models.Job, error) {
	log.Printf("  🌐 %s: retrying with headless browser", page.Company)
	html, err := s.renderer.Render(ctx, page.URL)
	if err != nil {
		return nil, fmt.Errorf("browser render: %w", err)
	}
	return s.parseCareersHTML(strings.NewReader(html), page)
}

//parseCareersHTML pulls job links out of arbitrary careers markup: anchors
//whose class or href smells like a posting, with enough text for a title.
func (s *Scraper) parseCareersHTML(r io.Reader, page config.CareerPage) ([]models.Job, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("careers parse: %w", err)
	}

	base, err := neturl.Parse(page.URL)
	if err != nil {
		return nil, fmt.Errorf("careers base url: %w", err)
	}

	seen := make(map[string]bool)
	var jobs []models.Job

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		class, _ := sel.Attr("class")
		if !jobClassRe.MatchString(class) && !jobClassRe.MatchString(href) {
			return
		}

		title := strings.TrimSpace(sel.Text())
		if title == "" || len(title) > 200 {
			return
		}
		if !scraper.MatchesAny(title, s.cfg.SearchTerms) {
			return
		}

		ref, err := neturl.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		url := base.ResolveReference(ref).String()
		if seen[url] {
			return
		}
		seen[url] = true

		location := strings.TrimSpace(sel.Find("[class*=location]").First().Text())

		jobs = append(jobs, models.Job{
			Title:    title,
			Company:  page.Company,
			Location: location,
			URL:      url,
			Source:   s.Name(),
		})
	})

	return jobs, nil
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

//stripTags flattens board-API HTML content into plain text for filtering
//and scoring.
func stripTags(html string) string {
	text := tagRe.ReplaceAllString(html, " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&#39;", "'")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	return strings.Join(strings.Fields(text), " ")
}
