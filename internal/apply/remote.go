package apply

import (
	"context"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout/internal/models"
	"jobscout/internal/scraper"
	"jobscout/internal/store"
)

// remoteBoards are domains with simple enough forms for a plain HTTP submit.
var remoteBoards = []string{
	"remoteok.com",
	"remoteok.io",
	"weworkremotely.com",
	"remotive.com",
	"remotive.io",
	"himalayas.app",
	"jobspresso.co",
	"workingnomads.co",
	"remote.co",
	"dailyremote.com",
	"justremote.co",
}

var captchaMarkers = []string{"captcha", "recaptcha", "hcaptcha", "cloudflare", "verify you are human"}
var loginMarkers = []string{"sign in to apply", "log in to apply", "login to apply", "create an account to apply"}
var successMarkers = []string{"thank you", "application received", "application submitted", "successfully applied"}

// RemoteBoardApplier submits applications to remote job boards over HTTP,
// filling the form with profile data.
type RemoteBoardApplier struct {
	client  *scraper.Client
	http    *http.Client
	profile *Profile
}

func NewRemoteBoardApplier(profile *Profile) *RemoteBoardApplier {
	return &RemoteBoardApplier{
		client:  scraper.NewClient(),
		http:    &http.Client{Timeout: 30 * time.Second},
		profile: profile,
	}
}

func (a *RemoteBoardApplier) Name() string { return "remote-board" }

func (a *RemoteBoardApplier) CanHandle(jobURL string) bool {
	u, err := neturl.Parse(jobURL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, board := range remoteBoards {
		if host == board || strings.HasSuffix(host, "."+board) {
			return true
		}
	}
	return false
}

func (a *RemoteBoardApplier) Apply(ctx context.Context, row store.Row) models.ApplicationResult {
	body, err := a.client.Get(ctx, row.URL, nil)
	if err != nil {
		return models.ApplicationResult{
			URL:           row.URL,
			Method:        models.MethodAPI,
			Error:         err.Error(),
			ErrorCategory: models.ErrCategoryNetwork,
			Message:       "could not fetch job page",
		}
	}

	html := string(body)
	lower := strings.ToLower(html)

	if containsAny(lower, captchaMarkers) {
		return models.ApplicationResult{
			URL:           row.URL,
			Method:        models.MethodAPI,
			Error:         "captcha detected",
			ErrorCategory: models.ErrCategoryLoginWall,
			Message:       "CAPTCHA on job page, needs a browser or a human",
		}
	}
	if containsAny(lower, loginMarkers) {
		return models.ApplicationResult{
			URL:           row.URL,
			Method:        models.MethodAPI,
			Error:         "login required",
			ErrorCategory: models.ErrCategoryLoginWall,
			Message:       "board requires an account to apply",
		}
	}

	action, method, fields, err := a.parseApplicationForm(html, row.URL)
	if err != nil {
		return models.ApplicationResult{
			URL:           row.URL,
			Method:        models.MethodAPI,
			Error:         err.Error(),
			ErrorCategory: models.ErrCategoryFormChanged,
			Message:       "application form not found, browser fallback may work",
		}
	}

	resp, err := a.submit(ctx, action, method, fields)
	if err != nil {
		return models.ApplicationResult{
			URL:           row.URL,
			Method:        models.MethodAPI,
			Error:         err.Error(),
			ErrorCategory: models.ErrCategoryNetwork,
			Message:       "form submission failed",
		}
	}

	if containsAny(strings.ToLower(resp), successMarkers) {
		return models.ApplicationResult{
			URL:     row.URL,
			Success: true,
			Method:  models.MethodAPI,
			Message: "application submitted",
		}
	}

	//the board accepted the POST but did not confirm, treat as submitted
	return models.ApplicationResult{
		URL:     row.URL,
		Success: true,
		Method:  models.MethodAPI,
		Message: "form submitted, confirmation text not found",
	}
}

// parseApplicationForm locates the apply form and builds the payload from
// profile data plus the form's own hidden defaults.
func (a *RemoteBoardApplier) parseApplicationForm(html, jobURL string) (action, method string, fields neturl.Values, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", nil, fmt.Errorf("parse page: %w", err)
	}

	var form *goquery.Selection
	doc.Find("form").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		id, _ := sel.Attr("id")
		class, _ := sel.Attr("class")
		act, _ := sel.Attr("action")
		blob := strings.ToLower(id + " " + class + " " + act)
		if strings.Contains(blob, "apply") || strings.Contains(blob, "application") {
			form = sel
			return false
		}
		return true
	})
	if form == nil {
		//fall back to the only form on the page
		forms := doc.Find("form")
		if forms.Length() == 1 {
			form = forms.First()
		}
	}
	if form == nil {
		return "", "", nil, fmt.Errorf("no application form on page")
	}

	rawAction, _ := form.Attr("action")
	if rawAction == "" {
		return "", "", nil, fmt.Errorf("form has no action, likely JavaScript submission")
	}

	base, err := neturl.Parse(jobURL)
	if err != nil {
		return "", "", nil, err
	}
	ref, err := neturl.Parse(rawAction)
	if err != nil {
		return "", "", nil, fmt.Errorf("bad form action %q: %w", rawAction, err)
	}
	action = base.ResolveReference(ref).String()

	method = strings.ToUpper(form.AttrOr("method", "GET"))

	fields = neturl.Values{}
	form.Find("input, textarea, select").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", input.AttrOr("id", ""))
		if name == "" {
			return
		}
		fieldType := strings.ToLower(input.AttrOr("type", "text"))
		if fieldType == "submit" || fieldType == "button" || fieldType == "reset" || fieldType == "file" {
			return
		}

		if value, ok := a.profile.FieldValue(name); ok {
			fields.Set(name, value)
			return
		}
		if def := input.AttrOr("value", ""); def != "" {
			fields.Set(name, def)
		}
	})

	return action, method, fields, nil
}

func (a *RemoteBoardApplier) submit(ctx context.Context, action, method string, fields neturl.Values) (string, error) {
	var req *http.Request
	var err error

	if method == "POST" {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, action, strings.NewReader(fields.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, action+"?"+fields.Encode(), nil)
	}
	if err != nil {
		return "", err
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("submission returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
