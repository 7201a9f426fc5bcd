package apply

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"jobscout/internal/browser"
	"jobscout/internal/models"
	"jobscout/internal/store"
)

// BrowserApplier drives headless Chromium for boards whose forms need
// JavaScript. It is the fallback when the HTTP applier reports a missing form.
type BrowserApplier struct {
	manager *browser.Manager
	cookies []playwright.OptionalCookie
	profile *Profile
}

func NewBrowserApplier(manager *browser.Manager, cookies []playwright.OptionalCookie, profile *Profile) *BrowserApplier {
	return &BrowserApplier{manager: manager, cookies: cookies, profile: profile}
}

func (a *BrowserApplier) Name() string { return "browser" }

// CanHandle accepts anything; the manager only reaches for the browser after
// the HTTP path gave up.
func (a *BrowserApplier) CanHandle(jobURL string) bool { return jobURL != "" }

func (a *BrowserApplier) Apply(ctx context.Context, row store.Row) models.ApplicationResult {
	fail := func(category models.ErrorCategory, err error, msg string) models.ApplicationResult {
		return models.ApplicationResult{
			URL:           row.URL,
			Method:        models.MethodBrowser,
			Error:         err.Error(),
			ErrorCategory: category,
			Message:       msg,
		}
	}

	browserCtx, err := a.manager.NewContext(a.cookies)
	if err != nil {
		return fail(models.ErrCategoryNetwork, err, "could not open browser context")
	}
	defer browserCtx.Close()

	page, err := browserCtx.NewPage()
	if err != nil {
		return fail(models.ErrCategoryNetwork, err, "could not open page")
	}

	if _, err := page.Goto(row.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(40000),
	}); err != nil {
		return fail(models.ErrCategoryNetwork, err, "navigation failed")
	}

	browser.RandomDelay(1000, 2000)
	browser.SmoothScroll(page)

	content, err := page.Content()
	if err != nil {
		return fail(models.ErrCategoryNetwork, err, "could not read page")
	}
	if containsAny(strings.ToLower(content), captchaMarkers) {
		return fail(models.ErrCategoryLoginWall, fmt.Errorf("captcha detected"), "CAPTCHA on job page, needs a human")
	}

	//some boards hide the form behind an Apply button
	applyButton := page.Locator("a:has-text('Apply'), button:has-text('Apply')").First()
	if visible, _ := applyButton.IsVisible(); visible {
		if err := applyButton.Click(); err == nil {
			browser.RandomDelay(1500, 2500)
		}
	}

	filled, err := a.fillForm(page)
	if err != nil {
		return fail(models.ErrCategoryFormChanged, err, "could not fill application form")
	}
	if filled == 0 {
		return fail(models.ErrCategoryFormChanged, fmt.Errorf("no fillable fields found"), "form not recognized, apply manually")
	}

	submit := page.Locator("form button[type='submit'], form input[type='submit']").First()
	if visible, _ := submit.IsVisible(); !visible {
		return fail(models.ErrCategoryFormChanged, fmt.Errorf("submit button not found"), "form filled but no submit button, apply manually")
	}
	if err := submit.Click(); err != nil {
		return fail(models.ErrCategoryFormChanged, err, "submit click failed")
	}

	browser.RandomDelay(2000, 4000)

	content, _ = page.Content()
	if containsAny(strings.ToLower(content), successMarkers) {
		return models.ApplicationResult{
			URL:     row.URL,
			Success: true,
			Method:  models.MethodBrowser,
			Message: fmt.Sprintf("application submitted (%d fields filled)", filled),
		}
	}

	return fail(models.ErrCategoryFormChanged, fmt.Errorf("no confirmation after submit"), "submitted but success not confirmed, verify manually")
}

// fillForm pours profile data into every recognizable input and returns how
// many fields it filled.
func (a *BrowserApplier) fillForm(page playwright.Page) (int, error) {
	inputs := page.Locator("form input[name], form textarea[name]")
	count, err := inputs.Count()
	if err != nil {
		return 0, err
	}

	filled := 0
	for i := 0; i < count; i++ {
		input := inputs.Nth(i)

		name, err := input.GetAttribute("name")
		if err != nil || name == "" {
			continue
		}
		fieldType, _ := input.GetAttribute("type")
		switch strings.ToLower(fieldType) {
		case "submit", "button", "reset", "hidden", "checkbox", "radio", "file":
			continue
		}

		value, ok := a.profile.FieldValue(name)
		if !ok || value == "" {
			continue
		}
		if err := input.Fill(value); err != nil {
			continue
		}
		filled++
		browser.RandomDelay(200, 500)
	}
	return filled, nil
}
