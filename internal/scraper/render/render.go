// Headless-browser fallback for career pages that serve an empty shell to
// plain HTTP clients.

package render

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/playwright-community/playwright-go"

	"jobscout/internal/browser"
)

type Renderer struct {
	manager *browser.Manager
	cookies []playwright.OptionalCookie
}

func New(manager *browser.Manager, cookies []playwright.OptionalCookie) *Renderer {
	return &Renderer{manager: manager, cookies: cookies}
}

// Render loads url in headless Chromium and returns the settled DOM.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	browserCtx, err := r.manager.NewContext(r.cookies)
	if err != nil {
		return "", err
	}
	defer browserCtx.Close()

	page, err := browserCtx.NewPage()
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(40000),
	}); err != nil {
		return "", fmt.Errorf("navigation failed: %w", err)
	}

	//Cloudflare check
	title, _ := page.Title()
	if strings.Contains(title, "Attention Required") || strings.Contains(title, "Just a moment") || strings.Contains(title, "Cloudflare") {
		log.Printf("    🛡️ Cloudflare challenge on %s. Waiting 7s...", url)
		browser.RandomDelay(7000, 7001)
		if title, _ = page.Title(); strings.Contains(title, "Attention") || strings.Contains(title, "Just a moment") || strings.Contains(title, "Cloudflare") {
			return "", fmt.Errorf("blocked by cloudflare: %s", url)
		}
	}

	//human behavior so lazy-loaded lists populate
	browser.RandomDelay(1000, 2000)
	browser.MouseJiggle(page)
	browser.SmoothScroll(page)
	browser.RandomDelay(500, 1000)

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return content, nil
}
