package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Manager owns the playwright driver and one headless Chromium instance,
// shared by the render fallback and the browser applier.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewManager() (*Manager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	return &Manager{pw: pw, browser: browser}, nil
}

// NewContext opens a browser context carrying the given cookies.
func (m *Manager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	ctx, err := m.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"),
		Viewport:  &playwright.Size{Width: 1366, Height: 768},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	if len(cookies) > 0 {
		if err := ctx.AddCookies(cookies); err != nil {
			return nil, fmt.Errorf("failed to add cookies: %w", err)
		}
	}
	return ctx, nil
}

func (m *Manager) Close() error {
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			return err
		}
	}
	if m.pw != nil {
		return m.pw.Stop()
	}
	return nil
}
