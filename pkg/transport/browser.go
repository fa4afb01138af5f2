package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
	"github.com/playwright-community/playwright-go"
)

// BrowserFetcher renders pages in headless Chromium, for sites that build their tables with javascript.
// The browser is started lazily on the first Fetch and must be released with Close.
type BrowserFetcher struct {
	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
	Timeout float64 // milliseconds
}

func NewBrowserFetcher() *BrowserFetcher {
	return &BrowserFetcher{Timeout: 30000}
}

func (f *BrowserFetcher) start() error {
	if f.browser != nil {
		return nil
	}
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("could not start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("could not launch chromium: %w", err)
	}
	f.pw = pw
	f.browser = browser
	logger.Info("Headless browser started")
	return nil
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.start(); err != nil {
		return nil, err
	}

	page, err := f.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not open page: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(f.Timeout),
	}); err != nil {
		return nil, fmt.Errorf("could not load %s: %w", url, err)
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("could not read content of %s: %w", url, err)
	}
	return []byte(html), nil
}

// Close shuts the browser and the playwright driver down
func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser != nil {
		if err := f.browser.Close(); err != nil {
			logger.Warn("Failed to close browser", err)
		}
		f.browser = nil
	}
	if f.pw != nil {
		if err := f.pw.Stop(); err != nil {
			return fmt.Errorf("could not stop playwright: %w", err)
		}
		f.pw = nil
	}
	return nil
}
