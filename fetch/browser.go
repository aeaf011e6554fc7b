package fetch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"estate-scraper/utils"
)

// Browser fetches pages through headless Chrome. bazar.bg sits behind
// Cloudflare and rejects plain HTTP clients, so its pages are rendered in
// a real browser and the settled DOM is returned.
type Browser struct {
	logger  *utils.Logger
	timeout time.Duration
}

// NewBrowser builds a Browser fetcher with a per-page timeout.
func NewBrowser(timeout time.Duration, logger *utils.Logger) *Browser {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Browser{logger: logger, timeout: timeout}
}

// Fetch renders url in headless Chrome and returns the resulting HTML.
func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	chromeBin := findChromeBinary()
	if chromeBin != "" {
		b.logger.Debug("[browser] using binary: %s", chromeBin)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent(userAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	runCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(4*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("chromedp: %w", err)}
	}
	return html, nil
}

// findChromeBinary locates a Chrome/Chromium binary, honoring CHROME_BIN.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
