package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"estate-scraper/config"
	"estate-scraper/fetch"
	"estate-scraper/scraper"
	"estate-scraper/storage"
	"estate-scraper/utils"
)

// SiteResult summarizes one site's download run.
type SiteResult struct {
	Site     string
	Pages    int
	Listings int
	Errors   []error
}

// Failed reports whether the site produced nothing but errors.
func (r *SiteResult) Failed() bool {
	return r.Listings == 0 && len(r.Errors) > 0
}

// Downloader crawls the configured search URLs of each site and writes
// the extracted raw listings to dated CSV files under results/raw.
type Downloader struct {
	cfg    *config.Config
	logger *utils.Logger

	// fetchers overrides the per-site fetcher, used by tests to avoid
	// real HTTP traffic.
	fetchers map[string]fetch.Fetcher
}

func NewDownloader(cfg *config.Config, logger *utils.Logger) *Downloader {
	return &Downloader{
		cfg:      cfg,
		logger:   logger,
		fetchers: make(map[string]fetch.Fetcher),
	}
}

// DownloadAll crawls every enabled site concurrently and returns one
// result per site, in no particular order.
func (d *Downloader) DownloadAll(ctx context.Context, sites config.Sites) []*SiteResult {
	pool := utils.NewWorkerPool(d.cfg.MaxConcurrency, 0)
	results := make(chan *SiteResult, len(sites))

	for name, site := range sites {
		if site.Disabled {
			d.logger.Warn("Skipping disabled site %s", name)
			continue
		}
		name, site := name, site
		pool.Submit(func() {
			results <- d.DownloadSite(ctx, name, site)
		})
	}

	pool.Wait()
	close(results)

	var all []*SiteResult
	for r := range results {
		all = append(all, r)
	}
	return all
}

// DownloadSite crawls all configured search URLs of one site.
func (d *Downloader) DownloadSite(ctx context.Context, name string, site *config.Site) *SiteResult {
	result := &SiteResult{Site: name}

	ext, ok := scraper.Get(name)
	if !ok {
		result.Errors = append(result.Errors, fmt.Errorf("download: no extractor registered for site %q", name))
		return result
	}

	fetcher := d.fetcherFor(name, site)
	seen := utils.NewURLSet()
	log := d.logger.ForSite(name)

	for _, target := range d.targets(ext, site) {
		d.crawlTarget(ctx, log, ext, fetcher, site, target, seen, result)
	}

	log.Info("Done: %d pages, %d listings, %d errors",
		result.Pages, result.Listings, len(result.Errors))
	return result
}

// targets expands the site configuration into concrete search URLs.
// API-backed extractors assemble their own URLs from neighborhood ids.
func (d *Downloader) targets(ext scraper.Extractor, site *config.Site) []scraper.Target {
	if builder, ok := ext.(scraper.URLBuilder); ok && len(site.URLs) == 0 {
		return builder.BuildURLs(site.NeighborhoodIDs, site.IncludeLand)
	}
	targets := make([]scraper.Target, 0, len(site.URLs))
	for _, u := range site.URLs {
		targets = append(targets, scraper.Target{URL: u.URL, Name: u.Name, Folder: u.Folder})
	}
	return targets
}

func (d *Downloader) crawlTarget(ctx context.Context, log *utils.Logger, ext scraper.Extractor, fetcher fetch.Fetcher,
	site *config.Site, target scraper.Target, seen *utils.URLSet, result *SiteResult) {

	maxPages := site.MaxPages
	if maxPages <= 0 {
		maxPages = d.cfg.DefaultMaxPages
	}
	rateLimit := time.Duration(site.RateLimitMs) * time.Millisecond
	if rateLimit <= 0 {
		rateLimit = time.Duration(d.cfg.DefaultRateLimitMs) * time.Millisecond
	}

	csvPath := storage.RawCSVPath(d.cfg.ResultsDir, result.Site, target.Folder, time.Now())
	writer, err := storage.NewRawCSVWriter(csvPath)
	if err != nil {
		result.Errors = append(result.Errors, err)
		return
	}
	defer writer.Close()

	log.Info("Crawling target %q (max %d pages)", target.Name, maxPages)

	currentURL := target.URL
	for pageNum := 1; pageNum <= maxPages && currentURL != ""; pageNum++ {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, ctx.Err())
			return
		}

		body, err := fetcher.Fetch(ctx, currentURL)
		if err != nil {
			result.Errors = append(result.Errors, err)
			return
		}
		result.Pages++

		doc, err := d.buildDocument(body)
		if err != nil {
			result.Errors = append(result.Errors, err)
			return
		}

		listings, err := ext.Extract(doc, currentURL)
		if err != nil {
			if path, saveErr := storage.SaveDebugPage(d.cfg.ResultsDir, result.Site, body); saveErr == nil {
				log.Warn("Extraction failed on %s, page saved to %s", currentURL, path)
			}
			result.Errors = append(result.Errors, &scraper.ExtractionError{
				Site: result.Site, URL: currentURL, Err: err,
			})
			return
		}

		if len(listings) == 0 {
			// Zero listings on a fetched page usually means a layout
			// change; keep the document for diagnosis.
			if path, saveErr := storage.SaveDebugPage(d.cfg.ResultsDir, result.Site, body); saveErr == nil {
				log.Warn("No listings on %s, page saved to %s", currentURL, path)
			}
		}

		fresh := listings[:0:0]
		for _, l := range listings {
			if l.DetailsURL != "" && !seen.Add(l.DetailsURL) {
				continue
			}
			fresh = append(fresh, l)
		}
		if err := writer.WriteRaw(fresh); err != nil {
			result.Errors = append(result.Errors, err)
			return
		}
		result.Listings += len(fresh)
		log.Debug("Page %d of %s: %d listings (%d new)", pageNum, target.Name, len(listings), len(fresh))

		currentURL = ext.NextPageURL(doc, currentURL, pageNum+1)
		if currentURL != "" {
			time.Sleep(rateLimit)
		}
	}
}

// buildDocument parses HTML bodies into a DOM. JSON API responses skip
// the parse; their extractors only read Body.
func (d *Downloader) buildDocument(body string) (*scraper.Document, error) {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return &scraper.Document{Body: body}, nil
	}
	return scraper.ParseHTML(body)
}

func (d *Downloader) fetcherFor(name string, site *config.Site) fetch.Fetcher {
	if f, ok := d.fetchers[name]; ok {
		return f
	}
	if site.UseBrowser {
		return fetch.NewBrowser(time.Duration(d.cfg.HTTPTimeoutSec)*3*time.Second, d.logger)
	}
	retry := &utils.RetryConfig{
		MaxAttempts: d.cfg.MaxRetries,
		BaseDelay:   time.Duration(d.cfg.RetryDelayMs) * time.Millisecond,
		Logger:      d.logger,
	}
	return fetch.NewClient(time.Duration(d.cfg.HTTPTimeoutSec)*time.Second, site.Encoding, retry, d.logger)
}

// Summary renders the run results into a short human-readable report,
// used for the log tail and the notification body.
func Summary(results []*SiteResult) string {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s: %d pages, %d listings", r.Site, r.Pages, r.Listings)
		for _, err := range r.Errors {
			fmt.Fprintf(&b, "\n  error: %v", err)
		}
		b.WriteString("\n")
	}
	return b.String()
}
