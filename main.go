package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estate-scraper/config"
	"estate-scraper/fetch"
	"estate-scraper/models"
	"estate-scraper/notify"
	"estate-scraper/services"
	"estate-scraper/storage"
	"estate-scraper/utils"

	_ "estate-scraper/scraper/bazarbg"
	_ "estate-scraper/scraper/homesbg"
	_ "estate-scraper/scraper/imotbg"
	_ "estate-scraper/scraper/imotinet"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logger := utils.NewLogger()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "scrape":
		err = runScrape(ctx, cfg, logger, os.Args[2:])
	case "download":
		err = runDownload(ctx, cfg, logger, os.Args[2:])
	case "process":
		err = runProcess(ctx, cfg, logger, os.Args[2:])
	case "reprocess":
		err = runReprocess(ctx, cfg, logger, os.Args[2:])
	case "fetch":
		err = runFetch(ctx, cfg, logger, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: estate-scraper <command> [flags]

Commands:
  scrape      download all configured sites, then process the results
  download    download raw listing pages to results/raw
  process     transform raw CSV files into results/processed
  reprocess   re-run current transformation rules over existing raw files
  fetch       fetch a single URL and print the decoded body (debugging)
`)
}

func loadSites(cfg *config.Config, logger *utils.Logger) (config.Sites, error) {
	sites, cfgErrs, err := config.LoadSites(cfg.SitesConfigPath)
	if err != nil {
		return nil, err
	}
	for _, ce := range cfgErrs {
		logger.Warn("%v (site disabled)", ce)
	}
	return sites, nil
}

// downloadFlags adds the flags shared by the scrape and download commands.
func downloadFlags(fs *flag.FlagSet) (site *string, pages *int, results *string) {
	site = fs.String("site", "", "limit the run to a single site")
	pages = fs.Int("pages", 0, "override the per-site page ceiling")
	results = fs.String("results", "", "override the results directory")
	return
}

func runScrape(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	onlySite, pages, results := downloadFlags(fs)
	fs.Parse(args)
	applyOverrides(cfg, *results)

	if err := runDownloadSites(ctx, cfg, logger, *onlySite, *pages); err != nil {
		return err
	}
	if err := processAll(cfg, logger); err != nil {
		notifyFailure(ctx, cfg, logger, "estate-scraper: processing failure", err.Error())
		return err
	}
	return nil
}

func runDownload(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	onlySite, pages, results := downloadFlags(fs)
	fs.Parse(args)
	applyOverrides(cfg, *results)

	return runDownloadSites(ctx, cfg, logger, *onlySite, *pages)
}

func applyOverrides(cfg *config.Config, resultsDir string) {
	if resultsDir != "" {
		cfg.ResultsDir = resultsDir
	}
}

func runDownloadSites(ctx context.Context, cfg *config.Config, logger *utils.Logger, onlySite string, pageCeiling int) error {
	sites, err := loadSites(cfg, logger)
	if err != nil {
		return err
	}
	if onlySite != "" {
		site, ok := sites[onlySite]
		if !ok {
			return fmt.Errorf("site %q not found in %s", onlySite, cfg.SitesConfigPath)
		}
		sites = config.Sites{onlySite: site}
	}
	if pageCeiling > 0 {
		cfg.DefaultMaxPages = pageCeiling
		for _, site := range sites {
			site.MaxPages = pageCeiling
		}
	}

	start := time.Now()
	downloader := services.NewDownloader(cfg, logger)
	results := downloader.DownloadAll(ctx, sites)

	summary := services.Summary(results)
	logger.Info("Download finished in %s:\n%s", time.Since(start).Round(time.Second), summary)

	var failed []*services.SiteResult
	for _, r := range results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	if len(failed) > 0 {
		notifyFailure(ctx, cfg, logger, "estate-scraper: download failures", summary)
		return fmt.Errorf("download: %d of %d sites failed", len(failed), len(results))
	}
	return nil
}

// newNotifier is swapped out by tests.
var newNotifier = notify.New

func notifyFailure(ctx context.Context, cfg *config.Config, logger *utils.Logger, subject, body string) {
	notifier, err := newNotifier(ctx, cfg, logger)
	if err != nil {
		logger.Error("Notifier setup failed: %v", err)
		return
	}
	if err := notifier.NotifyRunResult(ctx, subject, body); err != nil {
		logger.Error("Notification failed: %v", err)
	}
}

func runProcess(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	file := fs.String("file", "", "process a single raw CSV file instead of the whole tree")
	results := fs.String("results", "", "override the results directory")
	pg := fs.Bool("pg", false, "also write processed listings to PostgreSQL")
	fs.Parse(args)
	applyOverrides(cfg, *results)
	if *pg {
		cfg.PostgresEnabled = true
	}

	if err := processCmd(cfg, logger, *file); err != nil {
		notifyFailure(ctx, cfg, logger, "estate-scraper: processing failure", err.Error())
		return err
	}
	return nil
}

func processCmd(cfg *config.Config, logger *utils.Logger, file string) error {
	if file != "" {
		p, _, cleanup, err := newProcessor(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()
		_, err = p.ProcessFile(file)
		return err
	}
	return processAll(cfg, logger)
}

func processAll(cfg *config.Config, logger *utils.Logger) error {
	p, pg, cleanup, err := newProcessor(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := p.ProcessAll(cfg.ResultsDir)
	if err != nil {
		return err
	}

	for _, st := range stats {
		logger.Info("%s -> %s (%d written)", st.RawPath, st.OutPath, st.Written)
	}

	var src listingSource
	if pg != nil {
		src = pg
	}
	var listings []models.Listing
	if all, err := insightListings(src, stats); err == nil {
		listings = all
	}
	if len(listings) > 0 {
		svc := services.NewInsightService(logger)
		svc.Print(svc.Generate(listings))
	}
	return nil
}

// listingSource reads the processed listings back for the insight report.
type listingSource interface {
	FetchAll() ([]models.Listing, error)
}

// insightListings prefers the database when a sink is attached; the run
// has just written there and it holds the full deduplicated history.
func insightListings(src listingSource, stats []*services.ProcessStats) ([]models.Listing, error) {
	if src != nil {
		return src.FetchAll()
	}
	return readProcessed(stats)
}

// readProcessed loads the freshly written processed files back for the
// insight report.
func readProcessed(stats []*services.ProcessStats) ([]models.Listing, error) {
	var all []models.Listing
	for _, st := range stats {
		listings, err := storage.ReadProcessedCSV(st.OutPath)
		if err != nil {
			return nil, err
		}
		all = append(all, listings...)
	}
	return all, nil
}

func newProcessor(cfg *config.Config, logger *utils.Logger) (*services.Processor, *storage.PostgresWriter, func(), error) {
	transformer := services.NewTransformer(cfg.BGNToEURRate, logger)
	p := services.NewProcessor(transformer, logger)
	cleanup := func() {}

	if !cfg.PostgresEnabled {
		return p, nil, cleanup, nil
	}
	pg, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		return nil, nil, nil, err
	}
	p.WithDB(pg)
	cleanup = func() { pg.Close() }
	return p, pg, cleanup, nil
}

func runReprocess(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("reprocess", flag.ExitOnError)
	site := fs.String("site", "", "site to reprocess (with -folder)")
	folder := fs.String("folder", "", "results folder of the site to reprocess")
	file := fs.String("file", "", "reprocess a single raw CSV file")
	modeStr := fs.String("mode", "overwrite", "output mode: overwrite or new")
	results := fs.String("results", "", "override the results directory")
	pg := fs.Bool("pg", false, "also write processed listings to PostgreSQL")
	fs.Parse(args)
	applyOverrides(cfg, *results)
	if *pg {
		cfg.PostgresEnabled = true
	}

	var mode services.OutputMode
	switch *modeStr {
	case "overwrite":
		mode = services.OutputOverwrite
	case "new":
		mode = services.OutputNew
	default:
		return fmt.Errorf("reprocess: unknown mode %q", *modeStr)
	}

	if err := reprocessCmd(cfg, logger, *site, *folder, *file, mode); err != nil {
		notifyFailure(ctx, cfg, logger, "estate-scraper: processing failure", err.Error())
		return err
	}
	return nil
}

func reprocessCmd(cfg *config.Config, logger *utils.Logger, site, folder, file string, mode services.OutputMode) error {
	p, _, cleanup, err := newProcessor(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	switch {
	case file != "":
		_, err := p.ReprocessFile(file, mode)
		return err
	case site != "" && folder != "":
		_, err := p.ReprocessFolder(cfg.ResultsDir, site, folder, mode)
		return err
	}
	_, err = p.ReprocessAll(cfg.ResultsDir, mode)
	return err
}

func runFetch(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	url := fs.String("url", "", "URL to fetch")
	encoding := fs.String("encoding", "", "page encoding, e.g. windows-1251")
	browser := fs.Bool("browser", false, "fetch through a headless browser")
	save := fs.String("save", "", "save the body under results/debug for this site name instead of printing")
	fs.Parse(args)

	if *url == "" {
		return fmt.Errorf("fetch: -url is required")
	}

	var fetcher fetch.Fetcher
	if *browser {
		fetcher = fetch.NewBrowser(time.Duration(cfg.HTTPTimeoutSec)*3*time.Second, logger)
	} else {
		retry := &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Duration(cfg.RetryDelayMs) * time.Millisecond,
			Logger:      logger,
		}
		fetcher = fetch.NewClient(time.Duration(cfg.HTTPTimeoutSec)*time.Second, *encoding, retry, logger)
	}

	body, err := fetcher.Fetch(ctx, *url)
	if err != nil {
		return err
	}
	if *save != "" {
		path, err := storage.SaveDebugPage(cfg.ResultsDir, *save, body)
		if err != nil {
			return err
		}
		logger.Info("Saved %s to %s", *url, path)
		return nil
	}
	fmt.Println(body)
	return nil
}
