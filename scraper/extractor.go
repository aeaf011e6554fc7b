package scraper

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"estate-scraper/models"
)

// Document is one fetched result page. HTML sites carry a parsed goquery
// document; JSON API sites carry only the raw body.
type Document struct {
	Body string
	HTML *goquery.Document
}

// ParseHTML wraps a fetched body into a Document with a parsed DOM.
func ParseHTML(body string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("scraper: parse html: %w", err)
	}
	return &Document{Body: body, HTML: doc}, nil
}

// Target is one search URL to crawl for a site.
type Target struct {
	URL    string
	Name   string
	Folder string
}

// Extractor turns fetched pages of one site into raw listing records.
// Implementations must not perform network I/O; they only read the
// already fetched Document.
type Extractor interface {
	Site() string
	Extract(doc *Document, searchURL string) ([]models.RawListing, error)

	// NextPageURL returns the URL of page nextPage, or "" when the
	// current document shows there are no more pages.
	NextPageURL(doc *Document, currentURL string, nextPage int) string
}

// URLBuilder is implemented by extractors whose search URLs are assembled
// from configuration rather than listed verbatim, like the homes.bg API.
type URLBuilder interface {
	BuildURLs(neighborhoodIDs []string, includeLand bool) []Target
}

// ExtractionError wraps a page-level extraction failure with its site and
// URL for the run summary.
type ExtractionError struct {
	Site string
	URL  string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract: [%s] %s: %v", e.Site, e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Extractor)
)

// Register makes an extractor available under its site name. Site
// packages call it from init, mirroring database/sql driver registration.
func Register(ext Extractor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	name := ext.Site()
	if _, dup := registry[name]; dup {
		panic("scraper: Register called twice for site " + name)
	}
	registry[name] = ext
}

// Get returns the extractor registered for site.
func Get(site string) (Extractor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ext, ok := registry[site]
	return ext, ok
}

// Sites returns the registered site names, sorted.
func Sites() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AbsoluteURL resolves hrefs the sites emit: already absolute,
// protocol-relative ("//www.imot.bg/...") or site-relative.
func AbsoluteURL(base, href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return strings.TrimRight(base, "/") + href
	default:
		return strings.TrimRight(base, "/") + "/" + href
	}
}
