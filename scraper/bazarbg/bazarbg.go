// Package bazarbg extracts listings from bazar.bg result pages. The site
// sits behind Cloudflare, so its fetches go through the browser fetcher.
package bazarbg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"estate-scraper/models"
	"estate-scraper/scraper"
)

const (
	siteName = "bazarbg"
	baseURL  = "https://bazar.bg"
)

func init() {
	scraper.Register(&Extractor{})
}

var (
	rePageParam = regexp.MustCompile(`page=\d+`)
	reDigits    = regexp.MustCompile(`\d+`)
)

type Extractor struct{}

func (e *Extractor) Site() string { return siteName }

func (e *Extractor) Extract(doc *scraper.Document, searchURL string) ([]models.RawListing, error) {
	if doc.HTML == nil {
		return nil, &scraper.ExtractionError{Site: siteName, URL: searchURL, Err: fmt.Errorf("no parsed html")}
	}

	now := time.Now()
	var listings []models.RawListing
	doc.HTML.Find("div.listItemContainer").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a.listItemLink").First()
		if link.Length() == 0 {
			return
		}
		title, _ := link.Attr("title")
		href, _ := link.Attr("href")
		refNo, _ := link.Attr("data-id")

		// Titles like "Продава 3-СТАЕН, 85 кв.м, 5 ет." carry the area
		// and floor; the transformer digs them out of the title text.
		raw := models.RawListing{
			Site:         siteName,
			SearchURL:    searchURL,
			Title:        title,
			PriceText:    strings.TrimSpace(link.Find("span.price").First().Text()),
			LocationText: strings.TrimSpace(link.Find("span.location").First().Text()),
			AreaText:     title,
			FloorText:    title,
			RefNo:        refNo,
			PhotosText:   strconv.Itoa(item.Find("img.cover, img.photo, img.lazy").Length()),
			DetailsURL:   scraper.AbsoluteURL(baseURL, href),
			ScrapedAt:    now,
		}
		listings = append(listings, raw)
	})
	return listings, nil
}

// NextPageURL bumps the page query parameter while the paging block still
// advertises further pages.
func (e *Extractor) NextPageURL(doc *scraper.Document, currentURL string, nextPage int) string {
	if doc.HTML == nil || doc.HTML.Find("div.listItemContainer").Length() == 0 {
		return ""
	}
	if nextPage > totalPages(doc.HTML) {
		return ""
	}
	if rePageParam.MatchString(currentURL) {
		return rePageParam.ReplaceAllString(currentURL, fmt.Sprintf("page=%d", nextPage))
	}
	sep := "?"
	if strings.Contains(currentURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", currentURL, sep, nextPage)
}

func totalPages(doc *goquery.Document) int {
	links := doc.Find("div.paging a.btn.not-current")
	if links.Length() == 0 {
		return 1
	}
	last := strings.TrimSpace(links.Last().Text())
	if m := reDigits.FindString(last); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return 1
}
