// Package imotbg extracts listings from imot.bg result pages. The site
// serves windows-1251 HTML; the fetch layer decodes it to UTF-8 before
// it reaches the extractor.
package imotbg

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"estate-scraper/models"
	"estate-scraper/scraper"
)

const (
	siteName = "imotbg"
	baseURL  = "https://www.imot.bg"
)

func init() {
	scraper.Register(&Extractor{})
}

var (
	reItemID  = regexp.MustCompile(`id[a-z]?(\d+)`)
	rePageSeg = regexp.MustCompile(`/p-\d+`)
)

type Extractor struct{}

func (e *Extractor) Site() string { return siteName }

func (e *Extractor) Extract(doc *scraper.Document, searchURL string) ([]models.RawListing, error) {
	if doc.HTML == nil {
		return nil, &scraper.ExtractionError{Site: siteName, URL: searchURL, Err: fmt.Errorf("no parsed html")}
	}

	now := time.Now()
	var listings []models.RawListing
	doc.HTML.Find("div.item").Each(func(_ int, item *goquery.Selection) {
		anchor := item.Find("a.title").First()
		href := attrOr(anchor, "href")
		if href == "" {
			// Banner blocks reuse the item markup but have no ad link.
			return
		}

		title, location := titleAndLocation(anchor)
		info := strings.TrimSpace(item.Find("div.info").First().Text())

		raw := models.RawListing{
			Site:         siteName,
			SearchURL:    searchURL,
			Title:        title,
			Description:  info,
			PriceText:    strings.TrimSpace(item.Find("div.price div").First().Text()),
			LocationText: location,
			AreaText:     info,
			FloorText:    info,
			Agency:       strings.TrimSpace(item.Find("div.seller div.name").First().Text()),
			AgencyURL:    scraper.AbsoluteURL(baseURL, attrOr(item.Find("div.seller a").First(), "href")),
			RefNo:        refFromItemID(attrOr(item, "id")),
			PhotosText:   strings.TrimSpace(item.Find("a.photos").First().Text()),
			DetailsURL:   scraper.AbsoluteURL(baseURL, href),
			ScrapedAt:    now,
		}
		listings = append(listings, raw)
	})
	return listings, nil
}

// NextPageURL swaps the /p-N path segment. An empty result page means the
// previous page was the last one.
func (e *Extractor) NextPageURL(doc *scraper.Document, currentURL string, nextPage int) string {
	if doc.HTML == nil || doc.HTML.Find("div.item").Length() == 0 {
		return ""
	}
	base := rePageSeg.ReplaceAllString(currentURL, "")
	if path, query, ok := strings.Cut(base, "?"); ok {
		return fmt.Sprintf("%s/p-%d?%s", path, nextPage, query)
	}
	return fmt.Sprintf("%s/p-%d", base, nextPage)
}

// titleAndLocation splits the combined anchor text: the <location> child
// holds the city and neighborhood, the rest is the ad title.
func titleAndLocation(anchor *goquery.Selection) (string, string) {
	location := strings.TrimSpace(anchor.Find("location").Text())
	anchor.Find("location").Remove()
	return strings.TrimSpace(anchor.Text()), location
}

func refFromItemID(id string) string {
	if m := reItemID.FindStringSubmatch(id); m != nil {
		return m[1]
	}
	return ""
}

func attrOr(sel *goquery.Selection, name string) string {
	v, _ := sel.Attr(name)
	return v
}
