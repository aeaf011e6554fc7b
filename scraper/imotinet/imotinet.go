// Package imotinet extracts listings from imoti.net search result pages.
package imotinet

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
	siteName = "imotinet"
	baseURL  = "https://www.imoti.net"
)

func init() {
	scraper.Register(&Extractor{})
}

var rePageParam = regexp.MustCompile(`page=\d+`)

type Extractor struct{}

func (e *Extractor) Site() string { return siteName }

func (e *Extractor) Extract(doc *scraper.Document, searchURL string) ([]models.RawListing, error) {
	if doc.HTML == nil {
		return nil, &scraper.ExtractionError{Site: siteName, URL: searchURL, Err: fmt.Errorf("no parsed html")}
	}

	now := time.Now()
	var listings []models.RawListing
	doc.HTML.Find("li.clearfix").Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find("h3").First().Text())
		href, _ := item.Find("a.box-link").First().Attr("href")
		if href == "" {
			return
		}

		raw := models.RawListing{
			Site:         siteName,
			SearchURL:    searchURL,
			Title:        title,
			Description:  description(item),
			PriceText:    strings.TrimSpace(item.Find("strong.price").First().Text()),
			LocationText: strings.TrimSpace(item.Find("span.location").First().Text()),
			AreaText:     areaFromTitle(title),
			FloorText:    firstParameter(item),
			Agency:       strings.TrimSpace(item.Find("span.re-offer-type").First().Text()),
			PhotosText:   strings.TrimSpace(item.Find("span.pic-video-info-number").First().Text()),
			DetailsURL:   scraper.AbsoluteURL(baseURL, href),
			ScrapedAt:    now,
		}
		listings = append(listings, raw)
	})
	return listings, nil
}

// NextPageURL bumps the page query parameter until the paginator's last
// page is reached.
func (e *Extractor) NextPageURL(doc *scraper.Document, currentURL string, nextPage int) string {
	if doc.HTML == nil {
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
	text := strings.TrimSpace(doc.Find("nav.paginator a.last-page").First().Text())
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// areaFromTitle pulls the area token out of titles like
// "Двустаен апартамент, 65 кв.м".
func areaFromTitle(title string) string {
	parts := strings.SplitN(title, ",", 3)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// description is the second paragraph of the card; the first one holds
// presentation markup.
func description(item *goquery.Selection) string {
	paragraphs := item.Find("p")
	if paragraphs.Length() < 2 {
		return ""
	}
	return strings.TrimSpace(paragraphs.Eq(1).Text())
}

func firstParameter(item *goquery.Selection) string {
	return strings.TrimSpace(item.Find("ul.parameters li").First().Text())
}
