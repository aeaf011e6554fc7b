// Package homesbg extracts listings from the homes.bg JSON offers API.
// Pages are windows of 100 offers addressed by startIndex/stopIndex.
package homesbg

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"estate-scraper/models"
	"estate-scraper/scraper"
)

const (
	siteName = "homesbg"
	baseURL  = "https://homes.bg"
	pageSize = 100

	apartmentsURL = "https://www.homes.bg/api/offers?currencyId=1&filterOrderBy=0&locationId=1&typeId=ApartmentSell"
	landURL       = "https://www.homes.bg/api/offers?currencyId=1&filterOrderBy=0&locationId=0&typeId=LandAgro"
)

func init() {
	scraper.Register(&Extractor{})
}

type apiResponse struct {
	Result         []apiOffer `json:"result"`
	HasMoreItems   bool       `json:"hasMoreItems"`
	OffersCount    int        `json:"offersCount"`
	SearchCriteria struct {
		TypeID string `json:"typeId"`
	} `json:"searchCriteria"`
}

// flexID tolerates the API emitting offer ids as numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	*f = flexID(strings.Trim(string(b), `"`))
	return nil
}

type apiOffer struct {
	ID          flexID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ViewHref    string `json:"viewHref"`
	Time        string `json:"time"`
	Photos      []struct {
		Path string `json:"path"`
		Name string `json:"name"`
	} `json:"photos"`
	Price struct {
		Value    string `json:"value"`
		Currency string `json:"currency"`
	} `json:"price"`
}

type Extractor struct{}

func (e *Extractor) Site() string { return siteName }

func (e *Extractor) Extract(doc *scraper.Document, searchURL string) ([]models.RawListing, error) {
	var resp apiResponse
	if err := json.Unmarshal([]byte(doc.Body), &resp); err != nil {
		return nil, &scraper.ExtractionError{Site: siteName, URL: searchURL, Err: fmt.Errorf("decode offers: %w", err)}
	}

	now := time.Now()
	listings := make([]models.RawListing, 0, len(resp.Result))
	for _, offer := range resp.Result {
		raw := models.RawListing{
			Site:         siteName,
			SearchURL:    searchURL,
			Title:        offer.Title,
			Description:  offer.Description,
			PriceText:    priceText(offer.Price.Value, offer.Price.Currency),
			LocationText: swapLocation(offer.Location),
			AreaText:     offer.Title,
			RefNo:        string(offer.ID),
			PhotosText:   fmt.Sprintf("%d", len(offer.Photos)),
			DetailsURL:   scraper.AbsoluteURL(baseURL, offer.ViewHref),
			ScrapedAt:    now,
		}
		listings = append(listings, raw)
	}
	return listings, nil
}

// NextPageURL advances the startIndex/stopIndex window while the API
// reports more items.
func (e *Extractor) NextPageURL(doc *scraper.Document, currentURL string, nextPage int) string {
	var resp apiResponse
	if err := json.Unmarshal([]byte(doc.Body), &resp); err != nil {
		return ""
	}
	if !resp.HasMoreItems {
		return ""
	}
	base, _, _ := strings.Cut(currentURL, "&startIndex")
	start := (nextPage - 1) * pageSize
	return fmt.Sprintf("%s&startIndex=%d&stopIndex=%d", base, start, nextPage*pageSize)
}

// BuildURLs assembles the API search URLs from configured neighborhood
// IDs, plus the agricultural land search when enabled.
func (e *Extractor) BuildURLs(neighborhoodIDs []string, includeLand bool) []scraper.Target {
	var targets []scraper.Target
	if len(neighborhoodIDs) == 0 {
		targets = append(targets, scraper.Target{URL: apartmentsURL, Name: "apartments", Folder: "apartments"})
	}
	for _, id := range neighborhoodIDs {
		targets = append(targets, scraper.Target{
			URL:    apartmentsURL + "&neighbourhoods%5B%5D=" + id,
			Name:   "apartments-" + id,
			Folder: "apartments-" + id,
		})
	}
	if includeLand {
		targets = append(targets, scraper.Target{URL: landURL, Name: "land", Folder: "land"})
	}
	return targets
}

// priceText rebuilds a text price from the API's split value/currency so
// the downstream parsing works the same as for the HTML sites.
func priceText(value, currency string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return strings.TrimSpace(value + " " + currency)
}

// swapLocation turns the API's "neighborhood, city" order into the
// "city, neighborhood" order the other sites use.
func swapLocation(location string) string {
	parts := strings.SplitN(location, ",", 2)
	if len(parts) < 2 {
		return strings.TrimSpace(location)
	}
	return strings.TrimSpace(parts[1]) + ", " + strings.TrimSpace(parts[0])
}
