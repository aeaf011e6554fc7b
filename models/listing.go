package models

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// RawListing holds the untouched text fields pulled from a result page.
// Nothing here is parsed or normalized; the transformer does that later.
type RawListing struct {
	Site            string
	SearchURL       string
	Title           string
	Description     string
	PriceText       string
	LocationText    string
	AreaText        string
	FloorText       string
	TotalFloorsText string
	Agency          string
	AgencyURL       string
	RefNo           string
	PhotosText      string
	DetailsURL      string
	ScrapedAt       time.Time
}

// Listing is the normalized form of a RawListing. Pointer fields
// distinguish "absent" from a genuine zero (a zero price means
// "price on request").
type Listing struct {
	Site             string
	SearchURL        string
	DetailsURL       string
	RefNo            string
	Title            string
	Description      string
	Price            *float64
	OriginalCurrency Currency
	WithoutVAT       bool
	PricePerM2       *float64
	City             City
	Neighborhood     Neighborhood
	PropertyType     PropertyType
	OfferType        OfferType
	Area             *float64
	Floor            *int
	TotalFloors      *int
	Agency           string
	ScrapedAt        time.Time
	FingerprintHash  string
}

// ListingID returns the stable per-site identifier of the listing:
// the reference number when the site exposes one, otherwise the last
// path segment of the details URL.
func (l *Listing) ListingID() string {
	if l.RefNo != "" {
		return strings.ToLower(l.RefNo)
	}
	u := strings.TrimRight(l.DetailsURL, "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		u = u[i+1:]
	}
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return strings.ToLower(u)
}

// Fingerprint builds the identity tuple used for deduplication.
// Title and description are deliberately excluded so that sites
// shuffling their ad copy do not defeat the dedup.
func (l *Listing) Fingerprint() string {
	price := ""
	if l.Price != nil {
		price = strconv.FormatFloat(*l.Price, 'f', -1, 64)
	}
	area := ""
	if l.Area != nil {
		area = strconv.FormatFloat(*l.Area, 'f', -1, 64)
	}
	parts := []string{
		l.Site,
		string(l.City),
		string(l.Neighborhood),
		string(l.PropertyType),
		price,
		area,
		l.ListingID(),
	}
	return strings.Join(parts, "|")
}

// ComputeFingerprint fills FingerprintHash with the md5 of Fingerprint.
func (l *Listing) ComputeFingerprint() {
	sum := md5.Sum([]byte(l.Fingerprint()))
	l.FingerprintHash = hex.EncodeToString(sum[:])
}

// Float returns a pointer to v. Handy for building test fixtures.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
