package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"estate-scraper/models"
	"estate-scraper/utils"
)

// DefaultBGNToEURRate is the fixed BGN/EUR peg used for price conversion.
const DefaultBGNToEURRate = 1.9558

// TransformError marks a raw record that cannot produce a minimally valid
// listing. The record is dropped and counted; the batch continues.
type TransformError struct {
	Site   string
	Reason string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform: [%s] %s", e.Site, e.Reason)
}

// Transformer converts raw scraped text records into normalized listings.
// It is site-agnostic: all site quirks are flattened into text fields by
// the extractors before they reach this stage.
type Transformer struct {
	rate   float64
	logger *utils.Logger
}

// NewTransformer creates a Transformer. A non-positive rate falls back to
// DefaultBGNToEURRate.
func NewTransformer(rate float64, logger *utils.Logger) *Transformer {
	if rate <= 0 {
		rate = DefaultBGNToEURRate
	}
	return &Transformer{rate: rate, logger: logger}
}

var (
	reNonDigit    = regexp.MustCompile(`[^\d]`)
	reArea        = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:кв\.?\s*)?м`)
	reFloorLabel  = regexp.MustCompile(`(?i)етаж:\s*(\d+|партер|последен)`)
	reFloorShort  = regexp.MustCompile(`(\d+)(?:-\p{L}+)?\s*ет\.?|ет\.?\s*(\d+)`)
	rePlainNumber = regexp.MustCompile(`^\d+$`)
	reFloorInDesc = regexp.MustCompile(`(?i)(?:на\s+)?(\d+)(?:-\p{L}+)?\s*етаж`)
	reFloorAfter  = regexp.MustCompile(`(?i)етаж\s*(\d+)`)
	reTotalFloors = regexp.MustCompile(`(?i)\d+(?:-\p{L}+)?\s*(?:ет\.?|етаж)\s*от\s*(\d+)`)
	reCityComma   = regexp.MustCompile(`(?i)(?:гр\.|град)\s*([^,/]+)[,/]\s*(.+)`)
	reCityPrefix  = regexp.MustCompile(`(?i)^(?:гр\.|град|с\.)\s*`)
	reNbhPrefix   = regexp.MustCompile(`(?i)^(?:кв\.|квартал|ж\.к\.|ж\.к|жк)\s*`)
)

// Transform converts one raw record. It returns a *TransformError when the
// record has no details URL; every other parse failure degrades to an
// absent field or the unknown sentinel.
func (t *Transformer) Transform(raw models.RawListing) (models.Listing, error) {
	if strings.TrimSpace(raw.DetailsURL) == "" {
		return models.Listing{}, &TransformError{Site: raw.Site, Reason: "no details URL"}
	}

	price, currency := t.parsePrice(raw.PriceText)
	priceEUR := t.convertToEUR(price, currency)

	cityText, nbhText := parseLocation(raw.LocationText)
	city := normalizeCity(cityText)
	neighborhood := normalizeNeighborhood(nbhText, city)

	offerType := resolveOfferType(raw.Title, raw.DetailsURL)
	if offerType == models.OfferTypeUnknown && raw.SearchURL != "" {
		offerType = resolveOfferType("", raw.SearchURL)
	}
	propertyType := resolvePropertyType(raw.Title, raw.DetailsURL)
	if propertyType == models.PropertyTypeUnknown && raw.Description != "" {
		propertyType = resolvePropertyType(raw.Description, "")
	}

	area := extractArea(raw.AreaText)

	floor := extractFloor(raw.FloorText)
	if floor == nil && raw.Description != "" {
		floor = extractFloorFromDescription(raw.Description)
	}

	totalFloors := extractTotalFloors(raw.TotalFloorsText)
	if totalFloors == nil && raw.Description != "" {
		totalFloors = extractTotalFloorsFromDescription(raw.Description)
	}

	listing := models.Listing{
		Site:             raw.Site,
		SearchURL:        raw.SearchURL,
		DetailsURL:       raw.DetailsURL,
		RefNo:            raw.RefNo,
		Title:            raw.Title,
		Description:      raw.Description,
		Price:            priceEUR,
		OriginalCurrency: currency,
		WithoutVAT:       detectWithoutVAT(raw.PriceText, raw.Title, raw.Description),
		PricePerM2:       pricePerM2(priceEUR, area),
		City:             city,
		Neighborhood:     neighborhood,
		PropertyType:     propertyType,
		OfferType:        offerType,
		Area:             area,
		Floor:            floor,
		TotalFloors:      totalFloors,
		Agency:           normalizeAgency(raw.Agency),
		ScrapedAt:        raw.ScrapedAt,
	}
	listing.ComputeFingerprint()
	return listing, nil
}

// TransformBatch transforms raw records in order and returns the surviving
// listings plus the number of dropped records.
func (t *Transformer) TransformBatch(raws []models.RawListing) ([]models.Listing, int) {
	listings := make([]models.Listing, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		listing, err := t.Transform(raw)
		if err != nil {
			dropped++
			if t.logger != nil {
				t.logger.ForSite(raw.Site).Warn("dropping record: %v", err)
			}
			continue
		}
		listings = append(listings, listing)
	}
	return listings, dropped
}

// parsePrice extracts the first numeric price and its currency from text
// like "150 000 €" or "200000лв". A price text with digits but no
// recognizable currency keeps the numeric value and an empty currency.
func (t *Transformer) parsePrice(text string) (*float64, models.Currency) {
	if text == "" {
		return nil, ""
	}
	currency := detectCurrency(text)

	first := strings.SplitN(text, "лв", 2)[0]
	first = strings.SplitN(first, "€", 2)[0]
	cleaned := reNonDigit.ReplaceAllString(first, "")
	if cleaned == "" {
		return nil, currency
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, currency
	}
	return &v, currency
}

// detectCurrency prefers EUR because price texts often show the EUR value
// first with a BGN equivalent after it.
func detectCurrency(text string) models.Currency {
	lower := strings.ToLower(text)
	for alias, cur := range currencyAliases {
		if cur == models.CurrencyEUR && strings.Contains(lower, alias) {
			return models.CurrencyEUR
		}
	}
	for alias, cur := range currencyAliases {
		if cur == models.CurrencyBGN && strings.Contains(lower, alias) {
			return models.CurrencyBGN
		}
	}
	return ""
}

func (t *Transformer) convertToEUR(price *float64, currency models.Currency) *float64 {
	if price == nil {
		return nil
	}
	if currency == models.CurrencyBGN {
		v := round2(*price / t.rate)
		return &v
	}
	return price
}

// parseLocation splits a location text into raw city and neighborhood
// tokens. Handles "гр. София, Лозенец", "София / Лозенец" and
// "София, Лозенец".
func parseLocation(text string) (string, string) {
	text = strings.ReplaceAll(text, " ", " ")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}

	if m := reCityComma.FindStringSubmatch(text); m != nil {
		city := strings.TrimSpace(m[1])
		nbh := reNbhPrefix.ReplaceAllString(strings.TrimSpace(m[2]), "")
		return city, strings.TrimSpace(nbh)
	}

	if strings.Contains(text, " / ") {
		parts := strings.SplitN(text, " / ", 2)
		city := reCityPrefix.ReplaceAllString(parts[0], "")
		nbh := reNbhPrefix.ReplaceAllString(parts[1], "")
		return strings.TrimSpace(city), strings.TrimSpace(nbh)
	}

	if strings.Contains(text, ", ") {
		parts := strings.SplitN(text, ", ", 2)
		city := reCityPrefix.ReplaceAllString(parts[0], "")
		return strings.TrimSpace(city), strings.TrimSpace(parts[1])
	}

	city := reCityPrefix.ReplaceAllString(text, "")
	return strings.TrimSpace(city), ""
}

// normalizeCity resolves a free-text city token to a canonical value, or
// the unknown sentinel when nothing matches.
func normalizeCity(text string) models.City {
	if text == "" {
		return models.CityUnknown
	}
	cleaned := reCityPrefix.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "")
	if city, ok := cityAliases.findExact(cleaned); ok {
		return city
	}
	if city, ok := cityAliases.findInText(text); ok {
		return city
	}
	return models.CityUnknown
}

// normalizeNeighborhood is city-aware: within a known city only that
// city's alias table applies; otherwise both tables are tried, Sofia
// first.
func normalizeNeighborhood(text string, city models.City) models.Neighborhood {
	if text == "" {
		return models.NeighborhoodUnknown
	}
	cleaned := reNbhPrefix.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "")
	cleaned = strings.TrimSpace(cleaned)

	tables := []*aliasTable[models.Neighborhood]{sofiaNeighborhoodAliases, plovdivNeighborhoodAliases}
	switch city {
	case models.CitySofia:
		tables = tables[:1]
	case models.CityPlovdiv:
		tables = tables[1:]
	}

	for _, tbl := range tables {
		if nbh, ok := tbl.findExact(cleaned); ok {
			return nbh
		}
	}
	for _, tbl := range tables {
		if nbh, ok := tbl.findInText(text); ok {
			return nbh
		}
	}
	return models.NeighborhoodUnknown
}

// resolveOfferType matches the details URL first, then the title. The URL
// carries transliterated segments like "prodava" and is the more reliable
// signal.
func resolveOfferType(title, url string) models.OfferType {
	if url != "" {
		if offer, ok := offerTypeAliases.findInText(url); ok {
			return offer
		}
	}
	if title != "" {
		if offer, ok := offerTypeAliases.findInText(title); ok {
			return offer
		}
	}
	return models.OfferTypeUnknown
}

func resolvePropertyType(title, url string) models.PropertyType {
	if url != "" {
		if prop, ok := propertyTypeAliases.findInText(url); ok {
			return prop
		}
	}
	if title != "" {
		if prop, ok := propertyTypeAliases.findInText(title); ok {
			return prop
		}
	}
	return models.PropertyTypeUnknown
}

// extractArea pulls a numeric area out of text like "56 кв.м",
// "207.43 м²" or "65 m2". Both decimal separators are accepted.
func extractArea(text string) *float64 {
	if text == "" {
		return nil
	}
	normalized := strings.ReplaceAll(text, "m", "м")
	m := reArea.FindStringSubmatch(normalized)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}

// extractFloor parses floor text like "Етаж: 3", "6-ти ет.", "партер" or
// a bare number. Ground floor and basements map to their sentinels.
func extractFloor(text string) *int {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	if m := reFloorLabel.FindStringSubmatch(text); m != nil {
		return floorToken(strings.ToLower(m[1]))
	}
	if m := reFloorShort.FindStringSubmatch(text); m != nil {
		tok := m[1]
		if tok == "" {
			tok = m[2]
		}
		return floorToken(tok)
	}
	if rePlainNumber.MatchString(text) {
		return floorToken(text)
	}
	switch {
	case strings.Contains(lower, "партер"):
		return models.Int(models.FloorGround)
	case strings.Contains(lower, "сутерен"):
		return models.Int(models.FloorBasement)
	case strings.Contains(lower, "таван"), strings.Contains(lower, "последен"):
		return models.Int(models.FloorAttic)
	}
	return nil
}

func floorToken(tok string) *int {
	switch tok {
	case "партер":
		return models.Int(models.FloorGround)
	case "последен":
		return models.Int(models.FloorAttic)
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return nil
	}
	return &n
}

// extractFloorFromDescription is the fallback for sites whose list pages
// bury the floor inside the ad text ("на 3-ти етаж от 8").
func extractFloorFromDescription(text string) *int {
	if text == "" {
		return nil
	}
	if m := reFloorInDesc.FindStringSubmatch(text); m != nil {
		return floorToken(m[1])
	}
	if m := reFloorAfter.FindStringSubmatch(text); m != nil {
		return floorToken(m[1])
	}
	if strings.Contains(strings.ToLower(text), "партер") {
		return models.Int(models.FloorGround)
	}
	return nil
}

func extractTotalFloors(text string) *int {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	digits := reNonDigit.ReplaceAllString(text, "")
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}

func extractTotalFloorsFromDescription(text string) *int {
	if m := reTotalFloors.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return &n
		}
	}
	return nil
}

// detectWithoutVAT flags commercial listings priced "без ДДС".
func detectWithoutVAT(texts ...string) bool {
	for _, text := range texts {
		if strings.Contains(strings.ToLower(text), "без ддс") {
			return true
		}
	}
	return false
}

func pricePerM2(price, area *float64) *float64 {
	if price == nil || area == nil || *area <= 0 {
		return nil
	}
	v := round2(*price / *area)
	return &v
}

// normalizeAgency maps known agency spellings to one canonical name and
// otherwise keeps the trimmed original.
func normalizeAgency(agency string) string {
	agency = strings.TrimSpace(agency)
	if agency == "" {
		return ""
	}
	if canonical, ok := knownAgencies[strings.ToLower(agency)]; ok {
		return canonical
	}
	return agency
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
