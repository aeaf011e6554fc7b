package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"estate-scraper/models"
)

// ReadRawCSV loads a raw listings file written by RawCSVWriter. Columns
// are resolved by header name, so files from older runs with fewer
// columns still load.
func ReadRawCSV(path string) ([]models.RawListing, error) {
	rows, field, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	var listings []models.RawListing
	for _, row := range rows {
		scrapedAt, _ := time.Parse(time.RFC3339, field(row, "scraped_at"))
		listings = append(listings, models.RawListing{
			Site:            field(row, "site"),
			SearchURL:       field(row, "search_url"),
			Title:           field(row, "title"),
			Description:     field(row, "description"),
			PriceText:       field(row, "price_text"),
			LocationText:    field(row, "location_text"),
			AreaText:        field(row, "area_text"),
			FloorText:       field(row, "floor_text"),
			TotalFloorsText: field(row, "total_floors_text"),
			Agency:          field(row, "agency"),
			AgencyURL:       field(row, "agency_url"),
			RefNo:           field(row, "ref_no"),
			PhotosText:      field(row, "photos_text"),
			DetailsURL:      field(row, "details_url"),
			ScrapedAt:       scrapedAt,
		})
	}
	return listings, nil
}

// ReadProcessedCSV loads a processed listings file written by
// ProcessedCSVWriter. Empty numeric cells come back as nil pointers.
func ReadProcessedCSV(path string) ([]models.Listing, error) {
	rows, field, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	var listings []models.Listing
	for _, row := range rows {
		scrapedAt, _ := time.Parse(time.RFC3339, field(row, "scraped_at"))
		listings = append(listings, models.Listing{
			Site:             field(row, "site"),
			SearchURL:        field(row, "search_url"),
			DetailsURL:       field(row, "details_url"),
			RefNo:            field(row, "ref_no"),
			Title:            field(row, "title"),
			Description:      field(row, "description"),
			Price:            parseFloatCell(field(row, "price")),
			OriginalCurrency: models.Currency(field(row, "original_currency")),
			WithoutVAT:       field(row, "without_vat") == "true",
			PricePerM2:       parseFloatCell(field(row, "price_per_m2")),
			City:             models.City(field(row, "city")),
			Neighborhood:     models.Neighborhood(field(row, "neighborhood")),
			PropertyType:     models.PropertyType(field(row, "property_type")),
			OfferType:        models.OfferType(field(row, "offer_type")),
			Area:             parseFloatCell(field(row, "area")),
			Floor:            parseIntCell(field(row, "floor")),
			TotalFloors:      parseIntCell(field(row, "total_floors")),
			Agency:           field(row, "agency"),
			ScrapedAt:        scrapedAt,
			FingerprintHash:  field(row, "fingerprint_hash"),
		})
	}
	return listings, nil
}

// readCSV reads all data rows of a CSV file and returns them with a
// header-name field accessor.
func readCSV(path string) ([][]string, func([]string, string) string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("csv: read header of %q: %w", path, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("csv: read row of %q: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, field, nil
}

func parseFloatCell(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntCell(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
