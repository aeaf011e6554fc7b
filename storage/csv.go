package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"estate-scraper/models"
)

const dateLayout = "2006-01-02"

var rawHeader = []string{
	"site", "search_url", "title", "description", "price_text",
	"location_text", "area_text", "floor_text", "total_floors_text",
	"agency", "agency_url", "ref_no", "photos_text", "details_url",
	"scraped_at",
}

var processedHeader = []string{
	"site", "search_url", "details_url", "ref_no", "title", "description",
	"price", "original_currency", "without_vat", "price_per_m2", "city",
	"neighborhood", "property_type", "offer_type", "area", "floor",
	"total_floors", "agency", "scraped_at", "fingerprint_hash",
}

// RawCSVPath builds the canonical raw file location:
// {resultsDir}/raw/{site}/{folder}/{date}.csv.
func RawCSVPath(resultsDir, site, folder string, date time.Time) string {
	return filepath.Join(resultsDir, "raw", site, folder, date.Format(dateLayout)+".csv")
}

// ProcessedPath maps a raw CSV path to its processed counterpart by
// swapping the raw directory segment.
func ProcessedPath(rawPath string) string {
	sep := string(filepath.Separator)
	return strings.Replace(rawPath, sep+"raw"+sep, sep+"processed"+sep, 1)
}

// RawCSVWriter appends raw listings to a per-site CSV file.
// It is safe for concurrent use.
type RawCSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewRawCSVWriter opens the CSV file at the given path for appending, so
// several runs on the same day accumulate into one file. The header row is
// written only when the file is new. Intermediate directories are created
// automatically.
func NewRawCSVWriter(path string) (*RawCSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("csv: open file %q: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: stat file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(rawHeader); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
		w.Flush()
	}

	return &RawCSVWriter{file: f, writer: w}, nil
}

// WriteRaw appends raw listings to the file.
func (c *RawCSVWriter) WriteRaw(listings []models.RawListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.Site,
			l.SearchURL,
			l.Title,
			l.Description,
			l.PriceText,
			l.LocationText,
			l.AreaText,
			l.FloorText,
			l.TotalFloorsText,
			l.Agency,
			l.AgencyURL,
			l.RefNo,
			l.PhotosText,
			l.DetailsURL,
			l.ScrapedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *RawCSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// ProcessedCSVWriter writes normalized listings to a CSV file.
type ProcessedCSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewProcessedCSVWriter creates (or truncates) the processed CSV file.
func NewProcessedCSVWriter(path string) (*ProcessedCSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(processedHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &ProcessedCSVWriter{file: f, writer: w}, nil
}

// Write appends normalized listings to the file.
func (c *ProcessedCSVWriter) Write(listings []models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.Site,
			l.SearchURL,
			l.DetailsURL,
			l.RefNo,
			l.Title,
			l.Description,
			formatFloat(l.Price),
			string(l.OriginalCurrency),
			strconv.FormatBool(l.WithoutVAT),
			formatFloat(l.PricePerM2),
			string(l.City),
			string(l.Neighborhood),
			string(l.PropertyType),
			string(l.OfferType),
			formatFloat(l.Area),
			formatInt(l.Floor),
			formatInt(l.TotalFloors),
			l.Agency,
			l.ScrapedAt.Format(time.RFC3339),
			l.FingerprintHash,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *ProcessedCSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// Absent numeric fields serialize as empty cells, never as zeroes.
func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
