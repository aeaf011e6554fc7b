package storage

import "estate-scraper/models"

// ListingWriter is the interface any processed-listing backend must satisfy.
type ListingWriter interface {
	Write(listings []models.Listing) error
	Close() error
}

// RawListingWriter is the interface for persisting unprocessed scraped data.
type RawListingWriter interface {
	WriteRaw(listings []models.RawListing) error
	Close() error
}
