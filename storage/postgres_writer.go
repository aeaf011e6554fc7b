package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"estate-scraper/models"
)

// PostgresWriter persists processed listings to PostgreSQL. It is an
// optional sink next to the processed CSV files.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id               SERIAL PRIMARY KEY,
			site             VARCHAR(50)  NOT NULL,
			details_url      TEXT         UNIQUE NOT NULL,
			ref_no           VARCHAR(100) NOT NULL DEFAULT '',
			title            TEXT         NOT NULL DEFAULT '',
			price            NUMERIC(12,2),
			original_currency VARCHAR(10) NOT NULL DEFAULT '',
			price_per_m2     NUMERIC(12,2),
			city             TEXT         NOT NULL DEFAULT '',
			neighborhood     TEXT         NOT NULL DEFAULT '',
			property_type    TEXT         NOT NULL DEFAULT '',
			offer_type       TEXT         NOT NULL DEFAULT '',
			area             NUMERIC(10,2),
			floor            INTEGER,
			agency           TEXT         NOT NULL DEFAULT '',
			fingerprint_hash CHAR(32)     NOT NULL,
			scraped_at       TIMESTAMPTZ  NOT NULL,
			created_at       TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_site         ON listings(site);
		CREATE INDEX IF NOT EXISTS idx_listings_city         ON listings(city);
		CREATE INDEX IF NOT EXISTS idx_listings_neighborhood ON listings(neighborhood);
		CREATE INDEX IF NOT EXISTS idx_listings_price        ON listings(price);
		CREATE INDEX IF NOT EXISTS idx_listings_fingerprint  ON listings(fingerprint_hash);
	`)
	return err
}

// Write batch-inserts processed listings. Rows whose details_url is
// already stored are skipped, so repeated runs only add new listings.
func (pw *PostgresWriter) Write(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.Listing) error {
	const cols = 16
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, l := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.Site, l.DetailsURL, l.RefNo, l.Title,
			nullFloat(l.Price), string(l.OriginalCurrency), nullFloat(l.PricePerM2),
			string(l.City), string(l.Neighborhood), string(l.PropertyType),
			string(l.OfferType), nullFloat(l.Area), nullInt(l.Floor),
			l.Agency, l.FingerprintHash, l.ScrapedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (site, details_url, ref_no, title, price,
			original_currency, price_per_m2, city, neighborhood,
			property_type, offer_type, area, floor, agency,
			fingerprint_hash, scraped_at)
		VALUES %s
		ON CONFLICT (details_url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored listings ordered by insertion.
func (pw *PostgresWriter) FetchAll() ([]models.Listing, error) {
	rows, err := pw.db.Query(`
		SELECT site, details_url, ref_no, title, price, original_currency,
			price_per_m2, city, neighborhood, property_type, offer_type,
			area, floor, agency, fingerprint_hash, scraped_at
		FROM listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var (
			l          models.Listing
			price      sql.NullFloat64
			pricePerM2 sql.NullFloat64
			area       sql.NullFloat64
			floor      sql.NullInt64
			currency   string
			city       string
			nbh        string
			propType   string
			offerType  string
		)
		if err := rows.Scan(
			&l.Site, &l.DetailsURL, &l.RefNo, &l.Title, &price, &currency,
			&pricePerM2, &city, &nbh, &propType, &offerType,
			&area, &floor, &l.Agency, &l.FingerprintHash, &l.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if price.Valid {
			l.Price = models.Float(price.Float64)
		}
		if pricePerM2.Valid {
			l.PricePerM2 = models.Float(pricePerM2.Float64)
		}
		if area.Valid {
			l.Area = models.Float(area.Float64)
		}
		if floor.Valid {
			l.Floor = models.Int(int(floor.Int64))
		}
		l.OriginalCurrency = models.Currency(currency)
		l.City = models.City(city)
		l.Neighborhood = models.Neighborhood(nbh)
		l.PropertyType = models.PropertyType(propType)
		l.OfferType = models.OfferType(offerType)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
