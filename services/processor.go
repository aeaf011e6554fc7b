package services

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"estate-scraper/storage"
	"estate-scraper/utils"
)

// OutputMode controls where reprocessed files are written.
type OutputMode int

const (
	// OutputOverwrite replaces the existing processed file.
	OutputOverwrite OutputMode = iota
	// OutputNew writes next to it under a timestamped name, keeping
	// the original for comparison.
	OutputNew
)

// ProcessStats summarizes one raw file's processing.
type ProcessStats struct {
	RawPath    string
	OutPath    string
	Read       int
	Dropped    int
	Duplicates int
	Written    int
}

// Processor turns raw CSV files into processed ones: transform, then
// fingerprint dedup where the first occurrence wins.
type Processor struct {
	transformer *Transformer
	logger      *utils.Logger

	// db is an optional extra sink next to the processed CSVs.
	db storage.ListingWriter
}

func NewProcessor(transformer *Transformer, logger *utils.Logger) *Processor {
	return &Processor{transformer: transformer, logger: logger}
}

// WithDB adds a database sink. Processed listings are written to both
// the CSV and the database.
func (p *Processor) WithDB(db storage.ListingWriter) *Processor {
	p.db = db
	return p
}

// ProcessFile transforms one raw CSV into its processed counterpart.
func (p *Processor) ProcessFile(rawPath string) (*ProcessStats, error) {
	return p.processFile(rawPath, storage.ProcessedPath(rawPath))
}

func (p *Processor) processFile(rawPath, outPath string) (*ProcessStats, error) {
	raws, err := storage.ReadRawCSV(rawPath)
	if err != nil {
		return nil, err
	}

	listings, dropped := p.transformer.TransformBatch(raws)

	seen := make(map[string]struct{}, len(listings))
	unique := listings[:0]
	for _, l := range listings {
		if _, dup := seen[l.FingerprintHash]; dup {
			continue
		}
		seen[l.FingerprintHash] = struct{}{}
		unique = append(unique, l)
	}

	writer, err := storage.NewProcessedCSVWriter(outPath)
	if err != nil {
		return nil, err
	}
	if err := writer.Write(unique); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	if p.db != nil {
		if err := p.db.Write(unique); err != nil {
			return nil, err
		}
	}

	stats := &ProcessStats{
		RawPath:    rawPath,
		OutPath:    outPath,
		Read:       len(raws),
		Dropped:    dropped,
		Duplicates: len(listings) - len(unique),
		Written:    len(unique),
	}
	p.logger.Info("Processed %s: %d read, %d dropped, %d duplicates, %d written",
		rawPath, stats.Read, stats.Dropped, stats.Duplicates, stats.Written)
	return stats, nil
}

// ProcessAll walks results/raw and processes every CSV file found.
func (p *Processor) ProcessAll(resultsDir string) ([]*ProcessStats, error) {
	paths, err := rawCSVFiles(resultsDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("process: no raw csv files under %s", filepath.Join(resultsDir, "raw"))
	}

	var all []*ProcessStats
	for _, path := range paths {
		stats, err := p.ProcessFile(path)
		if err != nil {
			p.logger.Error("Processing %s failed: %v", path, err)
			continue
		}
		all = append(all, stats)
	}
	return all, nil
}

// ReprocessFile runs a raw file through the current transformation rules
// again. With OutputNew the result lands in a timestamped file and the
// previous processed file stays untouched.
func (p *Processor) ReprocessFile(rawPath string, mode OutputMode) (*ProcessStats, error) {
	outPath := storage.ProcessedPath(rawPath)
	if mode == OutputNew {
		outPath = timestampedPath(outPath)
	}
	return p.processFile(rawPath, outPath)
}

// ReprocessFolder reprocesses every raw CSV of one site folder, like
// results/raw/imotbg/sofia.
func (p *Processor) ReprocessFolder(resultsDir, site, folder string, mode OutputMode) ([]*ProcessStats, error) {
	dir := filepath.Join(resultsDir, "raw", site, folder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reprocess: read dir %q: %w", dir, err)
	}

	var all []*ProcessStats
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		stats, err := p.ReprocessFile(filepath.Join(dir, entry.Name()), mode)
		if err != nil {
			p.logger.Error("Reprocessing %s failed: %v", entry.Name(), err)
			continue
		}
		all = append(all, stats)
	}
	return all, nil
}

// ReprocessAll reprocesses every raw CSV under results/raw.
func (p *Processor) ReprocessAll(resultsDir string, mode OutputMode) ([]*ProcessStats, error) {
	paths, err := rawCSVFiles(resultsDir)
	if err != nil {
		return nil, err
	}

	var all []*ProcessStats
	for _, path := range paths {
		stats, err := p.ReprocessFile(path, mode)
		if err != nil {
			p.logger.Error("Reprocessing %s failed: %v", path, err)
			continue
		}
		all = append(all, stats)
	}
	return all, nil
}

func rawCSVFiles(resultsDir string) ([]string, error) {
	root := filepath.Join(resultsDir, "raw")
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".csv") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("process: walk %q: %w", root, err)
	}
	return paths, nil
}

// timestampedPath turns .../2026-03-15.csv into
// .../2026-03-15.reprocessed-20260315-143000.csv.
func timestampedPath(path string) string {
	ext := filepath.Ext(path)
	stamp := time.Now().Format("20060102-150405")
	return strings.TrimSuffix(path, ext) + ".reprocessed-" + stamp + ext
}
