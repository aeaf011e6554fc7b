package storage

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SaveDebugPage stores a fetched body that failed extraction, gzipped,
// so selector breakage can be diagnosed from the actual page.
func SaveDebugPage(resultsDir, site, body string) (string, error) {
	dir := filepath.Join(resultsDir, "debug", site)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("debug: create dir: %w", err)
	}

	path := filepath.Join(dir, time.Now().Format("2006-01-02T15-04-05")+".html.gz")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("debug: create %q: %w", path, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(body)); err != nil {
		gz.Close()
		return "", fmt.Errorf("debug: write %q: %w", path, err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("debug: close %q: %w", path, err)
	}
	return path, nil
}
