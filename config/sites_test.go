package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSitesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadSites(t *testing.T) {
	path := writeSitesFile(t, `
sites:
  imotbg:
    encoding: windows-1251
    rate_limit_ms: 1000
    max_pages: 20
    urls:
      - url: https://www.imot.bg/obiavi/prodazhbi/dvustaen/sofia
        name: sofia-dvustaen
        folder: sofia-dvustaen
  homesbg:
    rate_limit_ms: 2000
    neighborhood_ids: ["487", "488"]
    include_land: true
  bazarbg:
    use_browser: true
    urls:
      - url: https://bazar.bg/obiavi/prodazhba-apartamenti
        name: apartments
        folder: apartments
`)

	sites, errs, err := LoadSites(path)
	if err != nil {
		t.Fatalf("LoadSites: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected config errors: %v", errs)
	}
	if len(sites) != 3 {
		t.Fatalf("sites: got %d, want 3", len(sites))
	}

	imotbg := sites["imotbg"]
	if imotbg.Encoding != "windows-1251" || imotbg.MaxPages != 20 {
		t.Errorf("imotbg config: %+v", imotbg)
	}
	if len(sites["homesbg"].NeighborhoodIDs) != 2 || !sites["homesbg"].IncludeLand {
		t.Errorf("homesbg config: %+v", sites["homesbg"])
	}
	if !sites["bazarbg"].UseBrowser {
		t.Error("bazarbg should use the browser fetcher")
	}
}

func TestLoadSitesDisablesInvalidEntry(t *testing.T) {
	path := writeSitesFile(t, `
sites:
  imotbg:
    urls:
      - url: https://www.imot.bg/obiavi/prodazhbi/sofia
        folder: sofia
  imotinet:
    rate_limit_ms: 1000
`)

	sites, errs, err := LoadSites(path)
	if err != nil {
		t.Fatalf("LoadSites: %v", err)
	}
	if len(errs) != 1 || errs[0].Site != "imotinet" {
		t.Fatalf("config errors: %v", errs)
	}
	if !sites["imotinet"].Disabled {
		t.Error("invalid site should be disabled")
	}
	if sites["imotbg"].Disabled {
		t.Error("valid site disabled by a sibling's error")
	}
}

func TestLoadSitesRejectsMissingFile(t *testing.T) {
	if _, _, err := LoadSites(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadSitesRejectsEmptyFile(t *testing.T) {
	path := writeSitesFile(t, "sites: {}\n")
	if _, _, err := LoadSites(path); err == nil {
		t.Fatal("expected error for file without sites")
	}
}
