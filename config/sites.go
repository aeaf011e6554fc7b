package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// SiteURL is one search URL entry for a site. Folder names the results
// subdirectory its raw CSV files land in.
type SiteURL struct {
	URL    string `yaml:"url"`
	Name   string `yaml:"name"`
	Folder string `yaml:"folder"`
}

// Site is the per-site crawl configuration from configs/sites.yaml.
type Site struct {
	URLs            []SiteURL `yaml:"urls"`
	NeighborhoodIDs []string  `yaml:"neighborhood_ids"`
	IncludeLand     bool      `yaml:"include_land"`
	Encoding        string    `yaml:"encoding"`
	RateLimitMs     int       `yaml:"rate_limit_ms"`
	MaxPages        int       `yaml:"max_pages"`
	UseBrowser      bool      `yaml:"use_browser"`
	Disabled        bool      `yaml:"disabled"`
}

// Sites maps site name to its configuration.
type Sites map[string]*Site

// ConfigError describes an invalid site entry. The affected site is
// disabled and the rest of the run continues.
type ConfigError struct {
	Site   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: site %q: %s", e.Site, e.Reason)
}

// LoadSites reads the sites file. Malformed site entries are returned as
// ConfigErrors with the offending site marked disabled; only an unreadable
// or unparsable file fails the load outright.
func LoadSites(path string) (Sites, []*ConfigError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var raw struct {
		Sites Sites `yaml:"sites"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	if len(raw.Sites) == 0 {
		return nil, nil, fmt.Errorf("config: %q defines no sites", path)
	}

	var errs []*ConfigError
	for name, site := range raw.Sites {
		if site == nil {
			raw.Sites[name] = &Site{Disabled: true}
			errs = append(errs, &ConfigError{Site: name, Reason: "empty entry"})
			continue
		}
		if reason := validateSite(site); reason != "" {
			site.Disabled = true
			errs = append(errs, &ConfigError{Site: name, Reason: reason})
		}
	}
	return raw.Sites, errs, nil
}

func validateSite(site *Site) string {
	if len(site.URLs) == 0 && len(site.NeighborhoodIDs) == 0 && !site.IncludeLand {
		return "no urls and no neighborhood_ids configured"
	}
	for i, u := range site.URLs {
		if u.URL == "" {
			return fmt.Sprintf("urls[%d] has no url", i)
		}
		if u.Folder == "" {
			return fmt.Sprintf("urls[%d] (%s) has no folder", i, u.URL)
		}
	}
	if site.RateLimitMs < 0 || site.MaxPages < 0 {
		return "negative rate_limit_ms or max_pages"
	}
	return ""
}
