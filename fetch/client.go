// Package fetch retrieves search result pages for the extractors. It owns
// HTTP concerns only: timeouts, retries, status handling and charset
// decoding. Parsing belongs to the scraper packages.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"estate-scraper/utils"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher retrieves one URL and returns its body as UTF-8 text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchError carries the failing URL and HTTP status for the run summary.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client is the plain HTTP fetcher. Sites that serve windows-1251 get
// their bodies decoded to UTF-8 here so everything downstream sees one
// encoding.
type Client struct {
	http     *http.Client
	encoding string
	retry    *utils.RetryConfig
	logger   *utils.Logger
}

// NewClient builds a Client. encoding is "" for UTF-8 sites or
// "windows-1251" for the legacy ones.
func NewClient(timeout time.Duration, encoding string, retry *utils.RetryConfig, logger *utils.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: timeout},
		encoding: strings.ToLower(encoding),
		retry:    retry,
		logger:   logger,
	}
}

// Fetch downloads url with retries and returns the decoded body.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	var body string
	err := c.retry.Do(fmt.Sprintf("GET %s", url), func() error {
		var err error
		body, err = c.fetchOnce(ctx, url)
		return err
	})
	if err != nil {
		return "", err
	}
	return body, nil
}

func (c *Client) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "bg-BG,bg;q=0.9,en;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	reader := io.Reader(resp.Body)
	if c.encoding == "windows-1251" {
		reader = transform.NewReader(reader, charmap.Windows1251.NewDecoder())
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	return string(data), nil
}
