// Package sheet fetches the shop spreadsheet as a grid of strings.
package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the Google Sheets document root
	DefaultBaseURL = "https://docs.google.com/spreadsheets/d"

	// DefaultTimeout bounds a single export download
	DefaultTimeout = 15 * time.Second

	// maxErrorBody limits how much of a failed response is kept
	maxErrorBody = 2048

	utf8BOM = "\ufeff"
)

// Grid is a snapshot of the sheet, rows by columns. Rows may be ragged.
type Grid [][]string

// Preview returns at most n leading rows
func (g Grid) Preview(n int) Grid {
	if n < 0 || n >= len(g) {
		return g
	}
	return g[:n]
}

// Source returns the current sheet contents
type Source interface {
	FetchRows(ctx context.Context) (Grid, error)
}

// FetchError reports a failed download of the sheet export
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch CSV from %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch CSV: %s\n%s", e.Status, e.Body)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HTTPSource downloads a public Google sheet through its CSV export URL
type HTTPSource struct {
	SheetID string
	GID     string
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates a source for the given document and tab
func NewHTTPSource(sheetID, gid string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPSource{
		SheetID: sheetID,
		GID:     gid,
		BaseURL: DefaultBaseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// ExportURL builds .../d/{ID}/export?format=csv&gid={GID}
func (s *HTTPSource) ExportURL() string {
	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	q := url.Values{}
	q.Set("format", "csv")
	q.Set("gid", s.GID)
	return fmt.Sprintf("%s/%s/export?%s", strings.TrimRight(base, "/"), url.PathEscape(s.SheetID), q.Encode())
}

// FetchRows downloads and parses the CSV export. Non-2xx responses are errors.
func (s *HTTPSource) FetchRows(ctx context.Context) (Grid, error) {
	exportURL := s.ExportURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, &FetchError{URL: exportURL, Err: err}
	}
	req.Header.Set("Cache-Control", "no-store")

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: exportURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{
			URL:        exportURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	grid, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: exportURL, StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}
	return grid, nil
}

// ParseCSV reads CSV leniently: stray quotes and varying column counts are accepted
func ParseCSV(r io.Reader) (Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), utf8BOM)))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if rows == nil {
		rows = [][]string{}
	}
	return Grid(rows), nil
}
