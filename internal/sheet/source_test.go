package sheet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestExportURL(t *testing.T) {
	src := NewHTTPSource("abc123", "456", 0)
	want := "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=456"
	if got := src.ExportURL(); got != want {
		t.Errorf("ExportURL() = %s, want %s", got, want)
	}
}

func TestHTTPSourceFetchRows(t *testing.T) {
	csvBody := "\ufeffNo.,店名,備考\n1,\"Cafe \"\"ABC\"\"\",multi\nline\n2,Bar\n,,\n"

	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(csvBody))
	}))
	defer server.Close()

	src := NewHTTPSource("doc", "0", 0)
	src.BaseURL = server.URL

	grid, err := src.FetchRows(context.Background())
	if err != nil {
		t.Fatalf("FetchRows() failed: %v", err)
	}

	if gotPath != "/doc/export" || gotQuery != "format=csv&gid=0" {
		t.Errorf("request = %s?%s, want /doc/export?format=csv&gid=0", gotPath, gotQuery)
	}

	want := Grid{
		{"No.", "店名", "備考"},
		{"1", "Cafe \"ABC\"", "multi"},
		{"line"},
		{"2", "Bar"},
		{"", "", ""},
	}
	if !reflect.DeepEqual(grid, want) {
		t.Errorf("grid = %q, want %q", grid, want)
	}
}

func TestHTTPSourceNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sheet is private", http.StatusForbidden)
	}))
	defer server.Close()

	src := NewHTTPSource("doc", "0", 0)
	src.BaseURL = server.URL

	_, err := src.FetchRows(context.Background())
	if err == nil {
		t.Fatal("FetchRows() should fail on 403")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error should be a *FetchError, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", fetchErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "sheet is private") {
		t.Errorf("error should include the response body, got %q", err.Error())
	}
}

func TestHTTPSourceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	src := NewHTTPSource("doc", "0", 0)
	src.BaseURL = server.URL
	server.Close()

	_, err := src.FetchRows(context.Background())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error should be a *FetchError, got %v", err)
	}
	if fetchErr.Err == nil {
		t.Error("transport failures should keep the underlying error")
	}
}

func TestParseCSVEmpty(t *testing.T) {
	grid, err := ParseCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseCSV() failed: %v", err)
	}
	if grid == nil || len(grid) != 0 {
		t.Errorf("ParseCSV(\"\") = %v, want empty grid", grid)
	}
}

func TestGridPreview(t *testing.T) {
	grid := Grid{{"a"}, {"b"}, {"c"}}
	if got := grid.Preview(2); len(got) != 2 {
		t.Errorf("Preview(2) returned %d rows", len(got))
	}
	if got := grid.Preview(15); len(got) != 3 {
		t.Errorf("Preview(15) returned %d rows", len(got))
	}
}
