package app

import (
	"log"
	"net/http"
	"strings"

	"github.com/klabast/wb-services/shop-directory/internal/shops"
)

// ServeIndex serves the listing page
func (s *Server) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.renderNotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(s.IndexHTML); err != nil {
		log.Printf("Error writing index HTML: %v", err)
	}
}

// HandleShops returns the listed shops and the filter options.
// Query params: tab=all|open, dc, race, day, name (all optional)
func (s *Server) HandleShops(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	_, parsed, err := s.load(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := s.now()
	population := shops.Population(parsed.Items)
	items := shops.Filter(population, QueryFromRequest(r), now)

	writeJSON(w, r, ShopsResponse{
		Total:   len(items),
		Now:     shops.FormatNow(now),
		Items:   items,
		Options: shops.ExtractFacets(population),
	})
}

// HandleRaw returns the first rows of the unparsed sheet
func (s *Server) HandleRaw(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	grid, err := s.Source.FetchRows(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, RawResponse{
		TotalRows: len(grid),
		Preview:   grid.Preview(RawPreviewRows),
	})
}

// HandleDebug returns every parsed record with parse metadata
func (s *Server) HandleDebug(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	grid, parsed, err := s.load(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, r, DebugResponse{
		Meta: DebugMeta{
			TotalRawRows:   len(grid),
			HeaderRowIndex: parsed.HeaderRowIndex,
			Headers:        parsed.Headers,
			TotalItems:     len(parsed.Items),
		},
		Items: parsed.Items,
	})
}

// HandleExport handles downloads of the filtered listing in CSV, JSON or ICS format
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	switch format {
	case "csv", "json", "ics":
	default:
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
		return
	}

	_, parsed, err := s.load(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := s.now()
	items := shops.Filter(shops.Population(parsed.Items), QueryFromRequest(r), now)

	switch format {
	case "csv":
		GenerateCSV(w, items)
	case "json":
		GenerateJSON(w, items, now)
	case "ics":
		GenerateICS(w, items, now)
	}
}
