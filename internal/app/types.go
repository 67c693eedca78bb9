package app

import (
	"github.com/klabast/wb-services/shop-directory/internal/sheet"
	"github.com/klabast/wb-services/shop-directory/internal/shops"
)

// ShopsResponse is the listing payload: the filtered population plus filter options
type ShopsResponse struct {
	Total   int            `json:"total"`
	Now     string         `json:"now"`
	Items   []shops.Record `json:"items"`
	Options shops.Facets   `json:"options"`
}

// RawResponse previews the unparsed grid
type RawResponse struct {
	TotalRows int        `json:"totalRows"`
	Preview   sheet.Grid `json:"preview"`
}

// DebugMeta describes one parse pass
type DebugMeta struct {
	TotalRawRows   int      `json:"totalRawRows"`
	HeaderRowIndex int      `json:"headerRowIndex"`
	Headers        []string `json:"headers"`
	TotalItems     int      `json:"totalItems"`
}

// DebugResponse exposes every parsed record, including hidden ones
type DebugResponse struct {
	Meta  DebugMeta      `json:"meta"`
	Items []shops.Record `json:"items"`
}

// LiveMessage is pushed over the live websocket
type LiveMessage struct {
	Now  string   `json:"now"`
	Open []string `json:"open"`
	// No and IsOpen are set when the client follows a single shop
	No     string `json:"no,omitempty"`
	IsOpen *bool  `json:"isOpen,omitempty"`
}

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error string `json:"error"`
}
