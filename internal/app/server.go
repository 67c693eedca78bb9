package app

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/klabast/wb-services/shop-directory/internal/sheet"
	"github.com/klabast/wb-services/shop-directory/internal/shops"
)

// Server answers the directory's HTTP routes from a row source
type Server struct {
	Source       sheet.Source
	Clock        shops.Clock
	LiveInterval time.Duration

	// Embedded files (set by main)
	Static    fs.FS
	IndexHTML []byte

	pages    map[string]*template.Template
	upgrader websocket.Upgrader
}

// NewServer creates a server reading from src and telling time with clock
func NewServer(src sheet.Source, clock shops.Clock) *Server {
	if clock == nil {
		clock = shops.SystemClock{}
	}
	return &Server{
		Source:       src,
		Clock:        clock,
		LiveInterval: DefaultLiveInterval,
		pages:        parsePages(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Routes registers every endpoint on a fresh mux wrapped with request logging
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.ServeIndex)
	mux.HandleFunc("/about", s.HandleAbout)
	mux.HandleFunc("/debug", s.HandleDebugPage)
	mux.HandleFunc("/shops/", s.HandleShopPage)

	mux.HandleFunc("/api/shops", s.HandleShops)
	mux.HandleFunc("/api/shops/raw", s.HandleRaw)
	mux.HandleFunc("/api/debug/shops", s.HandleDebug)
	mux.HandleFunc("/api/export", s.HandleExport)
	mux.HandleFunc("/api/live", s.HandleLive)

	if s.Static != nil {
		mux.Handle("/static/", http.FileServer(http.FS(s.Static)))
	}

	return LogRequests(mux)
}

// load fetches the grid and parses it. The grid is returned even when
// header detection fails so raw previews keep working.
func (s *Server) load(ctx context.Context) (sheet.Grid, shops.Parsed, error) {
	grid, err := s.Source.FetchRows(ctx)
	if err != nil {
		return nil, shops.Parsed{}, fmt.Errorf("failed to load sheet: %w", err)
	}

	parsed, err := shops.Parse(grid)
	if err != nil {
		return grid, shops.Parsed{}, fmt.Errorf("failed to parse sheet: %w", err)
	}
	return grid, parsed, nil
}

func (s *Server) now() time.Time {
	return s.Clock.Now()
}
