package app

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/klabast/wb-services/shop-directory/internal/sheet"
	"github.com/klabast/wb-services/shop-directory/internal/shops"
)

//go:embed templates/*.html
var templateFS embed.FS

// page templates, each rendered inside layout.html
var pageNames = []string{"shop", "debug", "about", "error"}

func parsePages() map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pages[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return pages
}

// render executes a page into a buffer first so template errors still yield a clean 500
func (s *Server) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("Error rendering %s page: %v", name, err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing %s page: %v", name, err)
	}
}

type errorPage struct {
	Title   string
	Message string
	Detail  string
}

func (s *Server) renderLoadError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("Error serving %s: %v", r.URL.Path, err)

	message := ErrInternalServer
	var fetchErr *sheet.FetchError
	if errors.As(err, &fetchErr) {
		message = ErrSheetFetch
	}
	s.render(w, errorStatus(err), "error", errorPage{Title: "エラー", Message: message, Detail: err.Error()})
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, "error", errorPage{Title: "404", Message: "ページが見つかりません", Detail: r.URL.Path})
}

type dayLabel struct {
	Label string
	Class string
}

type shopPage struct {
	Title string
	Key   string
	Found bool
	Now   string
	Open  bool

	No             string
	Name           string
	DC             string
	Server         string
	XTag           string
	XURL           string
	XID            string
	Race           string
	Price          string
	PriceDetail    string
	HP             string
	Days           []dayLabel
	Start          string
	End            string
	AdvanceBooking string
	Note           string
	CheckedAt      string
}

func dayClass(d shops.DayKey) string {
	switch d {
	case shops.Saturday, shops.Sunday:
		return "orange"
	case shops.Irregular:
		return "irregular"
	}
	return ""
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// HandleShopPage renders the detail page for /shops/{no}.
// Every parsed record is searched, not only the listed ones.
func (s *Server) HandleShopPage(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	key := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/shops/"))
	if key == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	_, parsed, err := s.load(r.Context())
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}

	now := s.now()
	rec, ok := shops.FindByNo(parsed.Items, key)
	if !ok {
		s.render(w, http.StatusNotFound, "shop", shopPage{Title: ErrShopNotFound, Key: key, Now: shops.FormatNow(now)})
		return
	}

	page := shopPage{
		Key:            key,
		Found:          true,
		Now:            shops.FormatNow(now),
		Open:           shops.IsOpenAt(rec, now),
		No:             rec.No(),
		Name:           orDefault(rec.Name(), "(店名なし)"),
		DC:             rec.DC(),
		Server:         rec.Server(),
		XTag:           rec.XTag(),
		XURL:           rec.XURL(),
		XID:            rec.XID(),
		Race:           rec.Race(),
		Price:          rec.Price(),
		PriceDetail:    rec.PriceDetail(),
		HP:             rec.HP(),
		Start:          orDefault(rec.Start(), "-"),
		End:            orDefault(rec.End(), "-"),
		AdvanceBooking: orDefault(rec.AdvanceBooking(), "なし"),
		Note:           orDefault(rec.Note(), "-"),
		CheckedAt:      rec.CheckedAt(),
	}
	page.Title = page.Name
	for _, d := range rec.OpenDays() {
		page.Days = append(page.Days, dayLabel{Label: string(d), Class: dayClass(d)})
	}

	s.render(w, http.StatusOK, "shop", page)
}

type debugPage struct {
	Title          string
	TotalRawRows   int
	HeaderRowIndex int
	Headers        []string
	TotalItems     int
	Listed         int
	ItemsJSON      string
	RawRows        sheet.Grid
}

// HandleDebugPage shows how the sheet was parsed
func (s *Server) HandleDebugPage(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	grid, parsed, err := s.load(r.Context())
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}

	items := parsed.Items
	if len(items) > DebugItemsShown {
		items = items[:DebugItemsShown]
	}
	itemsJSON, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		log.Printf("Error encoding debug items: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	s.render(w, http.StatusOK, "debug", debugPage{
		Title:          "Debug",
		TotalRawRows:   len(grid),
		HeaderRowIndex: parsed.HeaderRowIndex,
		Headers:        parsed.Headers,
		TotalItems:     len(parsed.Items),
		Listed:         len(shops.Population(parsed.Items)),
		ItemsJSON:      string(itemsJSON),
		RawRows:        grid.Preview(DebugRawRowsShow),
	})
}

// HandleAbout serves the static about page
func (s *Server) HandleAbout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	s.render(w, http.StatusOK, "about", struct{ Title string }{Title: "このサイトについて"})
}
