package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klabast/wb-services/shop-directory/internal/sheet"
)

func TestHandleShopPage(t *testing.T) {
	handler := newTestServer(stubSource{grid: fixtureGrid()}).Routes()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		contains   []string
		excludes   []string
	}{
		{
			name:       "Open overnight shop",
			path:       "/shops/1",
			wantStatus: http.StatusOK,
			contains:   []string{"Cafe ABC", "Chaos", "Tonberry", `href="https://x.com/abc"`, "#abc", "20:00", "2:00", "事前予約: <span>なし</span>", "備考: welcome", `id="open-label">営業中`, "21:30（月）", "/static/detail.js"},
		},
		{
			name:       "Closed shop",
			path:       "/shops/2",
			wantStatus: http.StatusOK,
			contains:   []string{"Bar Moon", `id="open-label" hidden`, "備考: -"},
		},
		{
			name:       "Hidden shops keep their detail page",
			path:       "/shops/3",
			wantStatus: http.StatusOK,
			contains:   []string{"Hidden"},
		},
		{
			name:       "Names are escaped",
			path:       "/shops/4",
			wantStatus: http.StatusOK,
			contains:   []string{"Tea &lt;b&gt;House&lt;/b&gt;", `<span class="irregular">不定期</span>`},
			excludes:   []string{"<b>House</b>"},
		},
		{
			name:       "Unknown shop",
			path:       "/shops/99",
			wantStatus: http.StatusNotFound,
			contains:   []string{"店舗が見つかりません", "No: 99", "一覧へ戻る"},
			excludes:   []string{"detail.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			body := w.Body.String()
			for _, s := range tt.contains {
				if !strings.Contains(body, s) {
					t.Errorf("Page should contain %q", s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(body, s) {
					t.Errorf("Page should not contain %q", s)
				}
			}
		})
	}
}

func TestHandleShopPageEmptyKey(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(stubSource{grid: fixtureGrid()}).Routes().ServeHTTP(w, httptest.NewRequest("GET", "/shops/", nil))

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Errorf("Expected redirect to /, got %d %s", w.Code, w.Header().Get("Location"))
	}
}

func TestPagesShowLoadErrors(t *testing.T) {
	src := stubSource{err: &sheet.FetchError{URL: "u", StatusCode: 500, Status: "500 Internal Server Error"}}
	handler := newTestServer(src).Routes()

	for _, path := range []string{"/shops/1", "/debug"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))

		if w.Code != http.StatusBadGateway {
			t.Errorf("%s: expected status 502, got %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), ErrSheetFetch) {
			t.Errorf("%s: expected the fetch error message", path)
		}
	}
}

func TestHandleDebugPage(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(stubSource{grid: fixtureGrid()}).Routes().ServeHTTP(w, httptest.NewRequest("GET", "/debug", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, s := range []string{"header row index: 2", "items: 4", "listed: 3", "<code>no.</code>", "店舗一覧"} {
		if !strings.Contains(body, s) {
			t.Errorf("Debug page should contain %q", s)
		}
	}
}

func TestHandleAbout(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(stubSource{}).Routes().ServeHTTP(w, httptest.NewRequest("GET", "/about", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "このサイトについて") {
		t.Error("About page should render its title")
	}
}
