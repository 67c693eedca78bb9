package app

import (
	"bufio"
	"encoding/hex"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/klabast/wb-services/shop-directory/internal/sheet"
	"github.com/klabast/wb-services/shop-directory/internal/shops"
)

// RequireMethod validates that the request uses the specified HTTP method.
// HEAD is accepted wherever GET is.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	w.Header().Set("Allow", method)
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}

// QueryFromRequest reads the listing filters from the URL query
func QueryFromRequest(r *http.Request) shops.Query {
	q := r.URL.Query()
	return shops.Query{
		Tab:  shops.ParseTab(q.Get("tab")),
		DC:   strings.TrimSpace(q.Get("dc")),
		Race: strings.TrimSpace(q.Get("race")),
		Day:  strings.TrimSpace(q.Get("day")),
		Name: q.Get("name"),
	}
}

// ETag returns a strong validator for a response body
func ETag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

// writeJSON encodes v, tags it with an ETag and answers 304 when the client already has it
func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
		return
	}

	etag := ETag(body)
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(body); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// errorStatus maps a load error to an HTTP status
func errorStatus(err error) int {
	var fetchErr *sheet.FetchError
	if errors.As(err, &fetchErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError logs err and answers with a JSON error body
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	log.Printf("Error serving %s: %v", r.URL.Path, err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()}); err != nil {
		log.Printf("Error encoding error response: %v", err)
	}
}

// statusRecorder captures the status code for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	return rec.ResponseWriter.Write(b)
}

// Hijack lets the websocket upgrader take over the connection
func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rec.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (rec *statusRecorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// LogRequests tags every request with an X-Request-ID and logs its outcome
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		log.Printf("%s %s %s %d %s", id, r.Method, r.URL.RequestURI(), status, time.Since(start).Round(time.Millisecond))
	})
}
