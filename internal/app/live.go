package app

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/klabast/wb-services/shop-directory/internal/shops"
)

const liveWriteTimeout = 10 * time.Second

// LiveStatus evaluates which listed shops are open right now.
// When no is set, the message also carries that shop's own state.
func (s *Server) LiveStatus(ctx context.Context, no string) (LiveMessage, error) {
	_, parsed, err := s.load(ctx)
	if err != nil {
		return LiveMessage{}, err
	}

	now := s.now()
	msg := LiveMessage{
		Now:  shops.FormatNow(now),
		Open: shops.OpenNos(shops.Population(parsed.Items), now),
	}
	if no != "" {
		if rec, ok := shops.FindByNo(parsed.Items, no); ok {
			open := shops.IsOpenAt(rec, now)
			msg.No = rec.No()
			msg.IsOpen = &open
		}
	}
	return msg, nil
}

// HandleLive upgrades to a websocket and pushes the open state immediately
// and then once per LiveInterval until the client disconnects.
// Query param: no (optional shop to follow)
func (s *Server) HandleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading live connection: %v", err)
		return
	}
	defer conn.Close()

	no := strings.TrimSpace(r.URL.Query().Get("no"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The client never sends anything meaningful; reading detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	interval := s.LiveInterval
	if interval <= 0 {
		interval = DefaultLiveInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.pushLive(ctx, conn, no); err != nil {
			log.Printf("Live connection closed: %v", err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// pushLive sends one status message. Load failures are reported to the
// client as an error message and do not end the connection.
func (s *Server) pushLive(ctx context.Context, conn *websocket.Conn, no string) error {
	var payload interface{}
	msg, err := s.LiveStatus(ctx, no)
	if err != nil {
		log.Printf("Error evaluating live status: %v", err)
		payload = ErrorResponse{Error: err.Error()}
	} else {
		payload = msg
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, body)
}
