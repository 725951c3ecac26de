package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// writeTyped sends a JSON payload with a bounded write deadline so a
// stalled client cannot wedge the stream goroutine.
func writeTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(v)
}

// GET /events upgrades to a WebSocket and streams session events as
// they happen. The subscription is dropped when the client goes away.
func EventsHandler(ctrl Controller, allowedOrigins []string, log zerolog.Logger) http.HandlerFunc {
	upgrader := buildUpgrader(allowedOrigins)
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		events, cancel := ctrl.Bus().Subscribe()
		defer cancel()

		// Reader goroutine: we never expect client messages, but reading
		// is how gorilla surfaces close frames and dead peers.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case <-r.Context().Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := writeTyped(conn, ev); err != nil {
					log.Debug().Err(err).Msg("event write failed, dropping client")
					return
				}
			}
		}
	}
}
