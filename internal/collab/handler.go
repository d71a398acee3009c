package collab

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ServeScore returns the websocket endpoint for /ws/score/{scoreId}. allowedOrigins are
// full origins such as http://localhost:5173.
func (h *Hub) ServeScore(allowedOrigins []string) http.HandlerFunc {
	patterns := originPatterns(allowedOrigins)

	return func(w http.ResponseWriter, r *http.Request) {
		scoreID := mux.Vars(r)["scoreId"]
		if scoreID == "" {
			http.Error(w, "missing score id", http.StatusBadRequest)
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "Anonymous"
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: patterns,
		})
		if err != nil {
			slog.Error("websocket accept", "error", err)
			return
		}

		client := NewClient(h, conn, name, scoreID, uuid.New().String())
		ctx := r.Context()
		h.Register(ctx, client)

		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}
}

func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		} else if o != "" {
			patterns = append(patterns, o)
		}
	}
	return patterns
}
