package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/quizpilot/quizpilot/internal/history"
)

// GET /attempts?limit=50 lists recent attempts, newest first. The store
// clamps limit to the configured history cap. A nil store (history
// disabled) yields an empty list.
func ListAttemptsHandler(store history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("[]"))
			return
		}
		limit := parseIntDefault(r.URL.Query().Get("limit"), 0)

		list, err := store.Recent(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if list == nil {
			list = []history.Attempt{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
