package http

import (
	"encoding/json"
	"net/http"
)

// GET /stats
func StatsHandler(ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ctrl.Stats())
	}
}

// POST /stats/correct marks the most recent answer correct and returns
// the refreshed counters.
func MarkCorrectHandler(ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ctrl.MarkCorrect())
	}
}

// POST /scan requests a rescan of the current page. The pass runs
// asynchronously; an in-flight pass coalesces repeated requests.
func TriggerScanHandler(ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl.TriggerScan()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
	}
}
