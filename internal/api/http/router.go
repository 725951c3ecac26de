package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/quizpilot/quizpilot/internal/agent"
	"github.com/quizpilot/quizpilot/internal/auth"
	"github.com/quizpilot/quizpilot/internal/history"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// Controller is the slice of the agent the API drives.
type Controller interface {
	TriggerScan()
	Stats() mcq.Stats
	MarkCorrect() mcq.Stats
	Bus() *agent.Bus
}

// NewRouter wires the control API: local login plus a JWT-protected
// group for stats, history, manual rescans and the event stream.
func NewRouter(authSvc *auth.Service, ctrl Controller, store history.Store, allowedOrigins []string, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	origins := allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Timeout(30 * time.Second))
		gr.Post("/auth/login", auth.LoginHandler(authSvc))
		gr.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

		gr.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(authSvc))

			pr.Get("/stats", StatsHandler(ctrl))
			pr.Post("/stats/correct", MarkCorrectHandler(ctrl))
			pr.Get("/attempts", ListAttemptsHandler(store))
			pr.Post("/scan", TriggerScanHandler(ctrl))
		})
	})

	// The event stream is long-lived and sits outside the timeout group.
	r.With(auth.JWTMiddleware(authSvc)).
		Get("/events", EventsHandler(ctrl, allowedOrigins, log))

	return r
}
