package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medilingo/internal/chatbot"
	"medilingo/internal/http/middleware"
	"medilingo/internal/translation"
	"medilingo/pkg/logging"
)

type routerDeps struct {
	logger             *logging.Logger
	jwtSecret          string
	corsOrigins        []string
	chatbotHandler     *chatbot.Handler
	translationHandler *translation.Handler
	metricsHandler     http.Handler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(d.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(d.corsOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if d.metricsHandler == nil {
		d.metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", d.metricsHandler)

	r.Route("/api", func(r chi.Router) {
		translation.RegisterPublicRoutes(r, d.translationHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(d.jwtSecret))
			translation.RegisterRoutes(r, d.translationHandler)
			chatbot.RegisterRoutes(r, d.chatbotHandler)
		})
	})
	return r
}
