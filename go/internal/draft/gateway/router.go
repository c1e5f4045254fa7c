package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func newRouter(s *Service) http.Handler {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	if s.auth != nil {
		router.Use(s.auth.Middleware)
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})

	s.wsHandler.RegisterRoutes(router)
	s.stateHandler.RegisterStateRoutes(router)

	if s.draftService != nil {
		path, handler := NewDraftServiceHandler(s.draftService)
		router.Mount(path, handler)
		router.Post("/api/drafts/{id}/picks", s.draftService.HandleSubmitPick)
	}

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RejectReasonHeader},
	})

	return h2c.NewHandler(c.Handler(router), &http2.Server{})
}
