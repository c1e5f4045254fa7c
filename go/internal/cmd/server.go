package main

import (
	"net/http"
	"time"

	"github.com/mcdev12/draftroom/go/internal/config"
)

func setupServer(cfg *config.Config, handler http.Handler) *http.Server {
	// no WriteTimeout: websocket connections are long lived
	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
