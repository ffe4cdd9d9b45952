package app

import (
	"context"
	"net"
	"net/http"
	"time"
)

// NewServer builds the HTTP server. Request contexts are cancelled as soon as
// Shutdown starts so long lived event streams end instead of holding it open.
func NewServer(cfg *Config, handler http.Handler) *http.Server {
	base, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           handler,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	server.RegisterOnShutdown(cancel)
	return server
}
