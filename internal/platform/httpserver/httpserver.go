package httpserver

import (
	"net/http"
	"time"
)

const defaultReadHeaderTimeout = 5 * time.Second

// New builds an HTTP server. A zero readHeaderTimeout uses the default.
func New(addr string, handler http.Handler, readHeaderTimeout time.Duration) *http.Server {
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = defaultReadHeaderTimeout
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       2 * time.Minute,
	}
}
