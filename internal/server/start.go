package server

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Start runs the HTTP server until an interrupt or terminate signal, then
// shuts it down gracefully.
func (s *Server) Start(addr string) {
	go func() {
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.E.Logger.Fatalf("shutting down the server: %v", err)
		}
	}()
	s.logger.Info("Server started", "addr", addr)

	waitForShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		s.E.Logger.Fatal(err)
	}
}
