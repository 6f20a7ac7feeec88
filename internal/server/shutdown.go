package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// waitForShutdown blocks until an interrupt or terminate signal is received.
func waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
}

// Shutdown stops accepting requests, then closes the bus and runs the
// cleanup hooks. Every step runs even when an earlier one fails.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server", "matches", len(s.matches.IDs()))

	errs := []error{s.E.Shutdown(ctx), s.bus.Close()}
	for _, fn := range s.cleanup {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}
