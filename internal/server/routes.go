package server

import (
	"github.com/nfrund/toybattle/internal/middleware"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	rateLimiter := middleware.RateLimiter(s.cfg.RateLimit)

	s.E.GET("/health", s.healthCheck)
	s.E.GET("/topics", s.listTopics)

	g := s.E.Group("/matches")
	g.GET("", s.listMatches)
	g.POST("", s.createMatch, rateLimiter)
	g.GET("/:id", s.getMatch)
	g.DELETE("/:id", s.deleteMatch)
	g.GET("/:id/units", s.liveUnits)
	g.GET("/:id/events", s.streamEvents)

	// Draft
	g.POST("/:id/commit", s.commit)
	g.POST("/:id/advance", s.advance)

	// Battle
	g.POST("/:id/tick", s.tick)
	g.POST("/:id/run", s.run)
	g.POST("/:id/skip", s.skip)
	g.POST("/:id/release", s.release)

	g.POST("/:id/snapshot", s.saveSnapshot)
	g.POST("/:id/restore", s.restoreSnapshot)
}
