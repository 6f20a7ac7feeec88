package server

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/toybattle/internal/config"
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/match"
	"github.com/nfrund/toybattle/internal/middleware"
	"github.com/nfrund/toybattle/internal/pubsub"
	"github.com/spf13/afero"
)

// Bus is the event bus matches publish to and event streams read from.
type Bus interface {
	pubsub.Publisher
	pubsub.Subscriber
}

// Deps are the collaborators of a Server. Config, Catalog and Bus are required.
type Deps struct {
	Config  *config.Config
	Catalog match.Catalog
	Bus     Bus
	// Store keeps roster snapshots. When nil, the snapshot routes answer 501.
	Store domain.RosterRepository
	// Fs is where bot scripts are read from. Defaults to the OS filesystem.
	Fs     afero.Fs
	Logger *slog.Logger
	// Seed returns the seed of a new match's random source. Defaults to
	// MATCH_SEED when set, and crypto/rand otherwise.
	Seed func() int64
	// Cleanup runs after the HTTP server has stopped, in order.
	Cleanup []func(ctx context.Context) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E       *echo.Echo
	cfg     *config.Config
	catalog match.Catalog
	bus     Bus
	store   domain.RosterRepository
	fs      afero.Fs
	logger  *slog.Logger
	seed    func() int64
	cleanup []func(ctx context.Context) error
	matches *Registry
}

// New creates a Server with its middleware and routes registered.
func New(deps Deps) *Server {
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Seed == nil {
		deps.Seed = seedFrom(deps.Config.MatchSeed)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger(deps.Logger))
	e.Use(echomw.Recover())
	setupErrorHandling(e)

	s := &Server{
		E:       e,
		cfg:     deps.Config,
		catalog: deps.Catalog,
		bus:     deps.Bus,
		store:   deps.Store,
		fs:      deps.Fs,
		logger:  deps.Logger,
		seed:    deps.Seed,
		cleanup: deps.Cleanup,
		matches: NewRegistry(),
	}
	s.RegisterRoutes()
	return s
}

// Matches is the registry of running matches, useful for testing.
func (s *Server) Matches() *Registry {
	return s.matches
}

func seedFrom(fixed int64) func() int64 {
	if fixed != 0 {
		return func() int64 { return fixed }
	}
	return func() int64 {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			panic("crypto/rand unavailable: " + err.Error())
		}
		return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
	}
}
