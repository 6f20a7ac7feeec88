package server

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/toybattle/internal/bot"
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/draft"
	"github.com/nfrund/toybattle/internal/events"
	"github.com/nfrund/toybattle/internal/match"
	"github.com/nfrund/toybattle/internal/middleware"
	"github.com/nfrund/toybattle/internal/pubsub"
	"github.com/nfrund/toybattle/internal/script"
	"github.com/nfrund/toybattle/internal/unit"
)

// CreateMatchRequest optionally overrides the configured opponent.
type CreateMatchRequest struct {
	Difficulty string `json:"difficulty"`
}

// CommitRequest is the player's draft answer. A missing slot means
// automatic placement.
type CommitRequest struct {
	Card int  `json:"card"`
	Slot *int `json:"slot"`
	Pass bool `json:"pass"`
}

func (r CommitRequest) selection() draft.Selection {
	if r.Pass {
		return draft.Pass
	}
	sel := draft.Pick(r.Card)
	if r.Slot != nil {
		sel.Slot = *r.Slot
	}
	return sel
}

// TickRequest advances a battle by Seconds of simulated time.
type TickRequest struct {
	Seconds float64 `json:"seconds"`
}

// UnitView is one live combatant as shown to clients.
type UnitView struct {
	InstanceID string    `json:"instance_id"`
	TemplateID string    `json:"template_id"`
	Slot       int       `json:"slot"`
	Lane       int       `json:"lane"`
	Health     int       `json:"health"`
	MaxHealth  int       `json:"max_health"`
	Position   unit.Vec2 `json:"position"`
}

func (s *Server) createMatch(c echo.Context) error {
	var req CreateMatchRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return err
		}
	}

	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)
	id := uuid.NewString()
	rng := rand.New(rand.NewSource(s.seed()))

	opponent, err := s.newOpponent(req.Difficulty, rng)
	if err != nil {
		return err
	}

	m, err := match.New(id, s.cfg.Match(), match.Deps{
		Catalog:  s.catalog,
		Opponent: opponent,
		// The publisher outlives the request that created the match.
		Observer: events.NewPublisher(context.Background(), s.bus, id, s.logger),
		Rand:     rng,
		Logger:   s.logger,
	})
	if err != nil {
		return err
	}
	if err := m.StartMatch(ctx); err != nil {
		return err
	}
	s.matches.Add(m)

	logger.Info("Match created", "match_id", id, "difficulty", req.Difficulty)
	return c.JSON(http.StatusCreated, m.State())
}

func (s *Server) newOpponent(difficulty string, rng *rand.Rand) (bot.Drafter, error) {
	if difficulty == "" && s.cfg.BotScript != "" {
		return bot.NewScriptBot(s.fs, s.cfg.BotScript, script.NewTengoEngine(), s.logger)
	}
	if difficulty == "" {
		difficulty = s.cfg.BotDifficulty
	}
	d, err := bot.ParseDifficulty(difficulty)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return bot.New(d, rng)
}

func (s *Server) listMatches(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"matches": s.matches.IDs()})
}

// respond runs fn on the match named in the route and answers with its state.
func (s *Server) respond(c echo.Context, fn func(ctx context.Context, m *match.Match) error) error {
	var state match.State
	err := s.matches.With(c.Param("id"), func(m *match.Match) error {
		if err := fn(c.Request().Context(), m); err != nil {
			return err
		}
		state = m.State()
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}

func (s *Server) getMatch(c echo.Context) error {
	return s.respond(c, func(context.Context, *match.Match) error { return nil })
}

func (s *Server) deleteMatch(c echo.Context) error {
	if err := s.matches.Remove(c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) commit(c echo.Context) error {
	var req CommitRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	return s.respond(c, func(ctx context.Context, m *match.Match) error {
		return m.CommitPlayer(ctx, req.selection())
	})
}

func (s *Server) advance(c echo.Context) error {
	return s.respond(c, func(ctx context.Context, m *match.Match) error {
		return m.AdvancePhase(ctx)
	})
}

// maxTickSeconds bounds the simulated time one tick request may cover.
const maxTickSeconds = 600.0

// tick steps the battle in TICK_SECONDS increments. It stops early when the
// battle concludes or the request is cancelled.
func (s *Server) tick(c echo.Context) error {
	var req TickRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Seconds <= 0 || req.Seconds > maxTickSeconds {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("seconds must be in (0, %g]", maxTickSeconds))
	}
	dt := s.cfg.TickSeconds
	steps := int(math.Ceil(req.Seconds / dt))

	return s.respond(c, func(ctx context.Context, m *match.Match) error {
		if err := m.Tick(ctx, dt); err != nil {
			return err
		}
		for i := 1; i < steps && m.Phase() == domain.PhaseBattle; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := m.Tick(ctx, dt); err != nil {
				return err
			}
		}
		return nil
	})
}

// run steps the battle until it concludes or the request is cancelled.
func (s *Server) run(c echo.Context) error {
	dt := s.cfg.TickSeconds
	return s.respond(c, func(ctx context.Context, m *match.Match) error {
		if m.Phase() != domain.PhaseBattle {
			return domain.ErrBattleNotActive
		}
		for m.Phase() == domain.PhaseBattle {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := m.Tick(ctx, dt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Server) skip(c echo.Context) error {
	return s.respond(c, func(ctx context.Context, m *match.Match) error {
		return m.SkipBattle(ctx)
	})
}

func (s *Server) release(c echo.Context) error {
	return s.respond(c, func(_ context.Context, m *match.Match) error {
		if m.Phase() != domain.PhaseBattle {
			return domain.ErrBattleNotActive
		}
		m.Simulator().ReleaseBarrier()
		return nil
	})
}

func (s *Server) liveUnits(c echo.Context) error {
	var side domain.Side
	if err := side.UnmarshalText([]byte(c.QueryParam("side"))); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var units []UnitView
	err := s.matches.With(c.Param("id"), func(m *match.Match) error {
		live := m.Roster().GetLiveUnits(side)
		if m.Phase() == domain.PhaseBattle {
			live = m.Simulator().Live(side)
		}
		units = make([]UnitView, 0, len(live))
		for _, u := range live {
			units = append(units, UnitView{
				InstanceID: u.ID,
				TemplateID: u.Template.ID,
				Slot:       u.Slot,
				Lane:       u.Lane,
				Health:     u.Health,
				MaxHealth:  u.MaxHealth,
				Position:   u.Position,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, units)
}

func (s *Server) saveSnapshot(c echo.Context) error {
	if s.store == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "no snapshot store configured")
	}
	var snap domain.RosterSnapshot
	err := s.matches.With(c.Param("id"), func(m *match.Match) error {
		snap = m.Roster().Snapshot()
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.store.Save(c.Request().Context(), c.Param("id"), snap); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

func (s *Server) restoreSnapshot(c echo.Context) error {
	if s.store == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "no snapshot store configured")
	}
	ctx := c.Request().Context()
	snap, err := s.store.Load(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return s.respond(c, func(_ context.Context, m *match.Match) error {
		return m.Restore(snap)
	})
}

func (s *Server) listTopics(c echo.Context) error {
	return c.JSON(http.StatusOK, pubsub.Topics())
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
