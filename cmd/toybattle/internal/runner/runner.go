// Package runner plays whole matches headless, with a bot drafting for
// each side, for balance runs from the command line.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/nfrund/toybattle/internal/bot"
	"github.com/nfrund/toybattle/internal/combat"
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/draft"
	"github.com/nfrund/toybattle/internal/match"
)

// maxBattleSteps bounds a battle when no time limit is configured.
const maxBattleSteps = 1_000_000

// Options configure one headless match.
type Options struct {
	Config   match.Config
	Catalog  match.Catalog
	Player   bot.Drafter
	Opponent bot.Drafter
	Seed     int64
	Tick     float64
	Logger   *slog.Logger
}

// Battle is the result of one battle in a match.
type Battle struct {
	Turn    int            `json:"turn"`
	Outcome combat.Outcome `json:"outcome"`
}

// Result summarizes a finished match.
type Result struct {
	Seed     int64                 `json:"seed"`
	Wins     int                   `json:"wins"`
	Losses   int                   `json:"losses"`
	Gold     int                   `json:"gold"`
	Battles  []Battle              `json:"battles"`
	Passes   int                   `json:"passes"`
	Roster   domain.RosterSnapshot `json:"roster"`
	Observed *Counter              `json:"events"`
}

// Play runs a match from the main menu until it returns there.
func Play(ctx context.Context, opts Options) (*Result, error) {
	if opts.Player == nil || opts.Opponent == nil {
		return nil, errors.New("runner: both sides need a drafter")
	}
	if opts.Tick <= 0 {
		return nil, fmt.Errorf("runner: tick must be positive, got %v", opts.Tick)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	counter := &Counter{}
	m, err := match.New("", opts.Config, match.Deps{
		Catalog:  opts.Catalog,
		Opponent: opts.Opponent,
		Observer: counter,
		Rand:     rand.New(rand.NewSource(opts.Seed)),
		Logger:   opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	if err := m.StartMatch(ctx); err != nil {
		return nil, err
	}

	res := &Result{Seed: opts.Seed, Observed: counter}
	for m.Phase() != domain.PhaseMainMenu {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch m.Phase() {
		case domain.PhaseDraft:
			passed, err := draftPlayer(ctx, m, opts.Player)
			if err != nil {
				return nil, err
			}
			if passed {
				res.Passes++
			}
			err = m.AdvancePhase(ctx)
		case domain.PhaseBattle:
			turn := m.GetCurrentTurn()
			if err = fight(ctx, m, opts.Tick); err == nil {
				out, _ := m.LastOutcome()
				res.Battles = append(res.Battles, Battle{Turn: turn, Outcome: out})
			}
		default:
			err = m.AdvancePhase(ctx)
		}
		if err != nil {
			return nil, fmt.Errorf("turn %d, %s: %w", m.GetCurrentTurn(), m.Phase(), err)
		}
	}

	state := m.State()
	res.Wins, res.Losses, res.Gold = state.Wins, state.Losses, state.Gold
	res.Roster = state.Roster
	return res, nil
}

// draftPlayer commits the player bot's choice. A rejected choice falls
// back to passing, and reports it.
func draftPlayer(ctx context.Context, m *match.Match, drafter bot.Drafter) (bool, error) {
	view := bot.View{Side: domain.Player, Turn: m.GetCurrentTurn(), Owned: make(map[domain.UnitKind]int)}
	for _, c := range m.Roster().GetLiveUnits(domain.Player) {
		view.Owned[c.Template.Kind]++
	}

	sel, err := drafter.Choose(ctx, m.Offer(domain.Player), view)
	if err == nil && !sel.Pass {
		if err = m.CommitPlayer(ctx, sel); err == nil {
			return false, nil
		}
	}
	return true, m.CommitPlayer(ctx, draft.Pass)
}

func fight(ctx context.Context, m *match.Match, dt float64) error {
	for step := 0; m.Phase() == domain.PhaseBattle; step++ {
		if step == maxBattleSteps {
			return m.SkipBattle(ctx)
		}
		if err := m.Tick(ctx, dt); err != nil {
			return err
		}
	}
	return nil
}
