// Package match sequences a whole match: draft rounds for both sides,
// battles on the scheduled turns, and the reward routing in between.
//
// A Match is driven from a single goroutine. Callers that share one across
// goroutines (the HTTP server) must serialize access themselves.
package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/nfrund/toybattle/internal/bot"
	"github.com/nfrund/toybattle/internal/combat"
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/draft"
	"github.com/nfrund/toybattle/internal/events"
	"github.com/nfrund/toybattle/internal/roster"
)

// Phase machine events.
const (
	evStart    = "start"
	evBattle   = "battle"
	evRedraft  = "redraft"
	evReward   = "reward"
	evChest    = "chest"
	evProgress = "progress"
	evDraft    = "draft"
	evMenu     = "menu"
)

func phaseEvents() fsm.Events {
	p := func(phases ...domain.Phase) []string {
		out := make([]string, len(phases))
		for i, ph := range phases {
			out[i] = string(ph)
		}
		return out
	}
	return fsm.Events{
		{Name: evStart, Src: p(domain.PhaseMainMenu), Dst: string(domain.PhaseDraft)},
		{Name: evBattle, Src: p(domain.PhaseDraft), Dst: string(domain.PhaseBattle)},
		{Name: evRedraft, Src: p(domain.PhaseDraft), Dst: string(domain.PhaseDraft)},
		{Name: evReward, Src: p(domain.PhaseDraft, domain.PhaseBattle), Dst: string(domain.PhaseReward)},
		{Name: evChest, Src: p(domain.PhaseBattle), Dst: string(domain.PhaseChest)},
		{Name: evProgress, Src: p(domain.PhaseBattle), Dst: string(domain.PhaseProgress)},
		{Name: evDraft, Src: p(domain.PhaseChest, domain.PhaseProgress), Dst: string(domain.PhaseDraft)},
		{Name: evMenu, Src: p(domain.PhaseReward), Dst: string(domain.PhaseMainMenu)},
	}
}

// Catalog is everything a match reads from the template catalog.
type Catalog interface {
	roster.TemplateSource
	draft.Source
}

// Config groups the settings of every component a match owns.
type Config struct {
	Schedule Schedule
	Board    roster.Config
	Combat   combat.Config
	Draft    draft.Config
}

// DefaultConfig returns the default settings of every component.
func DefaultConfig() Config {
	return Config{
		Schedule: DefaultSchedule(),
		Board:    roster.DefaultConfig(),
		Combat:   combat.DefaultConfig(),
		Draft:    draft.DefaultConfig(),
	}
}

// Deps are the collaborators injected into a match. Only Catalog is required.
type Deps struct {
	Catalog Catalog
	// Opponent drafts for the opponent side right after the player commits.
	// When nil, CommitOpponent must be called instead.
	Opponent bot.Drafter
	Observer events.Observer
	Rand     *rand.Rand
	Logger   *slog.Logger
}

// Match is one match between the player and the opponent.
type Match struct {
	id       string
	sched    Schedule
	roster   *roster.Manager
	sim      *combat.Simulator
	offers   *draft.Generator
	opponent bot.Drafter
	observer events.Observer
	rng      *rand.Rand
	logger   *slog.Logger
	machine  *fsm.FSM

	turn         int
	wins         int
	losses       int
	gold         int
	current      [2]draft.Offer
	committed    [2]bool
	doubleDeploy [2]bool
	skills       [2]*domain.SkillCard
	last         *combat.Outcome
}

// New creates a match in the main menu. An empty id gets a fresh uuid.
func New(id string, cfg Config, deps Deps) (*Match, error) {
	if deps.Catalog == nil {
		return nil, errors.New("match: catalog is required")
	}
	if id == "" {
		id = uuid.NewString()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	logger := deps.Logger.With("match_id", id)
	observer := events.OrNop(deps.Observer)

	m := &Match{
		id:       id,
		sched:    cfg.Schedule,
		opponent: deps.Opponent,
		observer: observer,
		rng:      deps.Rand,
		logger:   logger,
	}
	m.roster = roster.NewManager(cfg.Board, deps.Catalog, observer, logger)
	m.sim = combat.New(cfg.Combat, m.roster, observer, deps.Rand, logger)
	m.offers = draft.NewGenerator(deps.Catalog, cfg.Draft, deps.Rand)
	m.machine = fsm.NewFSM(string(domain.PhaseMainMenu), phaseEvents(), fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			from, to := domain.Phase(e.Src), domain.Phase(e.Dst)
			m.logger.Info("Phase changed", "from", from, "to", to, "turn", m.turn)
			m.observer.PhaseChanged(from, to)
		},
	})
	return m, nil
}

// ID returns the match id.
func (m *Match) ID() string {
	return m.id
}

// Phase returns the current phase.
func (m *Match) Phase() domain.Phase {
	return domain.Phase(m.machine.Current())
}

// GetCurrentTurn returns the turn counter. It is 0 before the first start.
func (m *Match) GetCurrentTurn() int {
	return m.turn
}

// Roster exposes the roster manager, mainly for inspection.
func (m *Match) Roster() *roster.Manager {
	return m.roster
}

// Simulator exposes the combat simulator, mainly for ReleaseBarrier.
func (m *Match) Simulator() *combat.Simulator {
	return m.sim
}

// fire moves the phase machine. A self transition is not an error. The
// machine never sees ctx cancellation: a transition it starts must finish,
// so callers check ctx before they change anything.
func (m *Match) fire(ctx context.Context, event string) error {
	err := m.machine.Event(context.WithoutCancel(ctx), event)
	var same fsm.NoTransitionError
	if err == nil || errors.As(err, &same) {
		return nil
	}
	return fmt.Errorf("%w: %s from %s: %w", domain.ErrInvalidPhaseTransition, event, m.Phase(), err)
}

// invalid logs a rejected request and returns ErrInvalidPhaseTransition.
func (m *Match) invalid(action, reason string) error {
	m.logger.Warn("Invalid phase transition",
		"action", action,
		"phase", m.Phase(),
		"turn", m.turn,
		"reason", reason)
	return fmt.Errorf("%w: %s in %s: %s", domain.ErrInvalidPhaseTransition, action, m.Phase(), reason)
}

// StartMatch resets both rosters and opens the first draft round.
func (m *Match) StartMatch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.Phase() != domain.PhaseMainMenu {
		return m.invalid("start", "match already running")
	}
	if err := m.fire(ctx, evStart); err != nil {
		return err
	}

	m.roster.ResetAll()
	m.turn = 1
	m.wins, m.losses, m.gold = 0, 0, 0
	m.doubleDeploy = [2]bool{}
	m.skills = [2]*domain.SkillCard{}
	m.last = nil
	m.observer.TurnChanged(m.turn)
	m.openDraft()
	return nil
}

// AdvancePhase moves the match forward from the current phase. Requests
// whose preconditions are not met, or whose ctx is already done, leave the
// match unchanged.
func (m *Match) AdvancePhase(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch m.Phase() {
	case domain.PhaseMainMenu:
		return m.StartMatch(ctx)
	case domain.PhaseDraft:
		return m.completeDraft(ctx)
	case domain.PhaseBattle:
		return m.invalid("advance", "battle in progress")
	case domain.PhaseChest, domain.PhaseProgress:
		return m.nextDraft(ctx, evDraft)
	case domain.PhaseReward:
		return m.fire(ctx, evMenu)
	}
	return m.invalid("advance", "unknown phase")
}

func (m *Match) completeDraft(ctx context.Context) error {
	for _, side := range domain.Sides {
		if !m.committed[side] {
			return m.invalid("advance", side.String()+" has not committed")
		}
	}

	next := m.turn + 1
	switch {
	case next > m.sched.TotalTurns:
		if err := m.fire(ctx, evReward); err != nil {
			return err
		}
		m.setTurn(next)
		return nil
	case m.sched.IsBattleTurn(next):
		if err := m.fire(ctx, evBattle); err != nil {
			return err
		}
		m.setTurn(next)
		m.enterBattle()
		return nil
	default:
		return m.nextDraft(ctx, evRedraft)
	}
}

func (m *Match) setTurn(turn int) {
	m.turn = turn
	m.logger.Info("Turn changed", "turn", m.turn)
	m.observer.TurnChanged(m.turn)
}

// nextDraft respawns both rosters at full strength and opens a new round.
// A redraft also moves to the next turn.
func (m *Match) nextDraft(ctx context.Context, event string) error {
	if err := m.fire(ctx, event); err != nil {
		return err
	}
	if event == evRedraft {
		m.setTurn(m.turn + 1)
	}
	if err := m.roster.RespawnFromPersistent(); err != nil {
		m.logger.Warn("Respawn incomplete", "error", err)
	}
	m.openDraft()
	return nil
}
