// Package combat runs the continuous-time battle between two lists of live
// units. A Simulator is driven by an external clock through Step and is not
// safe for concurrent use.
package combat

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/events"
	"github.com/nfrund/toybattle/internal/unit"
)

// epsilon absorbs float drift in clock and range comparisons.
const epsilon = 1e-9

// Config holds the simulation timings.
type Config struct {
	// StatusInterval is the time between poison ticks.
	StatusInterval float64 `json:"status_interval"`
	PoisonDamage   int     `json:"poison_damage"`
	// ArrangeDelay holds targeting back while the formation settles.
	// ReleaseBarrier ends it early.
	ArrangeDelay  float64 `json:"arrange_delay"`
	TeleportDelay float64 `json:"teleport_delay"`
	// ExplosionDelay is the fuse of an explosive unit that reached its target.
	ExplosionDelay float64 `json:"explosion_delay"`
	// MaxDuration ends a stalled battle on points. Zero disables it.
	MaxDuration float64 `json:"max_duration"`
}

// DefaultConfig returns the standard timings.
func DefaultConfig() Config {
	return Config{
		StatusInterval: 1.0,
		PoisonDamage:   5,
		TeleportDelay:  0.5,
		ExplosionDelay: 0.75,
		MaxDuration:    180,
	}
}

// DeathReporter is told about every unit that dies in battle.
// *roster.Manager satisfies it.
type DeathReporter interface {
	RemoveOnDeath(c *unit.Combatant)
}

// Outcome is the result of a finished or cancelled battle.
type Outcome struct {
	Winner    domain.Side         `json:"winner"`
	Cancelled bool                `json:"cancelled"`
	TimedOut  bool                `json:"timed_out"`
	Duration  float64             `json:"duration"`
	Survivors map[domain.Side]int `json:"survivors"`
}

// Simulator owns the in-combat lists of both sides for one battle at a time.
type Simulator struct {
	cfg      Config
	deaths   DeathReporter
	observer events.Observer
	rng      *rand.Rand
	logger   *slog.Logger

	live         [2][]*unit.Combatant
	t            float64
	nextStatusAt float64
	barrier      bool
	released     bool
	active       bool
	finished     bool
	outcome      Outcome
}

// New creates an idle simulator. rng drives every random choice the
// simulator makes, so a seeded source gives reproducible battles.
func New(cfg Config, deaths DeathReporter, observer events.Observer, rng *rand.Rand, logger *slog.Logger) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{
		cfg:      cfg,
		deaths:   deaths,
		observer: events.OrNop(observer),
		rng:      rng,
		logger:   logger.With("component", "combat"),
	}
}

// StartBattle snapshots the live units of both sides and arms the
// arrangement barrier. Any previous battle state is discarded.
func (s *Simulator) StartBattle(player, opponent []*unit.Combatant) {
	s.live[domain.Player] = snapshotAlive(player)
	s.live[domain.Opponent] = snapshotAlive(opponent)
	s.t = 0
	s.nextStatusAt = 0
	s.barrier = true
	s.released = false
	s.active = true
	s.finished = false
	s.outcome = Outcome{}

	for _, side := range domain.Sides {
		for _, c := range s.live[side] {
			c.ResetBattleState()
			abilitiesOf(c).prepare(s, c)
		}
	}

	s.logger.Info("Battle started",
		"player_units", len(s.live[domain.Player]),
		"opponent_units", len(s.live[domain.Opponent]))
	s.observer.BattleStarted(len(s.live[domain.Player]), len(s.live[domain.Opponent]))
}

func snapshotAlive(units []*unit.Combatant) []*unit.Combatant {
	out := make([]*unit.Combatant, 0, len(units))
	for _, c := range units {
		if c != nil && c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// ReleaseBarrier signals that both formations are in place.
func (s *Simulator) ReleaseBarrier() {
	s.released = true
}

// Step advances the battle by dt seconds of simulated time.
func (s *Simulator) Step(dt float64) {
	if !s.active {
		return
	}

	if s.barrier {
		if !s.released && s.t+epsilon < s.cfg.ArrangeDelay {
			if !s.checkEnd() {
				s.t += dt
			}
			return
		}
		s.engage()
	}

	s.resolvePending()
	s.tickStatus()

	for _, side := range domain.Sides {
		for _, c := range append([]*unit.Combatant(nil), s.live[side]...) {
			s.act(c, dt)
		}
	}

	if s.checkEnd() {
		return
	}
	if s.cfg.MaxDuration > 0 && s.t+epsilon >= s.cfg.MaxDuration {
		s.logger.Warn("Battle reached its time limit", "t", s.t)
		s.finish(s.pointsWinner(), false, true)
		return
	}
	s.t += dt
}

// engage lifts the barrier and starts every clock from the current time.
func (s *Simulator) engage() {
	s.barrier = false
	s.nextStatusAt = s.t + s.cfg.StatusInterval
	for _, side := range domain.Sides {
		for _, c := range s.live[side] {
			c.NextAttackAt = s.t
			if c.Pending.Kind != unit.ActionNone {
				c.Pending.ReadyAt += s.t
			}
		}
	}
	s.logger.Debug("Barrier released", "t", s.t)
}

func (s *Simulator) act(c *unit.Combatant, dt float64) {
	if !c.Alive() || !s.active {
		return
	}
	if c.Pending.Kind != unit.ActionNone {
		return
	}
	if c.Target == nil || !c.Target.Alive() {
		c.Target = selectTarget(c, s.live[c.Side.Enemy()])
	}
	target := c.Target
	if target == nil {
		return
	}

	dist := c.Position.Dist(target.Position)
	reach := c.Template.AttackRange
	if dist <= reach+epsilon {
		if s.t+epsilon >= c.NextAttackAt {
			abilitiesOf(c).strike(s, c, target)
			c.NextAttackAt = s.t + c.Template.AttackCooldown
		}
		return
	}
	c.Position = c.Position.MoveToward(target.Position, min(c.Template.MoveSpeed*dt, dist-reach))
}

// hit applies amount to target, reports it and reaps the target if it died.
func (s *Simulator) hit(target *unit.Combatant, amount int) {
	if !target.Alive() {
		return
	}
	actual := target.TakeDamage(amount)
	s.observer.UnitDamaged(target, actual)
	if !target.Alive() {
		s.reap(target)
	}
}

// reap removes a dead unit from its live list and resolves its death effects
// before any other unit acts.
func (s *Simulator) reap(c *unit.Combatant) {
	list := s.live[c.Side]
	for i, u := range list {
		if u == c {
			s.live[c.Side] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	c.ResetBattleState()
	if s.deaths != nil {
		s.deaths.RemoveOnDeath(c)
	}
	s.logger.Debug("Unit died", "side", c.Side, "template_id", c.Template.ID, "t", s.t)
	s.observer.UnitDied(c)
	abilitiesOf(c).onDeath(s, c)
}

func (s *Simulator) checkEnd() bool {
	if len(s.live[domain.Player]) > 0 && len(s.live[domain.Opponent]) > 0 {
		return false
	}
	// The player resolves first, so a double wipe goes to the opponent.
	winner := domain.Opponent
	if len(s.live[domain.Player]) > 0 {
		winner = domain.Player
	}
	s.finish(winner, false, false)
	return true
}

// pointsWinner decides an unfinished battle by survivors, then remaining
// health. A full tie goes to the opponent.
func (s *Simulator) pointsWinner() domain.Side {
	p, o := len(s.live[domain.Player]), len(s.live[domain.Opponent])
	if p != o {
		if p > o {
			return domain.Player
		}
		return domain.Opponent
	}
	if totalHealth(s.live[domain.Player]) > totalHealth(s.live[domain.Opponent]) {
		return domain.Player
	}
	return domain.Opponent
}

func totalHealth(units []*unit.Combatant) int {
	sum := 0
	for _, c := range units {
		sum += c.Health
	}
	return sum
}

func (s *Simulator) finish(winner domain.Side, cancelled, timedOut bool) {
	s.active = false
	s.finished = true
	s.outcome = Outcome{
		Winner:    winner,
		Cancelled: cancelled,
		TimedOut:  timedOut,
		Duration:  s.t,
		Survivors: map[domain.Side]int{
			domain.Player:   len(s.live[domain.Player]),
			domain.Opponent: len(s.live[domain.Opponent]),
		},
	}
	s.logger.Info("Battle ended",
		"winner", winner,
		"duration", s.t,
		"cancelled", cancelled,
		"player_survivors", s.outcome.Survivors[domain.Player],
		"opponent_survivors", s.outcome.Survivors[domain.Opponent])
	s.observer.BattleEnded(winner)
}

// EndBattle stops the battle and returns its outcome. A battle that is still
// running is decided on points and marked cancelled. Pending actions and
// targets are dropped either way. The persistent roster is never touched.
func (s *Simulator) EndBattle() (Outcome, error) {
	switch {
	case s.active:
		s.finish(s.pointsWinner(), true, false)
	case !s.finished:
		return Outcome{}, domain.ErrBattleNotActive
	}

	for _, side := range domain.Sides {
		for _, c := range s.live[side] {
			c.ResetBattleState()
		}
		s.live[side] = nil
	}
	out := s.outcome
	s.finished = false
	return out, nil
}

// Run steps the battle by dt until it finishes or ctx is done, then ends it.
func (s *Simulator) Run(ctx context.Context, dt float64) (Outcome, error) {
	if !s.active {
		return Outcome{}, domain.ErrBattleNotActive
	}
	for s.active {
		select {
		case <-ctx.Done():
			out, err := s.EndBattle()
			if err != nil {
				return out, err
			}
			return out, ctx.Err()
		default:
		}
		s.Step(dt)
	}
	return s.EndBattle()
}

// Active reports whether a battle is running.
func (s *Simulator) Active() bool {
	return s.active
}

// Finished reports whether the last battle ended and is waiting for EndBattle.
func (s *Simulator) Finished() bool {
	return s.finished
}

// Time is the simulated time since StartBattle.
func (s *Simulator) Time() float64 {
	return s.t
}

// Live returns the units of side still fighting.
func (s *Simulator) Live(side domain.Side) []*unit.Combatant {
	return append([]*unit.Combatant(nil), s.live[side]...)
}
