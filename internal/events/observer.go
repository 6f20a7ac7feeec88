// Package events defines the presentation observer the match core reports to,
// and an implementation that forwards every notification onto the pub/sub bus.
package events

import (
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/unit"
)

// Observer is notified of everything a presentation layer needs to render a
// match. Calls happen synchronously on the simulation goroutine, so
// implementations must not block.
type Observer interface {
	UnitSpawned(c *unit.Combatant)
	UnitDamaged(c *unit.Combatant, amount int)
	UnitDied(c *unit.Combatant)
	BattleStarted(playerUnits, opponentUnits int)
	BattleEnded(winner domain.Side)
	TurnChanged(turn int)
	PhaseChanged(from, to domain.Phase)
}

// Nop ignores every notification.
type Nop struct{}

func (Nop) UnitSpawned(*unit.Combatant) {}

func (Nop) UnitDamaged(*unit.Combatant, int) {}

func (Nop) UnitDied(*unit.Combatant) {}

func (Nop) BattleStarted(int, int) {}

func (Nop) BattleEnded(domain.Side) {}

func (Nop) TurnChanged(int) {}

func (Nop) PhaseChanged(_, _ domain.Phase) {}

// Multi fans every notification out to each observer in order.
type Multi []Observer

func (m Multi) UnitSpawned(c *unit.Combatant) {
	for _, o := range m {
		o.UnitSpawned(c)
	}
}

func (m Multi) UnitDamaged(c *unit.Combatant, amount int) {
	for _, o := range m {
		o.UnitDamaged(c, amount)
	}
}

func (m Multi) UnitDied(c *unit.Combatant) {
	for _, o := range m {
		o.UnitDied(c)
	}
}

func (m Multi) BattleStarted(playerUnits, opponentUnits int) {
	for _, o := range m {
		o.BattleStarted(playerUnits, opponentUnits)
	}
}

func (m Multi) BattleEnded(winner domain.Side) {
	for _, o := range m {
		o.BattleEnded(winner)
	}
}

func (m Multi) TurnChanged(turn int) {
	for _, o := range m {
		o.TurnChanged(turn)
	}
}

func (m Multi) PhaseChanged(from, to domain.Phase) {
	for _, o := range m {
		o.PhaseChanged(from, to)
	}
}

// OrNop returns o, or Nop when o is nil.
func OrNop(o Observer) Observer {
	if o == nil {
		return Nop{}
	}
	return o
}
