package runner

import (
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/unit"
)

// Counter is an events.Observer that tallies notifications.
type Counter struct {
	Spawned     int `json:"spawned"`
	Damage      int `json:"damage"`
	Deaths      int `json:"deaths"`
	Battles     int `json:"battles"`
	PhaseChange int `json:"phase_changes"`
}

func (c *Counter) UnitSpawned(*unit.Combatant) { c.Spawned++ }

func (c *Counter) UnitDamaged(_ *unit.Combatant, amount int) { c.Damage += amount }

func (c *Counter) UnitDied(*unit.Combatant) { c.Deaths++ }

func (c *Counter) BattleStarted(int, int) { c.Battles++ }

func (c *Counter) BattleEnded(domain.Side) {}

func (c *Counter) TurnChanged(int) {}

func (c *Counter) PhaseChanged(_, _ domain.Phase) { c.PhaseChange++ }
