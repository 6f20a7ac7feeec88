// Package unit holds the ephemeral, battle-scoped combatant instances that
// the roster creates from templates and the simulator mutates.
package unit

import (
	"math"

	"github.com/google/uuid"
	"github.com/nfrund/toybattle/internal/domain"
)

// Band is the depth band of a slot: the front or back sub-row of the side.
type Band int

const (
	Front Band = iota
	Back
)

func (b Band) String() string {
	if b == Front {
		return "front"
	}
	return "back"
}

// Cell is the cosmetic position of an instance inside its slot's sub-grid.
type Cell struct {
	Row  int `json:"row"`
	Col  int `json:"col"`
	Size int `json:"size"`
}

// ActionKind names a delayed action waiting on the simulation clock.
type ActionKind string

const (
	ActionNone     ActionKind = ""
	ActionTeleport ActionKind = "teleport"
	ActionExplode  ActionKind = "explode"
)

// PendingAction is a timed step checked each simulation step instead of
// blocking control flow.
type PendingAction struct {
	Kind    ActionKind
	ReadyAt float64
}

// Combatant is one concrete fighting unit.
type Combatant struct {
	ID       string
	Template *domain.UnitTemplate
	Side     domain.Side
	Slot     int
	Lane     int
	Band     Band

	Health            int
	MaxHealth         int
	Damage            int
	DamageMultiplier  float64
	Shield            float64
	FirstAttackCancel bool
	PoisonTicks       int

	Position Vec2
	Layout   Cell

	// Battle bookkeeping owned by the simulator.
	Target       *Combatant
	NextAttackAt float64
	Pending      PendingAction
}

// New creates a full-health instance of tmpl for the given side and slot.
// lanes is the number of lateral lanes on the board.
func New(tmpl *domain.UnitTemplate, side domain.Side, slot, lanes int) *Combatant {
	health := tmpl.ScaledHealth()
	c := &Combatant{
		ID:               uuid.NewString(),
		Template:         tmpl,
		Side:             side,
		Slot:             slot,
		Health:           health,
		MaxHealth:        health,
		Damage:           tmpl.ScaledDamage(),
		DamageMultiplier: 1.0,
	}
	c.Lane, c.Band = LaneOf(slot, lanes)
	return c
}

// LaneOf maps a slot index to its lane and depth band.
func LaneOf(slot, lanes int) (int, Band) {
	if lanes <= 0 {
		lanes = 1
	}
	band := Front
	if slot >= lanes {
		band = Back
	}
	return slot % lanes, band
}

// Alive reports whether the instance still has health.
func (c *Combatant) Alive() bool {
	return c.Health > 0
}

// AttackDamage is the damage one attack deals before the target's shield.
func (c *Combatant) AttackDamage() int {
	return int(math.Round(float64(c.Damage) * c.DamageMultiplier))
}

// TakeDamage applies amount reduced by the flat shield and returns the
// reduced amount. Health never drops below zero and the shield is never
// depleted.
func (c *Combatant) TakeDamage(amount int) int {
	actual := amount - int(math.Round(c.Shield))
	if actual < 0 {
		actual = 0
	}
	c.Health -= actual
	if c.Health < 0 {
		c.Health = 0
	}
	return actual
}

// Grow raises both health and max health by amount.
func (c *Combatant) Grow(amount int) {
	if amount <= 0 {
		return
	}
	c.MaxHealth += amount
	c.Health += amount
}

// ResetBattleState clears everything the simulator attached during a battle.
func (c *Combatant) ResetBattleState() {
	c.Target = nil
	c.NextAttackAt = 0
	c.Pending = PendingAction{}
}
