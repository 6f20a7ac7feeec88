// Package effects applies bonus cards and skill cards to live units.
package effects

import (
	"fmt"
	"log/slog"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/unit"
)

const (
	// PoisonTicks is the number of status ticks a poison bonus inflicts.
	PoisonTicks = 5
	// UltimateShieldAmount is the flat shield granted by an ultimate shield.
	UltimateShieldAmount = 25.0
	// GroupShieldFraction is the share of current health a group buff adds as shield.
	GroupShieldFraction = 0.1
)

// Board is the part of the roster manager bonuses act on.
type Board interface {
	GetLiveUnits(side domain.Side) []*unit.Combatant
	ExpandDeployLimit(side domain.Side)
}

// Result describes what a bonus did.
type Result struct {
	// Affected counts the units the bonus modified.
	Affected int
	// DoubleDeploy arms the side's next unit selection to deploy twice.
	DoubleDeploy bool
}

type bonusFunc func(b Board, side domain.Side, card domain.BonusCard) Result

var bonusHandlers = map[domain.BonusEffect]bonusFunc{
	domain.BonusDamageBoost: eachOwn(func(c *unit.Combatant, card domain.BonusCard) bool {
		c.DamageMultiplier += card.Value
		return true
	}),
	domain.BonusShield: eachOwn(func(c *unit.Combatant, card domain.BonusCard) bool {
		c.Shield += float64(c.Health) * card.Value
		return true
	}),
	domain.BonusFirstAttackCancel: eachOwn(func(c *unit.Combatant, _ domain.BonusCard) bool {
		c.FirstAttackCancel = true
		return true
	}),
	domain.BonusGroupBuff: eachOwn(func(c *unit.Combatant, card domain.BonusCard) bool {
		if c.Template.Kind != card.TargetKind {
			return false
		}
		c.DamageMultiplier += card.Value
		c.Shield += float64(c.Health) * GroupShieldFraction
		return true
	}),
	domain.BonusUltimateShield: eachOwn(func(c *unit.Combatant, _ domain.BonusCard) bool {
		c.Shield += UltimateShieldAmount
		return true
	}),
	domain.BonusPoison: func(b Board, side domain.Side, _ domain.BonusCard) Result {
		var r Result
		for _, c := range b.GetLiveUnits(side.Enemy()) {
			c.PoisonTicks = PoisonTicks
			r.Affected++
		}
		return r
	},
	domain.BonusDoubleDeploy: func(Board, domain.Side, domain.BonusCard) Result {
		return Result{DoubleDeploy: true}
	},
	domain.BonusExpandSlot: func(b Board, side domain.Side, _ domain.BonusCard) Result {
		b.ExpandDeployLimit(side)
		return Result{}
	},
}

func eachOwn(apply func(c *unit.Combatant, card domain.BonusCard) bool) bonusFunc {
	return func(b Board, side domain.Side, card domain.BonusCard) Result {
		var r Result
		for _, c := range b.GetLiveUnits(side) {
			if apply(c, card) {
				r.Affected++
			}
		}
		return r
	}
}

// ApplyBonus applies card on behalf of side. Unit modifiers land on the live
// units present at commit time. A nil logger uses slog.Default.
func ApplyBonus(b Board, side domain.Side, card domain.BonusCard, logger *slog.Logger) (Result, error) {
	handler, ok := bonusHandlers[card.Effect]
	if !ok {
		return Result{}, fmt.Errorf("%w: unknown bonus effect %q", domain.ErrInvalidSelection, card.Effect)
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := handler(b, side, card)
	logger.Debug("Bonus applied",
		"component", "effects",
		"side", side,
		"bonus_id", card.ID,
		"effect", card.Effect,
		"affected", r.Affected)
	return r, nil
}
