package combat

import (
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/unit"
)

// tier filters candidate targets. Tiers are tried in order and the first
// one with a living candidate wins.
type tier func(attacker, candidate *unit.Combatant) bool

func sameLaneBand(band unit.Band) tier {
	return func(a, c *unit.Combatant) bool {
		return c.Lane == a.Lane && c.Band == band
	}
}

func sameLane(a, c *unit.Combatant) bool {
	return c.Lane == a.Lane
}

func inBand(band unit.Band) tier {
	return func(_, c *unit.Combatant) bool {
		return c.Band == band
	}
}

func anyTarget(_, _ *unit.Combatant) bool {
	return true
}

var frontline = []tier{sameLaneBand(unit.Front), sameLaneBand(unit.Back), anyTarget}

var targetRules = map[domain.UnitKind][]tier{
	domain.Melee:     frontline,
	domain.Explosive: frontline,
	domain.Support:   frontline,
	domain.Ranged:    {sameLane, anyTarget},
	domain.Assassin:  {inBand(unit.Back), anyTarget},
}

// selectTarget picks the nearest living enemy of the first matching tier.
// Ties keep the earlier enemy in list order.
func selectTarget(attacker *unit.Combatant, enemies []*unit.Combatant) *unit.Combatant {
	rules, ok := targetRules[attacker.Template.Kind]
	if !ok {
		rules = frontline
	}
	for _, match := range rules {
		var best *unit.Combatant
		bestDist := 0.0
		for _, e := range enemies {
			if !e.Alive() || !match(attacker, e) {
				continue
			}
			d := attacker.Position.Dist(e.Position)
			if best == nil || d < bestDist-epsilon {
				best, bestDist = e, d
			}
		}
		if best != nil {
			return best
		}
	}
	return nil
}
