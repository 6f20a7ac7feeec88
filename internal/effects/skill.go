package effects

import (
	"math"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/unit"
)

// ApplySkill buffs units with an active skill for the coming battle.
func ApplySkill(units []*unit.Combatant, card domain.SkillCard) {
	for _, c := range units {
		switch card.Type {
		case domain.SkillAttack:
			c.DamageMultiplier += card.AttackBonus
		case domain.SkillDefense:
			c.Shield += float64(c.Health) * card.DefenseBonus
		case domain.SkillSpecial:
			c.DamageMultiplier += card.AttackBonus
			c.Grow(int(math.Round(float64(c.Health) * card.DefenseBonus)))
		}
	}
}
