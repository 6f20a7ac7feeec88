package effects

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBoard struct {
	units    map[domain.Side][]*unit.Combatant
	expanded map[domain.Side]int
}

func (f *fakeBoard) GetLiveUnits(side domain.Side) []*unit.Combatant {
	return f.units[side]
}

func (f *fakeBoard) ExpandDeployLimit(side domain.Side) {
	f.expanded[side]++
}

var (
	meleeTmpl  = &domain.UnitTemplate{ID: "slam_bros", BaseHealth: 100, BaseDamage: 10, Level: 1, Kind: domain.Melee}
	rangedTmpl = &domain.UnitTemplate{ID: "toy_soldier", BaseHealth: 40, BaseDamage: 8, Level: 1, Kind: domain.Ranged}
)

func newBoard() *fakeBoard {
	return &fakeBoard{
		units: map[domain.Side][]*unit.Combatant{
			domain.Player: {
				unit.New(meleeTmpl, domain.Player, 0, 3),
				unit.New(rangedTmpl, domain.Player, 3, 3),
			},
			domain.Opponent: {
				unit.New(meleeTmpl, domain.Opponent, 1, 3),
			},
		},
		expanded: map[domain.Side]int{},
	}
}

func TestApplyBonus(t *testing.T) {
	t.Run("damage boost", func(t *testing.T) {
		b := newBoard()
		r, err := ApplyBonus(b, domain.Player, domain.BonusCard{Effect: domain.BonusDamageBoost, Value: 0.2}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, r.Affected)
		for _, c := range b.units[domain.Player] {
			assert.InDelta(t, 1.2, c.DamageMultiplier, 1e-9)
		}
		assert.Equal(t, 1.0, b.units[domain.Opponent][0].DamageMultiplier)
	})

	t.Run("shield scales with current health", func(t *testing.T) {
		b := newBoard()
		b.units[domain.Player][0].Health = 50
		_, err := ApplyBonus(b, domain.Player, domain.BonusCard{Effect: domain.BonusShield, Value: 0.2}, nil)
		require.NoError(t, err)
		assert.InDelta(t, 10, b.units[domain.Player][0].Shield, 1e-9)
		assert.InDelta(t, 8, b.units[domain.Player][1].Shield, 1e-9)
	})

	t.Run("first attack cancel", func(t *testing.T) {
		b := newBoard()
		_, err := ApplyBonus(b, domain.Opponent, domain.BonusCard{Effect: domain.BonusFirstAttackCancel}, nil)
		require.NoError(t, err)
		assert.True(t, b.units[domain.Opponent][0].FirstAttackCancel)
		assert.False(t, b.units[domain.Player][0].FirstAttackCancel)
	})

	t.Run("poison hits the enemy side", func(t *testing.T) {
		b := newBoard()
		r, err := ApplyBonus(b, domain.Player, domain.BonusCard{Effect: domain.BonusPoison}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, r.Affected)
		assert.Equal(t, PoisonTicks, b.units[domain.Opponent][0].PoisonTicks)
		assert.Zero(t, b.units[domain.Player][0].PoisonTicks)
	})

	t.Run("group buff only matches the target kind", func(t *testing.T) {
		b := newBoard()
		r, err := ApplyBonus(b, domain.Player, domain.BonusCard{Effect: domain.BonusGroupBuff, Value: 0.3, TargetKind: domain.Ranged}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, r.Affected)
		ranged := b.units[domain.Player][1]
		assert.InDelta(t, 1.3, ranged.DamageMultiplier, 1e-9)
		assert.InDelta(t, 4, ranged.Shield, 1e-9)
		assert.Zero(t, b.units[domain.Player][0].Shield)
	})

	t.Run("ultimate shield", func(t *testing.T) {
		b := newBoard()
		_, err := ApplyBonus(b, domain.Player, domain.BonusCard{Effect: domain.BonusUltimateShield, Value: 99}, nil)
		require.NoError(t, err)
		assert.Equal(t, UltimateShieldAmount, b.units[domain.Player][0].Shield)
	})

	t.Run("double deploy arms the next unit", func(t *testing.T) {
		r, err := ApplyBonus(newBoard(), domain.Player, domain.BonusCard{Effect: domain.BonusDoubleDeploy}, nil)
		require.NoError(t, err)
		assert.True(t, r.DoubleDeploy)
	})

	t.Run("expand slot", func(t *testing.T) {
		b := newBoard()
		_, err := ApplyBonus(b, domain.Opponent, domain.BonusCard{Effect: domain.BonusExpandSlot}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, b.expanded[domain.Opponent])
	})

	t.Run("unknown effect", func(t *testing.T) {
		_, err := ApplyBonus(newBoard(), domain.Player, domain.BonusCard{Effect: "mega_laser"}, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	})

	t.Run("logs through the given logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		_, err := ApplyBonus(newBoard(), domain.Player, domain.BonusCard{ID: "poison_cloud", Effect: domain.BonusPoison}, logger)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "component=effects")
		assert.Contains(t, buf.String(), "bonus_id=poison_cloud")
		assert.Contains(t, buf.String(), "affected=1")
	})
}

func TestApplySkill(t *testing.T) {
	tests := []struct {
		name       string
		card       domain.SkillCard
		wantMult   float64
		wantShield float64
		wantHealth int
	}{
		{"attack", domain.SkillCard{Type: domain.SkillAttack, AttackBonus: 0.25}, 1.25, 0, 100},
		{"defense", domain.SkillCard{Type: domain.SkillDefense, DefenseBonus: 0.25}, 1.0, 25, 100},
		{"special", domain.SkillCard{Type: domain.SkillSpecial, AttackBonus: 0.1, DefenseBonus: 0.1}, 1.1, 0, 110},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := unit.New(meleeTmpl, domain.Player, 0, 3)
			ApplySkill([]*unit.Combatant{c}, tt.card)
			assert.InDelta(t, tt.wantMult, c.DamageMultiplier, 1e-9)
			assert.InDelta(t, tt.wantShield, c.Shield, 1e-9)
			assert.Equal(t, tt.wantHealth, c.Health)
			assert.LessOrEqual(t, c.Health, c.MaxHealth)
		})
	}
}
