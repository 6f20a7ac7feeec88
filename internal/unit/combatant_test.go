package unit

import (
	"testing"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func soldier() *domain.UnitTemplate {
	return &domain.UnitTemplate{
		ID:                 "toy_soldier",
		BaseHealth:         50,
		BaseDamage:         8,
		Level:              2,
		Kind:               domain.Melee,
		Rarity:             domain.Common,
		AttackRange:        1,
		MoveSpeed:          2,
		AttackCooldown:     1,
		MaxStackPerSlot:    4,
		MaxPerFormationRow: 3,
	}
}

func TestNew(t *testing.T) {
	c := New(soldier(), domain.Opponent, 4, 3)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, 100, c.Health, "health scales with level")
	assert.Equal(t, 100, c.MaxHealth)
	assert.Equal(t, 16, c.Damage)
	assert.Equal(t, 1.0, c.DamageMultiplier)
	assert.Equal(t, 1, c.Lane)
	assert.Equal(t, Back, c.Band)
	assert.True(t, c.Alive())
}

func TestLaneOf(t *testing.T) {
	tests := []struct {
		slot     int
		wantLane int
		wantBand Band
	}{
		{0, 0, Front},
		{2, 2, Front},
		{3, 0, Back},
		{5, 2, Back},
	}
	for _, tt := range tests {
		lane, band := LaneOf(tt.slot, 3)
		assert.Equal(t, tt.wantLane, lane, "slot %d", tt.slot)
		assert.Equal(t, tt.wantBand, band, "slot %d", tt.slot)
	}
}

func TestTakeDamage(t *testing.T) {
	t.Run("flat shield is not consumed", func(t *testing.T) {
		c := New(soldier(), domain.Player, 0, 3)
		c.Shield = 5

		got := c.TakeDamage(10)
		assert.Equal(t, 5, got)
		assert.Equal(t, 95, c.Health)
		assert.Equal(t, 5.0, c.Shield, "shield must stay at 5 after a hit")

		got = c.TakeDamage(10)
		assert.Equal(t, 5, got)
		assert.Equal(t, 90, c.Health)
		assert.Equal(t, 5.0, c.Shield)
	})

	t.Run("shield larger than hit", func(t *testing.T) {
		c := New(soldier(), domain.Player, 0, 3)
		c.Shield = 30
		assert.Equal(t, 0, c.TakeDamage(10))
		assert.Equal(t, 100, c.Health)
	})

	t.Run("health never negative and monotonic", func(t *testing.T) {
		c := New(soldier(), domain.Player, 0, 3)
		for _, amount := range []int{0, 7, -3, 40, 1000, 5} {
			before := c.Health
			c.TakeDamage(amount)
			assert.LessOrEqual(t, c.Health, before)
			assert.GreaterOrEqual(t, c.Health, 0)
		}
		assert.False(t, c.Alive())
	})
}

func TestAttackDamage(t *testing.T) {
	c := New(soldier(), domain.Player, 0, 3)
	c.DamageMultiplier = 1.2
	assert.Equal(t, 19, c.AttackDamage(), "round(16*1.2)")
}

func TestGrow(t *testing.T) {
	c := New(soldier(), domain.Player, 0, 3)
	c.Grow(10)
	require.Equal(t, 110, c.MaxHealth)
	assert.Equal(t, 110, c.Health)
}

func TestMoveToward(t *testing.T) {
	from := Vec2{0, 0}
	to := Vec2{3, 4}

	step := from.MoveToward(to, 1)
	assert.InDelta(t, 0.6, step.X, 1e-9)
	assert.InDelta(t, 0.8, step.Y, 1e-9)
	assert.Equal(t, to, from.MoveToward(to, 10), "never overshoots")
	assert.InDelta(t, 5.0, from.Dist(to), 1e-9)
}
