package roster

import (
	"testing"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positions(units []*unit.Combatant, id string) []unit.Vec2 {
	var out []unit.Vec2
	for _, c := range units {
		if c.Template.ID == id {
			out = append(out, c.Position)
		}
	}
	return out
}

func TestArrangeForBattle(t *testing.T) {
	archer := testTemplate("archer", 3, 70, 2)
	knight := testTemplate("knight", 1, 90, 4)
	m, _, _ := newTestManager(t, DefaultConfig(), archer, knight)

	for _, side := range domain.Sides {
		for i := 0; i < 3; i++ {
			_, err := m.AddUnit(archer, side, 0)
			require.NoError(t, err)
		}
		_, err := m.AddUnit(knight, side, 1)
		require.NoError(t, err)
	}
	assert.False(t, m.Arranged(domain.Player))

	m.ArrangeForBattle(domain.Player)
	assert.True(t, m.Arranged(domain.Player))
	assert.False(t, m.Arranged(domain.Opponent))

	units := m.GetLiveUnits(domain.Player)

	// Higher priority group sits on the baseline.
	assert.Equal(t, []unit.Vec2{{X: 0, Y: -12}}, positions(units, "knight"))

	// Archers: two rows after the group gap, each row centered.
	archers := positions(units, "archer")
	require.Len(t, archers, 3)
	assert.InDelta(t, -0.75, archers[0].X, 1e-9)
	assert.InDelta(t, 0.75, archers[1].X, 1e-9)
	assert.InDelta(t, -9.5, archers[0].Y, 1e-9)
	assert.InDelta(t, -9.5, archers[1].Y, 1e-9)
	assert.InDelta(t, 0, archers[2].X, 1e-9)
	assert.InDelta(t, -8, archers[2].Y, 1e-9)

	m.ArrangeForBattle(domain.Opponent)
	mirrored := positions(m.GetLiveUnits(domain.Opponent), "archer")
	for i, p := range archers {
		assert.InDelta(t, p.X, mirrored[i].X, 1e-9)
		assert.InDelta(t, -p.Y, mirrored[i].Y, 1e-9)
	}

	_, err := m.AddUnit(knight, domain.Player, AutoSlot)
	require.NoError(t, err)
	assert.False(t, m.Arranged(domain.Player), "board changes invalidate the arrangement")
}

func TestArrangeForBattle_StableOnEqualPriority(t *testing.T) {
	first := testTemplate("first", 1, 50, 4)
	second := testTemplate("second", 1, 50, 4)
	m, _, _ := newTestManager(t, DefaultConfig(), first, second)

	_, err := m.AddUnit(first, domain.Player, 2)
	require.NoError(t, err)
	_, err = m.AddUnit(second, domain.Player, 4)
	require.NoError(t, err)

	m.ArrangeForBattle(domain.Player)
	units := m.GetLiveUnits(domain.Player)
	assert.InDelta(t, -12, positions(units, "first")[0].Y, 1e-9)
	assert.InDelta(t, -9.5, positions(units, "second")[0].Y, 1e-9)
}

func TestArrangeForBattle_StaysInOwnHalf(t *testing.T) {
	var tmpls []*domain.UnitTemplate
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		tmpls = append(tmpls, testTemplate(id, 4, 10, 1))
	}
	m, _, _ := newTestManager(t, DefaultConfig(), tmpls...)
	for _, tmpl := range tmpls {
		for i := 0; i < 4; i++ {
			_, err := m.AddUnit(tmpl, domain.Player, AutoSlot)
			require.NoError(t, err)
		}
	}

	m.ArrangeForBattle(domain.Player)
	for _, c := range m.GetLiveUnits(domain.Player) {
		assert.Less(t, c.Position.Y, 0.0)
	}
}
