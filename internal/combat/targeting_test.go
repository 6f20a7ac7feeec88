package combat

import (
	"testing"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/unit"
	"github.com/stretchr/testify/assert"
)

func TestSelectTarget(t *testing.T) {
	enemy := template("enemy", domain.Melee, 10, 1, 1, 1, 1)

	// Opponent board: slot 0 front lane 0, slot 3 back lane 0, slot 1 front lane 1, slot 5 back lane 2.
	front0 := place(enemy, domain.Opponent, 0, 0, 8)
	back0 := place(enemy, domain.Opponent, 3, 0, 4)
	front1 := place(enemy, domain.Opponent, 1, 3, 2)
	back2 := place(enemy, domain.Opponent, 5, 6, 10)
	all := []*unit.Combatant{front0, back0, front1, back2}

	tests := []struct {
		name    string
		kind    domain.UnitKind
		slot    int
		enemies []*unit.Combatant
		want    *unit.Combatant
	}{
		{"melee prefers same lane front over a closer back", domain.Melee, 0, all, front0},
		{"melee falls back to same lane back", domain.Melee, 0, []*unit.Combatant{back0, front1}, back0},
		{"melee falls back to anyone", domain.Melee, 2, []*unit.Combatant{front0, front1}, front1},
		{"explosive uses melee rules", domain.Explosive, 0, all, front0},
		{"support uses melee rules", domain.Support, 3, all, front0},
		{"ranged takes nearest in lane", domain.Ranged, 0, all, back0},
		{"ranged falls back to anyone", domain.Ranged, 2, []*unit.Combatant{front0, front1}, front1},
		{"assassin prefers back band", domain.Assassin, 1, all, back0},
		{"assassin falls back to front", domain.Assassin, 1, []*unit.Combatant{front0, front1}, front1},
		{"no enemies", domain.Melee, 0, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attacker := place(template("a", tt.kind, 10, 1, 1, 1, 1), domain.Player, tt.slot, 0, 0)
			assert.Same(t, tt.want, selectTarget(attacker, tt.enemies))
		})
	}
}

func TestSelectTarget_TieKeepsListOrder(t *testing.T) {
	enemy := template("enemy", domain.Melee, 10, 1, 1, 1, 1)
	left := place(enemy, domain.Opponent, 0, -2, 5)
	right := place(enemy, domain.Opponent, 0, 2, 5)
	attacker := place(template("a", domain.Melee, 10, 1, 1, 1, 1), domain.Player, 0, 0, 0)

	assert.Same(t, left, selectTarget(attacker, []*unit.Combatant{left, right}))
	assert.Same(t, right, selectTarget(attacker, []*unit.Combatant{right, left}))

	left.Health = 0
	assert.Same(t, right, selectTarget(attacker, []*unit.Combatant{left, right}))
}
