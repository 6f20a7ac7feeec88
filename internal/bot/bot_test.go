package bot

import (
	"context"
	"math/rand"
	"testing"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/draft"
	"github.com/nfrund/toybattle/internal/script"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitCard(id string, kind domain.UnitKind, health, damage int) draft.Card {
	return draft.Card{Kind: draft.CardUnit, Unit: &domain.UnitTemplate{
		ID: id, Kind: kind, BaseHealth: health, BaseDamage: damage, Level: 1,
	}}
}

func bonusCard(id string, effect domain.BonusEffect, pips int, target domain.UnitKind) draft.Card {
	return draft.Card{Kind: draft.CardBonus, Bonus: &domain.BonusCard{
		ID: id, Effect: effect, PipCost: pips, TargetKind: target,
	}}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		card draft.Card
		want int
	}{
		{"plain unit", unitCard("u", domain.Melee, 30, 7), 44},
		{"teleport", draft.Card{Kind: draft.CardUnit, Unit: &domain.UnitTemplate{BaseHealth: 40, BaseDamage: 19, Level: 1, HasTeleport: true}}, 98},
		{"explosive level 2", draft.Card{Kind: draft.CardUnit, Unit: &domain.UnitTemplate{BaseHealth: 20, BaseDamage: 10, Level: 2, IsExplosive: true}}, 95},
		{"support", draft.Card{Kind: draft.CardUnit, Unit: &domain.UnitTemplate{BaseHealth: 10, BaseDamage: 0, Level: 1, HasSupport: true}}, 20},
		{"one pip bonus", bonusCard("b", domain.BonusShield, 1, ""), 50},
		{"two pip bonus", bonusCard("b", domain.BonusPoison, 2, ""), 70},
		{"skill", draft.Card{Kind: draft.CardSkill, Skill: &domain.SkillCard{AttackBonus: 0.2, DefenseBonus: 0.1}}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.card))
		})
	}
}

func testOffer() draft.Offer {
	// Scores: golem 160, bros 44, buff 50.
	return draft.Offer{Variant: domain.DraftCards, Cards: []draft.Card{
		unitCard("golem", domain.Melee, 120, 20),
		unitCard("bros", domain.Melee, 30, 7),
		bonusCard("buff", domain.BonusGroupBuff, 1, domain.Ranged),
	}}
}

func TestDifficulties(t *testing.T) {
	ctx := context.Background()
	offer := testOffer()

	tests := []struct {
		difficulty Difficulty
		view       View
		want       int
	}{
		{Tutorial, View{}, 1},
		{Normal, View{}, 0},
		{Hard, View{Owned: map[domain.UnitKind]int{domain.Ranged: 3}}, 2},
		{Hard, View{Owned: map[domain.UnitKind]int{domain.Ranged: 2}}, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			d, err := New(tt.difficulty, nil)
			require.NoError(t, err)
			sel, err := d.Choose(ctx, offer, tt.view)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Card)
			assert.Equal(t, -1, sel.Slot)
		})
	}
}

func TestEasyBot(t *testing.T) {
	d, err := New(Easy, rand.New(rand.NewSource(4)))
	require.NoError(t, err)

	seen := map[int]bool{}
	for i := 0; i < 100; i++ {
		sel, err := d.Choose(context.Background(), testOffer(), View{})
		require.NoError(t, err)
		require.GreaterOrEqual(t, sel.Card, 0)
		require.Less(t, sel.Card, 3)
		seen[sel.Card] = true
	}
	assert.Len(t, seen, 3)
}

func TestEmptyOffer(t *testing.T) {
	for _, d := range []Difficulty{Tutorial, Normal, Hard} {
		bot, err := New(d, nil)
		require.NoError(t, err)
		sel, err := bot.Choose(context.Background(), draft.Offer{}, View{})
		assert.ErrorIs(t, err, domain.ErrInvalidSelection)
		assert.True(t, sel.Pass)
	}
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" Hard ")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)

	d, err = ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, Normal, d)

	_, err = ParseDifficulty("impossible")
	assert.Error(t, err)
}

func TestScriptBot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bots/cheap.tengo", []byte(`
result := 0
if card.kind == "unit" {
    result = 1000 - card.health + owned["melee"]
}
`), 0o644))

	b, err := NewScriptBot(fs, "bots/cheap.tengo", nil, nil)
	require.NoError(t, err)

	sel, err := b.Choose(context.Background(), testOffer(), View{Turn: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, sel.Card)
}

func TestScriptBot_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.tengo", []byte(`result := (`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "text.tengo", []byte(`result := "high"`), 0o644))

	_, err := NewScriptBot(fs, "missing.tengo", nil, nil)
	assert.Error(t, err)

	_, err = NewScriptBot(fs, "bad.tengo", nil, nil)
	var scriptErr *script.ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, script.ErrorTypeCompilation, scriptErr.Type)

	b, err := NewScriptBot(fs, "text.tengo", nil, nil)
	require.NoError(t, err)
	sel, err := b.Choose(context.Background(), testOffer(), View{})
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, script.ErrorTypeResult, scriptErr.Type)
	assert.True(t, sel.Pass)
}

func TestScriptBot_ShippedScript(t *testing.T) {
	fs := afero.NewOsFs()
	b, err := NewScriptBot(fs, "../../data/bots/synergy.tengo", nil, nil)
	require.NoError(t, err)

	sel, err := b.Choose(context.Background(), testOffer(), View{
		Turn:  12,
		Owned: map[domain.UnitKind]int{domain.Ranged: 4},
	})
	require.NoError(t, err)
	// 50 + 4*40 = 210 beats the golem's 160.
	assert.Equal(t, 2, sel.Card)
}
