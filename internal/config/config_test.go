package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, []int{5, 10, 15, 20, 25, 30}, cfg.BattleTurns)
	assert.Equal(t, []int{8, 16, 24}, cfg.SkillTurns)
	assert.False(t, cfg.UseSurreal())

	board := cfg.Board()
	assert.Equal(t, 6, board.Slots)
	assert.Equal(t, 3, board.Lanes)

	combat := cfg.Combat()
	assert.Equal(t, 1.0, combat.StatusInterval)
	assert.Equal(t, 5, combat.PoisonDamage)
	assert.Equal(t, 0.5, combat.TeleportDelay)
	assert.Equal(t, 0.75, combat.ExplosionDelay)

	sched := cfg.Schedule()
	assert.Equal(t, 30, sched.TotalTurns)
	assert.Equal(t, 0.4, sched.ChestChance)
	assert.Equal(t, 8, sched.WinGold)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("BATTLE_TURNS", "2,4")
	t.Setenv("TOTAL_TURNS", "4")
	t.Setenv("BOARD_SLOTS", "8")
	t.Setenv("BOARD_LANES", "4")
	t.Setenv("SURREAL_URL", "ws://localhost:8000/rpc")
	t.Setenv("SURREAL_NS", "toybattle")
	t.Setenv("SURREAL_DB", "test")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, cfg.Match().Schedule.BattleTurns)
	assert.Equal(t, 8, cfg.Match().Board.Slots)
	assert.True(t, cfg.UseSurreal())
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"CHEST_CHANCE":   "1.5",
		"BOT_DIFFICULTY": "impossible",
		"BOARD_LANES":    "9",
		"TICK_SECONDS":   "0",
		"TOTAL_TURNS":    "many",
		"RATE_LIMIT":     "0",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}
