package runner

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/nfrund/toybattle/internal/bot"
	"github.com/nfrund/toybattle/internal/match"
	"github.com/nfrund/toybattle/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func options(t *testing.T, seed int64) Options {
	t.Helper()

	player, err := bot.New(bot.Normal, nil)
	require.NoError(t, err)
	opponent, err := bot.New(bot.Hard, nil)
	require.NoError(t, err)

	cfg := match.DefaultConfig()
	cfg.Combat.MaxDuration = 120
	return Options{
		Config:   cfg,
		Catalog:  testutils.Catalog(t),
		Player:   player,
		Opponent: opponent,
		Seed:     seed,
		Tick:     0.1,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestPlay_FullMatch(t *testing.T) {
	res, err := Play(context.Background(), options(t, 3))
	require.NoError(t, err)

	sched := match.DefaultSchedule()
	require.Len(t, res.Battles, len(sched.BattleTurns))
	for i, b := range res.Battles {
		assert.Equal(t, sched.BattleTurns[i], b.Turn)
	}
	assert.Equal(t, len(sched.BattleTurns), res.Wins+res.Losses)
	assert.Equal(t, res.Wins*sched.WinGold+res.Losses*sched.LoseGold, res.Gold)
	assert.Equal(t, len(sched.BattleTurns), res.Observed.Battles)
	assert.Positive(t, res.Observed.Spawned)
	assert.NotEmpty(t, res.Roster)
}

func TestPlay_SameSeedSameResult(t *testing.T) {
	a, err := Play(context.Background(), options(t, 42))
	require.NoError(t, err)
	b, err := Play(context.Background(), options(t, 42))
	require.NoError(t, err)

	assert.Equal(t, a.Wins, b.Wins)
	assert.Equal(t, a.Roster, b.Roster)
	assert.Equal(t, a.Observed.Damage, b.Observed.Damage)
}

func TestPlay_Validation(t *testing.T) {
	opts := options(t, 1)
	opts.Player = nil
	_, err := Play(context.Background(), opts)
	assert.Error(t, err)

	opts = options(t, 1)
	opts.Tick = 0
	_, err = Play(context.Background(), opts)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Play(ctx, options(t, 1))
	assert.ErrorIs(t, err, context.Canceled)
}
