package database

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterEncoding(t *testing.T) {
	snap := domain.RosterSnapshot{
		domain.Player: {
			3: {TemplateID: "golem", UnitCount: 1},
			0: {TemplateID: "soldier", UnitCount: 4},
		},
		domain.Opponent: {
			1: {TemplateID: "bros", UnitCount: 2},
		},
	}

	rows := encodeRoster(snap)
	require.Len(t, rows, 3)
	assert.Equal(t, slotRow{Side: "player", Slot: 0, TemplateID: "soldier", UnitCount: 4}, rows[0])
	assert.Equal(t, slotRow{Side: "player", Slot: 3, TemplateID: "golem", UnitCount: 1}, rows[1])
	assert.Equal(t, "opponent", rows[2].Side)

	got, err := decodeRoster(rows)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestDecodeRoster_Invalid(t *testing.T) {
	_, err := decodeRoster([]slotRow{{Side: "spectator", Slot: 0, TemplateID: "x", UnitCount: 1}})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	snap, err := decodeRoster([]slotRow{{Side: "player", Slot: 2, TemplateID: "x", UnitCount: 0}})
	require.NoError(t, err)
	assert.Empty(t, snap[domain.Player])
}

func TestRedactDBURL(t *testing.T) {
	assert.Equal(t, "ws://root:xxxxx@localhost:8000/rpc", redactDBURL("ws://root:secret@localhost:8000/rpc"))
	assert.Equal(t, "invalid-url", redactDBURL("://bad"))
}

func TestIsConnectionError(t *testing.T) {
	assert.False(t, isConnectionError(nil))
	assert.True(t, isConnectionError(context.DeadlineExceeded))
	assert.True(t, isConnectionError(errors.New("dial tcp: connection refused")))
	assert.False(t, isConnectionError(errors.New("parse error")))
}

func TestRetryer(t *testing.T) {
	r := &ExponentialBackoffRetryer{maxRetries: 2, baseDelay: time.Millisecond, maxDelay: time.Millisecond, multiplier: 2}

	calls := 0
	err := r.Retry(context.Background(), func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = r.Retry(context.Background(), func() error {
		calls++
		return errors.New("down")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithConnection_NotConnected(t *testing.T) {
	conn := NewConnection(Settings{URL: "ws://localhost:1/rpc"})
	repo := NewRosterRepository(conn)

	err := repo.Save(context.Background(), "m1", domain.RosterSnapshot{})
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.False(t, conn.IsHealthy())
}

func TestHasLimitClause(t *testing.T) {
	assert.True(t, hasLimitClause("SELECT * FROM x limit 1"))
	assert.False(t, hasLimitClause("SELECT * FROM unlimited"))
}

// TestRosterRepository_Integration needs a running SurrealDB, located by
// the same SURREAL_* variables the server uses.
func TestRosterRepository_Integration(t *testing.T) {
	if testing.Short() || os.Getenv("SURREAL_URL") == "" {
		t.Skip("skipping integration test: SURREAL_URL not set")
	}

	ctx := context.Background()
	conn := NewConnection(Settings{
		URL:       os.Getenv("SURREAL_URL"),
		Namespace: os.Getenv("SURREAL_NS"),
		Database:  os.Getenv("SURREAL_DB"),
		User:      os.Getenv("SURREAL_USER"),
		Pass:      os.Getenv("SURREAL_PASS"),
	})
	require.NoError(t, conn.Connect(ctx))
	t.Cleanup(func() { _ = conn.Close(context.Background()) })

	repo := NewRosterRepository(conn)
	id := uuid.NewString()
	snap := domain.RosterSnapshot{
		domain.Player:   {0: {TemplateID: "toy_soldier", UnitCount: 2}},
		domain.Opponent: {5: {TemplateID: "guardian_golem", UnitCount: 1}},
	}

	require.NoError(t, repo.Save(ctx, id, snap))
	got, err := repo.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	_, err = repo.Load(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)
}
