package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/google/uuid"
	"github.com/nfrund/toybattle/internal/domain"
)

// RosterStore saves one JSON roster snapshot per match under dir.
// It implements domain.RosterRepository.
type RosterStore struct {
	store Store
	dir   string
}

// NewRosterStore creates a snapshot store writing to dir inside store.
func NewRosterStore(store Store, dir string) *RosterStore {
	return &RosterStore{store: store, dir: dir}
}

func (r *RosterStore) path(matchID string) (string, error) {
	if _, err := uuid.Parse(matchID); err != nil {
		return "", fmt.Errorf("invalid match id %q: %w", matchID, err)
	}
	return path.Join(r.dir, matchID+".json"), nil
}

// Save stores the snapshot, replacing any previous one.
func (r *RosterStore) Save(ctx context.Context, matchID string, snapshot domain.RosterSnapshot) error {
	p, err := r.path(matchID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := r.store.Save(ctx, p, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("save snapshot %s: %w", matchID, err)
	}
	return nil
}

// Load returns the stored snapshot, or domain.ErrMatchNotFound.
func (r *RosterStore) Load(ctx context.Context, matchID string) (domain.RosterSnapshot, error) {
	p, err := r.path(matchID)
	if err != nil {
		return nil, err
	}
	f, err := r.store.Open(ctx, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMatchNotFound, matchID)
		}
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	var snap domain.RosterSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", matchID, err)
	}
	return snap, nil
}

// Delete removes a stored snapshot.
func (r *RosterStore) Delete(ctx context.Context, matchID string) error {
	p, err := r.path(matchID)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
