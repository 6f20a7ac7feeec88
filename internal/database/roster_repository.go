package database

import (
	"context"
	"fmt"
	"sort"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

const rosterTable = "match_roster"

// slotRow is one persistent slot record as stored in SurrealDB. Slots are
// stored as rows rather than a map because object keys must be strings.
type slotRow struct {
	Side       string `json:"side"`
	Slot       int    `json:"slot"`
	TemplateID string `json:"template_id"`
	UnitCount  int    `json:"unit_count"`
}

type rosterRow struct {
	MatchID string    `json:"match_id"`
	Slots   []slotRow `json:"slots"`
}

// RosterRepository stores roster snapshots in the match_roster table, one
// record per match. It implements domain.RosterRepository.
type RosterRepository struct {
	conn *Connection
}

// NewRosterRepository creates a repository on an established connection.
func NewRosterRepository(conn *Connection) *RosterRepository {
	return &RosterRepository{conn: conn}
}

// Save replaces the stored snapshot of matchID.
func (r *RosterRepository) Save(ctx context.Context, matchID string, snapshot domain.RosterSnapshot) error {
	ctx, cancel := withTimeout(ctx, r.conn.QueryTimeout(), ContextKeyQueryTimeout)
	defer cancel()

	row := rosterRow{MatchID: matchID, Slots: encodeRoster(snapshot)}
	return r.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		return Execute(ctx, db,
			"UPSERT type::thing($table, $id) CONTENT $row",
			map[string]any{"table": rosterTable, "id": matchID, "row": row})
	})
}

// Load returns the stored snapshot of matchID, or domain.ErrMatchNotFound.
func (r *RosterRepository) Load(ctx context.Context, matchID string) (domain.RosterSnapshot, error) {
	ctx, cancel := withTimeout(ctx, r.conn.QueryTimeout(), ContextKeyQueryTimeout)
	defer cancel()

	var row *rosterRow
	err := r.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		row, err = QueryOne[rosterRow](ctx, db,
			"SELECT match_id, slots FROM type::thing($table, $id)",
			map[string]any{"table": rosterTable, "id": matchID})
		return err
	})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrMatchNotFound, matchID)
	}
	return decodeRoster(row.Slots)
}

func encodeRoster(snap domain.RosterSnapshot) []slotRow {
	rows := make([]slotRow, 0)
	for _, side := range domain.Sides {
		for slot, rec := range snap[side] {
			rows = append(rows, slotRow{
				Side:       side.String(),
				Slot:       slot,
				TemplateID: rec.TemplateID,
				UnitCount:  rec.UnitCount,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Side != rows[j].Side {
			return rows[i].Side > rows[j].Side // player before opponent
		}
		return rows[i].Slot < rows[j].Slot
	})
	return rows
}

func decodeRoster(rows []slotRow) (domain.RosterSnapshot, error) {
	snap := domain.RosterSnapshot{
		domain.Player:   {},
		domain.Opponent: {},
	}
	for _, row := range rows {
		var side domain.Side
		if err := side.UnmarshalText([]byte(row.Side)); err != nil {
			return nil, NewDBError(fmt.Errorf("%w: %w", ErrInvalidRecord, err), "decode roster")
		}
		if row.UnitCount <= 0 {
			continue
		}
		snap[side][row.Slot] = domain.RosterSlotRecord{TemplateID: row.TemplateID, UnitCount: row.UnitCount}
	}
	return snap, nil
}
