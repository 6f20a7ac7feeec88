package domain

import "context"

// RosterSlotRecord is the persistent content of one slot. A record only
// exists while UnitCount > 0.
type RosterSlotRecord struct {
	TemplateID string `json:"template_id" surrealdb:"template_id"`
	UnitCount  int    `json:"unit_count" surrealdb:"unit_count"`
}

// RosterSnapshot is the serializable form of both persistent rosters:
// side -> slot index -> record.
type RosterSnapshot map[Side]map[int]RosterSlotRecord

// Count returns the total number of recorded units for a side.
func (s RosterSnapshot) Count(side Side) int {
	total := 0
	for _, rec := range s[side] {
		total += rec.UnitCount
	}
	return total
}

// RosterRepository persists roster snapshots between process restarts.
type RosterRepository interface {
	// Save stores the snapshot for a match, replacing any previous one.
	Save(ctx context.Context, matchID string, snapshot RosterSnapshot) error

	// Load returns the stored snapshot, or ErrMatchNotFound.
	Load(ctx context.Context, matchID string) (RosterSnapshot, error)
}
