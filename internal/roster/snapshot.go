package roster

import (
	"errors"
	"fmt"

	"github.com/nfrund/toybattle/internal/domain"
)

// Snapshot copies the persistent records of both sides.
func (m *Manager) Snapshot() domain.RosterSnapshot {
	snap := make(domain.RosterSnapshot, len(domain.Sides))
	for _, side := range domain.Sides {
		snap[side] = m.Records(side)
	}
	return snap
}

// Restore replaces both rosters with snap and respawns the live boards from
// it. Records pointing outside the board, at unknown templates, or beyond a
// template's stack limit are dropped and reported in the joined error.
func (m *Manager) Restore(snap domain.RosterSnapshot) error {
	m.ResetAll()

	var errs []error
	for _, side := range domain.Sides {
		for slot, rec := range snap[side] {
			if slot < 0 || slot >= m.cfg.Slots {
				errs = append(errs, fmt.Errorf("%s slot %d: %w", side, slot, domain.ErrSlotIncompatible))
				continue
			}
			if rec.UnitCount <= 0 {
				continue
			}
			tmpl, err := m.source.Template(rec.TemplateID)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s slot %d: %w", side, slot, err))
				continue
			}
			if rec.UnitCount > tmpl.MaxStackPerSlot {
				errs = append(errs, fmt.Errorf("%s slot %d: %w: %d units of %s exceed stack limit %d",
					side, slot, domain.ErrSlotIncompatible, rec.UnitCount, tmpl.ID, tmpl.MaxStackPerSlot))
				continue
			}
			m.records[side][slot] = rec
		}
		// A restored roster may already use more slots than the starting limit.
		if used := len(m.records[side]); used > m.deployLimit[side] {
			m.deployLimit[side] = used
		}
	}

	if err := m.RespawnFromPersistent(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
