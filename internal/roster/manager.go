// Package roster keeps the persistent roster records of both sides and the
// live board of unit instances derived from them.
//
// Records survive between battles; instances are rebuilt from records before
// every draft. The manager is not safe for concurrent use: a match drives it
// from a single goroutine.
package roster

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/events"
	"github.com/nfrund/toybattle/internal/unit"
)

// AutoSlot lets AddUnit pick the slot.
const AutoSlot = -1

// TemplateSource resolves template ids. *catalog.Catalog satisfies it.
type TemplateSource interface {
	Template(id string) (*domain.UnitTemplate, error)
}

// Manager owns both rosters of a match.
type Manager struct {
	cfg      Config
	source   TemplateSource
	observer events.Observer
	logger   *slog.Logger

	boards      [2]*board
	records     [2]map[int]domain.RosterSlotRecord
	deployLimit [2]int
	arranged    [2]bool
}

// NewManager creates empty rosters for both sides.
func NewManager(cfg Config, source TemplateSource, observer events.Observer, logger *slog.Logger) *Manager {
	if cfg.Slots <= 0 {
		cfg.Slots = DefaultConfig().Slots
	}
	if cfg.Lanes <= 0 {
		cfg.Lanes = DefaultConfig().Lanes
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		cfg:      cfg,
		source:   source,
		observer: events.OrNop(observer),
		logger:   logger.With("component", "roster"),
	}
	m.ResetAll()
	return m
}

// Config returns the board geometry.
func (m *Manager) Config() Config {
	return m.cfg
}

// AddUnit creates one instance of tmpl on side. With slot == AutoSlot it
// prefers a slot already holding tmpl with spare capacity, then the first
// empty slot. An explicit slot must be empty or hold the same template below
// its stack limit. The slot's persistent record is updated to the new live
// count.
func (m *Manager) AddUnit(tmpl *domain.UnitTemplate, side domain.Side, slot int) (*unit.Combatant, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("%w: nil template", domain.ErrTemplateNotFound)
	}
	b := m.boards[side]

	if slot == AutoSlot {
		slot = m.resolveSlot(tmpl, side)
		if slot == AutoSlot {
			return nil, domain.ErrNoSlotAvailable
		}
	} else if err := m.checkSlot(tmpl, side, slot); err != nil {
		return nil, err
	}

	s := b.slots[slot]
	c := unit.New(tmpl, side, slot, m.cfg.Lanes)
	s.Template = tmpl
	s.Units = append(s.Units, c)
	m.records[side][slot] = domain.RosterSlotRecord{TemplateID: tmpl.ID, UnitCount: len(s.Units)}
	m.arranged[side] = false
	m.cfg.layoutStack(side, s)

	m.logger.Debug("Unit added",
		"side", side,
		"slot", slot,
		"template_id", tmpl.ID,
		"stack", len(s.Units))
	m.observer.UnitSpawned(c)
	return c, nil
}

// AddUnitByID resolves id through the template source and calls AddUnit.
func (m *Manager) AddUnitByID(id string, side domain.Side, slot int) (*unit.Combatant, error) {
	tmpl, err := m.source.Template(id)
	if err != nil {
		return nil, err
	}
	return m.AddUnit(tmpl, side, slot)
}

// occupant is the template id a slot is committed to, from its live units or
// its record. Empty means the slot is free.
func (m *Manager) occupant(side domain.Side, slot int) string {
	if s := m.boards[side].slots[slot]; s.Template != nil {
		return s.Template.ID
	}
	return m.records[side][slot].TemplateID
}

func (m *Manager) resolveSlot(tmpl *domain.UnitTemplate, side domain.Side) int {
	b := m.boards[side]
	for _, s := range b.slots {
		if m.occupant(side, s.Index) == tmpl.ID && len(s.Units) < tmpl.MaxStackPerSlot {
			return s.Index
		}
	}
	if m.OccupiedSlots(side) >= m.deployLimit[side] {
		return AutoSlot
	}
	for _, s := range b.slots {
		if m.occupant(side, s.Index) == "" {
			return s.Index
		}
	}
	return AutoSlot
}

func (m *Manager) checkSlot(tmpl *domain.UnitTemplate, side domain.Side, slot int) error {
	if slot < 0 || slot >= m.cfg.Slots {
		return fmt.Errorf("%w: slot %d out of range", domain.ErrSlotIncompatible, slot)
	}
	switch occ := m.occupant(side, slot); occ {
	case "":
		if m.OccupiedSlots(side) >= m.deployLimit[side] {
			return domain.ErrNoSlotAvailable
		}
	case tmpl.ID:
		if len(m.boards[side].slots[slot].Units) >= tmpl.MaxStackPerSlot {
			return fmt.Errorf("%w: slot %d is full", domain.ErrSlotIncompatible, slot)
		}
	default:
		return fmt.Errorf("%w: slot %d holds %s", domain.ErrSlotIncompatible, slot, occ)
	}
	return nil
}

// ClearEphemeral destroys every live instance on both sides. Records are
// left alone.
func (m *Manager) ClearEphemeral() {
	for _, side := range domain.Sides {
		m.boards[side].clear()
		m.arranged[side] = false
	}
	m.logger.Debug("Live units cleared")
}

// RespawnFromPersistent tops every recorded slot up to its recorded count.
// Only the instances it creates are at full health: surviving instances are
// kept as they are, so callers that need a fresh full-health roster must call
// ClearEphemeral first. After ClearEphemeral this recreates exactly the
// recorded multiset. Records
// whose template can no longer be resolved are skipped; their errors are
// returned joined once every other record has been processed.
func (m *Manager) RespawnFromPersistent() error {
	var errs []error
	for _, side := range domain.Sides {
		snapshot := m.Records(side)
		for _, slot := range sortedSlots(snapshot) {
			rec := snapshot[slot]
			tmpl, err := m.source.Template(rec.TemplateID)
			if err != nil {
				m.logger.Warn("Skipping unknown template on respawn",
					"side", side,
					"slot", slot,
					"template_id", rec.TemplateID,
					"error", err)
				errs = append(errs, fmt.Errorf("%s slot %d: %w", side, slot, err))
				continue
			}
			for have := len(m.boards[side].slots[slot].Units); have < rec.UnitCount; have++ {
				if _, err := m.AddUnit(tmpl, side, slot); err != nil {
					errs = append(errs, fmt.Errorf("%s slot %d: %w", side, slot, err))
					break
				}
			}
		}
	}
	return errors.Join(errs...)
}

// RemoveOnDeath detaches a dead instance from its slot's live list. The
// persistent record keeps its count, so losses only last until the next
// respawn.
func (m *Manager) RemoveOnDeath(c *unit.Combatant) {
	if c == nil || c.Slot < 0 || c.Slot >= m.cfg.Slots {
		return
	}
	if !m.boards[c.Side].slots[c.Slot].remove(c) {
		m.logger.Warn("Death reported for unknown instance", "side", c.Side, "slot", c.Slot, "id", c.ID)
	}
}

// ResetAll empties both rosters and restores the starting deploy limits.
func (m *Manager) ResetAll() {
	for _, side := range domain.Sides {
		m.boards[side] = newBoard(m.cfg.Slots)
		m.records[side] = make(map[int]domain.RosterSlotRecord)
		m.deployLimit[side] = m.cfg.DeployLimit
		if m.deployLimit[side] <= 0 || m.deployLimit[side] > m.cfg.Slots {
			m.deployLimit[side] = m.cfg.Slots
		}
		m.arranged[side] = false
	}
}

// GetLiveUnits returns the live instances of side in slot order.
func (m *Manager) GetLiveUnits(side domain.Side) []*unit.Combatant {
	return m.boards[side].live()
}

// Slots returns the live slots of side. The returned slots must not be modified.
func (m *Manager) Slots(side domain.Side) []*Slot {
	return append([]*Slot(nil), m.boards[side].slots...)
}

// Records returns a copy of the persistent records of side.
func (m *Manager) Records(side domain.Side) map[int]domain.RosterSlotRecord {
	out := make(map[int]domain.RosterSlotRecord, len(m.records[side]))
	for k, v := range m.records[side] {
		out[k] = v
	}
	return out
}

// OccupiedSlots counts the slots of side with a record or live units.
func (m *Manager) OccupiedSlots(side domain.Side) int {
	n := 0
	for i := 0; i < m.cfg.Slots; i++ {
		if m.occupant(side, i) != "" {
			n++
		}
	}
	return n
}

// DeployLimit is the number of distinct slots side may occupy.
func (m *Manager) DeployLimit(side domain.Side) int {
	return m.deployLimit[side]
}

// ExpandDeployLimit raises the deploy limit of side by one, up to the board
// length.
func (m *Manager) ExpandDeployLimit(side domain.Side) {
	if m.deployLimit[side] < m.cfg.Slots {
		m.deployLimit[side]++
	}
}

func sortedSlots(records map[int]domain.RosterSlotRecord) []int {
	slots := make([]int, 0, len(records))
	for k := range records {
		slots = append(slots, k)
	}
	sort.Ints(slots)
	return slots
}
