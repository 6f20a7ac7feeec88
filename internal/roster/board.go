package roster

import (
	"math"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/unit"
)

// Config describes the board geometry. Distances are in board units; the
// player's half has negative Y and the opponent's half positive Y.
type Config struct {
	Slots int `json:"slots"`
	Lanes int `json:"lanes"`
	// DeployLimit caps the occupied slots per side; 0 means the whole board.
	DeployLimit int `json:"deploy_limit"`

	LaneWidth     float64 `json:"lane_width"`
	FrontDepth    float64 `json:"front_depth"`
	BandDepth     float64 `json:"band_depth"`
	SubGridSpread float64 `json:"sub_grid_spread"`

	HalfDepth   float64 `json:"half_depth"`
	UnitSpacing float64 `json:"unit_spacing"`
	RowOffset   float64 `json:"row_offset"`
	GroupGap    float64 `json:"group_gap"`
}

// DefaultConfig is the six-slot board: three lanes, front and back bands.
func DefaultConfig() Config {
	return Config{
		Slots:         6,
		Lanes:         3,
		LaneWidth:     3,
		FrontDepth:    3,
		BandDepth:     3,
		SubGridSpread: 0.6,
		HalfDepth:     12,
		UnitSpacing:   1.5,
		RowOffset:     1.5,
		GroupGap:      2.5,
	}
}

// Slot is one cell of a board. All live units share Template; an empty slot
// has no template and no units.
type Slot struct {
	Index    int
	Template *domain.UnitTemplate
	Units    []*unit.Combatant
}

// Empty reports whether the slot has no live units.
func (s *Slot) Empty() bool {
	return len(s.Units) == 0
}

func (s *Slot) remove(c *unit.Combatant) bool {
	for i, u := range s.Units {
		if u == c {
			s.Units = append(s.Units[:i], s.Units[i+1:]...)
			if len(s.Units) == 0 {
				s.Template = nil
			}
			return true
		}
	}
	return false
}

// board is the live, ephemeral side of the roster.
type board struct {
	slots []*Slot
}

func newBoard(n int) *board {
	b := &board{slots: make([]*Slot, n)}
	for i := range b.slots {
		b.slots[i] = &Slot{Index: i}
	}
	return b
}

func (b *board) clear() {
	for _, s := range b.slots {
		s.Units = nil
		s.Template = nil
	}
}

func (b *board) live() []*unit.Combatant {
	var out []*unit.Combatant
	for _, s := range b.slots {
		out = append(out, s.Units...)
	}
	return out
}

func depthSign(side domain.Side) float64 {
	if side == domain.Player {
		return -1
	}
	return 1
}

// anchor is the resting position of a slot before battle arrangement.
func (cfg Config) anchor(side domain.Side, slot int) unit.Vec2 {
	lane, band := unit.LaneOf(slot, cfg.Lanes)
	x := (float64(lane) - float64(cfg.Lanes-1)/2) * cfg.LaneWidth
	depth := cfg.FrontDepth
	if band == unit.Back {
		depth += cfg.BandDepth
	}
	return unit.Vec2{X: x, Y: depthSign(side) * depth}
}

// layoutStack packs a slot's units into a ceil(sqrt(n)) square sub-grid
// around the slot anchor. Only presentation reads the result.
func (cfg Config) layoutStack(side domain.Side, s *Slot) {
	n := len(s.Units)
	if n == 0 {
		return
	}
	size := int(math.Ceil(math.Sqrt(float64(n))))
	center := float64(size-1) / 2
	origin := cfg.anchor(side, s.Index)
	for i, c := range s.Units {
		row, col := i/size, i%size
		c.Layout = unit.Cell{Row: row, Col: col, Size: size}
		c.Position = origin.Add(unit.Vec2{
			X: (float64(col) - center) * cfg.SubGridSpread,
			Y: (float64(row) - center) * cfg.SubGridSpread * depthSign(side),
		})
	}
}
