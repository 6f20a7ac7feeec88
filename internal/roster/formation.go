package roster

import (
	"sort"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/unit"
)

type formationGroup struct {
	tmpl  *domain.UnitTemplate
	units []*unit.Combatant
}

// ArrangeForBattle moves the live units of side from their slot stacks into
// battle formation. Units are grouped by template in first-seen slot order,
// groups are ordered by descending formation priority, and each group is laid
// out in centered rows starting from the side's rear edge.
func (m *Manager) ArrangeForBattle(side domain.Side) {
	groups := groupByTemplate(m.boards[side].live())
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].tmpl.FormationPriority > groups[j].tmpl.FormationPriority
	})

	sign := depthSign(side)
	// Deepest row allowed before crossing into the enemy half.
	limit := m.cfg.HalfDepth - m.cfg.RowOffset/2
	depth := 0.0
	for gi, g := range groups {
		if gi > 0 {
			depth += m.cfg.GroupGap
		}
		perRow := g.tmpl.MaxPerFormationRow
		if perRow < 1 {
			perRow = 1
		}
		for start, row := 0, 0; start < len(g.units); start, row = start+perRow, row+1 {
			if row > 0 {
				depth += m.cfg.RowOffset
			}
			end := min(start+perRow, len(g.units))
			y := sign * (m.cfg.HalfDepth - min(depth, limit))
			placeRow(g.units[start:end], y, m.cfg.UnitSpacing)
		}
	}

	m.arranged[side] = true
	m.logger.Debug("Formation arranged", "side", side, "groups", len(groups), "depth", depth)
}

// Arranged reports whether side has been arranged since its board last changed.
func (m *Manager) Arranged(side domain.Side) bool {
	return m.arranged[side]
}

func groupByTemplate(units []*unit.Combatant) []*formationGroup {
	var groups []*formationGroup
	index := make(map[string]*formationGroup)
	for _, c := range units {
		g, ok := index[c.Template.ID]
		if !ok {
			g = &formationGroup{tmpl: c.Template}
			index[c.Template.ID] = g
			groups = append(groups, g)
		}
		g.units = append(g.units, c)
	}
	return groups
}

func placeRow(row []*unit.Combatant, y, spacing float64) {
	center := float64(len(row)-1) / 2
	for i, c := range row {
		c.Position = unit.Vec2{X: (float64(i) - center) * spacing, Y: y}
	}
}
