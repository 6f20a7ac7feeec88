package match

import (
	"context"

	"github.com/nfrund/toybattle/internal/combat"
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/effects"
)

// enterBattle arranges both formations, applies the active skills and
// starts the simulator. The machine is already in Battle.
func (m *Match) enterBattle() {
	for _, side := range domain.Sides {
		m.roster.ArrangeForBattle(side)
		if skill := m.skills[side]; skill != nil {
			effects.ApplySkill(m.roster.GetLiveUnits(side), *skill)
			m.logger.Debug("Skill applied", "side", side, "skill_id", skill.ID)
		}
	}
	m.sim.StartBattle(m.roster.GetLiveUnits(domain.Player), m.roster.GetLiveUnits(domain.Opponent))
}

// Tick advances the running battle by dt and concludes it once the
// simulator reports an end.
func (m *Match) Tick(ctx context.Context, dt float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.Phase() != domain.PhaseBattle {
		return domain.ErrBattleNotActive
	}
	m.sim.Step(dt)
	if m.sim.Finished() {
		return m.concludeBattle(ctx)
	}
	return nil
}

// SkipBattle ends the running battle now. The winner is decided on points.
func (m *Match) SkipBattle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.Phase() != domain.PhaseBattle {
		return domain.ErrBattleNotActive
	}
	return m.concludeBattle(ctx)
}

// concludeBattle leaves Battle first and only then ends the simulation and
// books the result, so a failed transition leaves the battle running.
func (m *Match) concludeBattle(ctx context.Context) error {
	event := evProgress
	switch {
	case m.turn >= m.sched.TotalTurns:
		event = evReward
	case m.rng.Float64() < m.sched.ChestChance:
		event = evChest
	}
	if err := m.fire(ctx, event); err != nil {
		return err
	}

	out, err := m.sim.EndBattle()
	if err != nil {
		return err
	}
	m.last = &out

	if out.Winner == domain.Player {
		m.wins++
		m.gold += m.sched.WinGold
	} else {
		m.losses++
		m.gold += m.sched.LoseGold
	}
	m.skills = [2]*domain.SkillCard{}
	m.roster.ClearEphemeral()

	m.logger.Info("Battle concluded",
		"turn", m.turn,
		"winner", out.Winner,
		"wins", m.wins,
		"gold", m.gold)
	return nil
}

// LastOutcome returns the outcome of the most recent battle, if any.
func (m *Match) LastOutcome() (combat.Outcome, bool) {
	if m.last == nil {
		return combat.Outcome{}, false
	}
	return *m.last, true
}
