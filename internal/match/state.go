package match

import (
	"github.com/nfrund/toybattle/internal/combat"
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/draft"
)

// State is a JSON summary of a match for clients.
type State struct {
	ID          string                `json:"id"`
	Phase       domain.Phase          `json:"phase"`
	Turn        int                   `json:"turn"`
	TotalTurns  int                   `json:"total_turns"`
	Variant     domain.DraftVariant   `json:"variant,omitempty"`
	Wins        int                   `json:"wins"`
	Losses      int                   `json:"losses"`
	Gold        int                   `json:"gold"`
	Offer       *draft.Offer          `json:"offer,omitempty"`
	Committed   map[domain.Side]bool  `json:"committed,omitempty"`
	BattleTime  float64               `json:"battle_time,omitempty"`
	LastOutcome *combat.Outcome       `json:"last_outcome,omitempty"`
	Roster      domain.RosterSnapshot `json:"roster"`
}

// State summarizes the match. The offer is the player's and is only set
// while drafting.
func (m *Match) State() State {
	s := State{
		ID:          m.id,
		Phase:       m.Phase(),
		Turn:        m.turn,
		TotalTurns:  m.sched.TotalTurns,
		Wins:        m.wins,
		Losses:      m.losses,
		Gold:        m.gold,
		LastOutcome: m.last,
		Roster:      m.roster.Snapshot(),
	}
	switch s.Phase {
	case domain.PhaseDraft:
		offer := m.current[domain.Player]
		s.Offer = &offer
		s.Variant = offer.Variant
		s.Committed = map[domain.Side]bool{
			domain.Player:   m.committed[domain.Player],
			domain.Opponent: m.committed[domain.Opponent],
		}
	case domain.PhaseBattle:
		s.BattleTime = m.sim.Time()
	}
	return s
}

// Restore replaces both rosters with snap. Only allowed while drafting, when
// the live board is rebuilt from records anyway.
func (m *Match) Restore(snap domain.RosterSnapshot) error {
	if m.Phase() != domain.PhaseDraft {
		return m.invalid("restore", "not drafting")
	}
	return m.roster.Restore(snap)
}
