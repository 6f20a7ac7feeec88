package match

import (
	"slices"

	"github.com/nfrund/toybattle/internal/domain"
)

// Schedule decides what each turn of a match is.
type Schedule struct {
	TotalTurns  int     `json:"total_turns"`
	BattleTurns []int   `json:"battle_turns"`
	SkillTurns  []int   `json:"skill_turns"`
	ChestChance float64 `json:"chest_chance"`
	WinGold     int     `json:"win_gold"`
	LoseGold    int     `json:"lose_gold"`
}

// DefaultSchedule is the thirty-turn campaign: six battles and three skill
// rounds.
func DefaultSchedule() Schedule {
	return Schedule{
		TotalTurns:  30,
		BattleTurns: []int{5, 10, 15, 20, 25, 30},
		SkillTurns:  []int{8, 16, 24},
		ChestChance: 0.4,
		WinGold:     8,
		LoseGold:    3,
	}
}

// IsBattleTurn reports whether reaching turn starts a battle.
func (s Schedule) IsBattleTurn(turn int) bool {
	return slices.Contains(s.BattleTurns, turn)
}

// Variant is the kind of draft played on turn.
func (s Schedule) Variant(turn int) domain.DraftVariant {
	if slices.Contains(s.SkillTurns, turn) {
		return domain.DraftSkill
	}
	return domain.DraftCards
}
