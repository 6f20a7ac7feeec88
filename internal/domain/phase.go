package domain

// Phase is a state of the match orchestrator. The string values double as
// state names in the phase machine.
type Phase string

const (
	PhaseMainMenu Phase = "main_menu"
	PhaseDraft    Phase = "draft"
	PhaseBattle   Phase = "battle"
	PhaseReward   Phase = "reward"
	PhaseChest    Phase = "chest"
	PhaseProgress Phase = "progress"
)

// DraftVariant tells which kind of selection a draft round offers.
type DraftVariant string

const (
	DraftCards DraftVariant = "cards"
	DraftSkill DraftVariant = "skill"
)
