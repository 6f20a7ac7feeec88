package domain

import "errors"

// Sentinel errors for the match core. Callers check them with errors.Is;
// the roster and orchestrator wrap them with slot, side or template context.
var (
	// ErrNoSlotAvailable means the board is full for the template under the stacking rules.
	ErrNoSlotAvailable = errors.New("no slot available")
	// ErrSlotIncompatible means an explicit slot holds another template or is at capacity.
	ErrSlotIncompatible = errors.New("slot incompatible")
	// ErrTemplateNotFound means the catalog has no template with the requested id.
	ErrTemplateNotFound = errors.New("unit template not found")
	// ErrInvalidPhaseTransition means the orchestrator was asked to advance while its preconditions are unmet.
	ErrInvalidPhaseTransition = errors.New("invalid phase transition")

	ErrBattleNotActive  = errors.New("battle not active")
	ErrInvalidSelection = errors.New("invalid draft selection")
	ErrMatchNotFound    = errors.New("match not found")
)
