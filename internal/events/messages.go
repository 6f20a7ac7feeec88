package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/pubsub"
	"github.com/nfrund/toybattle/internal/unit"
)

const messageVersion = "1.0"

// BaseMessage contains common fields for all match messages.
type BaseMessage struct {
	MessageID string    `json:"message_id"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

func newBase() BaseMessage {
	return BaseMessage{
		MessageID: uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Version:   messageVersion,
	}
}

// UnitState describes one combatant at the moment of the event.
type UnitState struct {
	InstanceID string      `json:"instance_id"`
	TemplateID string      `json:"template_id"`
	Side       domain.Side `json:"side"`
	Slot       int         `json:"slot"`
	Health     int         `json:"health"`
	MaxHealth  int         `json:"max_health"`
	Position   unit.Vec2   `json:"position"`
}

func stateOf(c *unit.Combatant) UnitState {
	return UnitState{
		InstanceID: c.ID,
		TemplateID: c.Template.ID,
		Side:       c.Side,
		Slot:       c.Slot,
		Health:     c.Health,
		MaxHealth:  c.MaxHealth,
		Position:   c.Position,
	}
}

type UnitSpawnedEvent struct {
	BaseMessage
	Unit UnitState `json:"unit"`
}

// UnitDamagedEvent carries the damage amount for floating combat text.
type UnitDamagedEvent struct {
	BaseMessage
	Unit   UnitState `json:"unit"`
	Amount int       `json:"amount"`
}

type UnitDiedEvent struct {
	BaseMessage
	Unit UnitState `json:"unit"`
}

type BattleStartedEvent struct {
	BaseMessage
	PlayerUnits   int `json:"player_units"`
	OpponentUnits int `json:"opponent_units"`
}

type BattleEndedEvent struct {
	BaseMessage
	Winner domain.Side `json:"winner"`
}

type TurnChangedEvent struct {
	BaseMessage
	Turn int `json:"turn"`
}

type PhaseChangedEvent struct {
	BaseMessage
	From domain.Phase `json:"from"`
	To   domain.Phase `json:"to"`
}

var (
	TopicUnitSpawned   = pubsub.NewEvent[UnitSpawnedEvent]("match.unit.spawned", "A combatant instance was created on a board")
	TopicUnitDamaged   = pubsub.NewEvent[UnitDamagedEvent]("match.unit.damaged", "A combatant took damage after shields")
	TopicUnitDied      = pubsub.NewEvent[UnitDiedEvent]("match.unit.died", "A combatant reached zero health and left the battle")
	TopicBattleStarted = pubsub.NewEvent[BattleStartedEvent]("match.battle.started", "Autonomous combat began")
	TopicBattleEnded   = pubsub.NewEvent[BattleEndedEvent]("match.battle.ended", "Combat resolved with a winner")
	TopicTurnChanged   = pubsub.NewEvent[TurnChangedEvent]("match.turn.changed", "The draft turn counter advanced")
	TopicPhaseChanged  = pubsub.NewEvent[PhaseChangedEvent]("match.phase.changed", "The orchestrator entered a new phase")
)

// AllTopics lists the match topics in the order a client usually subscribes to them.
func AllTopics() []string {
	return []string{
		TopicPhaseChanged.Name(),
		TopicTurnChanged.Name(),
		TopicUnitSpawned.Name(),
		TopicBattleStarted.Name(),
		TopicUnitDamaged.Name(),
		TopicUnitDied.Name(),
		TopicBattleEnded.Name(),
	}
}
