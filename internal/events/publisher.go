package events

import (
	"context"
	"log/slog"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/pubsub"
	"github.com/nfrund/toybattle/internal/unit"
)

// Publisher is an Observer that publishes every notification as a typed
// JSON event on the bus, tagged with the match id. Publish failures are
// logged and never reach the simulation.
type Publisher struct {
	ctx     context.Context
	pub     pubsub.Publisher
	matchID string
	logger  *slog.Logger
}

// NewPublisher creates a bus observer for one match.
func NewPublisher(ctx context.Context, pub pubsub.Publisher, matchID string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		ctx:     ctx,
		pub:     pub,
		matchID: matchID,
		logger:  logger.With("match_id", matchID),
	}
}

func publish[T any](p *Publisher, event pubsub.Event[T], payload T) {
	if err := pubsub.Publish(p.ctx, p.pub, event, p.matchID, payload); err != nil {
		p.logger.Error("Failed to publish match event", "topic", event.Name(), "error", err)
	}
}

func (p *Publisher) UnitSpawned(c *unit.Combatant) {
	publish(p, TopicUnitSpawned, UnitSpawnedEvent{BaseMessage: newBase(), Unit: stateOf(c)})
}

func (p *Publisher) UnitDamaged(c *unit.Combatant, amount int) {
	publish(p, TopicUnitDamaged, UnitDamagedEvent{BaseMessage: newBase(), Unit: stateOf(c), Amount: amount})
}

func (p *Publisher) UnitDied(c *unit.Combatant) {
	publish(p, TopicUnitDied, UnitDiedEvent{BaseMessage: newBase(), Unit: stateOf(c)})
}

func (p *Publisher) BattleStarted(playerUnits, opponentUnits int) {
	publish(p, TopicBattleStarted, BattleStartedEvent{
		BaseMessage:   newBase(),
		PlayerUnits:   playerUnits,
		OpponentUnits: opponentUnits,
	})
}

func (p *Publisher) BattleEnded(winner domain.Side) {
	publish(p, TopicBattleEnded, BattleEndedEvent{BaseMessage: newBase(), Winner: winner})
}

func (p *Publisher) TurnChanged(turn int) {
	publish(p, TopicTurnChanged, TurnChangedEvent{BaseMessage: newBase(), Turn: turn})
}

func (p *Publisher) PhaseChanged(from, to domain.Phase) {
	publish(p, TopicPhaseChanged, PhaseChangedEvent{BaseMessage: newBase(), From: from, To: to})
}
