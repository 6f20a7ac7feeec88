package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/nfrund/toybattle/internal/bot"
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/draft"
	"github.com/nfrund/toybattle/internal/effects"
	"github.com/nfrund/toybattle/internal/roster"
)

func (m *Match) openDraft() {
	variant := m.sched.Variant(m.turn)
	for _, side := range domain.Sides {
		m.current[side] = m.offers.Next(variant)
		m.committed[side] = false
	}
	m.logger.Debug("Draft opened", "turn", m.turn, "variant", variant)
}

// Offer returns the cards side may pick from this round.
func (m *Match) Offer(side domain.Side) draft.Offer {
	return m.current[side]
}

// Committed reports whether side has made its selection this round.
func (m *Match) Committed(side domain.Side) bool {
	return m.committed[side]
}

// CommitPlayer applies the player's selection. On a roster or selection
// error nothing is recorded and the player may choose again. When an
// opponent drafter is configured it picks right after.
func (m *Match) CommitPlayer(ctx context.Context, sel draft.Selection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.commit(domain.Player, sel); err != nil {
		return err
	}
	if m.opponent != nil && !m.committed[domain.Opponent] {
		m.opponentTurn(ctx)
	}
	return nil
}

// CommitOpponent applies a selection for the opponent side by hand.
func (m *Match) CommitOpponent(_ context.Context, sel draft.Selection) error {
	return m.commit(domain.Opponent, sel)
}

func (m *Match) commit(side domain.Side, sel draft.Selection) error {
	if m.Phase() != domain.PhaseDraft {
		return m.invalid("commit", "not drafting")
	}
	if m.committed[side] {
		return m.invalid("commit", side.String()+" already committed")
	}
	if err := m.apply(side, sel); err != nil {
		m.logger.Info("Selection rejected", "side", side, "card", sel.Card, "slot", sel.Slot, "error", err)
		return err
	}
	m.committed[side] = true
	return nil
}

// opponentTurn lets the drafter pick. The opponent never blocks the round:
// any failure counts as a pass. Skill rounds are always passed.
func (m *Match) opponentTurn(ctx context.Context) {
	offer := m.current[domain.Opponent]
	if offer.Variant == domain.DraftSkill {
		m.committed[domain.Opponent] = true
		return
	}

	sel, err := m.opponent.Choose(ctx, offer, m.view(domain.Opponent))
	if err == nil {
		err = m.apply(domain.Opponent, sel)
	}
	if err != nil {
		m.logger.Warn("Opponent selection failed, passing", "turn", m.turn, "error", err)
	}
	m.committed[domain.Opponent] = true
}

func (m *Match) view(side domain.Side) bot.View {
	owned := make(map[domain.UnitKind]int)
	for _, c := range m.roster.GetLiveUnits(side) {
		owned[c.Template.Kind]++
	}
	return bot.View{Side: side, Turn: m.turn, Owned: owned}
}

func (m *Match) apply(side domain.Side, sel draft.Selection) error {
	if sel.Pass {
		return nil
	}
	card, err := m.current[side].Resolve(sel)
	if err != nil {
		return err
	}

	switch card.Kind {
	case draft.CardUnit:
		return m.deploy(side, card, sel.Slot)
	case draft.CardBonus:
		res, err := effects.ApplyBonus(m.roster, side, *card.Bonus, m.logger)
		if err != nil {
			return err
		}
		if res.DoubleDeploy {
			m.doubleDeploy[side] = true
		}
	case draft.CardSkill:
		skill := *card.Skill
		m.skills[side] = &skill
	default:
		return fmt.Errorf("%w: card kind %q", domain.ErrInvalidSelection, card.Kind)
	}
	m.logger.Debug("Card committed", "side", side, "card_id", card.ID(), "kind", card.Kind)
	return nil
}

// deploy adds the unit, twice when a double deploy is armed. The second copy
// is best effort: if it does not fit, the first one still counts.
func (m *Match) deploy(side domain.Side, card draft.Card, slot int) error {
	first, err := m.roster.AddUnit(card.Unit, side, slot)
	if err != nil {
		return err
	}
	if !m.doubleDeploy[side] {
		return nil
	}
	m.doubleDeploy[side] = false
	if _, err := m.roster.AddUnit(card.Unit, side, first.Slot); err != nil {
		if !errors.Is(err, domain.ErrSlotIncompatible) {
			m.logger.Warn("Double deploy dropped", "side", side, "template_id", card.Unit.ID, "error", err)
			return nil
		}
		if _, err := m.roster.AddUnit(card.Unit, side, roster.AutoSlot); err != nil {
			m.logger.Warn("Double deploy dropped", "side", side, "template_id", card.Unit.ID, "error", err)
		}
	}
	return nil
}
