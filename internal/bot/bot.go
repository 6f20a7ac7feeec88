// Package bot implements the automated drafters that pick cards for the
// opponent side.
package bot

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/draft"
)

// View is what a drafter knows about its own side when choosing.
type View struct {
	Side  domain.Side
	Turn  int
	Owned map[domain.UnitKind]int
}

// Drafter picks one card from an offer.
type Drafter interface {
	Choose(ctx context.Context, offer draft.Offer, view View) (draft.Selection, error)
}

// Difficulty selects a built-in drafter.
type Difficulty string

const (
	Tutorial Difficulty = "tutorial"
	Easy     Difficulty = "easy"
	Normal   Difficulty = "normal"
	Hard     Difficulty = "hard"
)

// ParseDifficulty maps a config value to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Tutorial, Easy, Normal, Hard:
		return d, nil
	case "":
		return Normal, nil
	}
	return "", fmt.Errorf("unknown bot difficulty %q", s)
}

// New returns the built-in drafter for d. rng is only used by the easy bot.
func New(d Difficulty, rng *rand.Rand) (Drafter, error) {
	switch d {
	case Tutorial:
		return tutorialBot{}, nil
	case Easy:
		return &easyBot{rng: rng}, nil
	case Normal, "":
		return normalBot{}, nil
	case Hard:
		return hardBot{}, nil
	}
	return nil, fmt.Errorf("unknown bot difficulty %q", d)
}

// Score is the stat-based value of a card, shared by all scoring bots.
func Score(card draft.Card) int {
	switch card.Kind {
	case draft.CardUnit:
		t := card.Unit
		score := t.ScaledHealth() + t.ScaledDamage()*2
		if t.HasTeleport {
			score += 20
		}
		if t.IsExplosive {
			score += 15
		}
		if t.HasSupport {
			score += 10
		}
		return score
	case draft.CardBonus:
		score := 50
		if card.Bonus.PipCost == 2 {
			score += 20
		}
		return score
	case draft.CardSkill:
		return int(math.Round((card.Skill.AttackBonus + card.Skill.DefenseBonus) * 100))
	}
	return 0
}

func checkOffer(offer draft.Offer) error {
	if len(offer.Cards) == 0 {
		return fmt.Errorf("%w: empty offer", domain.ErrInvalidSelection)
	}
	return nil
}

// best returns the index of the highest score. Like the stat bot it starts
// from the first card with a zero baseline, so ties keep the earlier card.
func best(cards []draft.Card, score func(draft.Card) int) int {
	pick, top := 0, 0
	for i, c := range cards {
		if s := score(c); s > top {
			pick, top = i, s
		}
	}
	return pick
}

// tutorialBot always takes the weakest card.
type tutorialBot struct{}

func (tutorialBot) Choose(_ context.Context, offer draft.Offer, _ View) (draft.Selection, error) {
	if err := checkOffer(offer); err != nil {
		return draft.Pass, err
	}
	pick, low := 0, math.MaxInt
	for i, c := range offer.Cards {
		if s := Score(c); s < low {
			pick, low = i, s
		}
	}
	return draft.Pick(pick), nil
}

type easyBot struct {
	rng *rand.Rand
}

func (b *easyBot) Choose(_ context.Context, offer draft.Offer, _ View) (draft.Selection, error) {
	if err := checkOffer(offer); err != nil {
		return draft.Pass, err
	}
	return draft.Pick(b.rng.Intn(len(offer.Cards))), nil
}

type normalBot struct{}

func (normalBot) Choose(_ context.Context, offer draft.Offer, _ View) (draft.Selection, error) {
	if err := checkOffer(offer); err != nil {
		return draft.Pass, err
	}
	return draft.Pick(best(offer.Cards, Score)), nil
}

// hardBot adds a synergy bonus for kinds it already fields.
type hardBot struct{}

func (hardBot) Choose(_ context.Context, offer draft.Offer, view View) (draft.Selection, error) {
	if err := checkOffer(offer); err != nil {
		return draft.Pass, err
	}
	return draft.Pick(best(offer.Cards, func(c draft.Card) int {
		score := Score(c)
		switch {
		case c.Kind == draft.CardUnit:
			score += view.Owned[c.Unit.Kind] * 30
		case c.Kind == draft.CardBonus && c.Bonus.Effect == domain.BonusGroupBuff:
			score += view.Owned[c.Bonus.TargetKind] * 40
		}
		return score
	})), nil
}
