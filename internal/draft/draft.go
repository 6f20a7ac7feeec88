// Package draft builds the card offers shown to each side during a draft.
package draft

import (
	"fmt"
	"math/rand"

	"github.com/nfrund/toybattle/internal/domain"
)

// CardKind tells which of the card fields is set.
type CardKind string

const (
	CardUnit  CardKind = "unit"
	CardBonus CardKind = "bonus"
	CardSkill CardKind = "skill"
)

// Card is one offered choice.
type Card struct {
	Kind  CardKind             `json:"kind"`
	Unit  *domain.UnitTemplate `json:"unit,omitempty"`
	Bonus *domain.BonusCard    `json:"bonus,omitempty"`
	Skill *domain.SkillCard    `json:"skill,omitempty"`
}

// ID returns the id of whichever card is set.
func (c Card) ID() string {
	switch c.Kind {
	case CardUnit:
		return c.Unit.ID
	case CardBonus:
		return c.Bonus.ID
	case CardSkill:
		return c.Skill.ID
	}
	return ""
}

// Offer is the set of cards one side picks from in a draft round.
type Offer struct {
	Variant domain.DraftVariant `json:"variant"`
	Cards   []Card              `json:"cards"`
}

// Selection is a side's answer to an offer.
type Selection struct {
	Card int  `json:"card"`
	Slot int  `json:"slot"`
	Pass bool `json:"pass,omitempty"`
}

// Pass is the selection of a side that takes nothing.
var Pass = Selection{Card: -1, Slot: -1, Pass: true}

// Pick selects card i with automatic slot placement.
func Pick(i int) Selection {
	return Selection{Card: i, Slot: -1}
}

// Resolve returns the card a selection refers to.
func (o Offer) Resolve(sel Selection) (Card, error) {
	if sel.Card < 0 || sel.Card >= len(o.Cards) {
		return Card{}, fmt.Errorf("%w: card %d of %d", domain.ErrInvalidSelection, sel.Card, len(o.Cards))
	}
	return o.Cards[sel.Card], nil
}

// Source is the card pool offers are drawn from. *catalog.Catalog satisfies it.
type Source interface {
	Templates() []*domain.UnitTemplate
	Bonuses() []domain.BonusCard
	Skills() []domain.SkillCard
}

// Config controls offer generation.
type Config struct {
	UnitCards   int                   `json:"unit_cards"`
	BonusChance float64               `json:"bonus_chance"`
	SkillCards  int                   `json:"skill_cards"`
	Weights     map[domain.Rarity]int `json:"weights"`
}

// DefaultConfig offers two units plus a third card that is a bonus 15% of
// the time, and three skills on skill turns.
func DefaultConfig() Config {
	return Config{
		UnitCards:   2,
		BonusChance: 0.15,
		SkillCards:  3,
		Weights: map[domain.Rarity]int{
			domain.Common:   70,
			domain.Uncommon: 25,
			domain.Rare:     5,
		},
	}
}

// Generator draws offers from a Source.
type Generator struct {
	src Source
	cfg Config
	rng *rand.Rand
}

// NewGenerator creates a generator. rng must not be shared with another
// goroutine.
func NewGenerator(src Source, cfg Config, rng *rand.Rand) *Generator {
	return &Generator{src: src, cfg: cfg, rng: rng}
}

// Next returns a fresh offer of the given variant.
func (g *Generator) Next(variant domain.DraftVariant) Offer {
	if variant == domain.DraftSkill {
		return g.skills()
	}
	return g.cards()
}

func (g *Generator) cards() Offer {
	offer := Offer{Variant: domain.DraftCards}
	pool := g.src.Templates()
	taken := make(map[string]bool)

	for i := 0; i < g.cfg.UnitCards; i++ {
		if t := g.weightedUnit(pool, taken); t != nil {
			offer.Cards = append(offer.Cards, Card{Kind: CardUnit, Unit: t})
		}
	}

	bonuses := g.src.Bonuses()
	if len(bonuses) > 0 && g.rng.Float64() < g.cfg.BonusChance {
		b := bonuses[g.rng.Intn(len(bonuses))]
		offer.Cards = append(offer.Cards, Card{Kind: CardBonus, Bonus: &b})
	} else if t := g.weightedUnit(pool, taken); t != nil {
		offer.Cards = append(offer.Cards, Card{Kind: CardUnit, Unit: t})
	}
	return offer
}

// weightedUnit draws a template by rarity weight, avoiding templates already
// in the offer while others remain.
func (g *Generator) weightedUnit(pool []*domain.UnitTemplate, taken map[string]bool) *domain.UnitTemplate {
	candidates := make([]*domain.UnitTemplate, 0, len(pool))
	for _, t := range pool {
		if !taken[t.ID] {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		candidates = pool
	}
	if len(candidates) == 0 {
		return nil
	}

	total := 0
	for _, t := range candidates {
		total += g.weight(t.Rarity)
	}
	roll := g.rng.Intn(total)
	for _, t := range candidates {
		roll -= g.weight(t.Rarity)
		if roll < 0 {
			taken[t.ID] = true
			return t
		}
	}
	return candidates[len(candidates)-1]
}

func (g *Generator) weight(r domain.Rarity) int {
	if w, ok := g.cfg.Weights[r]; ok && w > 0 {
		return w
	}
	return 1
}

func (g *Generator) skills() Offer {
	offer := Offer{Variant: domain.DraftSkill}
	pool := g.src.Skills()
	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	for i := 0; i < g.cfg.SkillCards && i < len(pool); i++ {
		s := pool[i]
		offer.Cards = append(offer.Cards, Card{Kind: CardSkill, Skill: &s})
	}
	return offer
}
