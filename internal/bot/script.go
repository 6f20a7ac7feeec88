package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/draft"
	"github.com/nfrund/toybattle/internal/script"
	"github.com/spf13/afero"
)

// ScriptBot scores every offered card with a Tengo script and picks the
// highest. The script sees `card`, `owned` and `turn` and must assign a
// number to `result`.
type ScriptBot struct {
	engine *script.TengoEngine
	script *script.Script
	logger *slog.Logger
}

// NewScriptBot loads and compiles the script at path.
func NewScriptBot(fs afero.Fs, path string, engine *script.TengoEngine, logger *slog.Logger) (*ScriptBot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = script.NewTengoEngine()
	}
	s, err := script.Load(fs, path)
	if err != nil {
		return nil, err
	}
	if err := engine.Check(s, "card", "owned", "turn"); err != nil {
		return nil, err
	}
	return &ScriptBot{engine: engine, script: s, logger: logger}, nil
}

// Choose runs the script once per card. Ties keep the earlier card.
func (b *ScriptBot) Choose(ctx context.Context, offer draft.Offer, view View) (draft.Selection, error) {
	if err := checkOffer(offer); err != nil {
		return draft.Pass, err
	}

	owned := make(map[string]interface{}, len(domain.UnitKinds))
	for _, k := range domain.UnitKinds {
		owned[string(k)] = view.Owned[k]
	}

	pick, top := -1, 0.0
	for i, c := range offer.Cards {
		out, err := b.engine.Execute(ctx, b.script, &script.ScriptInput{Context: map[string]interface{}{
			"card":  cardVars(c),
			"owned": owned,
			"turn":  view.Turn,
		}})
		if err != nil {
			return draft.Pass, err
		}
		score, ok := script.Number(out.Result)
		if !ok {
			return draft.Pass, script.NewScriptError(script.ErrorTypeResult, b.script.Name,
				fmt.Sprintf("result must be a number, got %T", out.Result), nil)
		}
		if pick < 0 || score > top {
			pick, top = i, score
		}
	}

	b.logger.Debug("Script bot chose card",
		"script", b.script.Name,
		"card", offer.Cards[pick].ID(),
		"score", top)
	return draft.Pick(pick), nil
}

// cardVars flattens a card into the map a script reads. Every key is always
// present so scripts never hit undefined values.
func cardVars(c draft.Card) map[string]interface{} {
	vars := map[string]interface{}{
		"kind":          string(c.Kind),
		"id":            c.ID(),
		"score":         Score(c),
		"health":        0,
		"damage":        0,
		"unit_kind":     "",
		"teleport":      false,
		"explosive":     false,
		"support":       false,
		"pip_cost":      0,
		"effect":        "",
		"target_kind":   "",
		"value":         0.0,
		"attack_bonus":  0.0,
		"defense_bonus": 0.0,
	}
	switch c.Kind {
	case draft.CardUnit:
		t := c.Unit
		vars["health"] = t.ScaledHealth()
		vars["damage"] = t.ScaledDamage()
		vars["unit_kind"] = string(t.Kind)
		vars["teleport"] = t.HasTeleport
		vars["explosive"] = t.IsExplosive
		vars["support"] = t.HasSupport
	case draft.CardBonus:
		vars["pip_cost"] = c.Bonus.PipCost
		vars["effect"] = string(c.Bonus.Effect)
		vars["target_kind"] = string(c.Bonus.TargetKind)
		vars["value"] = c.Bonus.Value
	case draft.CardSkill:
		vars["attack_bonus"] = c.Skill.AttackBonus
		vars["defense_bonus"] = c.Skill.DefenseBonus
	}
	return vars
}
