package combat

import (
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/unit"
)

// abilities is the behaviour a unit brings into battle, assembled from its
// kind and capability flags.
type abilities struct {
	strike  func(s *Simulator, attacker, target *unit.Combatant)
	prepare func(s *Simulator, c *unit.Combatant)
	onDeath func(s *Simulator, c *unit.Combatant)
}

func abilitiesOf(c *unit.Combatant) abilities {
	a := abilities{
		strike:  directHit,
		prepare: func(*Simulator, *unit.Combatant) {},
		onDeath: func(*Simulator, *unit.Combatant) {},
	}
	if c.Template.HasTeleport {
		a.prepare = scheduleTeleport
	}
	if c.Template.IsExplosive {
		a.strike = lightFuse
		a.onDeath = explode
	}
	return a
}

// directHit is a single attack against one target. A first-attack cancel on
// the target absorbs the hit completely and is used up.
func directHit(s *Simulator, attacker, target *unit.Combatant) {
	if target.FirstAttackCancel {
		target.FirstAttackCancel = false
		s.logger.Debug("Attack cancelled", "attacker", attacker.Template.ID, "target", target.Template.ID)
		return
	}
	s.hit(target, attacker.AttackDamage())
}

// explode damages every living enemy in the dead unit's depth band. Units
// killed by the blast are reaped at once, so explosions can chain.
func explode(s *Simulator, c *unit.Combatant) {
	dmg := c.Template.ExplosionDamage
	if dmg <= 0 {
		return
	}
	s.logger.Debug("Explosion", "side", c.Side, "band", c.Band, "damage", dmg)
	for _, e := range s.Live(c.Side.Enemy()) {
		if e.Band == c.Band && e.Alive() {
			s.hit(e, dmg)
		}
	}
}

// lightFuse replaces an explosive unit's attack: it stops where it is and
// blows itself up once ExplosionDelay has passed.
func lightFuse(s *Simulator, c, _ *unit.Combatant) {
	c.Pending = unit.PendingAction{Kind: unit.ActionExplode, ReadyAt: s.t + s.cfg.ExplosionDelay}
	s.logger.Debug("Fuse lit", "side", c.Side, "template_id", c.Template.ID, "ready_at", c.Pending.ReadyAt)
}

// selfDestruct kills c outright. The blast itself is its death effect.
func (s *Simulator) selfDestruct(c *unit.Combatant) {
	c.Health = 0
	s.reap(c)
}

func scheduleTeleport(s *Simulator, c *unit.Combatant) {
	c.Pending = unit.PendingAction{Kind: unit.ActionTeleport, ReadyAt: s.cfg.TeleportDelay}
}

// resolvePending runs the delayed actions that are due.
func (s *Simulator) resolvePending() {
	for _, side := range domain.Sides {
		for _, c := range s.Live(side) {
			if c.Pending.Kind == unit.ActionNone || s.t+epsilon < c.Pending.ReadyAt {
				continue
			}
			switch c.Pending.Kind {
			case unit.ActionTeleport:
				c.Pending = unit.PendingAction{}
				s.teleport(c)
			case unit.ActionExplode:
				c.Pending = unit.PendingAction{}
				s.selfDestruct(c)
			}
		}
	}
}

// teleport moves c next to a random enemy in the back band, or any enemy if
// the back band is empty, and locks it on as the target.
func (s *Simulator) teleport(c *unit.Combatant) {
	enemies := s.live[c.Side.Enemy()]
	var pool []*unit.Combatant
	for _, e := range enemies {
		if e.Band == unit.Back {
			pool = append(pool, e)
		}
	}
	if len(pool) == 0 {
		pool = enemies
	}
	if len(pool) == 0 {
		return
	}
	target := pool[s.rng.Intn(len(pool))]

	// Land just inside attack range, on the side facing away from the center.
	offset := min(c.Template.AttackRange*0.5, 1.0)
	dir := 1.0
	if target.Position.Y < 0 {
		dir = -1.0
	}
	c.Position = target.Position.Add(unit.Vec2{Y: dir * offset})
	c.Target = target
	s.logger.Debug("Teleported", "side", c.Side, "template_id", c.Template.ID, "target", target.Template.ID)
}
