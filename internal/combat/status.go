package combat

import "github.com/nfrund/toybattle/internal/domain"

// tickStatus applies every status tick that is due. Poisoned units take
// PoisonDamage per tick and lose one remaining tick.
func (s *Simulator) tickStatus() {
	if s.cfg.StatusInterval <= 0 {
		return
	}
	for s.t+epsilon >= s.nextStatusAt {
		for _, side := range domain.Sides {
			for _, c := range s.Live(side) {
				if c.PoisonTicks <= 0 || !c.Alive() {
					continue
				}
				c.PoisonTicks--
				s.hit(c, s.cfg.PoisonDamage)
			}
		}
		s.nextStatusAt += s.cfg.StatusInterval
	}
}
