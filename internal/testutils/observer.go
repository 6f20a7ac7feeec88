package testutils

import (
	"sync"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/unit"
)

// Recorder is an events.Observer that keeps every notification for assertions.
type Recorder struct {
	mu      sync.Mutex
	Spawned []*unit.Combatant
	Damaged []Damage
	Died    []*unit.Combatant
	Started int
	Winners []domain.Side
	Turns   []int
	Phases  []domain.Phase
}

// Damage is one recorded UnitDamaged call.
type Damage struct {
	Unit   *unit.Combatant
	Amount int
}

func (r *Recorder) UnitSpawned(c *unit.Combatant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Spawned = append(r.Spawned, c)
}

func (r *Recorder) UnitDamaged(c *unit.Combatant, amount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Damaged = append(r.Damaged, Damage{Unit: c, Amount: amount})
}

func (r *Recorder) UnitDied(c *unit.Combatant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Died = append(r.Died, c)
}

func (r *Recorder) BattleStarted(int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Started++
}

func (r *Recorder) BattleEnded(winner domain.Side) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Winners = append(r.Winners, winner)
}

func (r *Recorder) TurnChanged(turn int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Turns = append(r.Turns, turn)
}

func (r *Recorder) PhaseChanged(_, to domain.Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Phases = append(r.Phases, to)
}

// DamageTo sums the recorded damage dealt to one instance.
func (r *Recorder) DamageTo(c *unit.Combatant) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, d := range r.Damaged {
		if d.Unit == c {
			total += d.Amount
		}
	}
	return total
}
