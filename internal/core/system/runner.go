package system

import (
	"sort"
	"time"
)

// Runner executes systems in phase order each tick.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(dt)
	}
}

// TickRange runs only systems whose phase lies in [lo, hi].
// The scheduler uses it to keep accepting input while the game is paused.
func (r *Runner) TickRange(lo, hi Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if p := s.Phase(); p >= lo && p <= hi {
			s.Update(dt)
		}
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		// stable: systems sharing a phase keep registration order
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
