package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseInput    Phase = iota // 0: drain queued player actions
	PhaseDispatch              // 1: deliver last frame's events
	PhaseTimers                // 2: advance the task clock, fire due tasks
	PhaseCleanup               // 3: destroy customers marked on the previous pass
	PhaseSpawn                 // 4: spawn timer
	PhaseUpdate                // 5: customer self-updates
	PhaseStaff                 // 6: staff automation
	PhaseEconomy               // 7: continuous costs
)

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
