package loop

import (
	"context"
	"time"

	coresys "github.com/restotycoon/server/internal/core/system"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap"
)

// Presenter draws the world. It must not mutate it.
type Presenter interface {
	Present(ws *world.State)
}

// Saver receives the game state after each simulated frame and after each
// discrete action. Implementations must not block.
type Saver interface {
	Save(state world.GameState)
}

// Scheduler turns external frame timestamps into simulation steps.
//
// Every frame drains player actions and delivers pending events. While the
// game is paused nothing else runs; a frame that carried an action still
// presents and saves. Otherwise the remaining phases advance by the frame
// delta, capped at maxStep, and the result is presented and saved.
type Scheduler struct {
	runner    *coresys.Runner
	ws        *world.State
	presenter Presenter
	saver     Saver
	maxStep   time.Duration
	log       *zap.Logger

	last    time.Duration
	started bool
	frames  uint64
}

func NewScheduler(runner *coresys.Runner, ws *world.State, presenter Presenter, saver Saver, maxStep time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{
		runner:    runner,
		ws:        ws,
		presenter: presenter,
		saver:     saver,
		maxStep:   maxStep,
		log:       log,
	}
}

// Frame runs one frame stamped ts, measured from an arbitrary fixed origin.
func (s *Scheduler) Frame(ts time.Duration) {
	dt := s.step(ts)
	s.frames++
	s.ws.FrameTime = ts

	s.runner.TickRange(coresys.PhaseInput, coresys.PhaseDispatch, dt)

	if s.ws.Game.Pause {
		if s.ws.Dirty {
			s.publish()
		}
		return
	}

	s.runner.TickRange(coresys.PhaseTimers, coresys.PhaseEconomy, dt)
	s.publish()
}

// step returns the clamped delta since the previous frame. The first frame
// only records its timestamp.
func (s *Scheduler) step(ts time.Duration) time.Duration {
	if !s.started {
		s.started = true
		s.last = ts
		return 0
	}
	dt := ts - s.last
	s.last = ts
	if dt < 0 {
		return 0
	}
	if dt > s.maxStep {
		return s.maxStep
	}
	return dt
}

func (s *Scheduler) publish() {
	s.presenter.Present(s.ws)
	s.saver.Save(s.ws.Game)
	s.ws.Dirty = false
}

// Frames returns how many frames have run.
func (s *Scheduler) Frames() uint64 { return s.frames }

// Run drives Frame from a ticker until ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	origin := time.Now()
	s.log.Info("game loop started", zap.Duration("frame", interval), zap.Duration("max_step", s.maxStep))
	for {
		select {
		case <-ticker.C:
			s.Frame(time.Since(origin))
		case <-ctx.Done():
			s.log.Info("game loop stopped", zap.Uint64("frames", s.frames))
			return
		}
	}
}
