package persist

import (
	"context"
	"sync"
	"time"

	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap"
)

// Saver is the simulation's save hook. Save and RecordDay only copy into a
// pending slot and never block the game loop; a writer goroutine flushes at
// most once per interval. The first store failure switches the session to
// in-memory only: later saves are accepted and dropped.
type Saver struct {
	store    Store
	slot     string
	interval time.Duration
	log      *zap.Logger

	mu       sync.Mutex
	pending  *world.GameState
	days     []DayReport
	degraded bool

	started bool
	closeCh chan struct{}
	done    chan struct{}
}

func NewSaver(store Store, slot string, interval time.Duration, log *zap.Logger) *Saver {
	if interval <= 0 {
		interval = time.Second
	}
	return &Saver{
		store:    store,
		slot:     slot,
		interval: interval,
		log:      log,
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background writer.
func (s *Saver) Start() {
	s.started = true
	go s.loop()
}

func (s *Saver) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.Flush(ctx)
			cancel()
		case <-s.closeCh:
			return
		}
	}
}

// Save queues the latest state. Only the newest state per flush is written.
func (s *Saver) Save(state world.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.degraded {
		return
	}
	s.pending = &state
}

// RecordDay queues a ledger entry.
func (s *Saver) RecordDay(day DayReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.degraded {
		return
	}
	s.days = append(s.days, day)
}

// Degraded reports whether persistence has been given up for this session.
func (s *Saver) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Flush writes everything queued so far. Ledger entries go first so a
// crash between the two writes never loses a settled day.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	state, days := s.pending, s.days
	s.pending, s.days = nil, nil
	degraded := s.degraded
	s.mu.Unlock()

	if degraded || (state == nil && len(days) == 0) {
		return nil
	}

	for _, d := range days {
		if err := s.store.RecordDay(ctx, s.slot, d); err != nil {
			s.degrade(err)
			return err
		}
	}
	if state != nil {
		if err := s.store.SaveState(ctx, s.slot, *state); err != nil {
			s.degrade(err)
			return err
		}
	}
	return nil
}

func (s *Saver) degrade(err error) {
	s.mu.Lock()
	s.degraded = true
	s.pending, s.days = nil, nil
	s.mu.Unlock()
	s.log.Warn("persistence failed, continuing in memory only",
		zap.String("slot", s.slot),
		zap.Error(err),
	)
}

// Close stops the writer and flushes whatever is still queued.
func (s *Saver) Close(ctx context.Context) error {
	if s.started {
		close(s.closeCh)
		<-s.done
	}
	return s.Flush(ctx)
}
