package system

import (
	"time"

	"github.com/restotycoon/server/internal/core/ecs"
	coresys "github.com/restotycoon/server/internal/core/system"
	"go.uber.org/zap"
)

// CleanupSystem flushes the deferred destruction queue. Customers marked in
// one pass disappear at the start of the next. Phase 3 (Cleanup).
type CleanupSystem struct {
	world *ecs.World
	log   *zap.Logger
}

func NewCleanupSystem(world *ecs.World, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: world, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if n := s.world.FlushDestroyQueue(); n > 0 {
		s.log.Debug("customers removed", zap.Int("count", n))
	}
}
