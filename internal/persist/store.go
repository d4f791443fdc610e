package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/restotycoon/server/internal/config"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap"
)

// DayReport is one settled business day in the ledger.
type DayReport struct {
	Day             int     `json:"day"`
	Served          int     `json:"served"`
	Walkouts        int     `json:"walkouts"`
	Revenue         float64 `json:"revenue"`
	Wages           float64 `json:"wages"`
	Rent            float64 `json:"rent"`
	ReputationDelta float64 `json:"reputationDelta"`
	RandomEvent     string  `json:"randomEvent,omitempty"`
	MoneyAfter      float64 `json:"moneyAfter"`
}

// Store persists the game state of a save slot and its day ledger.
type Store interface {
	// LoadState decodes the saved state onto dst, so fields missing from the
	// save keep the values dst already holds. found is false for an empty slot.
	LoadState(ctx context.Context, slot string, dst *world.GameState) (found bool, err error)
	SaveState(ctx context.Context, slot string, state world.GameState) error
	RecordDay(ctx context.Context, slot string, day DayReport) error
	Close() error
}

// OpenStore opens the store selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return OpenPostgres(ctx, cfg, log)
	case "sqlite":
		return OpenSQLite(ctx, cfg.Path)
	case "file":
		return OpenFileStore(cfg.Path)
	case "memory":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

// mergeState decodes a saved JSON document onto dst.
func mergeState(raw []byte, dst *world.GameState) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	return nil
}

// MemoryStore keeps saves for the lifetime of the process only.
type MemoryStore struct {
	mu     sync.Mutex
	saves  map[string][]byte
	ledger map[string][]DayReport
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		saves:  make(map[string][]byte),
		ledger: make(map[string][]DayReport),
	}
}

func (m *MemoryStore) LoadState(_ context.Context, slot string, dst *world.GameState) (bool, error) {
	m.mu.Lock()
	raw, ok := m.saves[slot]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, mergeState(raw, dst)
}

func (m *MemoryStore) SaveState(_ context.Context, slot string, state world.GameState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	m.mu.Lock()
	m.saves[slot] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) RecordDay(_ context.Context, slot string, day DayReport) error {
	m.mu.Lock()
	m.ledger[slot] = append(m.ledger[slot], day)
	m.mu.Unlock()
	return nil
}

// Days returns the ledger of a slot.
func (m *MemoryStore) Days(slot string) []DayReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]DayReport(nil), m.ledger[slot]...)
}

func (m *MemoryStore) Close() error { return nil }
