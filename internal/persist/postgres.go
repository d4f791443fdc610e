package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/restotycoon/server/internal/config"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap"
)

// PostgresStore keeps saves as JSONB rows and the day ledger as a table.
type PostgresStore struct {
	Pool *pgxpool.Pool
	log  *zap.Logger
}

// OpenPostgres connects the pool, verifies the connection and applies
// pending migrations.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("postgres store ready")
	return &PostgresStore{Pool: pool, log: log}, nil
}

func (s *PostgresStore) LoadState(ctx context.Context, slot string, dst *world.GameState) (bool, error) {
	var raw []byte
	err := s.Pool.QueryRow(ctx,
		`SELECT state FROM saves WHERE slot = $1`, slot,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load save %s: %w", slot, err)
	}
	return true, mergeState(raw, dst)
}

func (s *PostgresStore) SaveState(ctx context.Context, slot string, state world.GameState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = s.Pool.Exec(ctx,
		`INSERT INTO saves (slot, state, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (slot) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()`,
		slot, raw,
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	return nil
}

// RecordDay appends one ledger row.
func (s *PostgresStore) RecordDay(ctx context.Context, slot string, d DayReport) error {
	if _, err := s.Pool.Exec(ctx,
		`INSERT INTO day_ledger (slot, day, served, walkouts, revenue, wages, rent, reputation_delta, random_event, money_after)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		slot, d.Day, d.Served, d.Walkouts, d.Revenue, d.Wages, d.Rent, d.ReputationDelta, d.RandomEvent, d.MoneyAfter,
	); err != nil {
		return fmt.Errorf("ledger insert: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}
