package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/restotycoon/server/internal/world"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the single-file database backend, same schema as postgres.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := RunSQLiteMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) LoadState(ctx context.Context, slot string, dst *world.GameState) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM saves WHERE slot = ?`, slot).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load save %s: %w", slot, err)
	}
	return true, mergeState([]byte(raw), dst)
}

func (s *SQLiteStore) SaveState(ctx context.Context, slot string, state world.GameState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saves (slot, state, updated_at) VALUES (?, ?, datetime('now'))
		 ON CONFLICT(slot) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		slot, string(raw),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	return nil
}

func (s *SQLiteStore) RecordDay(ctx context.Context, slot string, d DayReport) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO day_ledger (slot, day, served, walkouts, revenue, wages, rent, reputation_delta, random_event, money_after)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		slot, d.Day, d.Served, d.Walkouts, d.Revenue, d.Wages, d.Rent, d.ReputationDelta, d.RandomEvent, d.MoneyAfter,
	)
	if err != nil {
		return fmt.Errorf("ledger insert: %w", err)
	}
	return nil
}

// Days reads back the ledger of a slot in day order.
func (s *SQLiteStore) Days(ctx context.Context, slot string) ([]DayReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, served, walkouts, revenue, wages, rent, reputation_delta, random_event, money_after
		 FROM day_ledger WHERE slot = ? ORDER BY day, id`, slot)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayReport
	for rows.Next() {
		var d DayReport
		if err := rows.Scan(&d.Day, &d.Served, &d.Walkouts, &d.Revenue, &d.Wages, &d.Rent,
			&d.ReputationDelta, &d.RandomEvent, &d.MoneyAfter); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
