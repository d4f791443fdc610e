package persist

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/restotycoon/server/internal/config"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap/zaptest"
)

// Set RESTO_TEST_POSTGRES_DSN to a scratch database to run this test.
// It clears the "main" and "empty" slots before running.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("RESTO_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("RESTO_TEST_POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.DatabaseConfig{
		Driver:          "postgres",
		DSN:             dsn,
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}
	s, err := OpenPostgres(ctx, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	for _, q := range []string{
		`DELETE FROM saves WHERE slot IN ('main', 'empty')`,
		`DELETE FROM day_ledger WHERE slot IN ('main', 'empty')`,
	} {
		if _, err := s.Pool.Exec(ctx, q); err != nil {
			t.Fatalf("reset: %v", err)
		}
	}

	exerciseStore(t, s)

	var days, served int
	if err := s.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(served), 0) FROM day_ledger WHERE slot = 'main'`,
	).Scan(&days, &served); err != nil {
		t.Fatalf("ledger query: %v", err)
	}
	if days != 2 || served != 30 {
		t.Fatalf("ledger rows=%d served=%d, want 2 and 30", days, served)
	}
	s.Close()

	// reopening reruns goose, which must find nothing to apply
	s, err = OpenPostgres(ctx, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got := world.DefaultGameState()
	if found, err := s.LoadState(ctx, "main", &got); err != nil || !found || got != sampleState() {
		t.Fatalf("after reopen: found=%v err=%v state=%+v", found, err, got)
	}
}
