package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	imagemodels "io.winapps.imagealbum/internal/models/image"
)

// newTestPool connects to TEST_DATABASE_URL and gives each test an empty images table
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	// temp tables are per connection, so pin the pool to one
	cfg.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	stmts := []string{
		`CREATE TEMP TABLE IF NOT EXISTS images (
			id VARCHAR(255) PRIMARY KEY,
			category VARCHAR(255) NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`TRUNCATE images`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("prepare table: %v", err)
		}
	}
	return pool
}

func TestPostgresImageStore_InsertAndList(t *testing.T) {
	pool := newTestPool(t)
	s := NewPostgresImageStore(pool)
	ctx := context.Background()

	records, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("expected empty non-nil listing, got %#v", records)
	}

	for _, rec := range []imagemodels.Record{
		{ID: "abc123", Category: "nature", Summary: "a tree"},
		{ID: "def456", Category: "food", Summary: "a pie"},
	} {
		if err := s.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if err := s.Insert(ctx, imagemodels.Record{ID: "abc123", Category: "nature", Summary: "an oak"}); err != nil {
		t.Fatalf("Insert update: %v", err)
	}

	records, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "abc123" || records[0].Summary != "an oak" {
		t.Fatalf("unexpected first record %+v", records[0])
	}
}
