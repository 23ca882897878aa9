package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	imagemodels "io.winapps.imagealbum/internal/models/image"
)

// ImageStore defines data access for image metadata
type ImageStore interface {
	List(ctx context.Context) ([]imagemodels.Record, error)
	Insert(ctx context.Context, rec imagemodels.Record) error
}

// PostgresImageStore implements ImageStore for PostgreSQL
type PostgresImageStore struct {
	pool *pgxpool.Pool
}

// NewPostgresImageStore creates a new PostgreSQL image store
func NewPostgresImageStore(pool *pgxpool.Pool) *PostgresImageStore {
	return &PostgresImageStore{pool: pool}
}

// List returns every image record, oldest first
func (s *PostgresImageStore) List(ctx context.Context) ([]imagemodels.Record, error) {
	query := `
		SELECT id, category, summary
		FROM images
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	records := make([]imagemodels.Record, 0)
	for rows.Next() {
		var rec imagemodels.Record
		if err := rows.Scan(&rec.ID, &rec.Category, &rec.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read images: %w", err)
	}

	return records, nil
}

// Insert stores a record, replacing category and summary if the id already exists
func (s *PostgresImageStore) Insert(ctx context.Context, rec imagemodels.Record) error {
	query := `
		INSERT INTO images (id, category, summary)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET
			category = EXCLUDED.category,
			summary = EXCLUDED.summary
	`

	if _, err := s.pool.Exec(ctx, query, rec.ID, rec.Category, rec.Summary); err != nil {
		return fmt.Errorf("failed to insert image %s: %w", rec.ID, err)
	}
	return nil
}
