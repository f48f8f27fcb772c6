package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type brandRepository struct {
	db *sqlx.DB
}

func NewBrandRepository(db *sqlx.DB) BrandRepository {
	return &brandRepository{db: db}
}

// ListNames returns all brand names ordered alphabetically, the shape the
// client's brand dropdown consumes.
func (r *brandRepository) ListNames(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM brands ORDER BY name`

	var names []string
	err := r.db.SelectContext(ctx, &names, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}

	return names, nil
}

// Insert creates a brand lazily. Concurrent sessions may race on the same
// name; the unique index plus DO NOTHING keeps the catalog duplicate-free.
func (r *brandRepository) Insert(ctx context.Context, name string) error {
	query := `INSERT INTO brands (name, created_at) VALUES ($1, NOW()) ON CONFLICT (name) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("failed to insert brand: %w", err)
	}

	return nil
}
