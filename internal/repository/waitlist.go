package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fitzty/fitzty-backend/internal/model"
)

type waitlistRepository struct {
	db *sqlx.DB
}

func NewWaitlistRepository(db *sqlx.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (r *waitlistRepository) Insert(ctx context.Context, email string) (*model.WaitlistEntry, error) {
	query := `
		INSERT INTO waitlist (email, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		RETURNING id, email, created_at, updated_at
	`

	var entry model.WaitlistEntry
	err := r.db.QueryRowxContext(ctx, query, email).
		Scan(&entry.ID, &entry.Email, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, model.ErrAlreadyOnWaitlist
		}
		return nil, fmt.Errorf("failed to insert waitlist entry: %w", err)
	}

	return &entry, nil
}
