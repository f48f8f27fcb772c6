package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fitzty/fitzty-backend/internal/model"
)

const wardrobeColumns = `
	id, user_id, image_url, description, clothing_type, brand, size, upload_type, created_at, updated_at
`

type wardrobeRepository struct {
	db *sqlx.DB
}

func NewWardrobeRepository(db *sqlx.DB) WardrobeRepository {
	return &wardrobeRepository{db: db}
}

// Create inserts a new wardrobe item. The image must already be uploaded;
// ImageURL points into the object store.
func (r *wardrobeRepository) Create(ctx context.Context, item *model.WardrobeItem) error {
	query := `
		INSERT INTO wardrobe_items (user_id, image_url, description, clothing_type, brand, size, upload_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		item.UserID,
		item.ImageURL,
		item.Description,
		item.ClothingType,
		item.Brand,
		item.Size,
		item.UploadType,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert wardrobe item: %w", err)
	}

	return nil
}

// GetByID is owner-scoped: items belonging to another user read as not found.
func (r *wardrobeRepository) GetByID(ctx context.Context, itemID, userID int64) (*model.WardrobeItem, error) {
	query := `SELECT ` + wardrobeColumns + ` FROM wardrobe_items WHERE id = $1 AND user_id = $2`

	var item model.WardrobeItem
	err := r.db.GetContext(ctx, &item, query, itemID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrWardrobeItemNotFound
		}
		return nil, fmt.Errorf("failed to get wardrobe item: %w", err)
	}

	return &item, nil
}

func (r *wardrobeRepository) ListByUser(ctx context.Context, userID int64) ([]model.WardrobeItem, error) {
	query := `SELECT ` + wardrobeColumns + ` FROM wardrobe_items WHERE user_id = $1 ORDER BY created_at DESC`

	var items []model.WardrobeItem
	err := r.db.SelectContext(ctx, &items, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wardrobe items: %w", err)
	}

	return items, nil
}

// Update covers the four editable text fields in a single statement.
// The image is immutable after creation.
func (r *wardrobeRepository) Update(ctx context.Context, itemID, userID int64, req *model.UpdateWardrobeItemRequest) (*model.WardrobeItem, error) {
	query := `
		UPDATE wardrobe_items
		SET description = $1, clothing_type = $2, brand = $3, size = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING ` + wardrobeColumns

	var item model.WardrobeItem
	err := r.db.GetContext(ctx, &item, query,
		req.Description, req.ClothingType, req.Brand, req.Size, itemID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrWardrobeItemNotFound
		}
		return nil, fmt.Errorf("failed to update wardrobe item: %w", err)
	}

	return &item, nil
}

func (r *wardrobeRepository) Delete(ctx context.Context, itemID, userID int64) error {
	query := `DELETE FROM wardrobe_items WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete wardrobe item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrWardrobeItemNotFound
	}

	return nil
}

// ExistAllForUser reports whether every id belongs to the user. Used by the
// outfit composer to validate fit contents in one query.
func (r *wardrobeRepository) ExistAllForUser(ctx context.Context, userID int64, itemIDs []int64) (bool, error) {
	if len(itemIDs) == 0 {
		return false, nil
	}

	query := `SELECT COUNT(DISTINCT id) FROM wardrobe_items WHERE user_id = $1 AND id = ANY($2)`

	var count int
	err := r.db.GetContext(ctx, &count, query, userID, pq.Array(itemIDs))
	if err != nil {
		return false, fmt.Errorf("failed to check wardrobe items: %w", err)
	}

	seen := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		seen[id] = struct{}{}
	}

	return count == len(seen), nil
}
