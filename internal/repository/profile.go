package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fitzty/fitzty-backend/internal/model"
)

const profileColumns = `
	id, user_id, username, first_name, last_name, bio, avatar_url, profile_picture_type,
	gender, skin_tone, face_shape, hair_type, hair_length, hair_color,
	eye_shape, eye_color, body_build, height, weight, beard_length,
	body_details_updated_at, followers_count, following_count, created_at, updated_at
`

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create inserts the profile row provisioned at sign-up. Runs inside the
// registration transaction alongside the user insert.
func (r *profileRepository) Create(ctx context.Context, tx *sqlx.Tx, p *model.Profile) error {
	query := `
		INSERT INTO profiles (user_id, username, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, followers_count, following_count, created_at, updated_at
	`

	err := tx.QueryRowxContext(ctx, query, p.UserID, p.Username, p.FirstName, p.LastName).
		Scan(&p.ID, &p.FollowersCount, &p.FollowingCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return model.ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	var p model.Profile
	err := r.db.GetContext(ctx, &p, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile by user id: %w", err)
	}

	return &p, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1`

	var p model.Profile
	err := r.db.GetContext(ctx, &p, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile by username: %w", err)
	}

	return &p, nil
}

// ExistsByUsername backs the availability check with a single exact-match query.
func (r *profileRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE username = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// Update persists the whole profile-edit payload in one statement:
// identity fields, avatar, picture type and all body attributes.
func (r *profileRepository) Update(ctx context.Context, p *model.Profile) error {
	query := `
		UPDATE profiles SET
			username = $1, first_name = $2, last_name = $3, bio = $4,
			avatar_url = $5, profile_picture_type = $6,
			gender = $7, skin_tone = $8, face_shape = $9, hair_type = $10,
			hair_length = $11, hair_color = $12, eye_shape = $13, eye_color = $14,
			body_build = $15, height = $16, weight = $17, beard_length = $18,
			body_details_updated_at = $19, updated_at = NOW()
		WHERE user_id = $20
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.Username, p.FirstName, p.LastName, p.Bio,
		p.AvatarURL, p.ProfilePictureType,
		p.Gender, p.SkinTone, p.FaceShape, p.HairType,
		p.HairLength, p.HairColor, p.EyeShape, p.EyeColor,
		p.BodyBuild, p.Height, p.Weight, p.BeardLength,
		p.BodyDetailsUpdatedAt,
		p.UserID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.ErrProfileNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return model.ErrUsernameTaken
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

func (r *profileRepository) IncrementFollowersCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error {
	query := `UPDATE profiles SET followers_count = followers_count + $1 WHERE user_id = $2`
	_, err := tx.ExecContext(ctx, query, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to increment followers count: %w", err)
	}
	return nil
}

func (r *profileRepository) IncrementFollowingCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error {
	query := `UPDATE profiles SET following_count = following_count + $1 WHERE user_id = $2`
	_, err := tx.ExecContext(ctx, query, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to increment following count: %w", err)
	}
	return nil
}
