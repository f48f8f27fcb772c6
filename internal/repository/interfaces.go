package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fitzty/fitzty-backend/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, profile *model.Profile) error
	GetByUserID(ctx context.Context, userID int64) (*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, profile *model.Profile) error
	IncrementFollowersCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error
	IncrementFollowingCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error
}

type WardrobeRepository interface {
	Create(ctx context.Context, item *model.WardrobeItem) error
	GetByID(ctx context.Context, itemID, userID int64) (*model.WardrobeItem, error)
	ListByUser(ctx context.Context, userID int64) ([]model.WardrobeItem, error)
	Update(ctx context.Context, itemID, userID int64, req *model.UpdateWardrobeItemRequest) (*model.WardrobeItem, error)
	Delete(ctx context.Context, itemID, userID int64) error
	ExistAllForUser(ctx context.Context, userID int64, itemIDs []int64) (bool, error)
}

type BrandRepository interface {
	ListNames(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, name string) error
}

type WaitlistRepository interface {
	Insert(ctx context.Context, email string) (*model.WaitlistEntry, error)
}

type FollowRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, followerID, followeeID int64) (bool, error)
	Delete(ctx context.Context, tx *sqlx.Tx, followerID, followeeID int64) error
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}
