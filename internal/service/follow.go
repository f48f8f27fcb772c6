package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/repository"
)

// FollowService manages follow edges and keeps the denormalized profile
// counters in step with them. Edge insert and both counter bumps commit in
// one transaction.
type FollowService struct {
	followRepo  repository.FollowRepository
	profileRepo repository.ProfileRepository
	db          *sqlx.DB
}

func NewFollowService(followRepo repository.FollowRepository, profileRepo repository.ProfileRepository, db *sqlx.DB) *FollowService {
	return &FollowService{
		followRepo:  followRepo,
		profileRepo: profileRepo,
		db:          db,
	}
}

// Follow creates a follow edge from followerID to followeeID.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return model.ErrCannotFollowSelf
	}

	// Ensure the followee exists before opening the transaction
	if _, err := s.profileRepo.GetByUserID(ctx, followeeID); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	created, err := s.followRepo.Create(ctx, tx, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}
	if !created {
		return model.ErrAlreadyFollowing
	}

	if err := s.profileRepo.IncrementFollowersCount(ctx, tx, followeeID, 1); err != nil {
		return fmt.Errorf("failed to increment followers count: %w", err)
	}
	if err := s.profileRepo.IncrementFollowingCount(ctx, tx, followerID, 1); err != nil {
		return fmt.Errorf("failed to increment following count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit follow: %w", err)
	}
	return nil
}

// Unfollow removes the follow edge and decrements both counters.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return model.ErrCannotFollowSelf
	}

	exists, err := s.followRepo.Exists(ctx, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to check follow: %w", err)
	}
	if !exists {
		return model.ErrNotFollowing
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.followRepo.Delete(ctx, tx, followerID, followeeID); err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	if err := s.profileRepo.IncrementFollowersCount(ctx, tx, followeeID, -1); err != nil {
		return fmt.Errorf("failed to decrement followers count: %w", err)
	}
	if err := s.profileRepo.IncrementFollowingCount(ctx, tx, followerID, -1); err != nil {
		return fmt.Errorf("failed to decrement following count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unfollow: %w", err)
	}
	return nil
}

// IsFollowing reports whether followerID follows followeeID.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followeeID)
}
