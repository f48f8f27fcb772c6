package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitzty/fitzty-backend/internal/config"
	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/repository"
)

// UserService handles account creation and login. Registration provisions
// the Profile row in the same transaction as the user row, so there is no
// window where an account exists without a profile.
type UserService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	db          *sqlx.DB
	config      *config.Config
}

func NewUserService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, db *sqlx.DB, cfg *config.Config) *UserService {
	return &UserService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		db:          db,
		config:      cfg,
	}
}

// Register creates a new account plus its profile.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, *model.Profile, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	username := strings.TrimSpace(req.Username)

	if email == "" {
		return nil, nil, fmt.Errorf("email is required")
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, nil, fmt.Errorf("password is required")
	}
	if len(username) < model.MinUsernameLength {
		return nil, nil, model.ErrUsernameTooShort
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, nil, model.ErrEmailExists
	}

	taken, err := s.profileRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, nil, model.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:          email,
		PasswordHashed: string(hashedPassword),
	}

	profile := &model.Profile{Username: username}
	if req.FirstName != "" {
		profile.FirstName = &req.FirstName
	}
	if req.LastName != "" {
		profile.LastName = &req.LastName
	}
	if s.config.DefaultAvatarURL != "" {
		profile.AvatarURL = &s.config.DefaultAvatarURL
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.userRepo.Create(ctx, tx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile.UserID = user.ID
	if err := s.profileRepo.Create(ctx, tx, profile); err != nil {
		// The pre-check races with concurrent sign-ups; the unique index
		// is the authority and surfaces here.
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit registration: %w", err)
	}

	return user, profile, nil
}

// Login authenticates a user with email and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		// Don't reveal whether the email exists or not
		return nil, model.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password))
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
