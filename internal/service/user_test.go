package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/fitzty/fitzty-backend/internal/config"
	"github.com/fitzty/fitzty-backend/internal/model"
)

// Register needs a real transaction, so it is covered by the integration
// tests; Login and the pre-checks are unit-testable.

func TestUserService_Login_Success(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("securepassword123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	repo := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email != "casey@example.com" {
				t.Errorf("email = %q, want lowercased trimmed address", email)
			}
			return &model.User{ID: 7, Email: email, PasswordHashed: string(hashed)}, nil
		},
	}
	svc := NewUserService(repo, &mockProfileRepo{}, nil, &config.Config{})

	user, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    " Casey@Example.com ",
		Password: "securepassword123",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("user ID = %d, want 7", user.ID)
	}
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.DefaultCost)
	repo := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 7, Email: email, PasswordHashed: string(hashed)}, nil
		},
	}
	svc := NewUserService(repo, &mockProfileRepo{}, nil, &config.Config{})

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "casey@example.com",
		Password: "wrongpassword",
	})
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, &mockProfileRepo{}, nil, &config.Config{})

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	// Unknown email and bad password must be indistinguishable
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestUserService_Register_DuplicateEmailPreCheck(t *testing.T) {
	repo := &mockUserRepo{
		existsFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(repo, &mockProfileRepo{}, nil, &config.Config{})

	_, _, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "taken@example.com",
		Password: "securepassword123",
		Username: "newuser",
	})
	if !errors.Is(err, model.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got: %v", err)
	}
}

func TestUserService_Register_ShortUsername(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, &mockProfileRepo{}, nil, &config.Config{})

	_, _, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "casey@example.com",
		Password: "securepassword123",
		Username: "ab",
	})
	if !errors.Is(err, model.ErrUsernameTooShort) {
		t.Fatalf("expected ErrUsernameTooShort, got: %v", err)
	}
}
