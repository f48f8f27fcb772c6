package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/repository"
)

// WaitlistService records launch-waitlist sign-ups.
type WaitlistService struct {
	waitlistRepo repository.WaitlistRepository
}

func NewWaitlistService(waitlistRepo repository.WaitlistRepository) *WaitlistService {
	return &WaitlistService{waitlistRepo: waitlistRepo}
}

// Join validates and stores an email address. Duplicates surface as
// model.ErrAlreadyOnWaitlist from the unique index.
func (s *WaitlistService) Join(ctx context.Context, email string) (*model.WaitlistEntry, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email address")
	}
	return s.waitlistRepo.Insert(ctx, email)
}
