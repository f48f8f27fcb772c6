package model

import (
	"errors"
	"time"
)

// WaitlistEntry is one email captured by the public landing page.
type WaitlistEntry struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// JoinWaitlistRequest is the body of POST /waitlist.
type JoinWaitlistRequest struct {
	Email string `json:"email"`
}

// ErrAlreadyOnWaitlist is returned when the email was captured before.
var ErrAlreadyOnWaitlist = errors.New("email already on waitlist")
