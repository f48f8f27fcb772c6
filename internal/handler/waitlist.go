package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fitzty/fitzty-backend/internal/httputil"
	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/service"
)

// WaitlistHandler records launch-waitlist sign-ups.
type WaitlistHandler struct {
	waitlistService *service.WaitlistService
}

func NewWaitlistHandler(waitlistService *service.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{waitlistService: waitlistService}
}

// Join adds an email to the waitlist
// POST /waitlist
func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req model.JoinWaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	entry, err := h.waitlistService.Join(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyOnWaitlist) {
			httputil.WriteConflict(w, "Email already on waitlist")
			return
		}
		httputil.WriteBadRequest(w, "A valid email is required")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, entry)
}
