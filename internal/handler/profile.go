package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fitzty/fitzty-backend/internal/httputil"
	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/service"
	"github.com/fitzty/fitzty-backend/internal/transport/http/middleware"
)

// ProfileHandler exposes the profile read/edit endpoints and the username
// availability probe.
type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Get returns the caller's own profile
// GET /profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	profile, err := h.profileService.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteNotFound(w, "Profile not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// Update applies a profile-edit save. The request is multipart so an avatar
// file can ride along with the fields; body attributes arrive as a JSON
// string in the "body_details" field.
// PUT /profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	maxFormSize := int64(model.MaxAvatarSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Avatar exceeds 5MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.UpdateProfileRequest{
		FirstName:            r.FormValue("first_name"),
		LastName:             r.FormValue("last_name"),
		Username:             r.FormValue("username"),
		Bio:                  r.FormValue("bio"),
		ProfilePictureType:   r.FormValue("profile_picture_type"),
		PendingAvatarDataURL: r.FormValue("pending_avatar_data_url"),
	}

	if raw := r.FormValue("body_details"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.BodyDetails); err != nil {
			httputil.WriteBadRequest(w, "Invalid body_details")
			return
		}
	}

	file, header, err := r.FormFile("avatar")
	if err == nil {
		defer file.Close()
	} else if err != http.ErrMissingFile {
		httputil.WriteBadRequest(w, "Invalid avatar upload")
		return
	} else {
		file, header = nil, nil
	}

	profile, err := h.profileService.Update(r.Context(), userID, &req, file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProfileNotFound):
			httputil.WriteNotFound(w, "Profile not found")
		case errors.Is(err, model.ErrUsernameTooShort):
			httputil.WriteBadRequest(w, "Username must be at least 3 characters")
		case errors.Is(err, model.ErrUsernameTaken):
			httputil.WriteConflict(w, "Username already taken")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Avatar exceeds 5MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		case errors.Is(err, model.ErrInvalidDataURL):
			httputil.WriteBadRequest(w, "Invalid avatar data URL")
		case errors.Is(err, model.ErrMissingAPIKey), errors.Is(err, model.ErrUpstreamFailure):
			httputil.WriteInternalError(w, "Failed to regenerate avatar")
		default:
			httputil.WriteInternalError(w, "Failed to update profile")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UsernameAvailability answers the debounced availability probe.
// GET /profile/username-availability?username=
func (h *ProfileHandler) UsernameAvailability(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	// Works with or without a session: the caller's own username reads as
	// available during profile edit, and sign-up has no session at all.
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	resp, err := h.profileService.CheckUsername(r.Context(), userID, username)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to check username")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
