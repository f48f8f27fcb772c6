package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fitzty/fitzty-backend/internal/httputil"
	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/service"
	"github.com/fitzty/fitzty-backend/internal/transport/http/middleware"
)

// FitHandler exposes the in-memory outfit composer.
type FitHandler struct {
	fitService *service.FitService
}

func NewFitHandler(fitService *service.FitService) *FitHandler {
	return &FitHandler{fitService: fitService}
}

// Create composes a fit from owned wardrobe items
// POST /fits
func (h *FitHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreateFitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	fit, err := h.fitService.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTooFewFitItems):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrWardrobeItemNotFound):
			httputil.WriteBadRequest(w, "All items must be in your wardrobe")
		default:
			httputil.WriteInternalError(w, "Failed to create fit")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, fit)
}

// List returns the user's composed fits
// GET /fits
func (h *FitHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.fitService.List(r.Context(), userID))
}

// Post copies a fit into the posts list
// POST /fits/{id}/post
func (h *FitHandler) Post(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	fitID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid fit ID")
		return
	}

	post, err := h.fitService.Post(r.Context(), userID, fitID)
	if err != nil {
		if errors.Is(err, model.ErrFitNotFound) {
			httputil.WriteNotFound(w, "Fit not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to post fit")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// ListPosts returns the user's posted fits
// GET /fits/posts
func (h *FitHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.fitService.ListPosts(r.Context(), userID))
}

// Delete removes a composed fit
// DELETE /fits/{id}
func (h *FitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	fitID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid fit ID")
		return
	}

	if err := h.fitService.Delete(r.Context(), userID, fitID); err != nil {
		httputil.WriteNotFound(w, "Fit not found")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Fit deleted",
	})
}
