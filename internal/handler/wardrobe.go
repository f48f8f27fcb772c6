package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fitzty/fitzty-backend/internal/httputil"
	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/service"
	"github.com/fitzty/fitzty-backend/internal/transport/http/middleware"
)

// WardrobeHandler exposes the wardrobe item CRUD and the AI-assist analyze
// endpoint.
type WardrobeHandler struct {
	wardrobeService *service.WardrobeService
}

func NewWardrobeHandler(wardrobeService *service.WardrobeService) *WardrobeHandler {
	return &WardrobeHandler{wardrobeService: wardrobeService}
}

// Create adds a wardrobe item. Multipart form: "image" carries the file in
// normal mode; "ai_image_data_url" carries the gateway result in AI mode.
// POST /wardrobe/items
func (h *WardrobeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	maxFormSize := int64(model.MaxWardrobeSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Image exceeds 10MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.CreateWardrobeItemRequest{
		Description:    r.FormValue("description"),
		ClothingType:   r.FormValue("clothing_type"),
		Brand:          r.FormValue("brand"),
		CustomBrand:    strings.TrimSpace(r.FormValue("custom_brand")),
		Size:           r.FormValue("size"),
		UploadType:     r.FormValue("upload_type"),
		AIImageDataURL: r.FormValue("ai_image_data_url"),
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
	} else if err != http.ErrMissingFile {
		httputil.WriteBadRequest(w, "Invalid image upload")
		return
	} else {
		file, header = nil, nil
	}

	item, err := h.wardrobeService.Create(r.Context(), userID, &req, file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMissingItemFields):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrMissingItemImage):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Image exceeds 10MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		case errors.Is(err, model.ErrInvalidDataURL):
			httputil.WriteBadRequest(w, "Invalid image data URL")
		default:
			httputil.WriteInternalError(w, "Failed to save wardrobe item")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, item)
}

// List returns the caller's wardrobe, newest first
// GET /wardrobe/items
func (h *WardrobeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	items, err := h.wardrobeService.List(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to list wardrobe items")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, items)
}

// Get returns one item, owner-scoped
// GET /wardrobe/items/{id}
func (h *WardrobeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	itemID, err := itemIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid item ID")
		return
	}

	item, err := h.wardrobeService.Get(r.Context(), itemID, userID)
	if err != nil {
		if errors.Is(err, model.ErrWardrobeItemNotFound) {
			httputil.WriteNotFound(w, "Wardrobe item not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get wardrobe item")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, item)
}

// Update edits the text fields of an item in one save
// PUT /wardrobe/items/{id}
func (h *WardrobeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	itemID, err := itemIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid item ID")
		return
	}

	var req model.UpdateWardrobeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	item, err := h.wardrobeService.Update(r.Context(), itemID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMissingItemFields):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrWardrobeItemNotFound):
			httputil.WriteNotFound(w, "Wardrobe item not found")
		default:
			httputil.WriteInternalError(w, "Failed to update wardrobe item")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, item)
}

// Delete removes an item and queues its object for removal
// DELETE /wardrobe/items/{id}
func (h *WardrobeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	itemID, err := itemIDParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid item ID")
		return
	}

	if err := h.wardrobeService.Delete(r.Context(), itemID, userID); err != nil {
		if errors.Is(err, model.ErrWardrobeItemNotFound) {
			httputil.WriteNotFound(w, "Wardrobe item not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to delete wardrobe item")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Wardrobe item deleted",
	})
}

// Analyze runs the AI description and type detection for an image
// POST /wardrobe/analyze
func (h *WardrobeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req struct {
		ImageDataURL string `json:"image_data_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	result, err := h.wardrobeService.Analyze(r.Context(), req.ImageDataURL)
	if err != nil {
		if errors.Is(err, model.ErrMissingItemImage) {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		httputil.WriteInternalError(w, "Failed to analyze item")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func itemIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
