package handler

import (
	"net/http"

	"github.com/fitzty/fitzty-backend/internal/httputil"
	"github.com/fitzty/fitzty-backend/internal/service"
)

// BrandHandler serves the brand picker list.
type BrandHandler struct {
	brandService *service.BrandService
}

func NewBrandHandler(brandService *service.BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// List returns brand names in alphabetical order
// GET /brands
func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.brandService.ListNames(r.Context())
	if err != nil {
		httputil.WriteInternalError(w, "Failed to list brands")
		return
	}

	if names == nil {
		names = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{"brands": names})
}
