package model

import "errors"

// MinFitItems is the minimum number of wardrobe items in a fit.
const MinFitItems = 2

// Fit is a composed outfit. Fits live only in the in-memory session store
// for the lifetime of the process; they are never persisted.
type Fit struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	WardrobeItemIDs []int64 `json:"wardrobe_item_ids"`
}

// FitPost is a fit the user chose to "post". Same in-memory lifetime as Fit.
type FitPost struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	WardrobeItemIDs []int64 `json:"wardrobe_item_ids"`
}

// CreateFitRequest is the body of POST /fits.
type CreateFitRequest struct {
	Name            string  `json:"name"`
	WardrobeItemIDs []int64 `json:"wardrobe_item_ids"`
}

var (
	// ErrTooFewFitItems is returned when a fit has fewer than MinFitItems items
	ErrTooFewFitItems = errors.New("a fit needs at least two wardrobe items")

	// ErrFitNotFound is returned when the fit id is unknown for this user
	ErrFitNotFound = errors.New("fit not found")
)
