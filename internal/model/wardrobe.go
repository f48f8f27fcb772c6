package model

import (
	"errors"
	"time"
)

// Upload types for wardrobe items
const (
	UploadTypeNormal = "normal"
	UploadTypeAI     = "ai"
)

// WardrobeItem represents one clothing item in a user's digital wardrobe.
// The image is immutable after creation; only the text fields can be edited.
type WardrobeItem struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	ImageURL     string    `db:"image_url" json:"image_url"`
	Description  string    `db:"description" json:"description"`
	ClothingType string    `db:"clothing_type" json:"clothing_type"`
	Brand        string    `db:"brand" json:"brand"`
	Size         string    `db:"size" json:"size"`
	UploadType   string    `db:"upload_type" json:"upload_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CreateWardrobeItemRequest is assembled by the handler from the multipart
// form. Exactly one image source is used depending on UploadType: the
// uploaded file for "normal", AIImageDataURL for "ai".
type CreateWardrobeItemRequest struct {
	Description    string
	ClothingType   string
	Brand          string
	CustomBrand    string
	Size           string
	UploadType     string
	AIImageDataURL string
}

// FinalBrand resolves the brand to persist: a typed custom brand wins over
// the dropdown selection.
func (r *CreateWardrobeItemRequest) FinalBrand() string {
	if r.CustomBrand != "" {
		return r.CustomBrand
	}
	return r.Brand
}

// UpdateWardrobeItemRequest covers the four editable text fields. The save
// issues a single update; the image cannot change.
type UpdateWardrobeItemRequest struct {
	Description  string `json:"description"`
	ClothingType string `json:"clothing_type"`
	Brand        string `json:"brand"`
	Size         string `json:"size"`
}

// AnalyzeItemResult is the joined result of the two concurrent assist calls.
// Both must succeed; a failure of either discards the other's output.
type AnalyzeItemResult struct {
	Description  string `json:"description"`
	ClothingType string `json:"clothing_type"`
}

var (
	// ErrWardrobeItemNotFound is returned when an item is missing or owned by another user
	ErrWardrobeItemNotFound = errors.New("wardrobe item not found")

	// ErrMissingItemImage is returned when neither a file nor an AI result is present
	ErrMissingItemImage = errors.New("an image is required")

	// ErrMissingItemFields is returned when a required text field is empty
	ErrMissingItemFields = errors.New("description, clothing type, brand and size are required")
)
