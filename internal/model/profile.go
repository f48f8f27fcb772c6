package model

import (
	"errors"
	"time"
)

// Profile picture types
const (
	PictureTypeUpload = "upload"
	PictureTypeAI     = "ai"
)

// MinUsernameLength is the shortest username accepted anywhere
// (sign-up, profile edit, availability check).
const MinUsernameLength = 3

// Profile represents a user's public identity and body attributes.
// One row per user; created at sign-up by the registration transaction.
type Profile struct {
	ID                 int64      `db:"id" json:"id"`
	UserID             int64      `db:"user_id" json:"user_id"`
	Username           string     `db:"username" json:"username"`
	FirstName          *string    `db:"first_name" json:"first_name"`
	LastName           *string    `db:"last_name" json:"last_name"`
	Bio                *string    `db:"bio" json:"bio"`
	AvatarURL          *string    `db:"avatar_url" json:"avatar_url"`
	ProfilePictureType *string    `db:"profile_picture_type" json:"profile_picture_type"`
	BodyDetails
	BodyDetailsUpdatedAt *time.Time `db:"body_details_updated_at" json:"body_details_updated_at"`
	FollowersCount       int        `db:"followers_count" json:"followers_count"`
	FollowingCount       int        `db:"following_count" json:"following_count"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// BodyDetails is the closed set of body attributes used for AI avatar
// generation. All fields are free-form strings chosen from fixed option
// lists on the client; the server treats them as opaque.
//
// The validate tags apply only when the struct is used for generation:
// handlers validate with the "required" rules before calling the gateway.
// Saving a profile never requires them.
type BodyDetails struct {
	Gender      string `db:"gender" json:"gender" validate:"required"`
	SkinTone    string `db:"skin_tone" json:"skinTone" validate:"required"`
	FaceShape   string `db:"face_shape" json:"faceShape" validate:"required"`
	HairType    string `db:"hair_type" json:"hairType" validate:"required"`
	HairLength  string `db:"hair_length" json:"hairLength" validate:"required"`
	HairColor   string `db:"hair_color" json:"hairColor" validate:"required"`
	EyeShape    string `db:"eye_shape" json:"eyeShape" validate:"required"`
	EyeColor    string `db:"eye_color" json:"eyeColor" validate:"required"`
	BodyBuild   string `db:"body_build" json:"bodyBuild" validate:"required"`
	Height      string `db:"height" json:"height" validate:"required"`
	Weight      string `db:"weight" json:"weight" validate:"required"`
	BeardLength string `db:"beard_length" json:"beardLength,omitempty" validate:"required_if=Gender Male"`
}

// Complete reports whether every generation-relevant attribute is set.
// BeardLength only counts when gender is Male.
func (b BodyDetails) Complete() bool {
	required := []string{
		b.Gender, b.SkinTone, b.FaceShape, b.HairType, b.HairLength,
		b.HairColor, b.EyeShape, b.EyeColor, b.BodyBuild, b.Height, b.Weight,
	}
	for _, v := range required {
		if v == "" {
			return false
		}
	}
	if b.Gender == "Male" && b.BeardLength == "" {
		return false
	}
	return true
}

// UpdateProfileRequest carries the profile-edit save payload. Avatar bytes
// arrive separately (multipart file for upload mode, data URL for AI mode);
// the service resolves the final avatar_url.
type UpdateProfileRequest struct {
	FirstName          string      `json:"first_name"`
	LastName           string      `json:"last_name"`
	Username           string      `json:"username"`
	Bio                string      `json:"bio"`
	ProfilePictureType string      `json:"profile_picture_type"`
	BodyDetails        BodyDetails `json:"body_details"`

	// PendingAvatarDataURL holds an AI-generated avatar (base64 data URL)
	// that should replace the stored one at save time.
	PendingAvatarDataURL string `json:"pending_avatar_data_url"`
}

// UsernameStatus values returned by the availability check.
const (
	UsernameTooShort  = "too_short"
	UsernameChecking  = "checking"
	UsernameAvailable = "available"
	UsernameTaken     = "taken"
)

// UsernameAvailabilityResponse is the body of GET /profile/username-availability.
type UsernameAvailabilityResponse struct {
	Username string `json:"username"`
	Status   string `json:"status"`
}

var (
	// ErrProfileNotFound is returned when a profile row cannot be found
	ErrProfileNotFound = errors.New("profile not found")

	// ErrUsernameTaken is returned when the requested username is in use
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUsernameTooShort is returned for usernames under the minimum length
	ErrUsernameTooShort = errors.New("username too short")

	// ErrBodyDetailsIncomplete is returned when AI avatar generation is
	// requested without the full attribute set
	ErrBodyDetailsIncomplete = errors.New("body details incomplete")
)

// Follow errors
var (
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
)
