package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/fitzty/fitzty-backend/internal/config"
	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/queue"
	"github.com/fitzty/fitzty-backend/internal/repository"
)

// ProfileService handles profile reads, the profile-edit save, and the
// username availability check.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	media       MediaStore
	vision      ClothingVision
	publisher   queue.Publisher

	// defaultAvatarKey is the shared placeholder object; it must never be
	// enqueued for deletion.
	defaultAvatarKey string
}

func NewProfileService(profileRepo repository.ProfileRepository, media MediaStore, vision ClothingVision, publisher queue.Publisher, cfg *config.Config) *ProfileService {
	return &ProfileService{
		profileRepo:      profileRepo,
		media:            media,
		vision:           vision,
		publisher:        publisher,
		defaultAvatarKey: cfg.DefaultAvatarKey,
	}
}

// GetByUserID returns the caller's profile.
func (s *ProfileService) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// GetByUsername returns a profile by its username.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	return s.profileRepo.GetByUsername(ctx, username)
}

// Update applies a profile-edit save. avatarFile is non-nil only when the
// picture type is "upload" and the user picked a new file this session.
//
// Avatar resolution order:
//  1. upload mode with a file: normalize and upload it;
//  2. ai mode with a pending data URL: decode and upload it;
//  3. ai mode, no pending avatar, but body details changed since the last
//     save: regenerate through the gateway and upload the result;
//  4. otherwise keep whatever avatar_url is stored.
func (s *ProfileService) Update(ctx context.Context, userID int64, req *model.UpdateProfileRequest, avatarFile multipart.File, avatarHeader *multipart.FileHeader) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = profile.Username
	}
	if len(username) < model.MinUsernameLength {
		return nil, model.ErrUsernameTooShort
	}

	bodyChanged := req.BodyDetails != profile.BodyDetails

	oldAvatarURL := ""
	if profile.AvatarURL != nil {
		oldAvatarURL = *profile.AvatarURL
	}

	var upload *model.UploadResult
	switch {
	case req.ProfilePictureType == model.PictureTypeUpload && avatarFile != nil:
		upload, err = s.media.UploadAvatar(ctx, avatarFile, avatarHeader)
		if err != nil {
			return nil, err
		}

	case req.ProfilePictureType == model.PictureTypeAI && req.PendingAvatarDataURL != "":
		data, _, err := DecodeImageDataURL(req.PendingAvatarDataURL)
		if err != nil {
			return nil, err
		}
		upload, err = s.media.UploadAvatarPNG(ctx, data)
		if err != nil {
			return nil, err
		}

	case req.ProfilePictureType == model.PictureTypeAI && bodyChanged && req.BodyDetails.Complete():
		// The stored avatar no longer matches the attributes it was
		// generated from; refresh it as part of the save.
		dataURL, err := s.vision.GenerateAvatar(ctx, req.BodyDetails)
		if err != nil {
			return nil, err
		}
		data, _, err := DecodeImageDataURL(dataURL)
		if err != nil {
			return nil, err
		}
		upload, err = s.media.UploadAvatarPNG(ctx, data)
		if err != nil {
			return nil, err
		}
	}

	profile.Username = username
	profile.FirstName = optionalString(req.FirstName)
	profile.LastName = optionalString(req.LastName)
	profile.Bio = optionalString(req.Bio)
	if req.ProfilePictureType != "" {
		pt := req.ProfilePictureType
		profile.ProfilePictureType = &pt
	}
	profile.BodyDetails = req.BodyDetails
	if bodyChanged {
		now := time.Now()
		profile.BodyDetailsUpdatedAt = &now
	}
	if upload != nil {
		u := upload.URL
		profile.AvatarURL = &u
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if upload != nil {
			if _, pubErr := s.publisher.Publish(ctx, queue.StreamCleanup,
				queue.NewObjectOrphanedEvent(upload.Key, userID, "profile update failed")); pubErr != nil {
				log.Printf("[ProfileService] failed to enqueue orphan cleanup for %s: %v", upload.Key, pubErr)
			}
		}
		return nil, err
	}

	// The replaced avatar is unreferenced now; removal is best-effort.
	if upload != nil && oldAvatarURL != "" {
		if key := s.media.KeyFromPublicURL(oldAvatarURL); key != "" && key != s.defaultAvatarKey {
			if _, err := s.publisher.Publish(ctx, queue.StreamCleanup,
				queue.NewObjectDeleteEvent(key, userID)); err != nil {
				log.Printf("[ProfileService] failed to enqueue avatar cleanup for %s: %v", key, err)
			}
		}
	}

	return s.profileRepo.GetByUserID(ctx, userID)
}

// CheckUsername implements the availability probe behind the sign-up and
// profile-edit forms. Inputs under the minimum length never reach the
// repository. The caller's own current username always reads as available.
func (s *ProfileService) CheckUsername(ctx context.Context, userID int64, username string) (*model.UsernameAvailabilityResponse, error) {
	username = strings.TrimSpace(username)
	resp := &model.UsernameAvailabilityResponse{Username: username}

	if len(username) < model.MinUsernameLength {
		resp.Status = model.UsernameTooShort
		return resp, nil
	}

	if userID != 0 {
		if own, err := s.profileRepo.GetByUserID(ctx, userID); err == nil && own.Username == username {
			resp.Status = model.UsernameAvailable
			return resp, nil
		}
	}

	taken, err := s.profileRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		resp.Status = model.UsernameTaken
	} else {
		resp.Status = model.UsernameAvailable
	}
	return resp, nil
}

// GenerateAvatar validates the attribute set and produces an avatar data URL.
// Nothing is stored; the result becomes the pending avatar on the client.
func (s *ProfileService) GenerateAvatar(ctx context.Context, details model.BodyDetails) (string, error) {
	if !details.Complete() {
		return "", model.ErrBodyDetailsIncomplete
	}
	return s.vision.GenerateAvatar(ctx, details)
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
