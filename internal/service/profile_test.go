package service

import (
	"context"
	"testing"

	"github.com/fitzty/fitzty-backend/internal/config"
	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/queue"
)

func completeBodyDetails() model.BodyDetails {
	return model.BodyDetails{
		Gender:     "Female",
		SkinTone:   "Medium",
		FaceShape:  "Oval",
		HairType:   "Straight",
		HairLength: "Long",
		HairColor:  "Black",
		EyeShape:   "Almond",
		EyeColor:   "Brown",
		BodyBuild:  "Athletic",
		Height:     "170cm",
		Weight:     "60kg",
	}
}

func storedProfile(userID int64) *model.Profile {
	avatar := "https://cdn.example.com/avatars/old.jpg"
	pictureType := model.PictureTypeAI
	return &model.Profile{
		ID:                 1,
		UserID:             userID,
		Username:           "casey",
		AvatarURL:          &avatar,
		ProfilePictureType: &pictureType,
		BodyDetails:        completeBodyDetails(),
	}
}

func newProfileService(repo *mockProfileRepo, media *mockMediaStore, vision *mockVision, publisher *mockPublisher) *ProfileService {
	return NewProfileService(repo, media, vision, publisher, &config.Config{})
}

func TestProfileService_CheckUsername_TooShort_NoQuery(t *testing.T) {
	repo := &mockProfileRepo{}
	svc := newProfileService(repo, &mockMediaStore{}, &mockVision{}, &mockPublisher{})

	resp, err := svc.CheckUsername(context.Background(), 0, "ab")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.Status != model.UsernameTooShort {
		t.Errorf("status = %q, want %q", resp.Status, model.UsernameTooShort)
	}
	// Short input must never reach the repository
	if len(repo.existsCalls) != 0 {
		t.Errorf("exists calls = %d, want 0", len(repo.existsCalls))
	}
}

func TestProfileService_CheckUsername_Taken(t *testing.T) {
	repo := &mockProfileRepo{
		existsFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := newProfileService(repo, &mockMediaStore{}, &mockVision{}, &mockPublisher{})

	resp, err := svc.CheckUsername(context.Background(), 0, "taken_name")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.Status != model.UsernameTaken {
		t.Errorf("status = %q, want %q", resp.Status, model.UsernameTaken)
	}
}

func TestProfileService_CheckUsername_OwnUsernameIsAvailable(t *testing.T) {
	repo := &mockProfileRepo{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return storedProfile(userID), nil
		},
		existsFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil // it exists, because it's the caller's row
		},
	}
	svc := newProfileService(repo, &mockMediaStore{}, &mockVision{}, &mockPublisher{})

	resp, err := svc.CheckUsername(context.Background(), 7, "casey")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.Status != model.UsernameAvailable {
		t.Errorf("status = %q, want available for own username", resp.Status)
	}
}

func TestProfileService_Update_PendingAIAvatarUploaded(t *testing.T) {
	repo := &mockProfileRepo{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return storedProfile(userID), nil
		},
	}
	media := &mockMediaStore{}
	var gotBytes []byte
	media.uploadAvatarPNGFn = func(ctx context.Context, data []byte) (*model.UploadResult, error) {
		gotBytes = data
		return &model.UploadResult{URL: "https://cdn.example.com/avatars/new.png", Key: "avatars/new.png"}, nil
	}
	vision := &mockVision{}
	publisher := &mockPublisher{}
	svc := newProfileService(repo, media, vision, publisher)

	req := &model.UpdateProfileRequest{
		Username:             "casey",
		ProfilePictureType:   model.PictureTypeAI,
		BodyDetails:          completeBodyDetails(),
		PendingAvatarDataURL: "data:image/png;base64,AAAA",
	}

	_, err := svc.Update(context.Background(), 7, req, nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// "AAAA" decodes to three zero bytes
	if len(gotBytes) != 3 {
		t.Errorf("decoded avatar length = %d, want 3", len(gotBytes))
	}
	// An explicit pending avatar must not trigger regeneration
	if vision.avatarCalls != 0 {
		t.Errorf("avatar generations = %d, want 0", vision.avatarCalls)
	}
	if len(repo.updateCalls) != 1 {
		t.Fatalf("update calls = %d, want 1", len(repo.updateCalls))
	}
	if repo.updateCalls[0].AvatarURL == nil || *repo.updateCalls[0].AvatarURL != "https://cdn.example.com/avatars/new.png" {
		t.Error("stored avatar_url must point at the uploaded object")
	}

	// Old avatar should be queued for removal
	if len(publisher.events) != 1 || publisher.events[0].Type != queue.EventObjectDelete {
		t.Fatalf("expected one object_delete event, got %+v", publisher.events)
	}
	if publisher.events[0].ObjectKey != "avatars/old.jpg" {
		t.Errorf("cleanup key = %q, want avatars/old.jpg", publisher.events[0].ObjectKey)
	}
}

func TestProfileService_Update_RegeneratesAvatarWhenBodyChanged(t *testing.T) {
	repo := &mockProfileRepo{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return storedProfile(userID), nil
		},
	}
	vision := &mockVision{}
	svc := newProfileService(repo, &mockMediaStore{}, vision, &mockPublisher{})

	details := completeBodyDetails()
	details.HairColor = "Red" // changed since last save

	req := &model.UpdateProfileRequest{
		Username:           "casey",
		ProfilePictureType: model.PictureTypeAI,
		BodyDetails:        details,
	}

	_, err := svc.Update(context.Background(), 7, req, nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if vision.avatarCalls != 1 {
		t.Errorf("avatar generations = %d, want 1 after body details changed", vision.avatarCalls)
	}
}

func TestProfileService_Update_NoAvatarChangeKeepsExisting(t *testing.T) {
	repo := &mockProfileRepo{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return storedProfile(userID), nil
		},
	}
	media := &mockMediaStore{}
	vision := &mockVision{}
	publisher := &mockPublisher{}
	svc := newProfileService(repo, media, vision, publisher)

	// Same body details, no pending avatar, no file: save text fields only
	req := &model.UpdateProfileRequest{
		Username:           "casey",
		Bio:                "fit enthusiast",
		ProfilePictureType: model.PictureTypeAI,
		BodyDetails:        completeBodyDetails(),
	}

	_, err := svc.Update(context.Background(), 7, req, nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if media.uploadCalls != 0 {
		t.Errorf("upload calls = %d, want 0", media.uploadCalls)
	}
	if vision.avatarCalls != 0 {
		t.Errorf("avatar generations = %d, want 0", vision.avatarCalls)
	}
	if len(publisher.events) != 0 {
		t.Errorf("cleanup events = %d, want 0", len(publisher.events))
	}
	if repo.updateCalls[0].AvatarURL == nil || *repo.updateCalls[0].AvatarURL != "https://cdn.example.com/avatars/old.jpg" {
		t.Error("existing avatar_url must be preserved")
	}
}

func TestProfileService_Update_ShortUsernameRejected(t *testing.T) {
	repo := &mockProfileRepo{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return storedProfile(userID), nil
		},
	}
	svc := newProfileService(repo, &mockMediaStore{}, &mockVision{}, &mockPublisher{})

	req := &model.UpdateProfileRequest{Username: "ab"}

	_, err := svc.Update(context.Background(), 7, req, nil, nil)
	if err != model.ErrUsernameTooShort {
		t.Fatalf("expected ErrUsernameTooShort, got: %v", err)
	}
	if len(repo.updateCalls) != 0 {
		t.Errorf("update calls = %d, want 0", len(repo.updateCalls))
	}
}

func TestProfileService_GenerateAvatar_RequiresCompleteDetails(t *testing.T) {
	vision := &mockVision{}
	svc := newProfileService(&mockProfileRepo{}, &mockMediaStore{}, vision, &mockPublisher{})

	details := completeBodyDetails()
	details.EyeColor = ""

	_, err := svc.GenerateAvatar(context.Background(), details)
	if err != model.ErrBodyDetailsIncomplete {
		t.Fatalf("expected ErrBodyDetailsIncomplete, got: %v", err)
	}
	if vision.avatarCalls != 0 {
		t.Errorf("avatar generations = %d, want 0", vision.avatarCalls)
	}
}

func TestProfileService_GenerateAvatar_MaleRequiresBeardLength(t *testing.T) {
	vision := &mockVision{}
	svc := newProfileService(&mockProfileRepo{}, &mockMediaStore{}, vision, &mockPublisher{})

	details := completeBodyDetails()
	details.Gender = "Male" // no BeardLength set

	if _, err := svc.GenerateAvatar(context.Background(), details); err != model.ErrBodyDetailsIncomplete {
		t.Fatalf("expected ErrBodyDetailsIncomplete, got: %v", err)
	}

	details.BeardLength = "Stubble"
	if _, err := svc.GenerateAvatar(context.Background(), details); err != nil {
		t.Fatalf("expected no error once beard length is set, got: %v", err)
	}
}
