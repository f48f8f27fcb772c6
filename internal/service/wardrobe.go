package service

import (
	"context"
	"log"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/fitzty/fitzty-backend/internal/cache"
	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/queue"
	"github.com/fitzty/fitzty-backend/internal/repository"
)

// WardrobeService handles the wardrobe item lifecycle: create (normal and
// AI modes), list, edit, delete, and the AI-assisted analyze call.
type WardrobeService struct {
	wardrobeRepo repository.WardrobeRepository
	brandRepo    repository.BrandRepository
	brandCache   cache.BrandCache
	media        MediaStore
	vision       ClothingVision
	publisher    queue.Publisher
}

func NewWardrobeService(
	wardrobeRepo repository.WardrobeRepository,
	brandRepo repository.BrandRepository,
	brandCache cache.BrandCache,
	media MediaStore,
	vision ClothingVision,
	publisher queue.Publisher,
) *WardrobeService {
	return &WardrobeService{
		wardrobeRepo: wardrobeRepo,
		brandRepo:    brandRepo,
		brandCache:   brandCache,
		media:        media,
		vision:       vision,
		publisher:    publisher,
	}
}

// Create validates the save preconditions, uploads the image, lazily inserts
// a custom brand, and inserts the item row. Validation failures happen before
// any storage or database call. If the row insert fails after the upload
// succeeded, the object is handed to the cleanup stream and the error is
// returned as-is.
func (s *WardrobeService) Create(ctx context.Context, userID int64, req *model.CreateWardrobeItemRequest, file multipart.File, header *multipart.FileHeader) (*model.WardrobeItem, error) {
	brand := strings.TrimSpace(req.FinalBrand())

	if strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.ClothingType) == "" ||
		brand == "" ||
		strings.TrimSpace(req.Size) == "" {
		return nil, model.ErrMissingItemFields
	}

	var (
		upload *model.UploadResult
		err    error
	)
	switch req.UploadType {
	case model.UploadTypeAI:
		if req.AIImageDataURL == "" {
			return nil, model.ErrMissingItemImage
		}
		upload, err = s.media.UploadWardrobeReplica(ctx, userID, req.AIImageDataURL)
	default:
		if file == nil {
			return nil, model.ErrMissingItemImage
		}
		req.UploadType = model.UploadTypeNormal
		upload, err = s.media.UploadWardrobeFile(ctx, userID, file, header)
	}
	if err != nil {
		return nil, err
	}

	if req.CustomBrand != "" {
		s.ensureBrand(ctx, brand)
	}

	item := &model.WardrobeItem{
		UserID:       userID,
		ImageURL:     upload.URL,
		Description:  req.Description,
		ClothingType: req.ClothingType,
		Brand:        brand,
		Size:         req.Size,
		UploadType:   req.UploadType,
	}

	if err := s.wardrobeRepo.Create(ctx, item); err != nil {
		if _, pubErr := s.publisher.Publish(ctx, queue.StreamCleanup,
			queue.NewObjectOrphanedEvent(upload.Key, userID, "wardrobe insert failed")); pubErr != nil {
			log.Printf("[WardrobeService] failed to enqueue orphan cleanup for %s: %v", upload.Key, pubErr)
		}
		return nil, err
	}

	return item, nil
}

// ensureBrand inserts a typed custom brand and appends it to the cache.
// Best-effort: a failure here never blocks the item save.
func (s *WardrobeService) ensureBrand(ctx context.Context, name string) {
	if err := s.brandRepo.Insert(ctx, name); err != nil {
		log.Printf("[WardrobeService] failed to insert brand %q: %v", name, err)
		return
	}
	if err := s.brandCache.Add(ctx, name); err != nil {
		log.Printf("[WardrobeService] failed to cache brand %q: %v", name, err)
	}
}

// List returns all of the user's items, newest first.
func (s *WardrobeService) List(ctx context.Context, userID int64) ([]model.WardrobeItem, error) {
	return s.wardrobeRepo.ListByUser(ctx, userID)
}

// Get returns a single item, owner-scoped.
func (s *WardrobeService) Get(ctx context.Context, itemID, userID int64) (*model.WardrobeItem, error) {
	return s.wardrobeRepo.GetByID(ctx, itemID, userID)
}

// Update edits the four text fields in one statement. The image is immutable.
func (s *WardrobeService) Update(ctx context.Context, itemID, userID int64, req *model.UpdateWardrobeItemRequest) (*model.WardrobeItem, error) {
	if strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.ClothingType) == "" ||
		strings.TrimSpace(req.Brand) == "" ||
		strings.TrimSpace(req.Size) == "" {
		return nil, model.ErrMissingItemFields
	}
	return s.wardrobeRepo.Update(ctx, itemID, userID, req)
}

// Delete removes the row and enqueues best-effort removal of its object.
// The row delete is authoritative; a failed enqueue only leaves an
// unreferenced object behind.
func (s *WardrobeService) Delete(ctx context.Context, itemID, userID int64) error {
	item, err := s.wardrobeRepo.GetByID(ctx, itemID, userID)
	if err != nil {
		return err
	}

	if err := s.wardrobeRepo.Delete(ctx, itemID, userID); err != nil {
		return err
	}

	if key := s.media.KeyFromPublicURL(item.ImageURL); key != "" {
		if _, err := s.publisher.Publish(ctx, queue.StreamCleanup,
			queue.NewObjectDeleteEvent(key, userID)); err != nil {
			log.Printf("[WardrobeService] failed to enqueue object cleanup for %s: %v", key, err)
		}
	}

	return nil
}

// Analyze runs the description and type-detection calls concurrently against
// the same image. The join is all-or-nothing: if either call fails, both
// results are discarded.
func (s *WardrobeService) Analyze(ctx context.Context, imageDataURL string) (*model.AnalyzeItemResult, error) {
	if imageDataURL == "" {
		return nil, model.ErrMissingItemImage
	}

	var (
		wg                    sync.WaitGroup
		description, itemType string
		descErr, typeErr      error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		description, descErr = s.vision.Analyze(ctx, imageDataURL, model.ActionAnalyzeDescription)
	}()
	go func() {
		defer wg.Done()
		itemType, typeErr = s.vision.Analyze(ctx, imageDataURL, model.ActionDetectType)
	}()
	wg.Wait()

	if descErr != nil {
		return nil, descErr
	}
	if typeErr != nil {
		return nil, typeErr
	}

	return &model.AnalyzeItemResult{
		Description:  description,
		ClothingType: strings.ToLower(strings.TrimSpace(itemType)),
	}, nil
}
