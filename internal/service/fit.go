package service

import (
	"context"
	"sync"

	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/repository"
)

// FitService is the in-memory outfit composer. Fits and fit posts live only
// for the lifetime of the process; a restart empties the store. Item
// ownership is verified against the wardrobe table at creation time.
type FitService struct {
	wardrobeRepo repository.WardrobeRepository

	mu     sync.Mutex
	nextID int64
	fits   map[int64][]model.Fit     // keyed by user ID
	posts  map[int64][]model.FitPost // keyed by user ID
}

func NewFitService(wardrobeRepo repository.WardrobeRepository) *FitService {
	return &FitService{
		wardrobeRepo: wardrobeRepo,
		fits:         make(map[int64][]model.Fit),
		posts:        make(map[int64][]model.FitPost),
	}
}

// Create composes a new fit from owned wardrobe items.
func (s *FitService) Create(ctx context.Context, userID int64, req *model.CreateFitRequest) (*model.Fit, error) {
	if len(req.WardrobeItemIDs) < model.MinFitItems {
		return nil, model.ErrTooFewFitItems
	}

	owned, err := s.wardrobeRepo.ExistAllForUser(ctx, userID, req.WardrobeItemIDs)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, model.ErrWardrobeItemNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	fit := model.Fit{
		ID:              s.nextID,
		Name:            req.Name,
		WardrobeItemIDs: append([]int64(nil), req.WardrobeItemIDs...),
	}
	s.fits[userID] = append(s.fits[userID], fit)

	return &fit, nil
}

// List returns the user's composed fits in creation order.
func (s *FitService) List(_ context.Context, userID int64) []model.Fit {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Fit, len(s.fits[userID]))
	copy(out, s.fits[userID])
	return out
}

// Post copies a fit into the user's posts list. The fit stays composable.
func (s *FitService) Post(_ context.Context, userID, fitID int64) (*model.FitPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, fit := range s.fits[userID] {
		if fit.ID == fitID {
			s.nextID++
			post := model.FitPost{
				ID:              s.nextID,
				Name:            fit.Name,
				WardrobeItemIDs: append([]int64(nil), fit.WardrobeItemIDs...),
			}
			s.posts[userID] = append(s.posts[userID], post)
			return &post, nil
		}
	}

	return nil, model.ErrFitNotFound
}

// ListPosts returns the user's posted fits in posting order.
func (s *FitService) ListPosts(_ context.Context, userID int64) []model.FitPost {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.FitPost, len(s.posts[userID]))
	copy(out, s.posts[userID])
	return out
}

// Delete removes a composed fit. Posts made from it are unaffected.
func (s *FitService) Delete(_ context.Context, userID, fitID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fits := s.fits[userID]
	for i, fit := range fits {
		if fit.ID == fitID {
			s.fits[userID] = append(fits[:i], fits[i+1:]...)
			return nil
		}
	}
	return model.ErrFitNotFound
}
