package service

import (
	"context"
	"log"

	"github.com/fitzty/fitzty-backend/internal/cache"
	"github.com/fitzty/fitzty-backend/internal/repository"
)

// BrandService serves the brand picker list through a short-TTL Redis cache.
type BrandService struct {
	brandRepo  repository.BrandRepository
	brandCache cache.BrandCache
}

func NewBrandService(brandRepo repository.BrandRepository, brandCache cache.BrandCache) *BrandService {
	return &BrandService{brandRepo: brandRepo, brandCache: brandCache}
}

// ListNames returns brand names in alphabetical order. Cache hit serves
// straight from Redis; a miss reads the table and warms the cache. A cache
// failure degrades to a plain database read.
func (s *BrandService) ListNames(ctx context.Context) ([]string, error) {
	names, found, err := s.brandCache.GetNames(ctx)
	if err != nil {
		log.Printf("[BrandService] brand cache read failed, falling back to db: %v", err)
	} else if found {
		return names, nil
	}

	names, err = s.brandRepo.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.brandCache.Warm(ctx, names); err != nil {
		log.Printf("[BrandService] failed to warm brand cache: %v", err)
	}

	return names, nil
}
