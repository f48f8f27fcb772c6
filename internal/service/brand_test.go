package service

import (
	"context"
	"errors"
	"testing"
)

func TestBrandService_ListNames_CacheHit(t *testing.T) {
	repo := &mockBrandRepo{
		listNamesFn: func(ctx context.Context) ([]string, error) {
			t.Fatal("cache hit must not reach the database")
			return nil, nil
		},
	}
	brandCache := &mockBrandCache{
		getNamesFn: func(ctx context.Context) ([]string, bool, error) {
			return []string{"Adidas", "Nike", "Zara"}, true, nil
		},
	}
	svc := NewBrandService(repo, brandCache)

	names, err := svc.ListNames(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(names) != 3 || names[0] != "Adidas" {
		t.Errorf("names = %v, want the cached list", names)
	}
}

func TestBrandService_ListNames_CacheMissWarms(t *testing.T) {
	repo := &mockBrandRepo{
		listNamesFn: func(ctx context.Context) ([]string, error) {
			return []string{"Levi's", "Uniqlo"}, nil
		},
	}
	brandCache := &mockBrandCache{}
	svc := NewBrandService(repo, brandCache)

	names, err := svc.ListNames(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("names = %v, want the database list", names)
	}
	if len(brandCache.warmCalls) != 1 {
		t.Errorf("warm calls = %d, want 1", len(brandCache.warmCalls))
	}
}

func TestBrandService_ListNames_CacheErrorFallsBack(t *testing.T) {
	repo := &mockBrandRepo{
		listNamesFn: func(ctx context.Context) ([]string, error) {
			return []string{"Nike"}, nil
		},
	}
	brandCache := &mockBrandCache{
		getNamesFn: func(ctx context.Context) ([]string, bool, error) {
			return nil, false, errors.New("redis down")
		},
	}
	svc := NewBrandService(repo, brandCache)

	names, err := svc.ListNames(context.Background())
	if err != nil {
		t.Fatalf("a cache failure must degrade to a db read, got: %v", err)
	}
	if len(names) != 1 || names[0] != "Nike" {
		t.Errorf("names = %v, want the database list", names)
	}
}
