package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/queue"
)

// =============================================================================
// MOCKS
// =============================================================================
//
// Services depend on interfaces, so unit tests swap in mocks with
// per-test behavior defined through function fields. Call slices record
// what the service actually did for assertions.

type mockWardrobeRepo struct {
	createFn   func(ctx context.Context, item *model.WardrobeItem) error
	getByIDFn  func(ctx context.Context, itemID, userID int64) (*model.WardrobeItem, error)
	listFn     func(ctx context.Context, userID int64) ([]model.WardrobeItem, error)
	updateFn   func(ctx context.Context, itemID, userID int64, req *model.UpdateWardrobeItemRequest) (*model.WardrobeItem, error)
	deleteFn   func(ctx context.Context, itemID, userID int64) error
	existAllFn func(ctx context.Context, userID int64, itemIDs []int64) (bool, error)

	createCalls []*model.WardrobeItem
}

func (m *mockWardrobeRepo) Create(ctx context.Context, item *model.WardrobeItem) error {
	m.createCalls = append(m.createCalls, item)
	if m.createFn != nil {
		return m.createFn(ctx, item)
	}
	item.ID = int64(len(m.createCalls))
	return nil
}

func (m *mockWardrobeRepo) GetByID(ctx context.Context, itemID, userID int64) (*model.WardrobeItem, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, itemID, userID)
	}
	return nil, model.ErrWardrobeItemNotFound
}

func (m *mockWardrobeRepo) ListByUser(ctx context.Context, userID int64) ([]model.WardrobeItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockWardrobeRepo) Update(ctx context.Context, itemID, userID int64, req *model.UpdateWardrobeItemRequest) (*model.WardrobeItem, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, itemID, userID, req)
	}
	return nil, model.ErrWardrobeItemNotFound
}

func (m *mockWardrobeRepo) Delete(ctx context.Context, itemID, userID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, itemID, userID)
	}
	return nil
}

func (m *mockWardrobeRepo) ExistAllForUser(ctx context.Context, userID int64, itemIDs []int64) (bool, error) {
	if m.existAllFn != nil {
		return m.existAllFn(ctx, userID, itemIDs)
	}
	return true, nil
}

type mockBrandRepo struct {
	listNamesFn func(ctx context.Context) ([]string, error)
	insertFn    func(ctx context.Context, name string) error

	insertCalls []string
}

func (m *mockBrandRepo) ListNames(ctx context.Context) ([]string, error) {
	if m.listNamesFn != nil {
		return m.listNamesFn(ctx)
	}
	return nil, nil
}

func (m *mockBrandRepo) Insert(ctx context.Context, name string) error {
	m.insertCalls = append(m.insertCalls, name)
	if m.insertFn != nil {
		return m.insertFn(ctx, name)
	}
	return nil
}

type mockBrandCache struct {
	getNamesFn func(ctx context.Context) ([]string, bool, error)
	warmFn     func(ctx context.Context, names []string) error

	addCalls  []string
	warmCalls [][]string
}

func (m *mockBrandCache) GetNames(ctx context.Context) ([]string, bool, error) {
	if m.getNamesFn != nil {
		return m.getNamesFn(ctx)
	}
	return nil, false, nil
}

func (m *mockBrandCache) Warm(ctx context.Context, names []string) error {
	m.warmCalls = append(m.warmCalls, names)
	if m.warmFn != nil {
		return m.warmFn(ctx, names)
	}
	return nil
}

func (m *mockBrandCache) Add(ctx context.Context, name string) error {
	m.addCalls = append(m.addCalls, name)
	return nil
}

func (m *mockBrandCache) Invalidate(ctx context.Context) error {
	return nil
}

type mockMediaStore struct {
	uploadAvatarFn    func(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)
	uploadAvatarPNGFn func(ctx context.Context, data []byte) (*model.UploadResult, error)
	uploadFileFn      func(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)
	uploadReplicaFn   func(ctx context.Context, userID int64, dataURL string) (*model.UploadResult, error)
	keyFn             func(publicURL string) string

	uploadCalls int
	deleteCalls []string
}

func (m *mockMediaStore) UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	m.uploadCalls++
	if m.uploadAvatarFn != nil {
		return m.uploadAvatarFn(ctx, file, header)
	}
	return &model.UploadResult{URL: "https://cdn.example.com/avatars/a.jpg", Key: "avatars/a.jpg"}, nil
}

func (m *mockMediaStore) UploadAvatarPNG(ctx context.Context, data []byte) (*model.UploadResult, error) {
	m.uploadCalls++
	if m.uploadAvatarPNGFn != nil {
		return m.uploadAvatarPNGFn(ctx, data)
	}
	return &model.UploadResult{URL: "https://cdn.example.com/avatars/ai.png", Key: "avatars/ai.png"}, nil
}

func (m *mockMediaStore) UploadWardrobeFile(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	m.uploadCalls++
	if m.uploadFileFn != nil {
		return m.uploadFileFn(ctx, userID, file, header)
	}
	return &model.UploadResult{URL: "https://cdn.example.com/wardrobe/file.jpg", Key: "wardrobe/file.jpg"}, nil
}

func (m *mockMediaStore) UploadWardrobeReplica(ctx context.Context, userID int64, dataURL string) (*model.UploadResult, error) {
	m.uploadCalls++
	if m.uploadReplicaFn != nil {
		return m.uploadReplicaFn(ctx, userID, dataURL)
	}
	return &model.UploadResult{URL: "https://cdn.example.com/wardrobe/ai.png", Key: "wardrobe/ai.png"}, nil
}

func (m *mockMediaStore) DeleteObject(ctx context.Context, key string) error {
	m.deleteCalls = append(m.deleteCalls, key)
	return nil
}

func (m *mockMediaStore) KeyFromPublicURL(publicURL string) string {
	if m.keyFn != nil {
		return m.keyFn(publicURL)
	}
	// Same heuristic as the real store: last two path segments
	segments := bytes.Split([]byte(publicURL), []byte("/"))
	if len(segments) < 2 {
		return ""
	}
	return string(bytes.Join(segments[len(segments)-2:], []byte("/")))
}

type mockVision struct {
	analyzeFn         func(ctx context.Context, imageDataURL, action string) (string, error)
	generateReplicaFn func(ctx context.Context, imageDataURL string) (string, error)
	generateAvatarFn  func(ctx context.Context, details model.BodyDetails) (string, error)

	mu           sync.Mutex
	analyzeCalls []string // actions; guarded because Analyze runs concurrently
	avatarCalls  int
}

func (m *mockVision) Analyze(ctx context.Context, imageDataURL, action string) (string, error) {
	m.mu.Lock()
	m.analyzeCalls = append(m.analyzeCalls, action)
	m.mu.Unlock()
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, imageDataURL, action)
	}
	return "a result", nil
}

func (m *mockVision) GenerateReplica(ctx context.Context, imageDataURL string) (string, error) {
	if m.generateReplicaFn != nil {
		return m.generateReplicaFn(ctx, imageDataURL)
	}
	return "data:image/png;base64,AAAA", nil
}

func (m *mockVision) GenerateAvatar(ctx context.Context, details model.BodyDetails) (string, error) {
	m.avatarCalls++
	if m.generateAvatarFn != nil {
		return m.generateAvatarFn(ctx, details)
	}
	return "data:image/png;base64,AAAA", nil
}

type mockPublisher struct {
	publishFn func(ctx context.Context, stream string, event queue.CleanupEvent) (string, error)

	events []queue.CleanupEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.CleanupEvent) (string, error) {
	m.events = append(m.events, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, stream, event)
	}
	return "1-0", nil
}

type mockProfileRepo struct {
	createFn      func(ctx context.Context, tx *sqlx.Tx, profile *model.Profile) error
	getByUserIDFn func(ctx context.Context, userID int64) (*model.Profile, error)
	existsFn      func(ctx context.Context, username string) (bool, error)
	updateFn      func(ctx context.Context, profile *model.Profile) error

	existsCalls []string
	updateCalls []*model.Profile
}

func (m *mockProfileRepo) Create(ctx context.Context, tx *sqlx.Tx, profile *model.Profile) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, profile)
	}
	return nil
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, model.ErrProfileNotFound
}

func (m *mockProfileRepo) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	return nil, model.ErrProfileNotFound
}

func (m *mockProfileRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	m.existsCalls = append(m.existsCalls, username)
	if m.existsFn != nil {
		return m.existsFn(ctx, username)
	}
	return false, nil
}

func (m *mockProfileRepo) Update(ctx context.Context, profile *model.Profile) error {
	m.updateCalls = append(m.updateCalls, profile)
	if m.updateFn != nil {
		return m.updateFn(ctx, profile)
	}
	return nil
}

func (m *mockProfileRepo) IncrementFollowersCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error {
	return nil
}

func (m *mockProfileRepo) IncrementFollowingCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error {
	return nil
}

type mockUserRepo struct {
	createFn     func(ctx context.Context, tx *sqlx.Tx, user *model.User) error
	getByEmailFn func(ctx context.Context, email string) (*model.User, error)
	existsFn     func(ctx context.Context, email string) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, tx *sqlx.Tx, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, email)
	}
	return false, nil
}

// fakeFile satisfies multipart.File for tests; the mock store never reads it.
type fakeFile struct {
	*bytes.Reader
}

func newFakeFile(content string) multipart.File {
	return fakeFile{bytes.NewReader([]byte(content))}
}

func (fakeFile) Close() error { return nil }
