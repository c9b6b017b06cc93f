package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/callsheet/production-system/internal/core/domain"
	"github.com/callsheet/production-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.Profile
	setErr   error // if set, Set returns this error
	getErr   error // if set, Get returns this error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) Set(_ context.Context, p *domain.Profile) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.profiles[p.UserID] = &clone
	return nil
}

func (r *stubProfileRepo) Get(_ context.Context, userID string) (*domain.Profile, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) seed(userID, fullName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[userID] = &domain.Profile{
		UserID:    userID,
		Email:     userID + "@example.com",
		FullName:  fullName,
		CreatedAt: time.Now().UTC(),
	}
}

// stubProductionRepo mirrors the conditional-write semantics of the real
// Mongo repository: ReplaceAdmins applies only when the expected version
// matches the stored one, under a lock, so interleaved writers conflict.
type stubProductionRepo struct {
	mu              sync.Mutex
	byID            map[string]*domain.Production
	nextID          int
	forcedConflicts int // ReplaceAdmins fails this many times before applying
	replaceCalls    int
}

func newStubProductionRepo() *stubProductionRepo {
	return &stubProductionRepo{byID: make(map[string]*domain.Production)}
}

func (r *stubProductionRepo) Insert(_ context.Context, p *domain.Production) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := fmt.Sprintf("prod_%03d", r.nextID)
	clone := *p
	clone.ID = id
	clone.Admins = append([]domain.Admin(nil), p.Admins...)
	r.byID[id] = &clone
	return id, nil
}

func (r *stubProductionRepo) FindByID(_ context.Context, id string) (*domain.Production, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductionNotFound
	}
	clone := *p
	clone.Admins = append([]domain.Admin(nil), p.Admins...)
	return &clone, nil
}

func (r *stubProductionRepo) FindVisibleTo(_ context.Context, userID string) ([]*domain.Production, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var visible []*domain.Production
	for _, p := range r.byID {
		if !p.VisibleTo(userID) {
			continue
		}
		clone := *p
		clone.Admins = append([]domain.Admin(nil), p.Admins...)
		visible = append(visible, &clone)
	}
	// newest first, as the real repository sorts
	for i := 0; i < len(visible); i++ {
		for j := i + 1; j < len(visible); j++ {
			if visible[j].CreatedAt.After(visible[i].CreatedAt) {
				visible[i], visible[j] = visible[j], visible[i]
			}
		}
	}
	return visible, nil
}

func (r *stubProductionRepo) ReplaceAdmins(_ context.Context, id string, expectedVersion int64, admins []domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceCalls++
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProductionNotFound
	}
	if r.forcedConflicts > 0 {
		r.forcedConflicts--
		return domain.ErrConcurrentUpdate
	}
	if p.Version != expectedVersion {
		return domain.ErrConcurrentUpdate
	}
	p.Admins = append([]domain.Admin(nil), admins...)
	p.Version++
	return nil
}

func (r *stubProductionRepo) seed(createdBy string, admins ...domain.Admin) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := fmt.Sprintf("prod_%03d", r.nextID)
	r.byID[id] = &domain.Production{
		ID:        id,
		Title:     "Seeded",
		Producer:  "Producer",
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
		Admins:    admins,
		Version:   1,
	}
	return id
}

type stubVisibilityCache struct {
	mu          sync.Mutex
	data        map[string][]*domain.Production
	invalidated []string
	getErr      error
}

func newStubVisibilityCache() *stubVisibilityCache {
	return &stubVisibilityCache{data: make(map[string][]*domain.Production)}
}

func (c *stubVisibilityCache) Get(_ context.Context, userID string) ([]*domain.Production, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[userID]
	return v, ok, nil
}

func (c *stubVisibilityCache) Set(_ context.Context, userID string, productions []*domain.Production) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[userID] = productions
	return nil
}

func (c *stubVisibilityCache) Invalidate(_ context.Context, userIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.data, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func newProductionFixture() (*stubProductionRepo, *stubProfileRepo, *ProductionService) {
	repo := newStubProductionRepo()
	profiles := newStubProfileRepo()
	svc := NewProductionService(repo, profiles, nil, discardLogger)
	return repo, profiles, svc
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestProductionService_Create_Success(t *testing.T) {
	repo, profiles, svc := newProductionFixture()
	profiles.seed("user_1", "Ada Lovelace")

	p, err := svc.Create(context.Background(), ports.CreateProductionInput{Title: "Hamlet", Producer: "Globe"}, "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ID == "" {
		t.Error("expected an assigned id")
	}
	if p.CreatedBy != "user_1" {
		t.Errorf("created_by: want %q, got %q", "user_1", p.CreatedBy)
	}
	if p.CreatedAt.IsZero() {
		t.Error("created_at must not be zero")
	}
	if len(p.Admins) != 1 || p.Admins[0].ID != "user_1" || p.Admins[0].Name != "Ada Lovelace" {
		t.Errorf("expected creator seeded as sole admin with profile name, got %+v", p.Admins)
	}

	stored, err := repo.FindByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("stored production not found: %v", err)
	}
	if stored.Title != "Hamlet" || stored.Producer != "Globe" {
		t.Errorf("stored fields wrong: %+v", stored)
	}
}

func TestProductionService_Create_NoProfile(t *testing.T) {
	_, _, svc := newProductionFixture()

	_, err := svc.Create(context.Background(), ports.CreateProductionInput{Title: "Hamlet", Producer: "Globe"}, "ghost")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// AddAdmin tests
// ---------------------------------------------------------------------------

func TestProductionService_AddAdmin_Success(t *testing.T) {
	repo, profiles, svc := newProductionFixture()
	profiles.seed("user_1", "Ada Lovelace")
	profiles.seed("user_2", "Grace Hopper")
	id := repo.seed("user_1", domain.Admin{ID: "user_1", Name: "Ada Lovelace"})

	if err := svc.AddAdmin(context.Background(), id, "user_2", "user_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), id)
	if len(stored.Admins) != 2 {
		t.Fatalf("expected 2 admins, got %d", len(stored.Admins))
	}
	if stored.Admins[1].ID != "user_2" || stored.Admins[1].Name != "Grace Hopper" {
		t.Errorf("appended admin wrong: %+v", stored.Admins[1])
	}
}

func TestProductionService_AddAdmin_Idempotent(t *testing.T) {
	repo, profiles, svc := newProductionFixture()
	profiles.seed("user_1", "Ada Lovelace")
	profiles.seed("user_2", "Grace Hopper")
	id := repo.seed("user_1", domain.Admin{ID: "user_1", Name: "Ada Lovelace"})

	if err := svc.AddAdmin(context.Background(), id, "user_2", "user_1"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := svc.AddAdmin(context.Background(), id, "user_2", "user_1"); err != nil {
		t.Fatalf("second add: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), id)
	count := 0
	for _, a := range stored.Admins {
		if a.ID == "user_2" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected user_2 to appear exactly once, got %d", count)
	}
}

func TestProductionService_AddAdmin_NotAuthorized(t *testing.T) {
	repo, profiles, svc := newProductionFixture()
	profiles.seed("user_2", "Grace Hopper")
	id := repo.seed("user_1", domain.Admin{ID: "user_1", Name: "Ada Lovelace"})

	err := svc.AddAdmin(context.Background(), id, "user_2", "intruder")
	if !errors.Is(err, domain.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), id)
	if len(stored.Admins) != 1 {
		t.Errorf("admin set must be unchanged, got %+v", stored.Admins)
	}
}

func TestProductionService_AddAdmin_TargetProfileMissing(t *testing.T) {
	repo, _, svc := newProductionFixture()
	id := repo.seed("user_1", domain.Admin{ID: "user_1", Name: "Ada Lovelace"})

	err := svc.AddAdmin(context.Background(), id, "ghost", "user_1")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProductionService_AddAdmin_ProductionMissing(t *testing.T) {
	_, profiles, svc := newProductionFixture()
	profiles.seed("user_2", "Grace Hopper")

	err := svc.AddAdmin(context.Background(), "prod_999", "user_2", "user_1")
	if !errors.Is(err, domain.ErrProductionNotFound) {
		t.Errorf("expected ErrProductionNotFound, got %v", err)
	}
}

func TestProductionService_AddAdmin_RetriesOnConflict(t *testing.T) {
	repo, profiles, svc := newProductionFixture()
	profiles.seed("user_1", "Ada Lovelace")
	profiles.seed("user_2", "Grace Hopper")
	id := repo.seed("user_1", domain.Admin{ID: "user_1", Name: "Ada Lovelace"})
	repo.forcedConflicts = 2

	if err := svc.AddAdmin(context.Background(), id, "user_2", "user_1"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if repo.replaceCalls != 3 {
		t.Errorf("expected 3 conditional writes (2 conflicts + 1 success), got %d", repo.replaceCalls)
	}

	stored, _ := repo.FindByID(context.Background(), id)
	if !stored.HasAdmin("user_2") {
		t.Error("user_2 missing after retried write")
	}
}

func TestProductionService_AddAdmin_ConflictRetriesExhausted(t *testing.T) {
	repo, profiles, svc := newProductionFixture()
	profiles.seed("user_1", "Ada Lovelace")
	profiles.seed("user_2", "Grace Hopper")
	id := repo.seed("user_1", domain.Admin{ID: "user_1", Name: "Ada Lovelace"})
	repo.forcedConflicts = maxAdminWriteAttempts + 1

	err := svc.AddAdmin(context.Background(), id, "user_2", "user_1")
	if !errors.Is(err, domain.ErrConcurrentUpdate) {
		t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
	}
	if repo.replaceCalls != maxAdminWriteAttempts {
		t.Errorf("expected exactly %d attempts, got %d", maxAdminWriteAttempts, repo.replaceCalls)
	}
}

// Two concurrent additions on the same production must both land: a naive
// read-modify-write would let one overwrite the other.
func TestProductionService_AddAdmin_ConcurrentAdditionsBothLand(t *testing.T) {
	repo, profiles, svc := newProductionFixture()
	profiles.seed("user_0", "Ada Lovelace")
	profiles.seed("user_1", "Grace Hopper")
	profiles.seed("user_2", "Margaret Hamilton")
	id := repo.seed("user_0", domain.Admin{ID: "user_0", Name: "Ada Lovelace"})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []string{"user_1", "user_2"} {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			errs[i] = svc.AddAdmin(context.Background(), id, userID, "user_0")
		}(i, userID)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent add %d failed: %v", i, err)
		}
	}

	stored, _ := repo.FindByID(context.Background(), id)
	for _, userID := range []string{"user_0", "user_1", "user_2"} {
		if !stored.HasAdmin(userID) {
			t.Errorf("admin %s lost under concurrency; final set: %+v", userID, stored.Admins)
		}
	}
}

// ---------------------------------------------------------------------------
// RemoveAdmin tests
// ---------------------------------------------------------------------------

func TestProductionService_RemoveAdmin_Success(t *testing.T) {
	repo, _, svc := newProductionFixture()
	id := repo.seed("user_1",
		domain.Admin{ID: "user_1", Name: "Ada Lovelace"},
		domain.Admin{ID: "user_2", Name: "Grace Hopper"},
	)

	if err := svc.RemoveAdmin(context.Background(), id, "user_2", "user_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), id)
	if len(stored.Admins) != 1 || stored.Admins[0].ID != "user_1" {
		t.Errorf("expected only user_1 left, got %+v", stored.Admins)
	}
}

func TestProductionService_RemoveAdmin_CreatorRemovable(t *testing.T) {
	repo, _, svc := newProductionFixture()
	id := repo.seed("user_1",
		domain.Admin{ID: "user_1", Name: "Ada Lovelace"},
		domain.Admin{ID: "user_2", Name: "Grace Hopper"},
	)

	// The creator may leave the admin set as long as someone remains.
	if err := svc.RemoveAdmin(context.Background(), id, "user_1", "user_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), id)
	if stored.HasAdmin("user_1") {
		t.Error("creator should have been removed from admins")
	}
	if len(stored.Admins) != 1 {
		t.Errorf("expected 1 admin left, got %d", len(stored.Admins))
	}
}

func TestProductionService_RemoveAdmin_LastAdmin(t *testing.T) {
	repo, _, svc := newProductionFixture()
	id := repo.seed("user_1", domain.Admin{ID: "user_1", Name: "Ada Lovelace"})

	err := svc.RemoveAdmin(context.Background(), id, "user_1", "user_1")
	if !errors.Is(err, domain.ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), id)
	if len(stored.Admins) != 1 || stored.Version != 1 {
		t.Errorf("document must be unchanged after refused removal, got %+v (version %d)", stored.Admins, stored.Version)
	}
}

func TestProductionService_RemoveAdmin_NotPresent_NoOp(t *testing.T) {
	repo, _, svc := newProductionFixture()
	id := repo.seed("user_1",
		domain.Admin{ID: "user_1", Name: "Ada Lovelace"},
		domain.Admin{ID: "user_2", Name: "Grace Hopper"},
	)

	if err := svc.RemoveAdmin(context.Background(), id, "stranger", "user_1"); err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), id)
	if len(stored.Admins) != 2 || stored.Version != 1 {
		t.Errorf("no-op removal must not write, got %+v (version %d)", stored.Admins, stored.Version)
	}
}

func TestProductionService_RemoveAdmin_NotAuthorized(t *testing.T) {
	repo, _, svc := newProductionFixture()
	id := repo.seed("user_1",
		domain.Admin{ID: "user_1", Name: "Ada Lovelace"},
		domain.Admin{ID: "user_2", Name: "Grace Hopper"},
	)

	err := svc.RemoveAdmin(context.Background(), id, "user_2", "intruder")
	if !errors.Is(err, domain.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Visibility tests
// ---------------------------------------------------------------------------

func TestProductionService_FetchVisibleTo_FiltersMembership(t *testing.T) {
	repo, _, svc := newProductionFixture()
	repo.seed("user_1", domain.Admin{ID: "user_1", Name: "Ada"})
	repo.seed("user_2", domain.Admin{ID: "user_2", Name: "Grace"})
	repo.seed("user_3",
		domain.Admin{ID: "user_3", Name: "Margaret"},
		domain.Admin{ID: "user_1", Name: "Ada"},
	)

	visible, err := svc.FetchVisibleTo(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible productions, got %d", len(visible))
	}
	for _, p := range visible {
		if !p.VisibleTo("user_1") {
			t.Errorf("production %s visible without membership", p.ID)
		}
	}
}

func TestProductionService_FetchVisibleTo_ServesFromCache(t *testing.T) {
	repo := newStubProductionRepo()
	profiles := newStubProfileRepo()
	cache := newStubVisibilityCache()
	svc := NewProductionService(repo, profiles, cache, discardLogger)

	cached := []*domain.Production{{ID: "prod_cached", CreatedBy: "user_1"}}
	_ = cache.Set(context.Background(), "user_1", cached)

	visible, err := svc.FetchVisibleTo(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != "prod_cached" {
		t.Errorf("expected cached listing, got %+v", visible)
	}
}

func TestProductionService_FetchVisibleTo_CacheFailureFallsThrough(t *testing.T) {
	repo := newStubProductionRepo()
	profiles := newStubProfileRepo()
	cache := newStubVisibilityCache()
	cache.getErr = errors.New("redis down")
	svc := NewProductionService(repo, profiles, cache, discardLogger)

	repo.seed("user_1", domain.Admin{ID: "user_1", Name: "Ada"})

	visible, err := svc.FetchVisibleTo(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("cache failure must not fail the read: %v", err)
	}
	if len(visible) != 1 {
		t.Errorf("expected repository listing, got %d items", len(visible))
	}
}

func TestProductionService_AddAdmin_InvalidatesTargetVisibility(t *testing.T) {
	repo := newStubProductionRepo()
	profiles := newStubProfileRepo()
	cache := newStubVisibilityCache()
	svc := NewProductionService(repo, profiles, cache, discardLogger)

	profiles.seed("user_2", "Grace Hopper")
	id := repo.seed("user_1", domain.Admin{ID: "user_1", Name: "Ada"})
	_ = cache.Set(context.Background(), "user_2", nil)

	if err := svc.AddAdmin(context.Background(), id, "user_2", "user_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cache.invalidated) != 1 || cache.invalidated[0] != "user_2" {
		t.Errorf("expected user_2 invalidated, got %v", cache.invalidated)
	}
}

// ---------------------------------------------------------------------------
// IsAdmin tests
// ---------------------------------------------------------------------------

func TestProductionService_IsAdmin(t *testing.T) {
	repo, _, svc := newProductionFixture()
	id := repo.seed("user_1", domain.Admin{ID: "user_1", Name: "Ada"})

	cases := []struct {
		productionID string
		userID       string
		want         bool
	}{
		{id, "user_1", true},
		{id, "user_2", false},
		{"prod_999", "user_1", false}, // unknown production is false, not an error
	}

	for _, tc := range cases {
		got, err := svc.IsAdmin(context.Background(), tc.productionID, tc.userID)
		if err != nil {
			t.Fatalf("IsAdmin(%s, %s): unexpected error: %v", tc.productionID, tc.userID, err)
		}
		if got != tc.want {
			t.Errorf("IsAdmin(%s, %s): want %v, got %v", tc.productionID, tc.userID, tc.want, got)
		}
	}
}
