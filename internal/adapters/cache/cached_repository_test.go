package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lendkite/loan-application-service/internal/adapters/cache"
	"github.com/lendkite/loan-application-service/internal/domain/loan"
	"github.com/lendkite/loan-application-service/internal/ports"
)

type fakeCache struct {
	entries map[string]string
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	value, ok := c.entries[key]
	if !ok {
		return "", ports.ErrCacheMiss
	}
	return value, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.sets++
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.deletes++
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

type stubRepo struct {
	app            *loan.Application
	saveCalls      int
	applicantCalls int
}

func (r *stubRepo) Save(_ context.Context, app *loan.Application) (*loan.Application, error) {
	r.saveCalls++
	r.app = app
	return app, nil
}

func (r *stubRepo) GetByID(_ context.Context, id uuid.UUID) (*loan.Application, error) {
	if r.app == nil || r.app.ID != id {
		return nil, loan.ErrNotFound
	}
	return r.app, nil
}

func (r *stubRepo) GetByApplicantID(_ context.Context, applicantID string) (*loan.Application, error) {
	r.applicantCalls++
	if r.app == nil || r.app.ApplicantID != applicantID {
		return nil, loan.ErrNotFound
	}
	return r.app, nil
}

func TestGetByApplicantIDCacheAside(t *testing.T) {
	t.Parallel()

	store := newFakeCache()
	repo := &stubRepo{app: loan.NewApplication("user_123", 10_000, 12)}
	cached := cache.NewCachedApplicationRepository(repo, store, time.Hour)

	// Miss populates the cache from the store.
	got, err := cached.GetByApplicantID(context.Background(), "user_123")
	if err != nil {
		t.Fatalf("expected hit via store, got %v", err)
	}
	if got.ApplicantID != "user_123" {
		t.Fatalf("unexpected applicant %q", got.ApplicantID)
	}
	if repo.applicantCalls != 1 || store.sets != 1 {
		t.Fatalf("expected one store read and one cache fill, got %d/%d", repo.applicantCalls, store.sets)
	}

	// Second read is served from cache without touching the store.
	if _, err := cached.GetByApplicantID(context.Background(), "user_123"); err != nil {
		t.Fatalf("expected cache hit, got %v", err)
	}
	if repo.applicantCalls != 1 {
		t.Fatalf("expected store untouched on cache hit, got %d calls", repo.applicantCalls)
	}
}

func TestGetByApplicantIDNeverCachesNegativeLookups(t *testing.T) {
	t.Parallel()

	store := newFakeCache()
	repo := &stubRepo{}
	cached := cache.NewCachedApplicationRepository(repo, store, time.Hour)

	for i := 0; i < 3; i++ {
		if _, err := cached.GetByApplicantID(context.Background(), "unknown"); !errors.Is(err, loan.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if repo.applicantCalls != 3 {
		t.Fatalf("expected every miss to consult the store, got %d calls", repo.applicantCalls)
	}
	if store.sets != 0 {
		t.Fatalf("expected no cache writes for negative lookups, got %d", store.sets)
	}
}

func TestSaveWritesThroughAfterStoreCommit(t *testing.T) {
	t.Parallel()

	store := newFakeCache()
	repo := &stubRepo{}
	cached := cache.NewCachedApplicationRepository(repo, store, time.Hour)

	app := loan.NewApplication("user_123", 10_000, 12)
	saved, err := cached.Save(context.Background(), app)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if repo.saveCalls != 1 || store.sets != 1 {
		t.Fatalf("expected store commit then cache fill, got %d/%d", repo.saveCalls, store.sets)
	}

	// The cached entry is the canonical saved entity.
	got, err := cached.GetByApplicantID(context.Background(), "user_123")
	if err != nil {
		t.Fatalf("read after save: %v", err)
	}
	if got.ID != saved.ID {
		t.Fatalf("expected cached entity %s, got %s", saved.ID, got.ID)
	}
	if repo.applicantCalls != 0 {
		t.Fatalf("expected read served from cache, store saw %d calls", repo.applicantCalls)
	}
}

func TestGetByIDBypassesCache(t *testing.T) {
	t.Parallel()

	store := newFakeCache()
	app := loan.NewApplication("user_123", 10_000, 12)
	repo := &stubRepo{app: app}
	cached := cache.NewCachedApplicationRepository(repo, store, time.Hour)

	got, err := cached.GetByID(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.ID != app.ID {
		t.Fatalf("unexpected application %s", got.ID)
	}
	if store.sets != 0 {
		t.Fatalf("expected id lookups to leave the cache alone, got %d writes", store.sets)
	}
}

func TestCorruptCacheEntryFallsThroughToStore(t *testing.T) {
	t.Parallel()

	store := newFakeCache()
	repo := &stubRepo{app: loan.NewApplication("user_123", 10_000, 12)}
	cached := cache.NewCachedApplicationRepository(repo, store, time.Hour)

	store.entries["loan_application:user_123"] = "{broken"

	got, err := cached.GetByApplicantID(context.Background(), "user_123")
	if err != nil {
		t.Fatalf("expected fallthrough to store, got %v", err)
	}
	if got.ApplicantID != "user_123" {
		t.Fatalf("unexpected applicant %q", got.ApplicantID)
	}
	if store.deletes != 1 {
		t.Fatalf("expected corrupt entry to be dropped, got %d deletes", store.deletes)
	}
	if repo.applicantCalls != 1 {
		t.Fatalf("expected one store read, got %d", repo.applicantCalls)
	}
}
