package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lendkite/loan-application-service/internal/domain/loan"
	"github.com/lendkite/loan-application-service/internal/ports"
)

const applicationKeyPrefix = "loan_application:"

// CachedApplicationRepository decorates a durable repository with a
// cache-aside read path and a write-through-after-commit write path. The
// cache is keyed by applicant, holding the most recently known application
// per applicant; id lookups therefore always bypass it. Negative lookups
// are never cached.
type CachedApplicationRepository struct {
	repo  ports.ApplicationRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachedApplicationRepository(repo ports.ApplicationRepository, cache ports.Cache, ttl time.Duration) *CachedApplicationRepository {
	return &CachedApplicationRepository{repo: repo, cache: cache, ttl: ttl}
}

func applicationKey(applicantID string) string {
	return applicationKeyPrefix + applicantID
}

// Save commits to the durable store first, then mirrors the canonical
// entity into the cache. Durability before cache visibility.
func (r *CachedApplicationRepository) Save(ctx context.Context, app *loan.Application) (*loan.Application, error) {
	saved, err := r.repo.Save(ctx, app)
	if err != nil {
		return nil, err
	}
	payload, err := loan.EncodeRecord(saved)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, applicationKey(saved.ApplicantID), string(payload), r.ttl); err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *CachedApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*loan.Application, error) {
	return r.repo.GetByID(ctx, id)
}

func (r *CachedApplicationRepository) GetByApplicantID(ctx context.Context, applicantID string) (*loan.Application, error) {
	key := applicationKey(applicantID)

	cached, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		app, decodeErr := loan.DecodeRecord([]byte(cached))
		if decodeErr == nil {
			return app, nil
		}
		// A corrupt entry is treated as a miss: drop it and fall through
		// to the durable store.
		_ = r.cache.Delete(ctx, key)
	case errors.Is(err, ports.ErrCacheMiss):
	default:
		return nil, err
	}

	app, err := r.repo.GetByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	payload, err := loan.EncodeRecord(app)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, string(payload), r.ttl); err != nil {
		return nil, err
	}
	return app, nil
}
