package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/lendkite/loan-application-service/internal/domain/loan"
)

// ApplicationRepository is an in-memory implementation of the repository
// contract, used when no database is configured and by handler tests.
type ApplicationRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]loan.Application
}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{byID: make(map[uuid.UUID]loan.Application)}
}

func (r *ApplicationRepository) Save(_ context.Context, app *loan.Application) (*loan.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[app.ID] = *app
	stored := r.byID[app.ID]
	return &stored, nil
}

func (r *ApplicationRepository) GetByID(_ context.Context, id uuid.UUID) (*loan.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.byID[id]
	if !ok {
		return nil, loan.ErrNotFound
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByApplicantID(_ context.Context, applicantID string) (*loan.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *loan.Application
	for id := range r.byID {
		app := r.byID[id]
		if app.ApplicantID != applicantID {
			continue
		}
		if latest == nil || app.CreatedAt.After(latest.CreatedAt) {
			latest = &app
		}
	}
	if latest == nil {
		return nil, loan.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}
