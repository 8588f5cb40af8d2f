package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/lendkite/loan-application-service/internal/domain/loan"
)

// ApplicationRepository is the persistence contract for loan applications.
// Save is an upsert by id, so reprocessing a redelivered message is safe.
// GetByApplicantID returns the most recently created application for the
// applicant. Both lookups return loan.ErrNotFound when nothing matches.
type ApplicationRepository interface {
	Save(ctx context.Context, app *loan.Application) (*loan.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (*loan.Application, error)
	GetByApplicantID(ctx context.Context, applicantID string) (*loan.Application, error)
}
