package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lendkite/loan-application-service/internal/domain/loan"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Save upserts by id: a redelivered message reprocessing the same
// application overwrites the mutable fields in place.
func (r *ApplicationRepository) Save(ctx context.Context, app *loan.Application) (*loan.Application, error) {
	rec := toModel(app)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"applicant_id":     rec.ApplicantID,
			"amount":           rec.Amount,
			"term_months":      rec.TermMonths,
			"status":           rec.Status,
			"processed_at":     rec.ProcessedAt,
			"rejection_reason": rec.RejectionReason,
		}),
	}).Create(&rec).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, app.ID)
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*loan.Application, error) {
	var rec loanApplicationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return toDomain(rec), nil
}

func (r *ApplicationRepository) GetByApplicantID(ctx context.Context, applicantID string) (*loan.Application, error) {
	var rec loanApplicationModel
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return toDomain(rec), nil
}
