package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/lendkite/loan-application-service/internal/domain/loan"
)

type loanApplicationModel struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ApplicantID     string     `gorm:"column:applicant_id"`
	Amount          float64    `gorm:"column:amount"`
	TermMonths      int        `gorm:"column:term_months"`
	Status          string     `gorm:"column:status"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	ProcessedAt     *time.Time `gorm:"column:processed_at"`
	RejectionReason *string    `gorm:"column:rejection_reason"`
}

func (loanApplicationModel) TableName() string { return "loan_applications" }

func toModel(app *loan.Application) loanApplicationModel {
	return loanApplicationModel{
		ID:              app.ID,
		ApplicantID:     app.ApplicantID,
		Amount:          app.Amount,
		TermMonths:      app.TermMonths,
		Status:          string(app.Status),
		CreatedAt:       app.CreatedAt,
		ProcessedAt:     app.ProcessedAt,
		RejectionReason: app.RejectionReason,
	}
}

func toDomain(rec loanApplicationModel) *loan.Application {
	return &loan.Application{
		ID:              rec.ID,
		ApplicantID:     rec.ApplicantID,
		Amount:          rec.Amount,
		TermMonths:      rec.TermMonths,
		Status:          loan.Status(rec.Status),
		CreatedAt:       rec.CreatedAt,
		ProcessedAt:     rec.ProcessedAt,
		RejectionReason: rec.RejectionReason,
	}
}
