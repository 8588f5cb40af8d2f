package application

import (
	"github.com/google/uuid"
	"github.com/lendkite/loan-application-service/internal/domain/loan"
)

// EventTypeApplicationSubmitted is the logical event carrying a submitted
// application record; the publisher maps it to the configured topic.
const EventTypeApplicationSubmitted = "loan.application.submitted"

type SubmitApplicationRequest struct {
	ApplicantID string  `json:"applicantId"`
	Amount      float64 `json:"amount"`
	TermMonths  int     `json:"termMonths"`
}

type ApplicationResponse struct {
	ID              uuid.UUID `json:"id"`
	ApplicantID     string    `json:"applicantId"`
	Amount          float64   `json:"amount"`
	TermMonths      int       `json:"termMonths"`
	Status          string    `json:"status"`
	RejectionReason *string   `json:"rejectionReason"`
}

func ToApplicationResponse(app *loan.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:              app.ID,
		ApplicantID:     app.ApplicantID,
		Amount:          app.Amount,
		TermMonths:      app.TermMonths,
		Status:          string(app.Status),
		RejectionReason: app.RejectionReason,
	}
}
