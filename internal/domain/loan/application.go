package loan

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Application is the aggregate root for one loan request. It is created
// pending by the submit flow, decisioned exactly once by the processor,
// and becomes durable only when a repository saves it.
type Application struct {
	ID              uuid.UUID
	ApplicantID     string
	Amount          float64
	TermMonths      int
	Status          Status
	CreatedAt       time.Time
	ProcessedAt     *time.Time
	RejectionReason *string
}

func NewApplication(applicantID string, amount float64, termMonths int) *Application {
	return &Application{
		ID:          uuid.New(),
		ApplicantID: applicantID,
		Amount:      amount,
		TermMonths:  termMonths,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

func (a *Application) reject(reason string) {
	a.Status = StatusRejected
	a.RejectionReason = &reason
}
