package loan

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is the transport snapshot of an Application, carried through the
// message topic and the cache as JSON. Required fields are pointers so a
// missing field is distinguishable from a zero value on decode.
type Record struct {
	ID              string   `json:"id,omitempty"`
	ApplicantID     *string  `json:"applicant_id"`
	Amount          *float64 `json:"amount"`
	TermMonths      *int     `json:"term_months"`
	Status          string   `json:"status,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
	ProcessedAt     string   `json:"processed_at,omitempty"`
	RejectionReason *string  `json:"rejection_reason,omitempty"`
}

func (a *Application) Record() Record {
	rec := Record{
		ID:              a.ID.String(),
		ApplicantID:     &a.ApplicantID,
		Amount:          &a.Amount,
		TermMonths:      &a.TermMonths,
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt.Format(time.RFC3339Nano),
		RejectionReason: a.RejectionReason,
	}
	if a.ProcessedAt != nil {
		rec.ProcessedAt = a.ProcessedAt.Format(time.RFC3339Nano)
	}
	return rec
}

// FromRecord rebuilds an Application from a transport snapshot. Absent
// timestamps fall back to now and an absent status falls back to pending;
// the fields a decision cannot be made without are hard errors.
func FromRecord(rec Record) (*Application, error) {
	if rec.ApplicantID == nil {
		return nil, &MalformedRecordError{Reason: "missing applicant_id"}
	}
	if rec.Amount == nil {
		return nil, &MalformedRecordError{Reason: "missing amount"}
	}
	if rec.TermMonths == nil {
		return nil, &MalformedRecordError{Reason: "missing term_months"}
	}

	id := uuid.New()
	if rec.ID != "" {
		parsed, err := uuid.Parse(rec.ID)
		if err != nil {
			return nil, &MalformedRecordError{Reason: "invalid id: " + rec.ID}
		}
		id = parsed
	}

	status := StatusPending
	if rec.Status != "" {
		switch Status(rec.Status) {
		case StatusPending, StatusApproved, StatusRejected:
			status = Status(rec.Status)
		default:
			return nil, &MalformedRecordError{Reason: "unknown status: " + rec.Status}
		}
	}

	createdAt := time.Now().UTC()
	if parsed, err := time.Parse(time.RFC3339Nano, rec.CreatedAt); err == nil {
		createdAt = parsed
	}

	var processedAt *time.Time
	if parsed, err := time.Parse(time.RFC3339Nano, rec.ProcessedAt); err == nil {
		processedAt = &parsed
	}

	return &Application{
		ID:              id,
		ApplicantID:     *rec.ApplicantID,
		Amount:          *rec.Amount,
		TermMonths:      *rec.TermMonths,
		Status:          status,
		CreatedAt:       createdAt,
		ProcessedAt:     processedAt,
		RejectionReason: rec.RejectionReason,
	}, nil
}

// DecodeRecord parses a JSON payload into an Application.
func DecodeRecord(payload []byte) (*Application, error) {
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, &MalformedRecordError{Reason: "invalid json: " + err.Error()}
	}
	return FromRecord(rec)
}

// EncodeRecord serializes an Application for the topic or the cache.
func EncodeRecord(a *Application) ([]byte, error) {
	return json.Marshal(a.Record())
}
