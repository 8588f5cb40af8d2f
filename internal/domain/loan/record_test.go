package loan_test

import (
	"errors"
	"testing"
	"time"

	"github.com/lendkite/loan-application-service/internal/domain/loan"
)

func TestRecordRoundTrip(t *testing.T) {
	t.Parallel()

	original := loan.NewApplication("user_123", 10_000, 12)
	processor := loan.NewProcessor(loan.Rules{
		MinAmount: 0, MaxAmount: 1_000_000,
		MinTermMonths: 1, MaxTermMonths: 60,
		ApprovalThreshold: 5_000,
	})
	processor.Process(original)

	payload, err := loan.EncodeRecord(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	rebuilt, err := loan.DecodeRecord(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if rebuilt.ID != original.ID {
		t.Fatalf("id mismatch: %s vs %s", rebuilt.ID, original.ID)
	}
	if rebuilt.ApplicantID != original.ApplicantID {
		t.Fatalf("applicant mismatch: %s vs %s", rebuilt.ApplicantID, original.ApplicantID)
	}
	if rebuilt.Amount != original.Amount || rebuilt.TermMonths != original.TermMonths {
		t.Fatalf("amount/term mismatch")
	}
	if rebuilt.Status != original.Status {
		t.Fatalf("status mismatch: %s vs %s", rebuilt.Status, original.Status)
	}
	if !rebuilt.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("createdAt mismatch: %v vs %v", rebuilt.CreatedAt, original.CreatedAt)
	}
	if rebuilt.ProcessedAt == nil || !rebuilt.ProcessedAt.Equal(*original.ProcessedAt) {
		t.Fatalf("processedAt mismatch: %v vs %v", rebuilt.ProcessedAt, original.ProcessedAt)
	}
	if (rebuilt.RejectionReason == nil) != (original.RejectionReason == nil) {
		t.Fatalf("rejection reason mismatch")
	}
	if rebuilt.RejectionReason != nil && *rebuilt.RejectionReason != *original.RejectionReason {
		t.Fatalf("rejection reason mismatch: %q vs %q", *rebuilt.RejectionReason, *original.RejectionReason)
	}
}

func TestFromRecordMissingRequiredFields(t *testing.T) {
	t.Parallel()

	applicant := "user_123"
	amount := 10_000.0
	term := 12

	cases := []struct {
		name string
		rec  loan.Record
	}{
		{"missing applicant_id", loan.Record{Amount: &amount, TermMonths: &term}},
		{"missing amount", loan.Record{ApplicantID: &applicant, TermMonths: &term}},
		{"missing term_months", loan.Record{ApplicantID: &applicant, Amount: &amount}},
	}
	for _, tc := range cases {
		if _, err := loan.FromRecord(tc.rec); err == nil {
			t.Fatalf("%s: expected MalformedRecordError", tc.name)
		} else {
			var malformed *loan.MalformedRecordError
			if !errors.As(err, &malformed) {
				t.Fatalf("%s: expected MalformedRecordError, got %v", tc.name, err)
			}
		}
	}
}

func TestFromRecordFallbacks(t *testing.T) {
	t.Parallel()

	applicant := "user_123"
	amount := 10_000.0
	term := 12

	start := time.Now().UTC()
	app, err := loan.FromRecord(loan.Record{
		ApplicantID: &applicant,
		Amount:      &amount,
		TermMonths:  &term,
	})
	if err != nil {
		t.Fatalf("expected fallbacks, got %v", err)
	}
	if app.Status != loan.StatusPending {
		t.Fatalf("expected pending status fallback, got %s", app.Status)
	}
	if app.CreatedAt.Before(start) {
		t.Fatalf("expected createdAt fallback to now, got %v", app.CreatedAt)
	}
	if app.ProcessedAt != nil {
		t.Fatalf("expected nil processedAt for absent field")
	}

	// A blank id gets a fresh one.
	if app.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected generated id")
	}
}

func TestFromRecordRejectsGarbage(t *testing.T) {
	t.Parallel()

	applicant := "user_123"
	amount := 10_000.0
	term := 12

	if _, err := loan.FromRecord(loan.Record{
		ID: "not-a-uuid", ApplicantID: &applicant, Amount: &amount, TermMonths: &term,
	}); err == nil {
		t.Fatalf("expected error for unparseable id")
	}
	if _, err := loan.FromRecord(loan.Record{
		ApplicantID: &applicant, Amount: &amount, TermMonths: &term, Status: "mystery",
	}); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if _, err := loan.DecodeRecord([]byte("{not json")); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}
