package application

import (
	"context"
	"fmt"

	"github.com/lendkite/loan-application-service/internal/domain/loan"
	"github.com/lendkite/loan-application-service/internal/ports"
)

// Service carries the three orchestration flows: submit an application for
// asynchronous decisioning, look up the latest status for an applicant, and
// decision an inbound record from the topic.
type Service struct {
	repo      ports.ApplicationRepository
	publisher ports.EventPublisher
	processor *loan.Processor
}

type Dependencies struct {
	Repository ports.ApplicationRepository
	Publisher  ports.EventPublisher
	Processor  *loan.Processor
}

func NewService(deps Dependencies) *Service {
	return &Service{
		repo:      deps.Repository,
		publisher: deps.Publisher,
		processor: deps.Processor,
	}
}

// SubmitApplication validates a new application and hands it to the topic,
// keyed by applicant so all records for one applicant stay ordered. The
// returned entity is still pending: acceptance for processing, not a
// decision. Nothing is published when validation fails.
func (s *Service) SubmitApplication(ctx context.Context, req SubmitApplicationRequest) (*loan.Application, error) {
	app := loan.NewApplication(req.ApplicantID, req.Amount, req.TermMonths)
	if err := s.processor.Validate(app); err != nil {
		return nil, err
	}

	payload, err := loan.EncodeRecord(app)
	if err != nil {
		return nil, fmt.Errorf("encode application record: %w", err)
	}
	if err := s.publisher.Publish(ctx, EventTypeApplicationSubmitted, payload, app.ApplicantID); err != nil {
		return nil, fmt.Errorf("publish application: %w", err)
	}
	return app, nil
}

// GetApplicationStatus returns the latest known application for the
// applicant, or loan.ErrNotFound.
func (s *Service) GetApplicationStatus(ctx context.Context, applicantID string) (*loan.Application, error) {
	return s.repo.GetByApplicantID(ctx, applicantID)
}

// ProcessApplicationRecord decisions one inbound record and persists the
// outcome. Processing itself never fails; only a malformed payload or a
// persistence error is reported to the caller.
func (s *Service) ProcessApplicationRecord(ctx context.Context, payload []byte) (*loan.Application, error) {
	app, err := loan.DecodeRecord(payload)
	if err != nil {
		return nil, err
	}

	s.processor.Process(app)

	saved, err := s.repo.Save(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("save processed application %s: %w", app.ID, err)
	}
	return saved, nil
}
