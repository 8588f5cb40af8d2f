package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lendkite/loan-application-service/internal/application"
	"github.com/lendkite/loan-application-service/internal/domain/loan"
)

type Message struct {
	Topic   string
	Key     string
	Payload []byte
}

type Consumer interface {
	Poll(ctx context.Context, max int) ([]Message, error)
}

// ConsumerWorker drains the application topic sequentially. Every message
// is considered handled once attempted: a malformed record is logged and
// skipped, a persistence failure is logged and not retried.
type ConsumerWorker struct {
	logger   *slog.Logger
	consumer Consumer
	service  *application.Service
	interval time.Duration
}

func NewConsumerWorker(logger *slog.Logger, consumer Consumer, service *application.Service, interval time.Duration) *ConsumerWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &ConsumerWorker{
		logger: logger, consumer: consumer, service: service, interval: interval,
	}
}

func (w *ConsumerWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.processOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "consumer iteration failed",
				"module", "events.consumer_worker",
				"operation", "process_once",
				"outcome", "failure",
				"error", err,
			)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *ConsumerWorker) processOnce(ctx context.Context) error {
	msgs, err := w.consumer.Poll(ctx, 50)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		app, err := w.service.ProcessApplicationRecord(ctx, msg.Payload)
		if err != nil {
			var malformed *loan.MalformedRecordError
			if errors.As(err, &malformed) {
				w.logger.WarnContext(ctx, "skipping malformed application record",
					"applicant_id", msg.Key,
					"error", err,
				)
				continue
			}
			w.logger.ErrorContext(ctx, "failed to persist processed application",
				"applicant_id", msg.Key,
				"error", err,
			)
			continue
		}
		w.logger.InfoContext(ctx, "application processed",
			"application_id", app.ID,
			"applicant_id", app.ApplicantID,
			"status", app.Status,
		)
	}
	return nil
}
