package loan

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rules are the configured business bounds, immutable for the process
// lifetime and shared read-only by every processor instance.
type Rules struct {
	MinAmount         float64
	MaxAmount         float64
	MinTermMonths     int
	MaxTermMonths     int
	ApprovalThreshold float64
}

// Processor holds the validation and decision logic for applications.
// The submit path uses Validate and fails fast; the consume path uses
// Process, which never fails and always produces a terminal status.
type Processor struct {
	rules Rules
	nowFn func() time.Time
}

func NewProcessor(rules Rules) *Processor {
	return &Processor{rules: rules, nowFn: func() time.Time { return time.Now().UTC() }}
}

// checkRules reports the first violated rule, or nil. Both Validate and
// Process share it so their differing failure policies stay in the callers.
func (p *Processor) checkRules(app *Application) *ValidationError {
	if strings.TrimSpace(app.ApplicantID) == "" {
		return &ValidationError{Field: "applicantId", Message: "Applicant ID is required"}
	}
	if app.Amount <= p.rules.MinAmount {
		return &ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("Amount must be greater than %s", formatAmount(p.rules.MinAmount)),
		}
	}
	if app.Amount > p.rules.MaxAmount {
		return &ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("Amount must not exceed %s", formatAmount(p.rules.MaxAmount)),
		}
	}
	if app.TermMonths < p.rules.MinTermMonths || app.TermMonths > p.rules.MaxTermMonths {
		return &ValidationError{
			Field:   "termMonths",
			Message: fmt.Sprintf("Term must be between %d and %d months", p.rules.MinTermMonths, p.rules.MaxTermMonths),
		}
	}
	return nil
}

func (p *Processor) Validate(app *Application) error {
	if violation := p.checkRules(app); violation != nil {
		return violation
	}
	return nil
}

// DetermineStatus is pure: approved when the amount does not exceed the
// configured threshold (inclusive), rejected otherwise.
func (p *Processor) DetermineStatus(app *Application) Status {
	if app.Amount <= p.rules.ApprovalThreshold {
		return StatusApproved
	}
	return StatusRejected
}

// Process decisions an application in place and returns it. A validation
// failure is folded into a rejected status instead of propagating, so the
// consuming path never drops a message without a decision. ProcessedAt is
// stamped exactly once, as the final step.
func (p *Processor) Process(app *Application) *Application {
	if violation := p.checkRules(app); violation != nil {
		app.reject(violation.Message)
	} else {
		app.Status = p.DetermineStatus(app)
		if app.Status == StatusRejected {
			app.reject(fmt.Sprintf("Amount exceeds approval threshold of %s", formatAmount(p.rules.ApprovalThreshold)))
		}
	}
	now := p.nowFn()
	app.ProcessedAt = &now
	return app
}

// formatAmount renders a bound without exponent notation so messages stay
// readable for large configured limits.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
