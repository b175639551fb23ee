package activity

import (
	"context"

	"sandra-backend/internal/shared/metrics"
	"sandra-backend/internal/shared/telemetry"
)

// Reporter is the best-effort front of the activity log. A failed write is
// logged and counted but never propagated, so logging problems cannot fail
// the operation that produced the event.
type Reporter struct {
	Svc *Service
}

// NewReporter constructs a Reporter.
func NewReporter(svc *Service) *Reporter {
	return &Reporter{Svc: svc}
}

// Report logs the event, swallowing any error. Safe on a nil receiver.
func (r *Reporter) Report(ctx context.Context, e Event) {
	if r == nil || r.Svc == nil {
		return
	}
	if _, err := r.Svc.Log(ctx, e); err != nil {
		metrics.IncActivityDropped()
		telemetry.Warn("activity.dropped", map[string]any{
			"type":       e.Type,
			"company_id": e.CompanyID,
			"user_id":    e.UserID,
			"error":      err.Error(),
		})
	}
}
