package domain

import "context"

// VisitorUsecase tracks total site visits. Best-effort: a lost increment is
// acceptable, an unavailable counter must never break the page.
type VisitorUsecase interface {
	// RecordVisit increments the counter and returns the new total.
	RecordVisit(ctx context.Context) (int64, error)
	// VisitCount returns the current total without incrementing.
	VisitCount(ctx context.Context) (int64, error)
}
