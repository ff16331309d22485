package domain

import "context"

// SummarySource supplies the warehouse summaries for every region in a scope.
type SummarySource interface {
	FetchSummaries(ctx context.Context, scope Scope) ([]RegionSummary, error)
}
