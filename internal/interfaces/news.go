package interfaces

import "context"

// HeadlineSource fetches recent headlines for a symbol. Best-effort: callers
// treat any failure as an enrichment gap, never as a hard dependency.
type HeadlineSource interface {
	Headlines(ctx context.Context, symbol string) ([]string, error)
}
