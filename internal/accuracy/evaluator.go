package accuracy

import (
	"fmt"

	"ai-stock-forecaster/internal/types"
)

// DisplayUnavailable is shown when no prior range can be compared against.
const DisplayUnavailable = "N/A"

// Result pairs the tri-state accuracy status with the human-readable prior
// range for reports and the history ledger.
type Result struct {
	Status  types.AccuracyStatus
	Display string
}

// Evaluate compares today's realized price against the prior cycle's stored
// forecast range. Pure function, total over all inputs:
//   - no prior record, or a prior without both bounds: Unknown, "N/A"
//   - inverted bounds (low > high): Unknown; the producer never guaranteed
//     ordering, so this is tolerated rather than scored as a miss
//   - otherwise Hit iff low <= price <= high, inclusive on both ends
func Evaluate(prior *types.PredictionRecord, currentPrice float64) Result {
	if prior == nil || prior.IsError() {
		return Result{Status: types.AccuracyUnknown, Display: DisplayUnavailable}
	}

	low, high, ok := prior.Bounds()
	if !ok || low == nil || high == nil {
		return Result{Status: types.AccuracyUnknown, Display: DisplayUnavailable}
	}

	display := FormatRange(*low, *high)
	if *low > *high {
		return Result{Status: types.AccuracyUnknown, Display: display}
	}
	if *low <= currentPrice && currentPrice <= *high {
		return Result{Status: types.AccuracyHit, Display: display}
	}
	return Result{Status: types.AccuracyMiss, Display: display}
}

// FormatRange renders bounds as currency with two decimal places.
func FormatRange(low, high float64) string {
	return fmt.Sprintf("$%.2f - $%.2f", low, high)
}
