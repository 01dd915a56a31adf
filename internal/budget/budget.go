package budget

import (
	"errors"
	"fmt"
)

// ErrUnknownStyle is returned when a style label is not in the estimate table.
var ErrUnknownStyle = errors.New("unknown style")

// Status classifies an estimated cost against a user budget.
type Status string

const (
	StatusWithinBudget Status = "within_budget"
	StatusTight        Status = "tight"
	StatusOverBudget   Status = "over_budget"
)

// Flat project-cost estimates per design style, in currency units.
var styleEstimates = map[string]int{
	"Minimalist":   150000,
	"Modern":       250000,
	"Vintage":      200000,
	"Professional": 300000,
}

const defaultTightMargin = 0.10

// Estimator maps design styles to flat cost estimates and classifies them
// against a budget. It is stateless apart from the configured tight margin.
type Estimator struct {
	tightMargin float64
}

// New returns an Estimator. tightMargin is the fraction by which the estimate
// may exceed the budget and still be considered "tight" rather than over;
// values <= 0 fall back to the default 10%.
func New(tightMargin float64) *Estimator {
	if tightMargin <= 0 {
		tightMargin = defaultTightMargin
	}
	return &Estimator{tightMargin: tightMargin}
}

// EstimateCost returns the flat cost estimate for a style. There is no
// fallback for unrecognized styles; callers decide their own policy.
func (e *Estimator) EstimateCost(style string) (int, error) {
	cost, ok := styleEstimates[style]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	return cost, nil
}

// CheckBudgetStatus compares an estimated cost against a budget. Pure.
func (e *Estimator) CheckBudgetStatus(estimatedCost, budget int) Status {
	if estimatedCost <= budget {
		return StatusWithinBudget
	}
	if float64(estimatedCost) <= float64(budget)*(1+e.tightMargin) {
		return StatusTight
	}
	return StatusOverBudget
}

// Styles returns the known style labels, for request validation.
func Styles() []string {
	out := make([]string, 0, len(styleEstimates))
	for s := range styleEstimates {
		out = append(out, s)
	}
	return out
}
