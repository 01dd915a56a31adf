// Package replace turns raw furniture detections into budget-bounded
// replacement suggestions.
package replace

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/roomcraft/designer/internal/catalog"
	"github.com/roomcraft/designer/internal/models"
)

// Engine allocates a budget across detected categories using a greedy
// cheapest-first policy. Safe for concurrent use; all state is per-call.
type Engine struct {
	catalog catalog.Catalog
}

func New(cat catalog.Catalog) *Engine {
	return &Engine{catalog: cat}
}

// candidateSet pairs a distinct category with its catalog candidates and the
// position the category first appeared in the detection sequence.
type candidateSet struct {
	category   string
	seenOrder  int
	candidates []models.CandidateItem
	cheapest   int
}

// SuggestReplacements picks at most one replacement item per distinct
// detected category such that the committed prices never exceed budget.
//
// Categories are deduplicated in first-seen order, then serviced in
// ascending order of their cheapest candidate price (ties broken by
// first-seen order) so cheaper categories are covered before the budget
// runs out. Within a category the cheapest affordable item wins; a category
// with no affordable item is skipped, never partially bought. A catalog
// failure for one category skips that category only.
func (e *Engine) SuggestReplacements(ctx context.Context, detections []models.Detection, budget int) ([]models.Suggestion, int, error) {
	if budget < 0 {
		return nil, 0, fmt.Errorf("budget must be non-negative, got %d", budget)
	}

	sets := e.collectCandidates(ctx, detections)

	sort.SliceStable(sets, func(i, j int) bool {
		if sets[i].cheapest != sets[j].cheapest {
			return sets[i].cheapest < sets[j].cheapest
		}
		return sets[i].seenOrder < sets[j].seenOrder
	})

	suggestions := []models.Suggestion{}
	remaining := budget
	for _, set := range sets {
		if remaining == 0 {
			break
		}
		item, ok := cheapestAffordable(set.candidates, remaining)
		if !ok {
			continue
		}
		suggestions = append(suggestions, models.Suggestion{
			Category: set.category,
			Name:     item.Name,
			Price:    item.Price,
		})
		remaining -= item.Price
	}
	return suggestions, remaining, nil
}

// collectCandidates deduplicates detections by category (first-seen order)
// and performs one catalog read per distinct category. Categories whose
// catalog read fails or returns nothing are dropped here.
func (e *Engine) collectCandidates(ctx context.Context, detections []models.Detection) []candidateSet {
	seen := make(map[string]bool, len(detections))
	var sets []candidateSet
	for _, det := range detections {
		if det.Category == "" || seen[det.Category] {
			continue
		}
		seen[det.Category] = true

		candidates, err := e.catalog.Candidates(ctx, det.Category)
		if err != nil {
			log.Printf("[replace] catalog unavailable for %q, skipping: %v", det.Category, err)
			continue
		}
		if len(candidates) == 0 {
			continue
		}
		sets = append(sets, candidateSet{
			category:   det.Category,
			seenOrder:  len(sets),
			candidates: candidates,
			cheapest:   cheapestPrice(candidates),
		})
	}
	return sets
}

func cheapestPrice(candidates []models.CandidateItem) int {
	min := candidates[0].Price
	for _, c := range candidates[1:] {
		if c.Price < min {
			min = c.Price
		}
	}
	return min
}

// cheapestAffordable returns the lowest-priced candidate whose price fits in
// the remaining budget. Equal prices resolve to the earlier catalog entry.
func cheapestAffordable(candidates []models.CandidateItem, remaining int) (models.CandidateItem, bool) {
	var best models.CandidateItem
	found := false
	for _, c := range candidates {
		if c.Price < 0 || c.Price > remaining {
			continue
		}
		if !found || c.Price < best.Price {
			best = c
			found = true
		}
	}
	return best, found
}
