// Package catalog supplies candidate replacement items per furniture
// category. Implementations must be safe for concurrent use.
package catalog

import (
	"context"
	"errors"

	"github.com/roomcraft/designer/internal/models"
)

// ErrUnavailable indicates the catalog could not answer for a category at
// all (as opposed to knowing no candidates, which is an empty slice).
var ErrUnavailable = errors.New("catalog unavailable")

type Catalog interface {
	// Candidates returns the replacement options for a category. An empty
	// slice means the category has no known replacements. Errors wrap
	// ErrUnavailable when the backing source cannot be reached.
	Candidates(ctx context.Context, category string) ([]models.CandidateItem, error)
}
