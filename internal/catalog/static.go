package catalog

import (
	"context"

	"github.com/roomcraft/designer/internal/models"
)

// Static is an in-memory catalog seeded at construction. It is the default
// backend when no database is configured; reads never fail.
type Static struct {
	items map[string][]models.CandidateItem
}

// NewStatic builds a Static catalog from a category -> candidates table.
// The table is copied so later mutation by the caller has no effect.
func NewStatic(items map[string][]models.CandidateItem) *Static {
	copied := make(map[string][]models.CandidateItem, len(items))
	for category, candidates := range items {
		copied[category] = append([]models.CandidateItem(nil), candidates...)
	}
	return &Static{items: copied}
}

// NewDefaultStatic returns a Static catalog seeded with the built-in
// furniture price table.
func NewDefaultStatic() *Static {
	return NewStatic(defaultItems)
}

func (s *Static) Candidates(ctx context.Context, category string) ([]models.CandidateItem, error) {
	candidates, ok := s.items[category]
	if !ok {
		return nil, nil
	}
	return append([]models.CandidateItem(nil), candidates...), nil
}

var defaultItems = map[string][]models.CandidateItem{
	"sofa": {
		{Category: "sofa", Name: "Fabric 3-Seater Sofa", Price: 42000, Priority: 1},
		{Category: "sofa", Name: "Compact 2-Seater Sofa", Price: 28000, Priority: 2},
		{Category: "sofa", Name: "Sectional Corner Sofa", Price: 68000, Priority: 3},
	},
	"chair": {
		{Category: "chair", Name: "Accent Armchair", Price: 9500, Priority: 1},
		{Category: "chair", Name: "Wooden Dining Chair", Price: 4200, Priority: 2},
	},
	"table": {
		{Category: "table", Name: "Coffee Table", Price: 8000, Priority: 1},
		{Category: "table", Name: "Dining Table (4-Seater)", Price: 24000, Priority: 2},
	},
	"bed": {
		{Category: "bed", Name: "Queen Bed Frame", Price: 35000, Priority: 1},
		{Category: "bed", Name: "Single Bed Frame", Price: 18000, Priority: 2},
	},
	"lamp": {
		{Category: "lamp", Name: "Floor Lamp", Price: 3500, Priority: 1},
		{Category: "lamp", Name: "Table Lamp", Price: 1800, Priority: 2},
	},
	"tv_stand": {
		{Category: "tv_stand", Name: "TV Console Unit", Price: 12000, Priority: 1},
	},
	"bookshelf": {
		{Category: "bookshelf", Name: "5-Tier Bookshelf", Price: 11000, Priority: 1},
		{Category: "bookshelf", Name: "Cube Storage Shelf", Price: 7500, Priority: 2},
	},
	"rug": {
		{Category: "rug", Name: "Area Rug 5x8", Price: 6500, Priority: 1},
	},
}
