package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roomcraft/designer/internal/models"
)

// PGCatalog reads candidate items from Postgres. Schema:
//
//	catalog_items(id, category, name, price, priority)
type PGCatalog struct {
	db *sql.DB
}

func NewPGCatalog(db *sql.DB) *PGCatalog {
	return &PGCatalog{db: db}
}

func (c *PGCatalog) Candidates(ctx context.Context, category string) ([]models.CandidateItem, error) {
	const query = `
		SELECT category, name, price, priority
		FROM catalog_items
		WHERE category = $1
		ORDER BY priority, price
	`
	rows, err := c.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("%w: query candidates for %q: %v", ErrUnavailable, category, err)
	}
	defer rows.Close()

	var items []models.CandidateItem
	for rows.Next() {
		var item models.CandidateItem
		if err := rows.Scan(&item.Category, &item.Name, &item.Price, &item.Priority); err != nil {
			return nil, fmt.Errorf("%w: scan candidate: %v", ErrUnavailable, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate candidates: %v", ErrUnavailable, err)
	}
	return items, nil
}

func (c *PGCatalog) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return nil
}
