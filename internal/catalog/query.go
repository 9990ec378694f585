package catalog

import (
	"context"

	"github.com/couchcryptid/festival-guide/internal/domain"
)

// Filter returns the festivals of the current snapshot matching crit, in
// source order. The returned slice is shared with the query cache and must
// not be modified.
func (c *Catalog) Filter(ctx context.Context, crit domain.Criteria) ([]domain.Festival, error) {
	if err := crit.Validate(); err != nil {
		return nil, err
	}
	s, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}

	key := newFilterKey(s.Generation, crit)
	if out, ok := c.queries.get(key); ok {
		c.metrics.QueryCache.WithLabelValues("hit").Inc()
		return out, nil
	}
	c.metrics.QueryCache.WithLabelValues("miss").Inc()

	out := s.Dataset.Filter(crit)
	c.queries.put(key, out)
	c.metrics.FilterResultSize.Observe(float64(len(out)))
	return out, nil
}

// Ranking returns up to n festivals with the most foreign visitors.
func (c *Catalog) Ranking(ctx context.Context, n int) ([]domain.Festival, error) {
	s, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	return domain.TopVisitors(s.Dataset.Festivals, n), nil
}

// Seasonal returns the top n festivals of each season.
func (c *Catalog) Seasonal(ctx context.Context, n int) ([]domain.SeasonPicks, error) {
	s, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SeasonalTop(s.Dataset.Festivals, n), nil
}

// Regions lists the region filter options of the current snapshot.
func (c *Catalog) Regions(ctx context.Context) ([]string, error) {
	s, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Regions(s.Dataset.Festivals), nil
}

// Categories lists the category filter options of the current snapshot.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	s, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Categories(s.Dataset.Festivals), nil
}
