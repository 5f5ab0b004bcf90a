// Package catalog holds the immutable in-memory market catalog and its pure
// query functions: category filtering, free-text search, slug resolution, and
// display formatting.
package catalog

import (
	"fmt"
	"strings"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// Catalog is the fixed market list, indexed for ID and slug lookups. It is
// built once at startup and never mutated, so it is safe for concurrent use
// without locking.
type Catalog struct {
	markets    []domain.Market
	byID       map[string]int
	bySlug     map[string]int
	categories []string
}

// New validates the seed markets, derives their slugs, and builds the
// catalog. It fails fast on duplicate IDs, empty category sets, out-of-range
// probabilities, negative volumes, and slug collisions between
// differently-titled markets.
func New(markets []domain.Market, categories []string) (*Catalog, error) {
	c := &Catalog{
		markets:    make([]domain.Market, 0, len(markets)),
		byID:       make(map[string]int, len(markets)),
		bySlug:     make(map[string]int, len(markets)),
		categories: categories,
	}

	for _, m := range markets {
		if m.ID == "" {
			return nil, fmt.Errorf("catalog: market %q has no id", m.Title)
		}
		if _, dup := c.byID[m.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate market id %q", m.ID)
		}
		if len(m.Categories) == 0 {
			return nil, fmt.Errorf("catalog: market %s has no categories", m.ID)
		}
		if m.YesPercentage < 0 || m.YesPercentage > 100 {
			return nil, fmt.Errorf("catalog: market %s yes_percentage %d out of range", m.ID, m.YesPercentage)
		}
		if m.Volume < 0 {
			return nil, fmt.Errorf("catalog: market %s has negative volume", m.ID)
		}

		m.Slug = Slugify(m.Title)
		if m.Slug == "" {
			return nil, fmt.Errorf("catalog: market %s title slugifies to nothing", m.ID)
		}
		if prev, dup := c.bySlug[m.Slug]; dup {
			return nil, fmt.Errorf("catalog: %w: markets %s and %s both normalise to %q",
				domain.ErrSlugConflict, c.markets[prev].ID, m.ID, m.Slug)
		}

		idx := len(c.markets)
		c.markets = append(c.markets, m)
		c.byID[m.ID] = idx
		c.bySlug[m.Slug] = idx
	}

	return c, nil
}

// All returns every market in insertion order. The returned slice is shared;
// callers must not mutate it.
func (c *Catalog) All() []domain.Market {
	return c.markets
}

// Len returns the number of markets.
func (c *Catalog) Len() int {
	return len(c.markets)
}

// Categories returns the fixed category taxonomy.
func (c *Catalog) Categories() []string {
	return c.categories
}

// ByID looks a market up by its stable identifier.
func (c *Catalog) ByID(id string) (domain.Market, error) {
	idx, ok := c.byID[id]
	if !ok {
		return domain.Market{}, domain.ErrNotFound
	}
	return c.markets[idx], nil
}

// BySlug resolves a navigation slug back to its market. A miss is a valid
// outcome, reported as domain.ErrNotFound, which callers render as an empty
// state rather than a failure.
func (c *Catalog) BySlug(slug string) (domain.Market, error) {
	idx, ok := c.bySlug[slug]
	if !ok {
		return domain.Market{}, domain.ErrNotFound
	}
	return c.markets[idx], nil
}

// ByCategory returns the markets whose tag set contains the given category,
// matched case-insensitively. An unknown category yields an empty slice, not
// an error.
func (c *Catalog) ByCategory(category string) []domain.Market {
	var out []domain.Market
	for _, m := range c.markets {
		if m.HasCategory(category) {
			out = append(out, m)
		}
	}
	return out
}

// Search performs a case-insensitive substring match against title,
// description, and category tags. A blank query returns nothing. Results keep
// catalog insertion order; there is no ranking, and no limit is applied here
// (display surfaces truncate themselves).
func (c *Catalog) Search(query string) []domain.Market {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []domain.Market
	for _, m := range c.markets {
		if matchesQuery(m, q) {
			out = append(out, m)
		}
	}
	return out
}

func matchesQuery(m domain.Market, q string) bool {
	if strings.Contains(strings.ToLower(m.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Description), q) {
		return true
	}
	for _, cat := range m.Categories {
		if strings.Contains(strings.ToLower(cat), q) {
			return true
		}
	}
	return false
}
