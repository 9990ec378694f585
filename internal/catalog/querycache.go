package catalog

import (
	"container/list"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/couchcryptid/festival-guide/internal/domain"
)

// filterKey identifies one filter query against one snapshot generation.
// Categories are sorted, deduplicated and quoted so distinct selections
// never share a key.
type filterKey struct {
	generation uint64
	month      int
	region     string
	categories string
}

func newFilterKey(generation uint64, c domain.Criteria) filterKey {
	cats := slices.Clone(c.Categories)
	if len(cats) == 0 || slices.Contains(cats, domain.AllOption) {
		cats = []string{domain.AllOption}
	}
	slices.Sort(cats)
	cats = slices.Compact(cats)

	quoted := make([]string, len(cats))
	for i, cat := range cats {
		quoted[i] = strconv.Quote(cat)
	}
	return filterKey{
		generation: generation,
		month:      c.Month,
		region:     c.Region,
		categories: strings.Join(quoted, ","),
	}
}

type filterResult struct {
	key       filterKey
	festivals []domain.Festival
}

// queryCache holds recent filter results, least recently used evicted
// first. Results from older generations are unreachable after a reload and
// are dropped by purge.
type queryCache struct {
	mu      sync.Mutex
	limit   int
	order   *list.List // front = most recently used; values are *filterResult
	results map[filterKey]*list.Element
}

func newQueryCache(limit int) *queryCache {
	return &queryCache{
		limit:   limit,
		order:   list.New(),
		results: make(map[filterKey]*list.Element),
	}
}

func (c *queryCache) get(k filterKey) ([]domain.Festival, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.results[k]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*filterResult).festivals, true
}

func (c *queryCache) put(k filterKey, festivals []domain.Festival) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.results[k]; ok {
		el.Value.(*filterResult).festivals = festivals
		c.order.MoveToFront(el)
		return
	}
	c.results[k] = c.order.PushFront(&filterResult{key: k, festivals: festivals})

	for c.order.Len() > c.limit {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.results, oldest.Value.(*filterResult).key)
	}
}

func (c *queryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *queryCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	clear(c.results)
}
