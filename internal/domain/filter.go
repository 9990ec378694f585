package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidMonth is returned by Criteria.Validate for months outside 1-12.
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// Criteria are the user-selected filters. Month is always a specific month;
// Region and Categories accept AllOption.
type Criteria struct {
	Month      int      `json:"month"`
	Region     string   `json:"region"`
	Categories []string `json:"categories,omitempty"`
}

// Validate checks that the criteria select a specific month.
func (c Criteria) Validate() error {
	if c.Month < 1 || c.Month > 12 {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, c.Month)
	}
	return nil
}

// Filter returns the festivals matching all three predicates, in source order.
//
//   - month: exact match on the derived month
//   - region: AllOption matches everything, otherwise exact string equality
//   - categories: empty or containing AllOption matches everything,
//     otherwise the festival's category must be one of them
//
// The input slice is never modified.
func Filter(festivals []Festival, c Criteria) []Festival {
	categories := categorySet(c.Categories)

	out := make([]Festival, 0, len(festivals))
	for _, f := range festivals {
		if f.Month != c.Month {
			continue
		}
		if c.Region != AllOption && f.Region != c.Region {
			continue
		}
		if categories != nil && !categories[f.Category] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// categorySet returns nil when the selection does not restrict categories.
func categorySet(selected []string) map[string]bool {
	if len(selected) == 0 {
		return nil
	}
	set := make(map[string]bool, len(selected))
	for _, c := range selected {
		if c == AllOption {
			return nil
		}
		set[c] = true
	}
	return set
}

// Regions lists the region filter options: AllOption followed by the
// distinct non-empty regions, sorted.
func Regions(festivals []Festival) []string {
	seen := make(map[string]bool)
	var regions []string
	for _, f := range festivals {
		if f.Region == "" || seen[f.Region] {
			continue
		}
		seen[f.Region] = true
		regions = append(regions, f.Region)
	}
	sort.Strings(regions)
	return append([]string{AllOption}, regions...)
}

// Categories lists the category filter options: AllOption followed by the
// distinct non-empty categories in order of first appearance.
func Categories(festivals []Festival) []string {
	seen := make(map[string]bool)
	categories := []string{AllOption}
	for _, f := range festivals {
		if f.Category == "" || seen[f.Category] {
			continue
		}
		seen[f.Category] = true
		categories = append(categories, f.Category)
	}
	return categories
}
