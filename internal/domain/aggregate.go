package domain

import "sort"

const (
	// DefaultRankingLimit is the size of the overall visitor ranking.
	DefaultRankingLimit = 10
	// DefaultSeasonalLimit is the number of picks per season.
	DefaultSeasonalLimit = 3
)

// Season is a fixed three-month bucket.
type Season struct {
	Name   string `json:"name"`
	Months [3]int `json:"months"`
}

// Seasons partitions months 1-12, in display order. Month 0 is in none of them.
var Seasons = []Season{
	{Name: "spring", Months: [3]int{3, 4, 5}},
	{Name: "summer", Months: [3]int{6, 7, 8}},
	{Name: "autumn", Months: [3]int{9, 10, 11}},
	{Name: "winter", Months: [3]int{12, 1, 2}},
}

// Contains reports whether month falls in the season.
func (s Season) Contains(month int) bool {
	for _, m := range s.Months {
		if m == month {
			return true
		}
	}
	return false
}

// SeasonOf returns the season a month belongs to.
func SeasonOf(month int) (Season, bool) {
	for _, s := range Seasons {
		if s.Contains(month) {
			return s, true
		}
	}
	return Season{}, false
}

// SeasonPicks holds the top festivals of one season.
type SeasonPicks struct {
	Season    Season
	Festivals []Festival
}

// TopVisitors returns up to n festivals with a visitor count above zero,
// highest first. Ties keep source order.
func TopVisitors(festivals []Festival, n int) []Festival {
	ranked := make([]Festival, 0, len(festivals))
	for _, f := range festivals {
		if f.Visitors.Value > 0 {
			ranked = append(ranked, f)
		}
	}
	return head(sortByVisitors(ranked), n)
}

// SeasonalTop returns up to n festivals per season, highest visitor count
// first, for every season in Seasons order. Unlike TopVisitors, festivals
// with zero visitors are eligible; they only sort last.
func SeasonalTop(festivals []Festival, n int) []SeasonPicks {
	picks := make([]SeasonPicks, 0, len(Seasons))
	for _, s := range Seasons {
		var group []Festival
		for _, f := range festivals {
			if s.Contains(f.Month) {
				group = append(group, f)
			}
		}
		picks = append(picks, SeasonPicks{
			Season:    s,
			Festivals: head(sortByVisitors(group), n),
		})
	}
	return picks
}

func sortByVisitors(festivals []Festival) []Festival {
	sort.SliceStable(festivals, func(i, j int) bool {
		return festivals[i].Visitors.Value > festivals[j].Visitors.Value
	})
	return festivals
}

func head(festivals []Festival, n int) []Festival {
	if n <= 0 {
		return []Festival{}
	}
	if len(festivals) > n {
		return festivals[:n]
	}
	if festivals == nil {
		return []Festival{}
	}
	return festivals
}
