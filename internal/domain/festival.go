package domain

import "strings"

// Source column headers interpreted by the deriver.
const (
	ColumnName     = "축제명"
	ColumnRegion   = "광역자치단체명"
	ColumnVenue    = "개최 장소"
	ColumnCategory = "축제 유형"
	ColumnMonth    = "시작월"
	ColumnVisitors = "외국인(명)"
)

// AllOption is the control value that disables the region and category predicates.
const AllOption = "All"

// Table is a parsed source file with its headers preserved as they appear in the file.
type Table struct {
	Headers  []string
	Rows     [][]string
	Encoding string // encoding that decoded the file, e.g. "cp949"
}

// ColumnIndex returns the position of the named header, or -1 when absent.
func (t Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named header exists.
func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CountStatus records why a visitor count has the value it has.
type CountStatus string

const (
	CountReported      CountStatus = "reported"
	CountNotTallied    CountStatus = "not_tallied"
	CountFirstEvent    CountStatus = "first_event"
	CountUnparseable   CountStatus = "unparseable"
	CountMissingColumn CountStatus = "missing_column"
)

// VisitorCount is a foreign-visitor count. Value is 0 whenever Status is not
// CountReported, so ranking code can keep treating it as a plain integer.
type VisitorCount struct {
	Value  int         `json:"value"`
	Status CountStatus `json:"status"`
}

// Known reports whether the count came from a parsed number in the source.
func (c VisitorCount) Known() bool { return c.Status == CountReported }

// Festival is one derived row of the dataset.
type Festival struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Region   string       `json:"region"`
	Venue    string       `json:"venue"`
	Category string       `json:"category"`
	Month    int          `json:"month"` // 0 = unknown
	Visitors VisitorCount `json:"visitors"`
	Geo      Geo          `json:"geo"`

	// Fields holds every source cell keyed by header, derived columns excluded.
	Fields map[string]string `json:"-"`
}

// Quality counts the cells that degraded during derivation.
type Quality struct {
	Rows           int                 `json:"rows"`
	VisitorStatus  map[CountStatus]int `json:"visitor_status"`
	UnknownMonth   int                 `json:"unknown_month"`
	CentroidMisses int                 `json:"centroid_misses"`
	MissingColumns []string            `json:"missing_columns,omitempty"`
}

// Dataset is the derived, read-only festival table.
type Dataset struct {
	Festivals []Festival
	// HasMonth is false when the source had no month column; then no
	// festival matches any specific month.
	HasMonth bool
	Quality  Quality
}

// Filter applies c to the dataset. See [Filter].
func (d *Dataset) Filter(c Criteria) []Festival {
	if !d.HasMonth {
		return []Festival{}
	}
	return Filter(d.Festivals, c)
}
