package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	sentinelNotTallied = "미집계"
	sentinelFirstEvent = "최초 행사"
)

// Derive builds the festival dataset from a loaded table. It never fails:
// missing columns and unparseable cells degrade to zero values and are
// counted in the returned Quality.
//
// Coordinates are jittered with draws from rng; pass nil or a zero sigma to
// get the bare centroids.
func Derive(t Table, rng *rand.Rand, sigma float64) Dataset {
	var (
		nameCol     = t.ColumnIndex(ColumnName)
		regionCol   = t.ColumnIndex(ColumnRegion)
		venueCol    = t.ColumnIndex(ColumnVenue)
		categoryCol = t.ColumnIndex(ColumnCategory)
		monthCol    = t.ColumnIndex(ColumnMonth)
		visitorCol  = t.ColumnIndex(ColumnVisitors)
	)

	q := Quality{
		Rows:          len(t.Rows),
		VisitorStatus: make(map[CountStatus]int),
	}
	for _, col := range []string{ColumnName, ColumnRegion, ColumnVenue, ColumnCategory, ColumnMonth, ColumnVisitors} {
		if !t.HasColumn(col) {
			q.MissingColumns = append(q.MissingColumns, col)
		}
	}

	festivals := make([]Festival, 0, len(t.Rows))
	for _, row := range t.Rows {
		f := Festival{
			Name:     cellAt(row, nameCol),
			Region:   cellAt(row, regionCol),
			Venue:    cellAt(row, venueCol),
			Category: cellAt(row, categoryCol),
			Fields:   rowFields(t.Headers, row),
		}

		if visitorCol >= 0 {
			f.Visitors = ParseVisitors(cellAt(row, visitorCol))
		} else {
			f.Visitors = VisitorCount{Status: CountMissingColumn}
		}
		q.VisitorStatus[f.Visitors.Status]++

		if monthCol >= 0 {
			f.Month = ParseMonth(cellAt(row, monthCol))
		}
		if f.Month == 0 {
			q.UnknownMonth++
		}

		centroid, ok := Centroid(f.Region)
		if !ok {
			q.CentroidMisses++
		}
		f.Geo = Jitter(centroid, rng, sigma)

		f.ID = festivalID(f.Name, f.Region, f.Venue, f.Month)
		festivals = append(festivals, f)
	}

	return Dataset{
		Festivals: festivals,
		HasMonth:  monthCol >= 0,
		Quality:   q,
	}
}

// ParseVisitors normalizes a foreign-visitor cell. Thousands separators are
// stripped, the "미집계" and "최초 행사" sentinels map to zero, and anything
// else that is not a non-negative number degrades to zero.
func ParseVisitors(raw string) VisitorCount {
	s := strings.TrimSpace(raw)
	switch s {
	case sentinelNotTallied:
		return VisitorCount{Status: CountNotTallied}
	case sentinelFirstEvent:
		return VisitorCount{Status: CountFirstEvent}
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, sentinelNotTallied, "0")
	s = strings.ReplaceAll(s, sentinelFirstEvent, "0")

	n, ok := parseWholeNumber(s)
	if !ok || n < 0 {
		return VisitorCount{Status: CountUnparseable}
	}
	return VisitorCount{Value: n, Status: CountReported}
}

// ParseMonth parses a start-month cell ("10", " 4", "10월", "10.0").
// Values that do not parse or fall outside 1-12 return 0.
func ParseMonth(raw string) int {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimSuffix(s, "월"))
	n, ok := parseWholeNumber(s)
	if !ok || n < 1 || n > 12 {
		return 0
	}
	return n
}

// parseWholeNumber accepts integers and decimals, truncating the fraction.
func parseWholeNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func rowFields(headers, row []string) map[string]string {
	fields := make(map[string]string, len(headers))
	for i, h := range headers {
		fields[h] = cellAt(row, i)
	}
	return fields
}

// festivalID produces a deterministic ID from the festival's identifying
// fields, so the same row keeps its ID across reloads even though its
// jittered coordinates change.
func festivalID(name, region, venue string, month int) string {
	input := fmt.Sprintf("%s|%s|%s|%d", name, region, venue, month)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}
