package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/festival-guide/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names written by WriteReport.
const (
	SheetFestivals = "Festivals"
	SheetRanking   = "Ranking"
	SheetSeasonal  = "Seasonal"
)

// Report is the content of an exported workbook.
type Report struct {
	Criteria  domain.Criteria
	Festivals []domain.Festival
	Ranking   []domain.Festival
	Seasonal  []domain.SeasonPicks
}

// WriteReport writes the report as a three-sheet workbook.
func WriteReport(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; rename it rather than leaving it empty.
	if err := f.SetSheetName("Sheet1", SheetFestivals); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeFestivals(f, r); err != nil {
		return err
	}
	if err := writeRanking(f, r.Ranking); err != nil {
		return err
	}
	if err := writeSeasonal(f, r.Seasonal); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeFestivals(f *excelize.File, r Report) error {
	categories := strings.Join(r.Criteria.Categories, "|")
	if categories == "" {
		categories = domain.AllOption
	}
	rows := [][]any{
		{"month", r.Criteria.Month, "region", r.Criteria.Region, "categories", categories},
		{domain.ColumnName, domain.ColumnVenue, domain.ColumnCategory, domain.ColumnRegion, "lat", "lon"},
	}
	for _, fest := range r.Festivals {
		rows = append(rows, []any{fest.Name, fest.Venue, fest.Category, fest.Region, fest.Geo.Lat, fest.Geo.Lon})
	}
	return setRows(f, SheetFestivals, rows)
}

func writeRanking(f *excelize.File, ranking []domain.Festival) error {
	if _, err := f.NewSheet(SheetRanking); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetRanking, err)
	}
	rows := [][]any{{"rank", domain.ColumnName, "visitors", domain.ColumnCategory}}
	for i, fest := range ranking {
		rows = append(rows, []any{i + 1, fest.Name, fest.Visitors.Value, fest.Category})
	}
	return setRows(f, SheetRanking, rows)
}

func writeSeasonal(f *excelize.File, picks []domain.SeasonPicks) error {
	if _, err := f.NewSheet(SheetSeasonal); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetSeasonal, err)
	}
	rows := [][]any{{"season", "rank", domain.ColumnName, "visitors"}}
	for _, p := range picks {
		for i, fest := range p.Festivals {
			rows = append(rows, []any{p.Season.Name, i + 1, fest.Name, fest.Visitors.Value})
		}
	}
	return setRows(f, SheetSeasonal, rows)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// WriteTable writes t as a single-sheet workbook in the layout Reader
// expects: headers on the first row.
func WriteTable(w io.Writer, t domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	rows := make([][]any, 0, len(t.Rows)+1)
	rows = append(rows, stringsToRow(t.Headers))
	for _, r := range t.Rows {
		rows = append(rows, stringsToRow(r))
	}
	if err := setRows(f, "Sheet1", rows); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func stringsToRow(cells []string) []any {
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
