// Package report renders spreadsheet exports.
package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

var roomHeader = []any{"Room", "Floor", "Type", "Status", "Capacity", "Occupied", "Free", "Students"}

// Occupancy writes an XLSX workbook to w: a summary sheet with one row
// per hostel, then one sheet per hostel listing its rooms.
//
// Rooms are grouped by their Hostel field. Hostels without rooms still
// get a summary row.
func Occupancy(w io.Writer, rooms []types.Room, hostels []types.Hostel) error {
	f := excelize.NewFile()
	defer f.Close()

	byHostel := make(map[string][]types.Room)
	for _, r := range rooms {
		byHostel[r.Hostel] = append(byHostel[r.Hostel], r)
	}

	names := make([]string, 0, len(byHostel))
	for name := range byHostel {
		names = append(names, name)
	}
	for _, h := range hostels {
		if _, ok := byHostel[h.Name]; !ok {
			names = append(names, h.Name)
		}
	}
	slices.Sort(names)

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("report.Occupancy: %w", err)
	}
	if err := f.SetSheetRow(summarySheet, "A1", &[]any{"Hostel", "Rooms", "Beds", "Occupied", "Free"}); err != nil {
		return fmt.Errorf("report.Occupancy: %w", err)
	}

	for i, name := range names {
		rs := byHostel[name]
		slices.SortFunc(rs, func(a, b types.Room) int { return cmp.Compare(a.Number, b.Number) })

		var beds, occupied int
		for _, r := range rs {
			beds += r.Capacity
			occupied += r.Occupied
		}
		row := []any{name, len(rs), beds, occupied, beds - occupied}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("report.Occupancy: %w", err)
		}

		if len(rs) == 0 {
			continue
		}
		if err := writeHostelSheet(f, sheetName(name, i), rs); err != nil {
			return fmt.Errorf("report.Occupancy %s: %w", name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("report.Occupancy: write: %w", err)
	}
	return nil
}

func writeHostelSheet(f *excelize.File, sheet string, rooms []types.Room) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &roomHeader); err != nil {
		return err
	}
	for i, r := range rooms {
		names := make([]string, 0, len(r.Students))
		for _, s := range r.Students {
			names = append(names, s.Name)
		}
		row := []any{
			r.Number, r.Floor, string(r.Type), string(r.Status),
			r.Capacity, r.Occupied, max(0, r.Capacity-r.Occupied),
			strings.Join(names, ", "),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

// sheetName makes a hostel name usable as a sheet name: Excel limits
// names to 31 characters and forbids : \ / ? * [ ].
func sheetName(name string, i int) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '-'
		}
		return r
	}, name)
	if clean == "" || strings.EqualFold(clean, summarySheet) {
		clean = fmt.Sprintf("Hostel %d", i+1)
	}
	if len([]rune(clean)) > 31 {
		clean = string([]rune(clean)[:31])
	}
	return clean
}
