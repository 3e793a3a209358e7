// Package report serves spreadsheet downloads.
package report

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/report"
	"github.com/aanand-mishra/hostel-api/internal/utils/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Occupancy handles GET /api/reports/occupancy.xlsx
//
// The workbook is rendered into memory first so a failure halfway
// through still produces a JSON error instead of a truncated file.
func Occupancy(tables *records.Tables) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := tables.Rooms.List(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}
		hostels, err := tables.Hostels.List(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		var buf bytes.Buffer
		if err := report.Occupancy(&buf, rooms, hostels); err != nil {
			slog.Error("error rendering occupancy report", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="occupancy.xlsx"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			slog.Warn("occupancy report write interrupted", slog.String("error", err.Error()))
		}
	}
}
