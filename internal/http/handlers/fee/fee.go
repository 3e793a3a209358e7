// Package fee contains the HTTP handlers for student fees.
package fee

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/hostel-api/internal/fees"
	"github.com/aanand-mishra/hostel-api/internal/http/handlers/crud"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/aanand-mishra/hostel-api/internal/utils/request"
	"github.com/aanand-mishra/hostel-api/internal/utils/response"
)

type payRequest struct {
	PaidDate *time.Time `json:"paidDate"`
}

func GetList(table *records.Table[types.Fee]) http.HandlerFunc { return crud.GetList(table) }

func GetByID(table *records.Table[types.Fee]) http.HandlerFunc { return crud.GetByID(table) }

func Delete(table *records.Table[types.Fee]) http.HandlerFunc { return crud.Delete(table) }

// New handles POST /api/fees
//
//	{ "studentId": "1", "studentName": "Rahul Kumar", "amount": 45000,
//	  "dueDate": "2024-07-31T00:00:00Z", "type": "hostel" }
func New(svc *fees.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f types.Fee
		if !request.DecodeValid(w, r, &f) {
			return
		}

		created, err := svc.Create(r.Context(), f)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("fee created", slog.String("id", created.ID), slog.String("student", created.StudentID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// Update handles PUT /api/fees/{id}. Payment state is not editable here;
// use POST /api/fees/{id}/pay.
func Update(table *records.Table[types.Fee]) http.HandlerFunc {
	return crud.Update(table, func(cur *types.Fee, in types.Fee) {
		cur.StudentID = in.StudentID
		cur.StudentName = in.StudentName
		cur.Amount = in.Amount
		cur.DueDate = in.DueDate
		cur.Type = in.Type
		cur.Description = in.Description
	})
}

// Pay handles POST /api/fees/{id}/pay
//
// Body is optional: { "paidDate": "2024-07-15T10:30:00Z" }. Without it
// the payment is dated now.
func Pay(svc *fees.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req payRequest
		if !request.Decode(w, r, &req, true) {
			return
		}

		f, err := svc.MarkPaid(r.Context(), r.PathValue("id"), req.PaidDate)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, f)
	}
}
