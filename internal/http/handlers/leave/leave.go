// Package leave contains the HTTP handlers for leave requests.
package leave

import (
	"context"
	"net/http"

	"github.com/aanand-mishra/hostel-api/internal/http/handlers/crud"
	"github.com/aanand-mishra/hostel-api/internal/leaves"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/aanand-mishra/hostel-api/internal/utils/request"
	"github.com/aanand-mishra/hostel-api/internal/utils/response"
)

type decisionRequest struct {
	Approver string `json:"approver" validate:"required"`
}

func GetList(table *records.Table[types.LeaveRequest]) http.HandlerFunc {
	return crud.GetList(table)
}

func GetByID(table *records.Table[types.LeaveRequest]) http.HandlerFunc {
	return crud.GetByID(table)
}

func Delete(table *records.Table[types.LeaveRequest]) http.HandlerFunc {
	return crud.Delete(table)
}

// New handles POST /api/leaves. The request is always filed as pending.
func New(svc *leaves.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var l types.LeaveRequest
		if !request.DecodeValid(w, r, &l) {
			return
		}

		created, err := svc.Create(r.Context(), l)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// Update handles PUT /api/leaves/{id}: dates and reason only.
func Update(table *records.Table[types.LeaveRequest]) http.HandlerFunc {
	return crud.Update(table, func(cur *types.LeaveRequest, in types.LeaveRequest) {
		cur.StartDate = in.StartDate
		cur.EndDate = in.EndDate
		cur.Reason = in.Reason
	})
}

// Approve handles POST /api/leaves/{id}/approve with { "approver": "..." }.
func Approve(svc *leaves.Service) http.HandlerFunc {
	return decide(svc.Approve)
}

// Reject handles POST /api/leaves/{id}/reject with { "approver": "..." }.
func Reject(svc *leaves.Service) http.HandlerFunc {
	return decide(svc.Reject)
}

func decide(fn func(ctx context.Context, id, approver string) (types.LeaveRequest, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req decisionRequest
		if !request.DecodeValid(w, r, &req) {
			return
		}

		l, err := fn(r.Context(), r.PathValue("id"), req.Approver)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, l)
	}
}
