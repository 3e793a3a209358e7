// Package complaint contains the HTTP handlers for complaints and their
// review workflow.
package complaint

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/hostel-api/internal/http/handlers/crud"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/aanand-mishra/hostel-api/internal/utils/request"
	"github.com/aanand-mishra/hostel-api/internal/utils/response"
	"github.com/aanand-mishra/hostel-api/internal/workflow"
)

type advanceRequest struct {
	Reviewer string `json:"reviewer" validate:"required"`
}

type startRequest struct {
	Assignee string `json:"assignee"`
}

// view is a complaint plus its derived stage. The stage is computed on
// the way out and never stored.
type view struct {
	types.Complaint
	Stage        workflow.Stage    `json:"stage"`
	NextReviewer workflow.Reviewer `json:"nextReviewer,omitempty"`
}

func viewOf(c types.Complaint) view {
	v := view{Complaint: c, Stage: workflow.StageOf(c)}
	if !workflow.Terminal(v.Stage) {
		v.NextReviewer, _ = workflow.NextReviewer(c)
	}
	return v
}

// GetList handles GET /api/complaints
func GetList(complaints *records.Table[types.Complaint]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := complaints.List(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}
		out := make([]view, 0, len(items))
		for _, c := range items {
			out = append(out, viewOf(c))
		}
		response.WriteJSON(w, http.StatusOK, out)
	}
}

// GetByID handles GET /api/complaints/{id}
func GetByID(complaints *records.Table[types.Complaint]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := complaints.Find(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, viewOf(c))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/complaints
//
// Request body (JSON):
//
//	{ "studentId": "1", "studentName": "Rahul Kumar", "title": "AC not working",
//	  "description": "The air conditioner has stopped cooling since Monday.",
//	  "category": "maintenance", "priority": "high" }
//
// The complaint always starts open, unassigned and unreviewed, whatever
// the body says about those fields.
// ─────────────────────────────────────────────────────────────────────────────
func New(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c types.Complaint
		if !request.DecodeValid(w, r, &c) {
			return
		}

		created, err := svc.Create(r.Context(), c)
		if err != nil {
			slog.Error("error filing complaint", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusCreated, viewOf(created))
	}
}

// Update handles PUT /api/complaints/{id}
// Only title, description, category and priority are taken from the body.
func Update(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var edit types.Complaint
		if !request.DecodeValid(w, r, &edit) {
			return
		}

		updated, err := svc.Edit(r.Context(), r.PathValue("id"), edit)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, viewOf(updated))
	}
}

// Delete handles DELETE /api/complaints/{id}
func Delete(complaints *records.Table[types.Complaint]) http.HandlerFunc {
	return crud.Delete(complaints)
}

// ─────────────────────────────────────────────────────────────────────────────
// Advance handles POST /api/complaints/{id}/advance
//
// Request body: { "reviewer": "Mr. Sharma" }
//
// Fills the next review checkpoint (Warden, then Admin, then Higher
// Management) with the current time and the given reviewer.
//
//	200   { "reviewed": "Warden", "complaint": {...} }
//	404   no such complaint
//	409   already fully reviewed, or resolved/closed
//
// ─────────────────────────────────────────────────────────────────────────────
func Advance(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req advanceRequest
		if !request.DecodeValid(w, r, &req) {
			return
		}

		c, filled, err := svc.Advance(r.Context(), r.PathValue("id"), req.Reviewer)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, struct {
			Reviewed  workflow.Reviewer `json:"reviewed"`
			Complaint view              `json:"complaint"`
		}{filled, viewOf(c)})
	}
}

// Start handles POST /api/complaints/{id}/start
// Body is optional: { "assignee": "Maintenance team" }
func Start(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startRequest
		if !request.Decode(w, r, &req, true) {
			return
		}

		c, err := svc.StartProgress(r.Context(), r.PathValue("id"), req.Assignee)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, viewOf(c))
	}
}

// Resolve handles POST /api/complaints/{id}/resolve
func Resolve(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Resolve(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, viewOf(c))
	}
}

// Close handles POST /api/complaints/{id}/close
func Close(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Close(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, viewOf(c))
	}
}
