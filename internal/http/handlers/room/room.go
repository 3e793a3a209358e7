// Package room contains the HTTP handlers for rooms and room assignment.
//
// Everything that can touch occupancy goes through the ledger. Ledger
// operations are soft: a full room or an unknown student is not an
// error, the Result's outcome says what happened and the client decides
// what to show.
package room

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/hostel-api/internal/http/handlers/crud"
	"github.com/aanand-mishra/hostel-api/internal/ledger"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/aanand-mishra/hostel-api/internal/utils/request"
	"github.com/aanand-mishra/hostel-api/internal/utils/response"
)

type assignRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}

type statusRequest struct {
	Status types.RoomStatus `json:"status" validate:"required"`
}

// writeResult sends a ledger Result: 404 when something was missing,
// 200 for everything else including the no-op outcomes.
func writeResult(w http.ResponseWriter, res ledger.Result) {
	status := http.StatusOK
	if res.Outcome == ledger.NotFound {
		status = http.StatusNotFound
	}
	response.WriteJSON(w, status, res)
}

// GetList handles GET /api/rooms
func GetList(rooms *records.Table[types.Room]) http.HandlerFunc {
	return crud.GetList(rooms)
}

// GetByID handles GET /api/rooms/{id}
func GetByID(rooms *records.Table[types.Room]) http.HandlerFunc {
	return crud.GetByID(rooms)
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/rooms
//
// Request body (JSON):
//
//	{ "number": "A-103", "floor": 1, "capacity": 2, "type": "double",
//	  "hostel": "Boys Hostel A" }
//
// The room is created empty. Status defaults to "available".
//
//	201 Created     the stored room
//	400             validation failed
//	409 Conflict    the number is taken in that hostel
//
// ─────────────────────────────────────────────────────────────────────────────
func New(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var room types.Room
		if !request.DecodeValid(w, r, &room) {
			return
		}

		created, err := l.CreateRoom(r.Context(), room)
		if err != nil {
			slog.Error("error creating room", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("room created",
			slog.String("id", created.ID),
			slog.String("number", created.Number))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// Update handles PUT /api/rooms/{id}
// Occupancy and the student list are kept from the stored room.
func Update(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var edit types.Room
		if !request.DecodeValid(w, r, &edit) {
			return
		}

		updated, err := l.UpdateRoom(r.Context(), id, edit)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("room updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/rooms/{id}. Occupied rooms are refused.
func Delete(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		if err := l.DeleteRoom(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("room deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Assign handles POST /api/rooms/{id}/students
//
// Request body: { "studentId": "3" }
//
// Response (200): { "outcome": "applied", "room": {...}, "student": {...} }
// The outcome is one of applied, duplicate_assignment, already_assigned,
// capacity_exceeded or room_unavailable. not_found comes back as 404.
// ─────────────────────────────────────────────────────────────────────────────
func Assign(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := r.PathValue("id")

		var req assignRequest
		if !request.DecodeValid(w, r, &req) {
			return
		}

		res, err := l.Assign(r.Context(), roomID, req.StudentID)
		if err != nil {
			slog.Error("error assigning student",
				slog.String("room", roomID),
				slog.String("student", req.StudentID),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}
		writeResult(w, res)
	}
}

// Unassign handles DELETE /api/rooms/{id}/students/{sid}
func Unassign(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, studentID := r.PathValue("id"), r.PathValue("sid")

		res, err := l.Unassign(r.Context(), roomID, studentID)
		if err != nil {
			response.Error(w, err)
			return
		}
		writeResult(w, res)
	}
}

// ChangeStatus handles PATCH /api/rooms/{id}/status
//
// Request body: { "status": "maintenance" }
func ChangeStatus(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := r.PathValue("id")

		var req statusRequest
		if !request.DecodeValid(w, r, &req) {
			return
		}

		res, err := l.ChangeStatus(r.Context(), roomID, req.Status)
		if err != nil {
			response.Error(w, err)
			return
		}
		writeResult(w, res)
	}
}

// Audit handles GET /api/rooms/audit. An empty list means rooms and
// students agree.
func Audit(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		violations, err := l.Audit(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}
		if violations == nil {
			violations = []ledger.Violation{}
		}
		if len(violations) > 0 {
			slog.Warn("room ledger audit found violations", slog.Int("count", len(violations)))
		}
		response.WriteJSON(w, http.StatusOK, violations)
	}
}
