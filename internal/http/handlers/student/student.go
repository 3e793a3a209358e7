// Package student contains all HTTP handlers related to the Student resource.
//
// Students are plain records except for one field: RoomNumber belongs to
// the room ledger. Create and Update never accept it from the client,
// and Delete goes through the ledger so the student's room is emptied
// in the same write.
package student

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/hostel-api/internal/http/handlers/crud"
	"github.com/aanand-mishra/hostel-api/internal/ledger"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/aanand-mishra/hostel-api/internal/utils/request"
	"github.com/aanand-mishra/hostel-api/internal/utils/response"
	"github.com/google/uuid"
)

var errDuplicateEnrollment = errors.New("enrollment number already registered")

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
//
// Request body (JSON):
//
//	{ "name": "Rahul Kumar", "email": "rahul@medhavi.edu", "phone": "9876543210",
//	  "enrollmentNumber": "ENR2024001", "course": "B.Tech", "year": 2,
//	  "guardianName": "Suresh Kumar", "guardianPhone": "9876543200",
//	  "address": "12 MG Road, Bengaluru" }
//
// Success response (201 Created): the stored student, without a room.
//
// Error responses:
//
//	400 Bad Request    empty body, malformed JSON, or failed validation
//	409 Conflict       enrollment number already in use
//	500 Internal       store error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(students *records.Table[types.Student]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var student types.Student
		if !request.DecodeValid(w, r, &student) {
			return
		}

		student.ID = uuid.NewString()
		student.RoomNumber = ""

		err := students.Mutate(r.Context(), func(items []types.Student) ([]types.Student, error) {
			for _, s := range items {
				if s.EnrollmentNumber == student.EnrollmentNumber {
					return nil, errDuplicateEnrollment
				}
			}
			return append(items, student), nil
		})
		if errors.Is(err, errDuplicateEnrollment) {
			response.WriteJSON(w, http.StatusConflict, response.GeneralError(err))
			return
		}
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("student created", slog.String("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// GetByID handles GET /api/students/{id}
func GetByID(students *records.Table[types.Student]) http.HandlerFunc {
	return crud.GetByID(students)
}

// GetList handles GET /api/students
//
// Optional query: ?unassigned=true returns only students without a room,
// which is what the room assignment picker needs.
func GetList(students *records.Table[types.Student]) http.HandlerFunc {
	list := crud.GetList(students)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("unassigned") != "true" {
			list(w, r)
			return
		}

		items, err := students.List(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}
		out := make([]types.Student, 0, len(items))
		for _, s := range items {
			if s.RoomNumber == "" {
				out = append(out, s)
			}
		}
		response.WriteJSON(w, http.StatusOK, out)
	}
}

// Update handles PUT /api/students/{id}
// Replaces every field except id and roomNumber. It goes through the
// ledger so a rename reaches the student's room entry too.
func Update(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var in types.Student
		if !request.DecodeValid(w, r, &in) {
			return
		}

		updated, err := l.UpdateStudent(r.Context(), id, in)
		if err != nil {
			slog.Error("error updating student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/students/{id}
func Delete(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		if err := l.DeleteStudent(r.Context(), id); err != nil {
			slog.Error("error deleting student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
