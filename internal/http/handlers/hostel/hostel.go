// Package hostel contains the HTTP handlers for hostels and their staff.
//
// Neither resource has behaviour of its own beyond a uniqueness rule, so
// most endpoints come straight from package crud.
package hostel

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aanand-mishra/hostel-api/internal/http/handlers/crud"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/aanand-mishra/hostel-api/internal/utils/request"
	"github.com/aanand-mishra/hostel-api/internal/utils/response"
	"github.com/google/uuid"
)

var errDuplicateCode = errors.New("hostel code already in use")

func GetList(table *records.Table[types.Hostel]) http.HandlerFunc { return crud.GetList(table) }

func GetByID(table *records.Table[types.Hostel]) http.HandlerFunc { return crud.GetByID(table) }

func Delete(table *records.Table[types.Hostel]) http.HandlerFunc { return crud.Delete(table) }

// New handles POST /api/hostels. Codes are unique, compared without case.
func New(table *records.Table[types.Hostel]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var h types.Hostel
		if !request.DecodeValid(w, r, &h) {
			return
		}
		h.ID = uuid.NewString()
		h.CreatedAt = time.Now().UTC()
		if h.Facilities == nil {
			h.Facilities = []string{}
		}

		err := table.Mutate(r.Context(), func(items []types.Hostel) ([]types.Hostel, error) {
			if codeTaken(items, h.Code, "") {
				return nil, fmt.Errorf("%s: %w", h.Code, errDuplicateCode)
			}
			return append(items, h), nil
		})
		if writeErr(w, err) {
			return
		}

		slog.Info("hostel created", slog.String("id", h.ID), slog.String("code", h.Code))
		response.WriteJSON(w, http.StatusCreated, h)
	}
}

// Update handles PUT /api/hostels/{id}
func Update(table *records.Table[types.Hostel]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var in types.Hostel
		if !request.DecodeValid(w, r, &in) {
			return
		}

		var updated types.Hostel
		err := table.Mutate(r.Context(), func(items []types.Hostel) ([]types.Hostel, error) {
			i := records.Snapshot[types.Hostel]{Items: items}.Index(id)
			if i < 0 {
				return nil, fmt.Errorf("hostel %q: %w", id, records.ErrNotFound)
			}
			if codeTaken(items, in.Code, id) {
				return nil, fmt.Errorf("%s: %w", in.Code, errDuplicateCode)
			}
			in.ID = id
			in.CreatedAt = items[i].CreatedAt
			if in.Facilities == nil {
				in.Facilities = []string{}
			}
			items[i] = in
			updated = in
			return items, nil
		})
		if writeErr(w, err) {
			return
		}
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

func codeTaken(items []types.Hostel, code, exceptID string) bool {
	for _, h := range items {
		if h.ID != exceptID && strings.EqualFold(h.Code, code) {
			return true
		}
	}
	return false
}

func writeErr(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, errDuplicateCode):
		response.WriteJSON(w, http.StatusConflict, response.GeneralError(err))
	default:
		response.Error(w, err)
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Staff
// ─────────────────────────────────────────────────────────────────────────────

func GetStaffList(table *records.Table[types.Staff]) http.HandlerFunc { return crud.GetList(table) }

func GetStaff(table *records.Table[types.Staff]) http.HandlerFunc { return crud.GetByID(table) }

func DeleteStaff(table *records.Table[types.Staff]) http.HandlerFunc { return crud.Delete(table) }

// NewStaff handles POST /api/staff
func NewStaff(table *records.Table[types.Staff]) http.HandlerFunc {
	return crud.New(table, func(s *types.Staff, id string) { s.ID = id })
}

// UpdateStaff handles PUT /api/staff/{id}
func UpdateStaff(table *records.Table[types.Staff]) http.HandlerFunc {
	return crud.Update(table, func(cur *types.Staff, in types.Staff) {
		in.ID = cur.ID
		*cur = in
	})
}
