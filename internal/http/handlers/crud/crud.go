// Package crud contains generic handlers for the plain record endpoints.
//
// HANDLER PATTERN: THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────
// Each function takes its dependencies (a table, hooks) and returns an
// http.HandlerFunc that closes over them:
//
//	router.HandleFunc("GET /api/staff", crud.GetList(tables.Staff))
//
// Resources with behaviour of their own (rooms, complaints, fees,
// leaves) have their own handler packages and only borrow the read
// endpoints from here.
package crud

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/aanand-mishra/hostel-api/internal/utils/request"
	"github.com/aanand-mishra/hostel-api/internal/utils/response"
	"github.com/google/uuid"
)

// GetList handles GET /api/{kind}. Returns [] (not null) when empty.
func GetList[T types.Record](table *records.Table[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing records", slog.String("kind", string(table.Kind())))

		items, err := table.List(r.Context())
		if err != nil {
			slog.Error("error listing records",
				slog.String("kind", string(table.Kind())),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}
		if items == nil {
			items = []T{}
		}

		response.WriteJSON(w, http.StatusOK, items)
	}
}

// GetByID handles GET /api/{kind}/{id}.
func GetByID[T types.Record](table *records.Table[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		item, err := table.Find(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, item)
	}
}

// New handles POST /api/{kind}. prepare runs after validation; it
// receives a fresh id to store on the record and may normalise other
// server-owned fields.
func New[T types.Record](table *records.Table[T], prepare func(rec *T, id string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec T
		if !request.DecodeValid(w, r, &rec) {
			return
		}

		prepare(&rec, uuid.NewString())

		created, err := table.Create(r.Context(), rec)
		if err != nil {
			slog.Error("error creating record",
				slog.String("kind", string(table.Kind())),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("record created",
			slog.String("kind", string(table.Kind())),
			slog.String("id", created.GetID()))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// Update handles PUT /api/{kind}/{id}. merge copies the editable fields
// of the decoded body onto the stored record.
func Update[T types.Record](table *records.Table[T], merge func(cur *T, in T)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var in T
		if !request.DecodeValid(w, r, &in) {
			return
		}

		updated, err := table.Update(r.Context(), id, func(cur *T) error {
			merge(cur, in)
			return nil
		})
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("record updated",
			slog.String("kind", string(table.Kind())),
			slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/{kind}/{id}.
func Delete[T types.Record](table *records.Table[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		if err := table.Delete(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("record deleted",
			slog.String("kind", string(table.Kind())),
			slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
