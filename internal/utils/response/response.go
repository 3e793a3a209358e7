// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here, together with
// the mapping from domain errors to HTTP status codes.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aanand-mishra/hostel-api/internal/fees"
	"github.com/aanand-mishra/hostel-api/internal/ledger"
	"github.com/aanand-mishra/hostel-api/internal/leaves"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/storage"
	"github.com/aanand-mishra/hostel-api/internal/workflow"
	"github.com/go-playground/validator/v10"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases:
//
//	{ "status": "error", "error": "field Name is required" }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into our standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// StatusFor picks the HTTP status for an error coming out of a service.
//
//	404   the record doesn't exist
//	409   the request conflicts with the record's current state
//	400   the request itself is malformed
//	503   the store is temporarily unavailable
//	500   anything else
//
// ─────────────────────────────────────────────────────────────────────────────
func StatusFor(err error) int {
	switch {
	case errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrAlreadyFullyReviewed),
		errors.Is(err, workflow.ErrCheckpointOrder),
		errors.Is(err, ledger.ErrRoomOccupied),
		errors.Is(err, ledger.ErrDuplicateNumber),
		errors.Is(err, ledger.ErrCapacityTooLow),
		errors.Is(err, fees.ErrAlreadyPaid),
		errors.Is(err, leaves.ErrAlreadyDecided),
		errors.Is(err, storage.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with the status chosen by StatusFor.
func Error(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusFor(err), GeneralError(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// a single human-readable Response.
//
// Example output:
//
//	{ "status": "error", "error": "field Name is required, field Year must be at most 5" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		errMessages = append(errMessages, fieldMessage(e))
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}

func fieldMessage(e validator.FieldError) string {
	switch e.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is required", e.Field())
	case "email":
		return fmt.Sprintf("field %s must be a valid email address", e.Field())
	case "min":
		return fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("field %s must be at most %s", e.Field(), e.Param())
	case "len":
		return fmt.Sprintf("field %s must be exactly %s long", e.Field(), e.Param())
	case "numeric":
		return fmt.Sprintf("field %s must contain only digits", e.Field())
	case "oneof":
		return fmt.Sprintf("field %s must be one of [%s]", e.Field(), e.Param())
	case "gt":
		return fmt.Sprintf("field %s must be greater than %s", e.Field(), e.Param())
	case "gtefield":
		return fmt.Sprintf("field %s must not be before %s", e.Field(), e.Param())
	case "unique":
		return fmt.Sprintf("field %s must not contain duplicates", e.Field())
	default:
		return fmt.Sprintf("field %s is invalid", e.Field())
	}
}
