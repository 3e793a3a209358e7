// Package request decodes and validates JSON request bodies.
//
// On failure the helpers write the error response themselves and return
// false, so a handler can simply:
//
//	var room types.Room
//	if !request.DecodeValid(w, r, &room) {
//		return
//	}
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aanand-mishra/hostel-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// A single validator instance caches struct metadata across requests.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode reads the JSON body into v. An empty body is an error unless
// allowEmpty is set.
func Decode(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	err := json.NewDecoder(r.Body).Decode(v)

	if errors.Is(err, io.EOF) {
		if allowEmpty {
			return true
		}
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return false
	}

	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}
	return true
}

// Valid runs the validate:"..." rules on v.
func Valid(w http.ResponseWriter, v any) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}

	var validateErrs validator.ValidationErrors
	if errors.As(err, &validateErrs) {
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(validateErrs))
		return false
	}
	response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	return false
}

// DecodeValid is Decode followed by Valid.
func DecodeValid(w http.ResponseWriter, r *http.Request, v any) bool {
	return Decode(w, r, v, false) && Valid(w, v)
}
