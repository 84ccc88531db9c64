package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"offerboard/pkg/mapper"
	"offerboard/pkg/models"
)

const contentTypeJSON = "application/json; charset=utf-8"

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidPayload   = "INVALID_PAYLOAD"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeDuplicateEmail   = "DUPLICATE_EMAIL"
	CodeInvalidReference = "INVALID_REFERENCE"
	CodeRouteNotFound    = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code" example:"USER_NOT_FOUND"`
	Message string `json:"message" example:"user 42 not found"`
	Field   string `json:"field,omitempty" example:"email"`
} // @name Error

// notFoundCode returns USER_NOT_FOUND, ORDER_NOT_FOUND or OFFER_NOT_FOUND.
func notFoundCode(kind models.Kind) string {
	return strings.ToUpper(strings.TrimSuffix(string(kind), "s")) + "_NOT_FOUND"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeEmpty sends a success status without a body.
func writeEmpty(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	writeJSON(w, status, body)
}

func writeNotFound(w http.ResponseWriter, kind models.Kind, id string) {
	writeError(w, http.StatusNotFound, ErrorResponse{
		Code:    notFoundCode(kind),
		Message: fmt.Sprintf("%s %s not found", strings.TrimSuffix(string(kind), "s"), id),
	})
}

// pathID parses the {id} route variable. ok is false when it does not fit
// an int64, in which case no record can match.
func pathID(r *http.Request) (int64, string, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, raw, err == nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, tooLarge
	}
	if err != nil {
		return nil, &mapper.ValidationError{Reason: "request body could not be read: " + err.Error()}
	}
	return body, nil
}

// writeFailure maps mapper and store errors onto responses. Unknown errors
// are logged and reported as 500 without detail.
func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, kind models.Kind, id, op string, err error) {
	var verr *mapper.ValidationError
	var cerr *models.ConstraintError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Code:    CodePayloadTooLarge,
			Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		})
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Code:    CodeInvalidPayload,
			Message: verr.Error(),
			Field:   verr.Field,
		})
	case errors.Is(err, models.ErrNotFound):
		writeNotFound(w, kind, id)
	case errors.As(err, &cerr):
		code := CodeInvalidReference
		if cerr.Constraint == models.ConstraintUniqueEmail {
			code = CodeDuplicateEmail
		}
		writeError(w, http.StatusConflict, ErrorResponse{Code: code, Message: cerr.Detail, Field: cerr.Field})
	default:
		h.log.Error(ctx, op, "error", err)
		writeInternal(w)
	}
}

func writeInternal(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, ErrorResponse{
		Code:    CodeInternal,
		Message: "internal server error",
	})
}
