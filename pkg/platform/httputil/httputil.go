// Package httputil renders the JSON envelopes shared by every handler.
//
// Every response body is an object with a boolean "success". Failures carry a
// "message"; successes carry whatever fields the handler's response type declares.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "postboard/pkg/domain-errors"
)

const internalErrorMessage = "Internal server error"

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Validatable is implemented by request bodies that check their own required fields.
type Validatable interface {
	Validate() error
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a status and failure envelope. Errors that are not
// domain errors are reported as internal without leaking their text.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := internalErrorMessage
	if de, ok := dErrors.As(err); ok {
		status = dErrors.ToHTTPStatus(de.Code)
		if status != http.StatusInternalServerError {
			message = de.Message
		}
	}
	WriteJSON(w, status, ErrorResponse{Success: false, Message: message})
}

// DecodeJSON decodes the request body into dst. An empty body leaves dst untouched,
// which matches clients that send no body for field-less requests.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "Invalid request body")
	}
	return nil
}

// DecodeAndPrepare decodes and validates a request body, writing the failure response
// itself. The boolean is false when the handler should return immediately.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req := PT(new(T))
	if err := DecodeJSON(r, req); err != nil {
		logger.WarnContext(ctx, "invalid request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}
	if err := req.Validate(); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}
	return (*T)(req), true
}
