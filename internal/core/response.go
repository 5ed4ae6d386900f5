package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"soilsafe/internal/types"
)

const maxRequestBodyBytes = 1 << 20 // 1 MiB

// APIErrorResponse is the uniform error envelope returned by every endpoint.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable error code, a human-readable
// message, optional structured details, and the correlation ID of the failed
// request.
type ErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// JSON writes v as a JSON response with the given status code. Encoding
// failures are logged; at that point headers are already written, so nothing
// more can be sent to the client.
func (s *Server) JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.ErrorContext(r.Context(), "failed to encode response",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
	}
}

// Error writes err as a structured error response. AppErrors map to their
// declared HTTP status and expose their code and details; any other error is
// treated as an unexpected internal failure and its message is not leaked to
// the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	requestID := types.GetRequestID(r.Context())

	var appErr *types.AppError
	if errors.As(err, &appErr) {
		status := appErr.Code.HTTPStatus()
		if status >= http.StatusInternalServerError {
			s.Logger.ErrorContext(r.Context(), "request failed",
				slog.String("code", string(appErr.Code)),
				slog.String("error", appErr.Error()),
				slog.String("path", r.URL.Path),
			)
		}
		s.JSON(w, r, status, APIErrorResponse{Error: ErrorDetail{
			Code:      string(appErr.Code),
			Message:   appErr.Message,
			Details:   appErr.Details,
			RequestID: requestID,
		}})
		return
	}

	s.Logger.ErrorContext(r.Context(), "unexpected error",
		slog.String("error", err.Error()),
		slog.String("path", r.URL.Path),
	)
	s.JSON(w, r, http.StatusInternalServerError, APIErrorResponse{Error: ErrorDetail{
		Code:      string(types.ErrCodeInternalUnexpected),
		Message:   "an unexpected error occurred",
		RequestID: requestID,
	}})
}

// DecodeJSON decodes the request body into dst with a size cap and strict
// field checking. Unknown fields, malformed syntax, type mismatches, empty
// bodies, and trailing garbage all produce a validation error the caller can
// pass straight to Error.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return mapDecodeError(err)
	}

	if dec.More() {
		return types.NewAppError(types.ErrCodeValidationInvalidJSON,
			"request body must contain a single JSON object", nil)
	}

	return nil
}

// ReadBody drains the request body with the standard size cap, so handlers
// that must try more than one request schema can unmarshal the same bytes
// repeatedly.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, mapDecodeError(err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidJSON,
			"request body is empty", nil)
	}
	return body, nil
}

// UnmarshalBody unmarshals body into dst, translating JSON failures into the
// standard validation error. Unlike DecodeJSON it tolerates unknown fields;
// callers use it when a body may match one of several schemas.
func UnmarshalBody(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return mapDecodeError(err)
	}
	return nil
}

func mapDecodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &syntaxErr):
		return types.NewAppError(types.ErrCodeValidationInvalidJSON,
			fmt.Sprintf("malformed JSON at position %d", syntaxErr.Offset), err)

	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return types.NewAppError(types.ErrCodeValidationInvalidJSON,
			fmt.Sprintf("invalid value for field %q", field), err).
			WithDetails(map[string]any{"field": field})

	case errors.As(err, &maxBytesErr):
		return types.NewAppError(types.ErrCodeValidationInvalidJSON,
			"request body exceeds the maximum allowed size", err)

	case errors.Is(err, io.EOF):
		return types.NewAppError(types.ErrCodeValidationInvalidJSON,
			"request body is empty", err)

	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return types.NewAppError(types.ErrCodeValidationInvalidJSON,
			fmt.Sprintf("unknown field %q", field), err).
			WithDetails(map[string]any{"field": field})

	default:
		return types.NewAppError(types.ErrCodeValidationInvalidJSON,
			"could not parse request body", err)
	}
}

// writeJSON is a dependency-free response writer used by middleware that may
// fire before the server's full error path is safe to use, notably the panic
// recoverer.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
