package mailgate

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// APIError is an expected failure with a fixed HTTP mapping. Its status,
// code, and message are echoed to the client verbatim, so it must never
// carry internal detail.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string { return e.Message }

// ErrRateLimited is returned when a client exhausts its submission quota.
var ErrRateLimited = &APIError{
	Status:  http.StatusTooManyRequests,
	Code:    "RATE_LIMITED",
	Message: "Too many requests. Please try again later.",
}

// errorBody is the JSON error contract.
type errorBody struct {
	Error   string  `json:"error"`
	Code    string  `json:"code"`
	Details []Issue `json:"details,omitempty"`
}

// WriteAPIError logs err and writes the mapped response. Schema failures get
// 400 with the issue list, APIErrors are echoed as-is, and everything else
// collapses to a generic 500 so internals never leak to the client.
func WriteAPIError(logger *slog.Logger, w http.ResponseWriter, err error) {
	logAPIError(logger, err)

	var schemaErr *SchemaError
	var apiErr *APIError
	switch {
	case errors.As(err, &schemaErr):
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "Validation failed",
			Code:    "VALIDATION_ERROR",
			Details: schemaErr.Issues,
		})
	case errors.As(err, &apiErr):
		writeJSON(w, apiErr.Status, errorBody{Error: apiErr.Message, Code: apiErr.Code})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error: "An unexpected error occurred",
			Code:  "INTERNAL_SERVER_ERROR",
		})
	}
}

// logAPIError logs the raw error first; if the handler cannot cope with it
// (custom handlers have panicked on values they could not serialize), it
// retries with just the message string. A logging failure never reaches the
// caller.
func logAPIError(logger *slog.Logger, err error) {
	defer func() {
		if recover() == nil {
			return
		}
		defer func() { _ = recover() }()
		logger.Error("api error", "err", err.Error())
	}()
	logger.Error("api error", "err", err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
