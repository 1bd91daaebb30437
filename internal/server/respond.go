package server

import (
	"encoding/json"
	"net/http"

	"academy-api/internal/common/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Code      errors.ErrorCode `json:"code"`
	Message   string           `json:"message"`
	Details   string           `json:"details,omitempty"`
	Retryable bool             `json:"retryable"`
}

// writeError renders a StandardError with its mapped HTTP status. Plain
// errors are treated as internal.
func writeError(w http.ResponseWriter, err error) {
	stdErr := errors.AsStandardError(err)
	writeJSON(w, errors.HTTPStatus(stdErr.Code), map[string]interface{}{
		"error": errorBody{
			Code:      stdErr.Code,
			Message:   stdErr.Message,
			Details:   stdErr.Details,
			Retryable: stdErr.Retryable,
		},
	})
}
