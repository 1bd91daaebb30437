package server

import (
	"encoding/json"
	"net/http"

	"academy-api/internal/assessment/session"
	"academy-api/internal/common/errors"

	"github.com/gorilla/mux"
)

// SessionHandler exposes the cross-page prefill cache and milestone flags.
// Nothing in scoring ever reads these.
type SessionHandler struct {
	store *session.Store
}

func NewSessionHandler(store *session.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// GetPrefill handles GET /v1/sessions/{id}/prefill
func (h *SessionHandler) GetPrefill(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	prefill, err := h.store.GetPrefill(r.Context(), sessionID)
	if err != nil {
		writeError(w, errors.NewSessionCacheFailedError(err))
		return
	}

	assessmentDone, err := h.store.HasFlag(r.Context(), sessionID, session.FlagAssessmentCompleted)
	if err != nil {
		writeError(w, errors.NewSessionCacheFailedError(err))
		return
	}
	bookingDone, err := h.store.HasFlag(r.Context(), sessionID, session.FlagBookingCompleted)
	if err != nil {
		writeError(w, errors.NewSessionCacheFailedError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"prefill":             prefill,
		"assessmentCompleted": assessmentDone,
		"bookingCompleted":    bookingDone,
	})
}

// PutPrefill handles PUT /v1/sessions/{id}/prefill
func (h *SessionHandler) PutPrefill(w http.ResponseWriter, r *http.Request) {
	var prefill session.Prefill
	if err := json.NewDecoder(r.Body).Decode(&prefill); err != nil {
		writeError(w, errors.NewValidationFailedError("invalid request body"))
		return
	}

	if err := h.store.SavePrefill(r.Context(), mux.Vars(r)["id"], prefill); err != nil {
		writeError(w, errors.NewSessionCacheFailedError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
