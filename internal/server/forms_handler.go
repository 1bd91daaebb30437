package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"academy-api/internal/assessment/session"
	"academy-api/internal/common/crm"
	"academy-api/internal/common/errors"
	"academy-api/internal/common/logger"
	"academy-api/internal/common/metrics"
	"academy-api/internal/submission"

	"github.com/go-playground/validator/v10"
)

// FormHandler handles the demo-booking and pricing lead forms. Both forward
// straight to the CRM; neither touches the scoring flow.
type FormHandler struct {
	crm      submission.Forwarder
	store    *session.Store
	validate *validator.Validate
	logger   logger.Logger
}

func NewFormHandler(fwd submission.Forwarder, store *session.Store, validate *validator.Validate, log logger.Logger) *FormHandler {
	return &FormHandler{
		crm:      fwd,
		store:    store,
		validate: validate,
		logger:   log.WithFields(map[string]interface{}{"component": "form-handler"}),
	}
}

// BookingRequest is the demo-flight booking form payload.
type BookingRequest struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
	PreferredDate string `json:"preferredDate,omitempty"`
	Message       string `json:"message,omitempty"`
	SessionID     string `json:"sessionId,omitempty"`
}

// PricingRequest is the pricing inquiry form payload.
type PricingRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
	Program   string `json:"program" validate:"required"`
	SessionID string `json:"sessionId,omitempty"`
}

// Booking handles POST /v1/bookings
func (h *FormHandler) Booking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidationFailedError("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, errors.NewValidationFailedError(err.Error()))
		return
	}

	lead := &crm.Lead{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Source:    r.URL.Query().Get("from"),
		Form:      "booking",
		Fields: map[string]interface{}{
			"preferredDate": req.PreferredDate,
			"message":       req.Message,
		},
	}

	id, err := h.forward(r, lead, "booking")
	if err != nil {
		writeError(w, err)
		return
	}

	if req.SessionID != "" {
		if err := h.store.SetFlag(r.Context(), req.SessionID, session.FlagBookingCompleted); err != nil {
			h.logger.Warn("failed to set booking flag", map[string]interface{}{
				"sessionId": req.SessionID,
				"error":     err.Error(),
			})
		}
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"crmId": id})
}

// Pricing handles POST /v1/pricing
func (h *FormHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	var req PricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidationFailedError("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, errors.NewValidationFailedError(err.Error()))
		return
	}

	lead := &crm.Lead{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Source:    r.URL.Query().Get("from"),
		Form:      "pricing",
		Fields: map[string]interface{}{
			"program": req.Program,
		},
	}

	id, err := h.forward(r, lead, "pricing")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"crmId": id})
}

func (h *FormHandler) forward(r *http.Request, lead *crm.Lead, form string) (string, error) {
	start := time.Now()
	id, err := h.crm.ForwardLead(r.Context(), lead)
	metrics.SubmissionDuration.WithLabelValues(form).Observe(time.Since(start).Seconds())
	if err != nil {
		stdErr := errors.NewSubmissionFailedError(fmt.Errorf("%s form: %w", form, err))
		metrics.SubmissionsFailed.WithLabelValues(form, string(stdErr.Code)).Inc()
		h.logger.Error("form lead forwarding failed", map[string]interface{}{
			"form":  form,
			"email": lead.Email,
			"error": err.Error(),
		})
		return "", stdErr
	}

	h.logger.Info("form lead forwarded", map[string]interface{}{
		"form":  form,
		"crmId": id,
	})
	return id, nil
}
