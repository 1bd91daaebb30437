package server

import (
	"net/http"

	"academy-api/internal/assessment"
	"academy-api/internal/assessment/session"
	"academy-api/internal/common/logger"
	"academy-api/internal/common/observability"
	"academy-api/internal/submission"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Assessment         *assessment.Service
	Store              *session.Store
	CRM                submission.Forwarder
	Observability      *observability.Observability
	Logger             logger.Logger
	AutoAdvanceDelayMS int
}

// NewRouter creates the API router with all endpoints.
func NewRouter(deps Dependencies) http.Handler {
	validate := validator.New()

	assessmentHandler := NewAssessmentHandler(deps.Assessment, deps.Store, validate, deps.Logger, deps.AutoAdvanceDelayMS)
	formHandler := NewFormHandler(deps.CRM, deps.Store, validate, deps.Logger)
	sessionHandler := NewSessionHandler(deps.Store)

	r := mux.NewRouter()
	r.Use(requestLogger(deps.Logger, deps.Observability))

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/questions", assessmentHandler.ListQuestions).Methods("GET", "OPTIONS")

	v1.HandleFunc("/assessments", assessmentHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{id}", assessmentHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/assessments/{id}/answers", assessmentHandler.Answer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{id}/advance", assessmentHandler.Advance).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{id}/retreat", assessmentHandler.Retreat).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{id}/contact", assessmentHandler.Contact).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{id}/submit", assessmentHandler.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{id}/result", assessmentHandler.Result).Methods("GET", "OPTIONS")

	v1.HandleFunc("/bookings", formHandler.Booking).Methods("POST", "OPTIONS")
	v1.HandleFunc("/pricing", formHandler.Pricing).Methods("POST", "OPTIONS")

	v1.HandleFunc("/sessions/{id}/prefill", sessionHandler.GetPrefill).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/prefill", sessionHandler.PutPrefill).Methods("PUT", "OPTIONS")

	return r
}
