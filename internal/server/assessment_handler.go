package server

import (
	"encoding/json"
	"net/http"

	"academy-api/internal/assessment"
	"academy-api/internal/assessment/collector"
	"academy-api/internal/assessment/questionbank"
	"academy-api/internal/assessment/session"
	"academy-api/internal/common/errors"
	"academy-api/internal/common/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// AssessmentHandler handles the quiz flow endpoints.
type AssessmentHandler struct {
	svc              *assessment.Service
	store            *session.Store
	validate         *validator.Validate
	logger           logger.Logger
	autoAdvanceDelay int
}

func NewAssessmentHandler(svc *assessment.Service, store *session.Store, validate *validator.Validate, log logger.Logger, autoAdvanceDelayMS int) *AssessmentHandler {
	return &AssessmentHandler{
		svc:              svc,
		store:            store,
		validate:         validate,
		logger:           log.WithFields(map[string]interface{}{"component": "assessment-handler"}),
		autoAdvanceDelay: autoAdvanceDelayMS,
	}
}

// QuestionView is the public question shape: prompts and options, never the
// point tables.
type QuestionView struct {
	ID       int                   `json:"id"`
	Prompt   string                `json:"prompt"`
	Modality questionbank.Modality `json:"modality"`
	Section  questionbank.Section  `json:"section"`
	Options  []string              `json:"options,omitempty"`
}

func questionView(q questionbank.Question) QuestionView {
	return QuestionView{
		ID:       q.ID,
		Prompt:   q.Prompt,
		Modality: q.Modality,
		Section:  q.Section,
		Options:  q.Options,
	}
}

// AttemptView is the flow state the frontend renders from.
type AttemptView struct {
	ID            string          `json:"id"`
	State         collector.State `json:"state"`
	CurrentIndex  int             `json:"currentIndex"`
	QuestionCount int             `json:"questionCount"`
	Question      *QuestionView   `json:"question,omitempty"`
	CanAdvance    bool            `json:"canAdvance"`
	AutoAdvanceMS int             `json:"autoAdvanceMs,omitempty"`
}

func (h *AssessmentHandler) attemptView(a *collector.Attempt) AttemptView {
	view := AttemptView{
		ID:            a.ID,
		State:         a.State,
		CurrentIndex:  a.Current,
		QuestionCount: questionbank.Count(),
		CanAdvance:    a.CanAdvance(),
	}
	if a.State == collector.StateAnswering {
		if q, ok := questionbank.Get(a.Current); ok {
			qv := questionView(q)
			view.Question = &qv
			if q.Modality == questionbank.ModalitySingleChoice {
				view.AutoAdvanceMS = h.autoAdvanceDelay
			}
		}
	}
	return view
}

// ListQuestions handles GET /v1/questions
func (h *AssessmentHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions := questionbank.All()
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, questionView(q))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": views})
}

// Start handles POST /v1/assessments
func (h *AssessmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("from")

	attempt, err := h.svc.Start(r.Context(), source)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.attemptView(attempt))
}

// Get handles GET /v1/assessments/{id}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.attemptView(attempt))
}

// AnswerRequest carries the raw answer for the current question: an option
// index for single-choice, free text otherwise.
type AnswerRequest struct {
	Value string `json:"value"`
}

// Answer handles POST /v1/assessments/{id}/answers
func (h *AssessmentHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidationFailedError("invalid request body"))
		return
	}

	attempt, err := h.svc.SubmitAnswer(r.Context(), mux.Vars(r)["id"], req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.attemptView(attempt))
}

// Advance handles POST /v1/assessments/{id}/advance
func (h *AssessmentHandler) Advance(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.svc.Advance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.attemptView(attempt))
}

// Retreat handles POST /v1/assessments/{id}/retreat
func (h *AssessmentHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.svc.Retreat(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.attemptView(attempt))
}

// ContactRequest carries the lead's contact details.
type ContactRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// Contact handles POST /v1/assessments/{id}/contact
func (h *AssessmentHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidationFailedError("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, errors.NewValidationFailedError(err.Error()))
		return
	}

	attempt, err := h.svc.SetContact(r.Context(), mux.Vars(r)["id"], collector.Contact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.attemptView(attempt))
}

// Submit handles POST /v1/assessments/{id}/submit
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Submit(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	if sessionID := r.URL.Query().Get("session"); sessionID != "" {
		if err := h.store.SetFlag(r.Context(), sessionID, session.FlagAssessmentCompleted); err != nil {
			h.logger.Warn("failed to set assessment flag", map[string]interface{}{
				"sessionId": sessionID,
				"error":     err.Error(),
			})
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// Result handles GET /v1/assessments/{id}/result
func (h *AssessmentHandler) Result(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Result(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
