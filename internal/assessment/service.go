// Package assessment orchestrates the lead assessment flow: attempt
// lifecycle, scoring, tier classification, CRM forwarding and follow-up.
package assessment

import (
	"context"
	"time"

	"academy-api/internal/assessment/collector"
	"academy-api/internal/assessment/presenter"
	"academy-api/internal/assessment/questionbank"
	"academy-api/internal/assessment/scorer"
	"academy-api/internal/assessment/session"
	"academy-api/internal/assessment/tier"
	"academy-api/internal/common/errors"
	"academy-api/internal/common/logger"
	"academy-api/internal/common/metrics"
	"academy-api/internal/submission"

	"github.com/google/uuid"
)

// FollowUpSender delivers tier-specific follow-up after submission.
type FollowUpSender interface {
	SendTierFollowUp(ctx context.Context, contact collector.Contact, bundle presenter.Bundle, score scorer.Score) error
}

// Result is the complete outcome bundle for a submitted attempt.
type Result struct {
	Score  scorer.Score     `json:"score"`
	Tier   tier.Tier        `json:"tier"`
	Bundle presenter.Bundle `json:"bundle"`
}

// Service drives attempts through the progression state machine and hands
// completed ones to the submission sink.
type Service struct {
	store       *session.Store
	sink        submission.Sink
	notifier    FollowUpSender
	autoAdvance *collector.AutoAdvancer
	logger      logger.Logger
}

func NewService(store *session.Store, sink submission.Sink, notifier FollowUpSender, autoAdvance *collector.AutoAdvancer, log logger.Logger) *Service {
	return &Service{
		store:       store,
		sink:        sink,
		notifier:    notifier,
		autoAdvance: autoAdvance,
		logger:      log.WithFields(map[string]interface{}{"component": "assessment-service"}),
	}
}

// Start creates a fresh attempt tagged with its source channel.
func (s *Service) Start(ctx context.Context, source string) (*collector.Attempt, error) {
	attempt := collector.NewAttempt(uuid.New().String(), source, questionbank.Count())
	if err := s.store.SaveAttempt(ctx, attempt); err != nil {
		return nil, errors.NewSessionCacheFailedError(err)
	}

	sourceLabel := source
	if sourceLabel == "" {
		sourceLabel = "direct"
	}
	metrics.AttemptsStarted.WithLabelValues(sourceLabel).Inc()
	metrics.AttemptsActive.Inc()

	s.logger.Info("attempt started", map[string]interface{}{
		"attemptId": attempt.ID,
		"source":    sourceLabel,
	})
	return attempt, nil
}

// Get loads an attempt or fails with ATTEMPT_NOT_FOUND.
func (s *Service) Get(ctx context.Context, id string) (*collector.Attempt, error) {
	attempt, err := s.store.GetAttempt(ctx, id)
	if err != nil {
		return nil, errors.NewSessionCacheFailedError(err)
	}
	if attempt == nil {
		return nil, errors.NewAttemptNotFoundError(id)
	}
	return attempt, nil
}

// SubmitAnswer stores (or overwrites) the answer for the current question.
// Single-choice answers arm a short auto-advance; free-form never does.
func (s *Service) SubmitAnswer(ctx context.Context, id, value string) (*collector.Attempt, error) {
	attempt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current := attempt.Current
	if !attempt.Answer(value) {
		return nil, errors.NewInvalidTransitionError(string(attempt.State), "answer")
	}
	if err := s.store.SaveAttempt(ctx, attempt); err != nil {
		return nil, errors.NewSessionCacheFailedError(err)
	}

	if q, ok := questionbank.Get(current); ok && q.Modality == questionbank.ModalitySingleChoice && s.autoAdvance != nil {
		s.autoAdvance.Arm(id, func() { s.advanceLater(id) })
	} else if s.autoAdvance != nil {
		s.autoAdvance.Release(id)
	}

	return attempt, nil
}

// Advance moves the attempt forward, refusing when the current question is
// unanswered.
func (s *Service) Advance(ctx context.Context, id string) (*collector.Attempt, error) {
	if s.autoAdvance != nil {
		s.autoAdvance.Release(id)
	}

	attempt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if attempt.State != collector.StateAnswering {
		return nil, errors.NewInvalidTransitionError(string(attempt.State), "advance")
	}
	if !attempt.Advance() {
		return nil, errors.NewAnswerRequiredError(attempt.Current)
	}
	if err := s.store.SaveAttempt(ctx, attempt); err != nil {
		return nil, errors.NewSessionCacheFailedError(err)
	}
	return attempt, nil
}

// Retreat moves the attempt back one question; stored answers are retained.
func (s *Service) Retreat(ctx context.Context, id string) (*collector.Attempt, error) {
	if s.autoAdvance != nil {
		s.autoAdvance.Release(id)
	}

	attempt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !attempt.Retreat() {
		return nil, errors.NewInvalidTransitionError(string(attempt.State), "retreat")
	}
	if err := s.store.SaveAttempt(ctx, attempt); err != nil {
		return nil, errors.NewSessionCacheFailedError(err)
	}
	return attempt, nil
}

// SetContact records the lead's contact details at the contact step.
func (s *Service) SetContact(ctx context.Context, id string, contact collector.Contact) (*collector.Attempt, error) {
	attempt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !attempt.SetContact(contact) {
		return nil, errors.NewInvalidTransitionError(string(attempt.State), "contact")
	}
	if err := s.store.SaveAttempt(ctx, attempt); err != nil {
		return nil, errors.NewSessionCacheFailedError(err)
	}
	return attempt, nil
}

// Submit scores the attempt, forwards the lead to the CRM and triggers the
// follow-up. A forwarding failure leaves the attempt re-submittable; the
// computed score and tier are final either way.
func (s *Service) Submit(ctx context.Context, id string) (*Result, error) {
	if s.autoAdvance != nil {
		s.autoAdvance.Release(id)
	}

	attempt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if attempt.State == collector.StateShowingResults {
		return s.resultFor(attempt), nil
	}

	if !attempt.BeginSubmission() {
		if attempt.State != collector.StateAwaitingContact {
			return nil, errors.NewInvalidTransitionError(string(attempt.State), "submit")
		}
		return nil, errors.NewContactIncompleteError(attempt.MissingContactFields())
	}

	result := s.resultFor(attempt)

	rec := &submission.Record{
		AttemptID: attempt.ID,
		Contact:   attempt.Contact,
		Answers:   answerRecords(attempt.Answers),
		Score:     result.Score,
		Tier:      result.Tier,
		Source:    attempt.Source,
	}

	if _, err := s.sink.Submit(ctx, rec); err != nil {
		// Not persisted in awaiting-submission: the stored attempt stays at
		// the contact step so the user can retry.
		return nil, err
	}

	attempt.CompleteSubmission()
	if err := s.store.SaveAttempt(ctx, attempt); err != nil {
		return nil, errors.NewSessionCacheFailedError(err)
	}

	metrics.AttemptsCompleted.WithLabelValues(string(result.Tier)).Inc()
	metrics.AttemptsActive.Dec()

	if s.notifier != nil {
		contact := attempt.Contact
		bundle := result.Bundle
		score := result.Score
		go func() {
			notifyCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.notifier.SendTierFollowUp(notifyCtx, contact, bundle, score); err != nil {
				s.logger.Warn("follow-up delivery failed", map[string]interface{}{
					"attemptId": id,
					"error":     err.Error(),
				})
			}
		}()
	}

	return result, nil
}

// Result returns the outcome bundle for a submitted attempt.
func (s *Service) Result(ctx context.Context, id string) (*Result, error) {
	attempt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if attempt.State != collector.StateShowingResults {
		return nil, errors.NewInvalidTransitionError(string(attempt.State), "result")
	}
	return s.resultFor(attempt), nil
}

func (s *Service) resultFor(attempt *collector.Attempt) *Result {
	score := scorer.Compute(questionbank.All(), attempt.Answers)
	t := tier.Classify(score.Total)
	return &Result{
		Score:  score,
		Tier:   t,
		Bundle: presenter.Present(t),
	}
}

// advanceLater is the armed auto-advance callback: it reloads the attempt and
// advances if the gate is still open. Best-effort only.
func (s *Service) advanceLater(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	attempt, err := s.store.GetAttempt(ctx, id)
	if err != nil || attempt == nil {
		return
	}
	if !attempt.Advance() {
		return
	}
	if err := s.store.SaveAttempt(ctx, attempt); err != nil {
		s.logger.Warn("auto-advance save failed", map[string]interface{}{
			"attemptId": id,
			"error":     err.Error(),
		})
	}
}

func answerRecords(answers []string) []submission.AnswerRecord {
	records := make([]submission.AnswerRecord, 0, len(answers))
	for i, value := range answers {
		records = append(records, submission.AnswerRecord{QuestionID: i, Value: value})
	}
	return records
}
