// Package submission forwards completed assessments and form leads to the
// external CRM. Forwarding failures never invalidate a locally computed
// score or tier.
package submission

import (
	"context"

	"academy-api/internal/assessment/collector"
	"academy-api/internal/assessment/scorer"
	"academy-api/internal/assessment/tier"
)

// AnswerRecord pairs a question id with the raw answer given.
type AnswerRecord struct {
	QuestionID int    `json:"questionId"`
	Value      string `json:"value"`
}

// Record is the full downstream payload for one completed assessment.
type Record struct {
	AttemptID string            `json:"attemptId"`
	Contact   collector.Contact `json:"contact"`
	Answers   []AnswerRecord    `json:"answers"`
	Score     scorer.Score      `json:"score"`
	Tier      tier.Tier         `json:"tier"`
	Source    string            `json:"source,omitempty"`
}

// Sink accepts completed assessment records. Implementations return an error
// on delivery failure; callers treat it as retryable and keep the result.
type Sink interface {
	Submit(ctx context.Context, rec *Record) (string, error)
}
