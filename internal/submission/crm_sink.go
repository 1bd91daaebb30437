package submission

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"academy-api/internal/common/crm"
	"academy-api/internal/common/errors"
	"academy-api/internal/common/logger"
	"academy-api/internal/common/metrics"

	"github.com/xeipuuv/gojsonschema"
)

// leadSchema guards the wire contract with the CRM webhook: a payload that
// fails validation is a bug on our side, caught before dispatch.
const leadSchema = `{
	"type": "object",
	"properties": {
		"Email": {"type": "string", "minLength": 1},
		"First_Name": {"type": "string", "minLength": 1},
		"Last_Name": {"type": "string", "minLength": 1},
		"Phone": {"type": "string"},
		"Lead_Source": {"type": "string"},
		"Form": {"type": "string"},
		"Fields": {
			"type": "object",
			"properties": {
				"tier": {"type": "string", "enum": ["premium", "strong", "potential", "not-ready"]},
				"totalScore": {"type": "integer", "minimum": 0, "maximum": 150},
				"qualificationScore": {"type": "integer", "minimum": 0, "maximum": 50},
				"aptitudeScore": {"type": "integer", "minimum": 0, "maximum": 50},
				"readinessScore": {"type": "integer", "minimum": 0, "maximum": 50}
			},
			"required": ["tier", "totalScore"]
		}
	},
	"required": ["Email", "First_Name", "Last_Name", "Fields"]
}`

// Forwarder matches the CRM client surface so tests can substitute it.
type Forwarder interface {
	ForwardLead(ctx context.Context, lead *crm.Lead) (string, error)
}

// CRMSink forwards assessment records to the CRM webhook.
type CRMSink struct {
	client Forwarder
	logger logger.Logger
	schema *gojsonschema.Schema
}

func NewCRMSink(client Forwarder, log logger.Logger) (*CRMSink, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(leadSchema))
	if err != nil {
		return nil, fmt.Errorf("compile lead schema: %w", err)
	}
	return &CRMSink{
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "crm-sink"}),
		schema: schema,
	}, nil
}

// Submit builds, validates and forwards the lead payload. Returns the CRM
// record id on success.
func (s *CRMSink) Submit(ctx context.Context, rec *Record) (string, error) {
	lead := buildLead(rec)

	if err := s.validate(lead); err != nil {
		return "", err
	}

	start := time.Now()
	id, err := s.client.ForwardLead(ctx, lead)
	metrics.SubmissionDuration.WithLabelValues("assessment").Observe(time.Since(start).Seconds())
	if err != nil {
		stdErr := errors.NewSubmissionFailedError(err)
		metrics.SubmissionsFailed.WithLabelValues("assessment", string(stdErr.Code)).Inc()
		s.logger.Error("lead submission failed", map[string]interface{}{
			"attemptId": rec.AttemptID,
			"tier":      rec.Tier,
			"error":     err.Error(),
		})
		return "", stdErr
	}

	s.logger.Info("lead forwarded to CRM", map[string]interface{}{
		"attemptId": rec.AttemptID,
		"crmId":     id,
		"tier":      rec.Tier,
		"total":     rec.Score.Total,
	})
	return id, nil
}

func buildLead(rec *Record) *crm.Lead {
	answers := make(map[string]interface{}, len(rec.Answers))
	for _, a := range rec.Answers {
		answers[strconv.Itoa(a.QuestionID)] = a.Value
	}

	return &crm.Lead{
		Email:     rec.Contact.Email,
		FirstName: rec.Contact.FirstName,
		LastName:  rec.Contact.LastName,
		Phone:     rec.Contact.Phone,
		Source:    rec.Source,
		Form:      "assessment",
		Fields: map[string]interface{}{
			"tier":               string(rec.Tier),
			"totalScore":         rec.Score.Total,
			"qualificationScore": rec.Score.Qualification,
			"aptitudeScore":      rec.Score.Aptitude,
			"readinessScore":     rec.Score.Readiness,
			"answers":            answers,
		},
	}
}

func (s *CRMSink) validate(lead *crm.Lead) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(lead))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("lead payload validation failed: %v", errs)
	}
	return nil
}
