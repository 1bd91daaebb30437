package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AttemptsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_attempts_started_total",
			Help: "Total number of assessment attempts started",
		},
		[]string{"source"},
	)

	AttemptsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_attempts_completed_total",
			Help: "Total number of assessment attempts scored and submitted",
		},
		[]string{"tier"},
	)

	SubmissionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_submissions_failed_total",
			Help: "Total number of failed CRM lead submissions",
		},
		[]string{"form", "error_code"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "lead_submission_duration_seconds",
			Help: "Duration of CRM lead submissions in seconds",
		},
		[]string{"form"},
	)

	AttemptsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assessment_attempts_active",
			Help: "Number of attempts currently held in the session store",
		},
	)
)
