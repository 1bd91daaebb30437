package assessment

import (
	"context"
	"sync"
	"testing"
	"time"

	"academy-api/internal/assessment/collector"
	"academy-api/internal/assessment/presenter"
	"academy-api/internal/assessment/questionbank"
	"academy-api/internal/assessment/scorer"
	"academy-api/internal/assessment/session"
	"academy-api/internal/assessment/tier"
	"academy-api/internal/common/config"
	"academy-api/internal/common/database"
	"academy-api/internal/common/errors"
	"academy-api/internal/common/logger"
	"academy-api/internal/submission"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Doubles
// ==========================

type mockSink struct {
	mu      sync.Mutex
	records []*submission.Record
	err     error
}

func (m *mockSink) Submit(_ context.Context, rec *submission.Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.records = append(m.records, rec)
	return "crm-1", nil
}

type mockNotifier struct {
	mu    sync.Mutex
	calls []tier.Tier
	done  chan struct{}
}

func (m *mockNotifier) SendTierFollowUp(_ context.Context, _ collector.Contact, bundle presenter.Bundle, _ scorer.Score) error {
	m.mu.Lock()
	m.calls = append(m.calls, bundle.Tier)
	m.mu.Unlock()
	if m.done != nil {
		close(m.done)
	}
	return nil
}

// manualScheduler holds callbacks until the test fires them.
type manualScheduler struct {
	mu        sync.Mutex
	callbacks []func()
}

func (ms *manualScheduler) Schedule(_ time.Duration, fn func()) func() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	i := len(ms.callbacks)
	ms.callbacks = append(ms.callbacks, fn)
	return func() {
		ms.mu.Lock()
		defer ms.mu.Unlock()
		ms.callbacks[i] = nil
	}
}

func (ms *manualScheduler) fireAll() {
	ms.mu.Lock()
	callbacks := ms.callbacks
	ms.callbacks = nil
	ms.mu.Unlock()
	for _, fn := range callbacks {
		if fn != nil {
			fn()
		}
	}
}

func newTestService(t *testing.T, sink submission.Sink, notifier FollowUpSender, autoAdvance *collector.AutoAdvancer) (*Service, *session.Store) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	store := session.NewStore(rdb, logger.NewTestLogger(t), time.Hour, time.Hour)
	return NewService(store, sink, notifier, autoAdvance, logger.NewTestLogger(t)), store
}

func completeAttempt(t *testing.T, svc *Service) *collector.Attempt {
	t.Helper()
	ctx := context.Background()

	attempt, err := svc.Start(ctx, "landing-page")
	require.NoError(t, err)

	for i := 0; i < questionbank.Count(); i++ {
		value := "0"
		if i == 0 {
			value = "22"
		}
		_, err = svc.SubmitAnswer(ctx, attempt.ID, value)
		require.NoError(t, err)
		attempt, err = svc.Advance(ctx, attempt.ID)
		require.NoError(t, err)
	}

	attempt, err = svc.SetContact(ctx, attempt.ID, collector.Contact{
		FirstName: "Amelia",
		LastName:  "Earhart",
		Phone:     "+1234567890",
		Email:     "amelia@example.com",
	})
	require.NoError(t, err)
	return attempt
}

// ==========================
// Flow Tests
// ==========================

func TestService_StartAndGet(t *testing.T) {
	svc, _ := newTestService(t, &mockSink{}, nil, nil)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, "hero-cta")
	require.NoError(t, err)
	assert.NotEmpty(t, attempt.ID)
	assert.Equal(t, collector.StateAnswering, attempt.State)

	loaded, err := svc.Get(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, attempt.ID, loaded.ID)
}

func TestService_GetUnknownAttempt(t *testing.T) {
	svc, _ := newTestService(t, &mockSink{}, nil, nil)

	_, err := svc.Get(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAttemptNotFound, errors.AsStandardError(err).Code)
}

func TestService_AdvanceRefusedWithoutAnswer(t *testing.T) {
	svc, _ := newTestService(t, &mockSink{}, nil, nil)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, "")
	require.NoError(t, err)

	_, err = svc.Advance(ctx, attempt.ID)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAnswerRequired, errors.AsStandardError(err).Code)
}

func TestService_AnswerPersistsAcrossRequests(t *testing.T) {
	svc, store := newTestService(t, &mockSink{}, nil, nil)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, "")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, attempt.ID, "22")
	require.NoError(t, err)

	stored, err := store.GetAttempt(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, "22", stored.Answers[0])
}

func TestService_RetreatAndReanswer(t *testing.T) {
	svc, _ := newTestService(t, &mockSink{}, nil, nil)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, "")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, attempt.ID, "1")
	require.NoError(t, err)
	_, err = svc.Advance(ctx, attempt.ID)
	require.NoError(t, err)

	attempt, err = svc.Retreat(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Current)
	assert.Equal(t, "1", attempt.Answers[0])

	attempt, err = svc.SubmitAnswer(ctx, attempt.ID, "3")
	require.NoError(t, err)
	assert.Equal(t, "3", attempt.Answers[0])
	assert.Len(t, attempt.Answers, questionbank.Count())
}

func TestService_SubmitHappyPath(t *testing.T) {
	sink := &mockSink{}
	notifier := &mockNotifier{done: make(chan struct{})}
	svc, _ := newTestService(t, sink, notifier, nil)
	ctx := context.Background()

	attempt := completeAttempt(t, svc)

	result, err := svc.Submit(ctx, attempt.ID)
	require.NoError(t, err)

	assert.Equal(t, 150, result.Score.Total)
	assert.Equal(t, tier.Premium, result.Tier)
	assert.Equal(t, tier.Premium, result.Bundle.Tier)

	require.Len(t, sink.records, 1)
	rec := sink.records[0]
	assert.Equal(t, attempt.ID, rec.AttemptID)
	assert.Equal(t, "landing-page", rec.Source)
	assert.Equal(t, "amelia@example.com", rec.Contact.Email)
	assert.Len(t, rec.Answers, questionbank.Count())

	select {
	case <-notifier.done:
	case <-time.After(time.Second):
		t.Fatal("follow-up was never sent")
	}
	assert.Equal(t, []tier.Tier{tier.Premium}, notifier.calls)
}

func TestService_SubmitRefusedBeforeContactStep(t *testing.T) {
	svc, _ := newTestService(t, &mockSink{}, nil, nil)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, "")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, attempt.ID)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidTransition, errors.AsStandardError(err).Code)
}

func TestService_SubmitRefusedWithIncompleteContact(t *testing.T) {
	svc, _ := newTestService(t, &mockSink{}, nil, nil)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, "")
	require.NoError(t, err)

	for i := 0; i < questionbank.Count(); i++ {
		_, err = svc.SubmitAnswer(ctx, attempt.ID, "0")
		require.NoError(t, err)
		_, err = svc.Advance(ctx, attempt.ID)
		require.NoError(t, err)
	}

	_, err = svc.Submit(ctx, attempt.ID)
	require.Error(t, err)

	stdErr := errors.AsStandardError(err)
	assert.Equal(t, errors.ErrCodeContactIncomplete, stdErr.Code)
	assert.Contains(t, stdErr.Metadata["missingFields"], "email")
}

func TestService_SubmitSinkFailureIsRetryable(t *testing.T) {
	sink := &mockSink{err: errors.NewSubmissionFailedError(assert.AnError)}
	svc, store := newTestService(t, sink, nil, nil)
	ctx := context.Background()

	attempt := completeAttempt(t, svc)

	_, err := svc.Submit(ctx, attempt.ID)
	require.Error(t, err)

	// The stored attempt never left the contact step, so the user can retry.
	stored, err := store.GetAttempt(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, collector.StateAwaitingContact, stored.State)

	sink.err = nil
	result, err := svc.Submit(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, tier.Premium, result.Tier)
}

func TestService_SubmitIsIdempotentAfterSuccess(t *testing.T) {
	sink := &mockSink{}
	svc, _ := newTestService(t, sink, nil, nil)
	ctx := context.Background()

	attempt := completeAttempt(t, svc)

	first, err := svc.Submit(ctx, attempt.ID)
	require.NoError(t, err)
	second, err := svc.Submit(ctx, attempt.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, sink.records, 1, "a submitted attempt must not be forwarded twice")
}

func TestService_ResultOnlyAfterSubmission(t *testing.T) {
	svc, _ := newTestService(t, &mockSink{}, nil, nil)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, "")
	require.NoError(t, err)

	_, err = svc.Result(ctx, attempt.ID)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidTransition, errors.AsStandardError(err).Code)

	attempt = completeAttempt(t, svc)
	_, err = svc.Submit(ctx, attempt.ID)
	require.NoError(t, err)

	result, err := svc.Result(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, tier.Premium, result.Tier)
}

// ==========================
// Auto-Advance Tests
// ==========================

func TestService_SingleChoiceAnswerArmsAutoAdvance(t *testing.T) {
	ms := &manualScheduler{}
	autoAdvance := collector.NewAutoAdvancer(ms, 400*time.Millisecond)
	svc, _ := newTestService(t, &mockSink{}, nil, autoAdvance)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, "")
	require.NoError(t, err)

	// Question 0 is free-form: no auto-advance.
	_, err = svc.SubmitAnswer(ctx, attempt.ID, "22")
	require.NoError(t, err)
	ms.fireAll()

	loaded, err := svc.Get(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Current)

	// Question 1 is single-choice: the armed callback advances.
	_, err = svc.Advance(ctx, attempt.ID)
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, attempt.ID, "0")
	require.NoError(t, err)
	ms.fireAll()

	loaded, err = svc.Get(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Current)
}

func TestService_ManualAdvanceReleasesPendingTimer(t *testing.T) {
	ms := &manualScheduler{}
	autoAdvance := collector.NewAutoAdvancer(ms, 400*time.Millisecond)
	svc, _ := newTestService(t, &mockSink{}, nil, autoAdvance)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, "")
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, attempt.ID, "22")
	require.NoError(t, err)
	_, err = svc.Advance(ctx, attempt.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, attempt.ID, "1")
	require.NoError(t, err)
	_, err = svc.Advance(ctx, attempt.ID)
	require.NoError(t, err)

	// The timer armed by the answer was released by the manual advance.
	ms.fireAll()
	loaded, err := svc.Get(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Current, "released timer must not double-advance")
}
