package scorer

import (
	"testing"

	"academy-api/internal/assessment/questionbank"

	"github.com/stretchr/testify/assert"
)

// bestAnswers picks option 0 on every choice question and a target-band age.
func bestAnswers() []string {
	answers := make([]string, questionbank.Count())
	for i := range answers {
		answers[i] = "0"
	}
	answers[0] = "22"
	return answers
}

// worstAnswers picks the last option everywhere and an unparseable age.
func worstAnswers() []string {
	answers := make([]string, questionbank.Count())
	for i, q := range questionbank.All() {
		if q.Modality == questionbank.ModalitySingleChoice {
			answers[i] = "3"
		} else {
			answers[i] = "n/a"
		}
	}
	return answers
}

func TestCompute_MaximumScore(t *testing.T) {
	score := Compute(questionbank.All(), bestAnswers())

	assert.Equal(t, 50, score.Qualification)
	assert.Equal(t, 50, score.Aptitude)
	assert.Equal(t, 50, score.Readiness)
	assert.Equal(t, 150, score.Total)
}

func TestCompute_MinimumAnsweredScore(t *testing.T) {
	score := Compute(questionbank.All(), worstAnswers())

	// Qualification: age 0 + 4 + 3 + 2; aptitude: 8x1 + 6x0; readiness: 3+3+2.
	assert.Equal(t, 9, score.Qualification)
	assert.Equal(t, 8, score.Aptitude)
	assert.Equal(t, 8, score.Readiness)
	assert.Equal(t, 25, score.Total)
}

func TestCompute_EmptyAnswersScoreZero(t *testing.T) {
	score := Compute(questionbank.All(), make([]string, questionbank.Count()))

	assert.Equal(t, Score{}, score)
}

func TestCompute_SkipsUnansweredSlots(t *testing.T) {
	answers := make([]string, questionbank.Count())
	answers[1] = "0" // education: 15

	score := Compute(questionbank.All(), answers)

	assert.Equal(t, 15, score.Qualification)
	assert.Equal(t, 0, score.Aptitude)
	assert.Equal(t, 0, score.Readiness)
	assert.Equal(t, 15, score.Total)
}

func TestCompute_ShortAnswerSliceIsTolerated(t *testing.T) {
	score := Compute(questionbank.All(), []string{"22", "0"})

	assert.Equal(t, 25, score.Qualification)
	assert.Equal(t, 25, score.Total)
}

func TestCompute_TotalIsSumOfRoundedSections(t *testing.T) {
	score := Compute(questionbank.All(), bestAnswers())
	assert.Equal(t, score.Qualification+score.Aptitude+score.Readiness, score.Total)
}

func TestCompute_IsDeterministic(t *testing.T) {
	answers := bestAnswers()
	first := Compute(questionbank.All(), answers)
	second := Compute(questionbank.All(), answers)

	assert.Equal(t, first, second)
}

func TestCompute_UnknownOptionContributesZero(t *testing.T) {
	answers := bestAnswers()
	answers[1] = "9" // out-of-range option index

	score := Compute(questionbank.All(), answers)

	assert.Equal(t, 35, score.Qualification)
	assert.Equal(t, 135, score.Total)
}
