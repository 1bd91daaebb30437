// Package collector implements the assessment progression state machine: one
// attempt moves through the questions, then the contact form, then submission.
package collector

import (
	"strings"
	"time"
)

// State is the attempt's position in the flow.
type State string

const (
	StateAnswering          State = "answering"
	StateAwaitingContact    State = "awaiting-contact"
	StateAwaitingSubmission State = "awaiting-submission"
	StateShowingResults     State = "showing-results"
)

// Contact holds the lead's contact details. Collected after the last question,
// never used for scoring.
type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Attempt is one assessment run. It owns its answer set exclusively and is
// serialized as-is into the session store between requests.
type Attempt struct {
	ID          string     `json:"id"`
	Source      string     `json:"source,omitempty"`
	State       State      `json:"state"`
	Current     int        `json:"current"`
	Answers     []string   `json:"answers"`
	Contact     Contact    `json:"contact"`
	StartedAt   time.Time  `json:"startedAt"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// NewAttempt creates a fresh attempt with one empty answer slot per question.
func NewAttempt(id, source string, questionCount int) *Attempt {
	return &Attempt{
		ID:        id,
		Source:    source,
		State:     StateAnswering,
		Current:   0,
		Answers:   make([]string, questionCount),
		StartedAt: time.Now().UTC(),
	}
}

// Answer stores value for the current question, replacing any previous answer
// for that slot. Returns false when the attempt is past the answering phase.
func (a *Attempt) Answer(value string) bool {
	if a.State != StateAnswering {
		return false
	}
	a.Answers[a.Current] = value
	return true
}

// CanAdvance reports whether the proceed-gate is open: the current question
// must hold a non-empty answer.
func (a *Attempt) CanAdvance() bool {
	return a.State == StateAnswering && strings.TrimSpace(a.Answers[a.Current]) != ""
}

// Advance moves to the next question, or to the contact step after the last
// one. A closed gate refuses the transition and returns false; no state is
// modified.
func (a *Attempt) Advance() bool {
	if !a.CanAdvance() {
		return false
	}
	if a.Current+1 < len(a.Answers) {
		a.Current++
		return true
	}
	a.State = StateAwaitingContact
	return true
}

// Retreat moves back one question. The answer previously given for the
// current question is retained. Returns false at the first question or
// outside the answering phase.
func (a *Attempt) Retreat() bool {
	if a.State != StateAnswering || a.Current == 0 {
		return false
	}
	a.Current--
	return true
}

// SetContact records contact details while awaiting the contact step.
func (a *Attempt) SetContact(c Contact) bool {
	if a.State != StateAwaitingContact {
		return false
	}
	a.Contact = c
	return true
}

// MissingContactFields lists the contact fields still empty. Submission is
// gated on this being empty.
func (a *Attempt) MissingContactFields() []string {
	var missing []string
	if strings.TrimSpace(a.Contact.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(a.Contact.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(a.Contact.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(a.Contact.Email) == "" {
		missing = append(missing, "email")
	}
	return missing
}

// BeginSubmission transitions to awaiting-submission once every contact field
// is non-empty. A refusal returns false and leaves the state untouched.
func (a *Attempt) BeginSubmission() bool {
	if a.State != StateAwaitingContact {
		return false
	}
	if len(a.MissingContactFields()) > 0 {
		return false
	}
	a.State = StateAwaitingSubmission
	return true
}

// CompleteSubmission marks the attempt as submitted and terminal.
func (a *Attempt) CompleteSubmission() bool {
	if a.State != StateAwaitingSubmission {
		return false
	}
	now := time.Now().UTC()
	a.SubmittedAt = &now
	a.State = StateShowingResults
	return true
}
