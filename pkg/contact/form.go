// Package contact drives the contact form: required-field validation, one submission at a
// time, and an idle/submitting/success/error state the UI renders from.
package contact

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nikogura/portfolio-client/pkg/logging"
	"github.com/nikogura/portfolio-client/pkg/portfolio"
)

const (
	// DefaultSubmitFailure is used when the backend rejects a message without saying why.
	DefaultSubmitFailure = "Failed to submit contact form"
	// DefaultErrorMessage is shown when a failed submission produced no usable message.
	DefaultErrorMessage = "Failed to send message"
)

// Submitter sends a contact message. *portfolio.Service satisfies it.
type Submitter interface {
	SubmitContact(ctx context.Context, submission portfolio.ContactSubmission) (result portfolio.ContactResult, err error)
}

// Phase is the position of the form in its submission cycle.
type Phase int

// A form starts Idle; every attempt goes through Submitting to Success or Error.
const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSuccess
	PhaseError
)

func (p Phase) String() (name string) {
	switch p {
	case PhaseIdle:
		name = "idle"
	case PhaseSubmitting:
		name = "submitting"
	case PhaseSuccess:
		name = "success"
	case PhaseError:
		name = "error"
	default:
		name = "unknown"
	}
	return name
}

// Success is what the UI shows after the backend accepted a message.
type Success struct {
	Message     string
	ReferenceID string
}

// SubmitState is a snapshot of the form.
type SubmitState struct {
	Phase   Phase
	Success *Success
	Err     string
}

// Form is the contact form controller.
type Form struct {
	submitter Submitter
	notifier  Notifier
	logger    *zap.Logger

	submitMu sync.Mutex
	mu       sync.RWMutex
	state    SubmitState
}

// NewForm creates an idle Form. notifier may be nil.
func NewForm(submitter Submitter, notifier Notifier, logger *zap.Logger) (form *Form) {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}

	form = &Form{
		submitter: submitter,
		notifier:  notifier,
		logger:    logging.OrNop(logger).With(zap.String("component", "contact")),
	}
	return form
}

// State returns a snapshot of the form state.
func (f *Form) State() (state SubmitState) {
	f.mu.RLock()
	state = f.state
	f.mu.RUnlock()
	return state
}

// Validate checks that the required fields are present. Values are not trimmed, and inquiry
// type is not checked against the known set.
func Validate(submission portfolio.ContactSubmission) (err error) {
	var missing []string
	if submission.Name == "" {
		missing = append(missing, "name")
	}
	if submission.Email == "" {
		missing = append(missing, "email")
	}
	if submission.Message == "" {
		missing = append(missing, "message")
	}

	if len(missing) > 0 {
		err = &portfolio.ValidationError{Fields: missing}
	}

	return err
}

// Submit validates and sends a contact message. Validation failures are reported through the
// notifier and returned without touching the state or the backend. Any other failure is
// recorded in the state and returned, so the caller can keep the entered data and retry.
func (f *Form) Submit(ctx context.Context, submission portfolio.ContactSubmission) (result portfolio.ContactResult, err error) {
	err = Validate(submission)
	if err != nil {
		f.notifier.Notify(Notification{
			Kind:        KindError,
			Title:       "Missing Information",
			Description: "Please fill in all required fields.",
		})
		return result, err
	}

	f.submitMu.Lock()
	defer f.submitMu.Unlock()

	f.setState(SubmitState{Phase: PhaseSubmitting})

	result, err = f.submitter.SubmitContact(ctx, submission)
	if err == nil && !result.Success {
		msg := result.Error
		if msg == "" {
			msg = DefaultSubmitFailure
		}
		err = &portfolio.ServerError{Message: msg}
	}

	if err != nil {
		msg := portfolio.ErrorMessage(err, DefaultErrorMessage)
		f.logger.Warn("contact submission failed", zap.Error(err))
		f.setState(SubmitState{Phase: PhaseError, Err: msg})
		f.notifier.Notify(Notification{
			Kind:        KindError,
			Title:       "Failed to Send Message",
			Description: msg,
		})
		return result, err
	}

	f.setState(SubmitState{
		Phase: PhaseSuccess,
		Success: &Success{
			Message:     result.Message,
			ReferenceID: result.ReferenceID,
		},
	})
	f.logger.Info("contact message sent", zap.String("reference_id", result.ReferenceID))
	f.notifier.Notify(Notification{
		Kind:        KindSuccess,
		Title:       "Message Sent Successfully!",
		Description: "Your message has been sent. Reference ID: " + result.ReferenceID,
	})

	return result, err
}

// Reset clears any success or error so the form can be used again.
func (f *Form) Reset() {
	f.setState(SubmitState{Phase: PhaseIdle})
}

func (f *Form) setState(state SubmitState) {
	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
}
