package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nikogura/portfolio-client/pkg/analytics"
	"github.com/nikogura/portfolio-client/pkg/api"
	"github.com/nikogura/portfolio-client/pkg/portfolio"
)

type fakeSubmitter struct {
	form        *Form
	result      portfolio.ContactResult
	err         error
	calls       int
	phaseDuring Phase
}

func (f *fakeSubmitter) SubmitContact(ctx context.Context, submission portfolio.ContactSubmission) (portfolio.ContactResult, error) {
	f.calls++
	if f.form != nil {
		f.phaseDuring = f.form.State().Phase
	}
	return f.result, f.err
}

type notificationLog struct {
	mu    sync.Mutex
	items []Notification
}

func (n *notificationLog) Notify(item Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, item)
}

func (n *notificationLog) Last() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.items[len(n.items)-1]
}

func validSubmission() portfolio.ContactSubmission {
	return portfolio.ContactSubmission{Name: "A", Email: "a@b.com", Message: "Hello there"}
}

func TestSubmitSuccess(t *testing.T) {
	submitter := &fakeSubmitter{result: portfolio.ContactResult{
		Success:     true,
		Message:     "Message sent successfully",
		ReferenceID: "MSG_20240101_ABC123",
	}}
	notes := &notificationLog{}
	form := NewForm(submitter, notes, zaptest.NewLogger(t))
	submitter.form = form

	assert.Equal(t, PhaseIdle, form.State().Phase)

	result, err := form.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.Equal(t, PhaseSubmitting, submitter.phaseDuring)
	assert.Equal(t, "MSG_20240101_ABC123", result.ReferenceID)

	state := form.State()
	assert.Equal(t, PhaseSuccess, state.Phase)
	require.NotNil(t, state.Success)
	assert.Equal(t, "MSG_20240101_ABC123", state.Success.ReferenceID)
	assert.Equal(t, "Message sent successfully", state.Success.Message)
	assert.Empty(t, state.Err)

	assert.Equal(t, KindSuccess, notes.Last().Kind)
	assert.Contains(t, notes.Last().Description, "MSG_20240101_ABC123")
}

func TestSubmitValidationShortCircuits(t *testing.T) {
	tests := []struct {
		name       string
		submission portfolio.ContactSubmission
		missing    []string
	}{
		{name: "empty message", submission: portfolio.ContactSubmission{Name: "A", Email: "a@b.com", Message: ""}, missing: []string{"message"}},
		{name: "everything missing", submission: portfolio.ContactSubmission{}, missing: []string{"name", "email", "message"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submitter := &fakeSubmitter{}
			notes := &notificationLog{}
			form := NewForm(submitter, notes, nil)

			_, err := form.Submit(context.Background(), tt.submission)
			require.Error(t, err)

			var validationErr *portfolio.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.missing, validationErr.Fields)

			assert.Equal(t, 0, submitter.calls, "validation must block before the service layer")
			assert.Equal(t, PhaseIdle, form.State().Phase)
			assert.Equal(t, "Missing Information", notes.Last().Title)
		})
	}
}

func TestSubmitValidationNeverReachesNetwork(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	client, err := api.NewClient(api.Config{BaseURL: server.URL}, nil)
	require.NoError(t, err)
	form := NewForm(portfolio.NewService(client, nil), nil, nil)

	_, err = form.Submit(context.Background(), portfolio.ContactSubmission{Name: "A", Email: "a@b.com", Message: ""})
	require.Error(t, err)
	assert.Equal(t, 0, hits)
}

func TestSubmitWhitespaceOnlyFieldsArePresent(t *testing.T) {
	submission := portfolio.ContactSubmission{Name: "  ", Email: " ", Message: "\t"}
	assert.NoError(t, Validate(submission))

	submitter := &fakeSubmitter{result: portfolio.ContactResult{Success: true, ReferenceID: "MSG_1"}}
	form := NewForm(submitter, nil, nil)

	_, err := form.Submit(context.Background(), submission)
	require.NoError(t, err)
	assert.Equal(t, 1, submitter.calls)
	assert.Equal(t, PhaseSuccess, form.State().Phase)
}

func TestTrackingFailureAfterSubmitKeepsSuccess(t *testing.T) {
	var visits int
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case portfolio.PathContactMessage:
			_, _ = w.Write([]byte(`{"success":true,"message":"Message sent successfully","reference_id":"MSG_20240101_ABC123"}`))
		case portfolio.PathAnalyticsVisit:
			mu.Lock()
			visits++
			mu.Unlock()
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"analytics down"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := api.NewClient(api.Config{BaseURL: server.URL}, zaptest.NewLogger(t))
	require.NoError(t, err)
	service := portfolio.NewService(client, zaptest.NewLogger(t))

	form := NewForm(service, nil, zaptest.NewLogger(t))
	tracker := analytics.NewTracker(service, analytics.Config{Enabled: true}, zaptest.NewLogger(t))

	_, err = form.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	result := tracker.TrackEvent(context.Background(), "contact_submitted", nil)
	assert.True(t, result.Ignored)
	assert.Error(t, result.Err)

	tracker.Go(context.Background(), portfolio.Visit{Page: analytics.EventPagePrefix + "contact_submitted"})
	tracker.Wait()

	mu.Lock()
	assert.Equal(t, 2, visits)
	mu.Unlock()

	state := form.State()
	assert.Equal(t, PhaseSuccess, state.Phase)
	assert.Empty(t, state.Err)
	require.NotNil(t, state.Success)
	assert.Equal(t, "MSG_20240101_ABC123", state.Success.ReferenceID)
}

func TestSubmitFailureEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		result   portfolio.ContactResult
		expected string
	}{
		{name: "server text", result: portfolio.ContactResult{Success: false, Error: "mailbox full"}, expected: "mailbox full"},
		{name: "fallback text", result: portfolio.ContactResult{Success: false}, expected: DefaultSubmitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := &notificationLog{}
			form := NewForm(&fakeSubmitter{result: tt.result}, notes, nil)

			_, err := form.Submit(context.Background(), validSubmission())
			require.Error(t, err)
			assert.Equal(t, tt.expected, err.Error())

			state := form.State()
			assert.Equal(t, PhaseError, state.Phase)
			assert.Equal(t, tt.expected, state.Err)
			assert.Nil(t, state.Success)
			assert.Equal(t, KindError, notes.Last().Kind)
		})
	}
}

func TestSubmitServiceErrorUsesServerDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Failed to send message"}`))
	}))
	defer server.Close()

	client, err := api.NewClient(api.Config{BaseURL: server.URL}, zaptest.NewLogger(t))
	require.NoError(t, err)
	form := NewForm(portfolio.NewService(client, nil), nil, zaptest.NewLogger(t))

	_, err = form.Submit(context.Background(), validSubmission())
	require.Error(t, err)
	assert.Equal(t, "Failed to submit contact form: Request failed with status code 500", err.Error())
	assert.Equal(t, "Failed to send message", form.State().Err)
}

func TestSubmitRetryAfterError(t *testing.T) {
	submitter := &fakeSubmitter{err: errors.New("Network Error: connection refused")}
	form := NewForm(submitter, nil, nil)
	submitter.form = form

	_, err := form.Submit(context.Background(), validSubmission())
	require.Error(t, err)
	assert.Equal(t, PhaseError, form.State().Phase)

	submitter.err = nil
	submitter.result = portfolio.ContactResult{Success: true, ReferenceID: "MSG_1"}

	_, err = form.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, PhaseSubmitting, submitter.phaseDuring, "a new attempt clears the previous error")
	assert.Equal(t, PhaseSuccess, form.State().Phase)
	assert.Empty(t, form.State().Err)
}

func TestReset(t *testing.T) {
	submitter := &fakeSubmitter{result: portfolio.ContactResult{Success: true, ReferenceID: "MSG_1"}}
	form := NewForm(submitter, nil, nil)

	_, err := form.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	form.Reset()

	state := form.State()
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.Nil(t, state.Success)
	assert.Empty(t, state.Err)
	assert.Equal(t, 1, submitter.calls, "reset has no side effects")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "submitting", PhaseSubmitting.String())
	assert.Equal(t, "success", PhaseSuccess.String())
	assert.Equal(t, "error", PhaseError.String())
}
