package portfolio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/nikogura/portfolio-client/pkg/api"
)

func newTestService(t *testing.T, handler http.Handler) (service *Service) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.NewClient(api.Config{BaseURL: server.URL + "/api"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	service = NewService(client, zaptest.NewLogger(t))
	return service
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestGetPersonalInfo(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api"+PathPersonal {
			t.Errorf("Expected path '/api%s', got '%s'", PathPersonal, r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"name":"Test User","stats":[{"number":"10+","label":"Years"}]}}`)
	}))

	env, err := service.GetPersonalInfo(context.Background())
	if err != nil {
		t.Fatalf("GetPersonalInfo failed: %v", err)
	}

	personal, err := Unwrap(&env)
	if err != nil {
		t.Fatalf("Unwrap failed: %v", err)
	}

	if personal.Name != "Test User" {
		t.Errorf("Expected name 'Test User', got '%s'", personal.Name)
	}

	if len(personal.Stats) != 1 || personal.Stats[0].Number != "10+" {
		t.Errorf("Unexpected stats: %v", personal.Stats)
	}
}

func TestReadOperationsWrapFailures(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"detail":"database down"}`)
	}))

	ctx := context.Background()
	tests := []struct {
		name   string
		call   func() error
		prefix string
	}{
		{name: "personal", prefix: "Failed to fetch personal info: ", call: func() (err error) { _, err = service.GetPersonalInfo(ctx); return err }},
		{name: "skills", prefix: "Failed to fetch skills: ", call: func() (err error) { _, err = service.GetSkills(ctx); return err }},
		{name: "experience", prefix: "Failed to fetch experience: ", call: func() (err error) { _, err = service.GetExperience(ctx); return err }},
		{name: "projects", prefix: "Failed to fetch projects: ", call: func() (err error) { _, err = service.GetProjects(ctx); return err }},
		{name: "about", prefix: "Failed to fetch about info: ", call: func() (err error) { _, err = service.GetAbout(ctx); return err }},
		{name: "credentials", prefix: "Failed to fetch credentials: ", call: func() (err error) { _, err = service.GetCredentials(ctx); return err }},
		{name: "contact", prefix: "Failed to submit contact form: ", call: func() (err error) {
			_, err = service.SubmitContact(ctx, ContactSubmission{Name: "A", Email: "a@b.com", Message: "hi"})
			return err
		}},
		{name: "health", prefix: "Health check failed: ", call: func() (err error) { _, err = service.HealthCheck(ctx); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			expected := tt.prefix + "Request failed with status code 500"
			if err.Error() != expected {
				t.Errorf("Expected '%s', got '%s'", expected, err.Error())
			}

			if ErrorMessage(err, "default") != "database down" {
				t.Errorf("Expected server detail 'database down', got '%s'", ErrorMessage(err, "default"))
			}
		})
	}
}

func TestReadOperationNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := api.NewClient(api.Config{BaseURL: baseURL}, nil)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	service := NewService(client, nil)

	_, err = service.GetSkills(context.Background())
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	if !strings.HasPrefix(err.Error(), "Failed to fetch skills: Network Error") {
		t.Errorf("Unexpected error message: %s", err.Error())
	}

	if !api.IsNetworkError(err) {
		t.Error("Expected wrapped *api.NetworkError")
	}
}

func TestReadOperationMalformedBody(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `not json`)
	}))

	_, err := service.GetAbout(context.Background())
	if err == nil {
		t.Fatal("Expected parse error, got nil")
	}
}

func TestSubmitContact(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		if body["inquiry_type"] != "general" {
			t.Errorf("Expected default inquiry_type 'general', got '%s'", body["inquiry_type"])
		}

		if _, ok := body["company"]; ok {
			t.Error("Expected empty company to be omitted")
		}

		writeJSON(w, http.StatusOK, `{"success":true,"message":"Message sent successfully","reference_id":"MSG_20240101_ABC123"}`)
	}))

	result, err := service.SubmitContact(context.Background(), ContactSubmission{Name: "A", Email: "a@b.com", Message: "hi"})
	if err != nil {
		t.Fatalf("SubmitContact failed: %v", err)
	}

	if !result.Success {
		t.Error("Expected success")
	}

	if result.ReferenceID != "MSG_20240101_ABC123" {
		t.Errorf("Expected reference id 'MSG_20240101_ABC123', got '%s'", result.ReferenceID)
	}
}

func TestTrackVisitNeverFails(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		recorded bool
	}{
		{name: "recorded", status: http.StatusOK, body: `{"success":true,"message":"Visit tracked successfully"}`, recorded: true},
		{name: "server error", status: http.StatusInternalServerError, body: `{"detail":"boom"}`},
		{name: "failure envelope", status: http.StatusOK, body: `{"success":false,"error":"Failed to track visit"}`},
		{name: "garbage", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api"+PathAnalyticsVisit {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				writeJSON(w, tt.status, tt.body)
			}))

			result := service.TrackVisit(context.Background(), Visit{Page: "portfolio_loaded"})

			if result.Recorded != tt.recorded {
				t.Errorf("Expected recorded=%v, got %v", tt.recorded, result.Recorded)
			}

			if !tt.recorded && (!result.Ignored || result.Err == nil) {
				t.Errorf("Expected ignored failure with cause, got %+v", result)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"healthy","database":"connected","message":"Portfolio API is operational"}`)
	}))

	health, err := service.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}

	if !health.Healthy() {
		t.Errorf("Expected healthy, got status '%s'", health.Status)
	}
}
