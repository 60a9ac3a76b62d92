package portfolio

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/nikogura/portfolio-client/pkg/api"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		def      string
		expected string
	}{
		{
			name:     "server detail wins",
			err:      errors.Wrap(&ServerError{StatusCode: 500, Detail: "database down"}, "Failed to fetch skills"),
			def:      "default",
			expected: "database down",
		},
		{
			name:     "message when no detail",
			err:      errors.Wrap(&ServerError{StatusCode: 404}, "Failed to fetch skills"),
			def:      "default",
			expected: "Failed to fetch skills: Request failed with status code 404",
		},
		{
			name:     "network error message",
			err:      &api.NetworkError{Err: errors.New("connection refused")},
			def:      "default",
			expected: "Network Error: connection refused",
		},
		{
			name:     "nil falls back to default",
			err:      nil,
			def:      "Something went wrong",
			expected: "Something went wrong",
		},
		{
			name:     "empty message falls back to default",
			err:      errors.New(""),
			def:      "Something went wrong",
			expected: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ErrorMessage(tt.err, tt.def)
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestDetailFromBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "string detail", body: `{"detail":"Failed to send message"}`, expected: "Failed to send message"},
		{name: "validation list detail", body: `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"}]}`, expected: "value is not a valid email address"},
		{name: "envelope error", body: `{"success":false,"error":"boom"}`, expected: "boom"},
		{name: "message only", body: `{"message":"maintenance"}`, expected: "maintenance"},
		{name: "not json", body: `<html>Bad Gateway</html>`, expected: ""},
		{name: "empty", body: ``, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := detailFromBody([]byte(tt.body))
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []string{"message"}}
	expected := "Please fill in all required fields. Missing: message"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}
}
