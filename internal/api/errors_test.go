package api

import (
	"net/http"
	"testing"
)

func TestResponseError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"detail string", 409, `{"detail":"Habit already completed today"}`, "Habit already completed today"},
		{"error string", 400, `{"error":"bad input"}`, "bad input"},
		{"detail wins over error", 400, `{"detail":"first","error":"second"}`, "first"},
		{"validation list", 422, `{"detail":[{"msg":"field required"},{"msg":"too long"}]}`, "field required; too long"},
		{"plain text", 500, "upstream exploded", "upstream exploded"},
		{"json without known fields", 500, `{"other":1}`, `{"other":1}`},
		{"empty body", 503, "", "HTTP 503: Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := responseError(tt.status, []byte(tt.body))
			if err.Message != tt.message {
				t.Errorf("Message = %q, want %q", err.Message, tt.message)
			}
			if err.Status != tt.status || err.StatusText != http.StatusText(tt.status) {
				t.Errorf("status = %d %q", err.Status, err.StatusText)
			}
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	conflict := responseError(http.StatusConflict, nil)
	if !IsConflict(conflict) || IsUnauthorized(conflict) || IsNotFound(conflict) || IsNetwork(conflict) {
		t.Error("409 classified incorrectly")
	}
	if !IsUnauthorized(responseError(http.StatusUnauthorized, nil)) {
		t.Error("401 not unauthorized")
	}
	if !IsNetwork(networkError(http.ErrHandlerTimeout)) {
		t.Error("transport failure not classified as network")
	}
	if IsConflict(nil) {
		t.Error("nil error classified as conflict")
	}
}
