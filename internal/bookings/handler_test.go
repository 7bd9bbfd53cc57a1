package bookings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return env.Error.Code
}

func TestCreateBookingValidation(t *testing.T) {
	h := NewHandler(nil, nil)

	cases := []struct {
		name string
		body string
		code string
	}{
		{"bad json", `{`, "VALIDATION_ERROR"},
		{"missing service type", `{"customer_name":"Bob","email":"bob@example.com"}`, "VALIDATION_ERROR"},
		{"missing name", `{"email":"bob@example.com","service_type":"deep-clean"}`, "VALIDATION_ERROR"},
		{"bad email", `{"customer_name":"Bob","email":"nope","service_type":"deep-clean"}`, "INVALID_EMAIL_FORMAT"},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/bookings-api", strings.NewReader(c.body))
		rec := httptest.NewRecorder()
		h.Create(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.name, rec.Code)
			continue
		}
		if got := errorCode(t, rec); got != c.code {
			t.Errorf("%s: code = %q, want %q", c.name, got, c.code)
		}
	}
}
