package feedback

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eleven-am/zone-feedback/internal/dispatch"
	"github.com/labstack/echo/v4"
)

func submit(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Submit(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	return rec
}

func TestHandler_RegisterRoutes(t *testing.T) {
	env := setupTestEnv(t)
	h := NewHandler(env.service, slog.New(slog.NewTextHandler(io.Discard, nil)))

	e := echo.New()
	h.RegisterRoutes(e.Group("/api/feedback"))

	found := false
	for _, r := range e.Routes() {
		if r.Path == "/api/feedback" && r.Method == http.MethodPost {
			found = true
		}
	}
	if !found {
		t.Error("expected POST /api/feedback")
	}
}

func TestHandler_Submit(t *testing.T) {
	env := setupTestEnv(t)
	h := NewHandler(env.service, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := submit(t, h, `{"message":"too cold","zoneId":"l3-east","sessionId":"s1","history":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dispatch.Response
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Response == "" || resp.LLM == nil || !resp.LLM.OK {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestHandler_SubmitErrors(t *testing.T) {
	env := setupTestEnv(t)
	h := NewHandler(env.service, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"malformed", `{"message":`, http.StatusBadRequest, "invalid request body"},
		{"missing message", `{"zoneId":"l3-east"}`, http.StatusBadRequest, "message is required"},
		{"missing zone", `{"message":"hi"}`, http.StatusBadRequest, "zoneId is required"},
		{"unknown zone", `{"message":"hi","zoneId":"nope"}`, http.StatusNotFound, "unknown zone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := submit(t, h, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var resp dispatch.ErrorResponse
			json.NewDecoder(rec.Body).Decode(&resp)
			if resp.Error != tt.wantError {
				t.Errorf("expected error %q, got %q", tt.wantError, resp.Error)
			}
		})
	}
}
