package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Send(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != FeedbackPath || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Response{Response: "Thanks!", LLM: &LLMStatus{OK: true}})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", 0)
	reply, err := client.Send(context.Background(), Request{
		Message:   "drafty",
		ZoneID:    "zone-1",
		SessionID: "sess_1",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Text != "Thanks!" || reply.Degraded {
		t.Errorf("unexpected reply %+v", reply)
	}
	if got.ZoneID != "zone-1" || got.History == nil {
		t.Errorf("unexpected wire request %+v", got)
	}
}

func TestClient_SendDegraded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"Noted.","llm":{"ok":false}}`))
	}))
	defer server.Close()

	reply, err := NewClient(server.URL, 0).Send(context.Background(), Request{Message: "m", ZoneID: "z"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !reply.Degraded || reply.Warning == "" {
		t.Errorf("expected degraded reply with warning, got %+v", reply)
	}
}

func TestClient_SendHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"unknown zone"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 0).Send(context.Background(), Request{Message: "m", ZoneID: "z"})
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Status != http.StatusNotFound || httpErr.Message != "unknown zone" {
		t.Errorf("unexpected error %+v", httpErr)
	}
}

func TestClient_SendValidates(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", 0)
	if _, err := client.Send(context.Background(), Request{Message: "m"}); !errors.Is(err, ErrMissingZone) {
		t.Errorf("expected ErrMissingZone, got %v", err)
	}
	if _, err := client.Send(context.Background(), Request{ZoneID: "z"}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestResponseFromReply(t *testing.T) {
	resp := ResponseFromReply(Reply{Text: "hi", Degraded: true, Warning: "w"})
	if resp.LLM == nil || resp.LLM.OK || resp.LLM.Message != "w" {
		t.Errorf("unexpected response %+v", resp)
	}
	if back := resp.Reply(); back.Text != "hi" || !back.Degraded || back.Warning != "w" {
		t.Errorf("unexpected reply %+v", back)
	}
}
