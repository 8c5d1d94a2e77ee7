package zone

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T) (*Handler, *Store) {
	store := setupTestStore(t)
	return NewHandler(store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, _ := newTestHandler(t)
	e := echo.New()
	h.RegisterRoutes(e.Group("/zones"))

	paths := make(map[string]bool)
	for _, r := range e.Routes() {
		paths[r.Path] = true
	}
	for _, p := range []string{"/zones", "/zones/:id"} {
		if !paths[p] {
			t.Errorf("expected route %s", p)
		}
	}
}

func TestHandler_List(t *testing.T) {
	h, store := newTestHandler(t)
	store.Create(context.Background(), &Zone{ID: "z1", Name: "Lobby"})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/zones", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	var resp ListResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if len(resp.Zones) != 1 || resp.Zones[0].ID != "z1" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestHandler_Get(t *testing.T) {
	h, store := newTestHandler(t)
	store.Create(context.Background(), &Zone{ID: "z1", Name: "Lobby"})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/zones/z1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("z1")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_GetNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/zones/nope", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("nope")

	err := h.Get(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
