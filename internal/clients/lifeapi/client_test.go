package lifeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	t.Setenv("LIFE_API_BASE_URL", baseURL)
	t.Setenv("LIFE_API_MAX_RETRIES", "1")
	c, err := NewClient(log)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestCreateTodoReturnsRemoteID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/todos" {
			t.Errorf("path = %q, want /api/todos", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["title"] != "buy food" {
			t.Errorf("title = %v, want buy food", body["title"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"todo-1","title":"buy food"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.CreateTodo(context.Background(), types.TodoDraft{Title: "buy food"})
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	if got.ID != "todo-1" {
		t.Fatalf("id = %q, want todo-1", got.ID)
	}
	if got.Kind != "todo" {
		t.Fatalf("kind = %q, want todo", got.Kind)
	}
}

func TestCreateSurfacesRemoteErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"name is required"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.CreateHabit(context.Background(), types.HabitDraft{})
	if err == nil {
		t.Fatal("expected error")
	}
	var re *remoteError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T, want *remoteError", err)
	}
	if re.Message != "name is required" {
		t.Fatalf("message = %q, want name is required", re.Message)
	}
	if re.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", re.StatusCode)
	}
}

func TestCreateRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id":"journal-1"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.CreateJournalEntry(context.Background(), types.JournalDraft{Title: "day one"})
	if err != nil {
		t.Fatalf("create journal entry: %v", err)
	}
	if got.ID != "journal-1" {
		t.Fatalf("id = %q, want journal-1", got.ID)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("calls = %d, want 2", n)
	}
}

func TestCreateDoesNotRetryValidationFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad payload"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.CreateMealPlan(context.Background(), types.MealPlanDraft{})
	if err == nil {
		t.Fatal("expected error")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}
