package lifeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/httpx"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

// Client wraps the downstream productivity backend. Each call creates one
// record and returns the created resource as an opaque document; failures
// carry the remote service's human-readable message.
type Client interface {
	CreateTodo(ctx context.Context, draft types.TodoDraft) (Created, error)
	CreateHabit(ctx context.Context, draft types.HabitDraft) (Created, error)
	CreateMealPlan(ctx context.Context, draft types.MealPlanDraft) (Created, error)
	CreateWorkoutPlan(ctx context.Context, draft types.WorkoutPlanDraft) (Created, error)
	CreateJournalEntry(ctx context.Context, draft types.JournalDraft) (Created, error)
}

// Created is the remote representation of a new record. ID may be empty
// when the remote service does not echo one back.
type Created struct {
	ID   string          `json:"id,omitempty"`
	Kind string          `json:"kind"`
	Raw  json.RawMessage `json:"raw,omitempty"`
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	baseURL := strings.TrimSpace(os.Getenv("LIFE_API_BASE_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("missing LIFE_API_BASE_URL")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeoutSec := 30
	if v := strings.TrimSpace(os.Getenv("LIFE_API_TIMEOUT_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 2
	if v := strings.TrimSpace(os.Getenv("LIFE_API_MAX_RETRIES")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &client{
		log:        log.With("service", "LifeAPIClient"),
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(os.Getenv("LIFE_API_KEY")),
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

func (c *client) CreateTodo(ctx context.Context, draft types.TodoDraft) (Created, error) {
	return c.create(ctx, "/api/todos", "todo", draft)
}

func (c *client) CreateHabit(ctx context.Context, draft types.HabitDraft) (Created, error) {
	return c.create(ctx, "/api/habits", "habit", draft)
}

func (c *client) CreateMealPlan(ctx context.Context, draft types.MealPlanDraft) (Created, error) {
	return c.create(ctx, "/api/meal-plans", "meal_plan", draft)
}

func (c *client) CreateWorkoutPlan(ctx context.Context, draft types.WorkoutPlanDraft) (Created, error) {
	return c.create(ctx, "/api/workout-plans", "workout_plan", draft)
}

func (c *client) CreateJournalEntry(ctx context.Context, draft types.JournalDraft) (Created, error) {
	return c.create(ctx, "/api/journal-entries", "journal_entry", draft)
}

type remoteError struct {
	StatusCode int
	Message    string
}

func (e *remoteError) Error() string {
	return fmt.Sprintf("life api http %d: %s", e.StatusCode, e.Message)
}

func (e *remoteError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// remoteMessage pulls the human-readable error out of a failure body,
// falling back to the raw body when it is not the usual envelope.
func remoteMessage(raw []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = "request failed"
	}
	return msg
}

func (c *client) create(ctx context.Context, path, kind string, payload any) (Created, error) {
	raw, resp, err := c.do(ctx, path, payload)
	if err != nil {
		return Created{}, err
	}
	_ = resp

	out := Created{Kind: kind, Raw: raw}
	var doc struct {
		ID string `json:"id"`
	}
	if uErr := json.Unmarshal(raw, &doc); uErr == nil {
		out.ID = doc.ID
	}
	return out, nil
}

func (c *client) doOnce(ctx context.Context, path string, payload any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &remoteError{StatusCode: resp.StatusCode, Message: remoteMessage(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, path string, payload any) ([]byte, *http.Response, error) {
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, path, payload)
		if err == nil {
			return raw, resp, nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return nil, resp, err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 5*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("Life API request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return nil, nil, fmt.Errorf("unreachable retry loop")
}
