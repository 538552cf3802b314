package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/stride-backend/internal/clients/lifeapi"
	"github.com/yungbote/stride-backend/internal/data/db"
	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/ctxutil"
	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/realtime"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func authedContext(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID:    userID,
		SessionID: uuid.New(),
	})
}

func seedTestUser(t *testing.T, gdb *gorm.DB) *types.User {
	t.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     uuid.New().String() + "@test.dev",
		Password:  "pw",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// fakeAI returns scripted responses in order, then repeats the last one.
type fakeAI struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("no scripted response")
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

// fakeLife records every create call; failOn marks draft names/titles
// whose create should fail.
type fakeLife struct {
	mu       sync.Mutex
	calls    []string
	failOn   map[string]bool
	todos    []types.TodoDraft
	workouts []types.WorkoutPlanDraft
}

func newFakeLife() *fakeLife {
	return &fakeLife{failOn: map[string]bool{}}
}

func (f *fakeLife) record(kind, name string) (lifeapi.Created, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, kind+":"+name)
	if f.failOn[name] {
		return lifeapi.Created{}, fmt.Errorf("remote rejected %q", name)
	}
	return lifeapi.Created{ID: uuid.New().String(), Kind: kind}, nil
}

func (f *fakeLife) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeLife) CreateTodo(ctx context.Context, d types.TodoDraft) (lifeapi.Created, error) {
	f.mu.Lock()
	f.todos = append(f.todos, d)
	f.mu.Unlock()
	return f.record("todo", d.Title)
}

func (f *fakeLife) CreateHabit(ctx context.Context, d types.HabitDraft) (lifeapi.Created, error) {
	return f.record("habit", d.Name)
}

func (f *fakeLife) CreateMealPlan(ctx context.Context, d types.MealPlanDraft) (lifeapi.Created, error) {
	return f.record("meal_plan", d.Name)
}

func (f *fakeLife) CreateWorkoutPlan(ctx context.Context, d types.WorkoutPlanDraft) (lifeapi.Created, error) {
	f.mu.Lock()
	f.workouts = append(f.workouts, d)
	f.mu.Unlock()
	return f.record("workout_plan", d.Name)
}

func (f *fakeLife) CreateJournalEntry(ctx context.Context, d types.JournalDraft) (lifeapi.Created, error) {
	return f.record("journal_entry", d.Title)
}

// sinkStream collects every emitted frame in order.
type sinkStream struct {
	mu     sync.Mutex
	events []sinkEvent
	closed bool
}

type sinkEvent struct {
	Event string
	Data  any
}

func (s *sinkStream) Emit(event string, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.events = append(s.events, sinkEvent{Event: event, Data: data})
}

func (s *sinkStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *sinkStream) progressEvents() []types.ExecutionProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.ExecutionProgress
	for _, e := range s.events {
		if e.Event == realtime.StreamEventProgress {
			if p, ok := e.Data.(types.ExecutionProgress); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

func (s *sinkStream) terminal() (string, any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.Event == realtime.StreamEventComplete || e.Event == realtime.StreamEventError {
			return e.Event, e.Data
		}
	}
	return "", nil
}

// captureEmitter keeps broadcast messages for assertions.
type captureEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (c *captureEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}
