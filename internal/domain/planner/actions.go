package planner

import (
	"encoding/json"
	"fmt"
)

type ActionType string

const (
	ActionCreateTodos       ActionType = "create_todos"
	ActionCreateHabits      ActionType = "create_habits"
	ActionCreateMealPlan    ActionType = "create_meal_plan"
	ActionCreateWorkoutPlan ActionType = "create_workout_plan"
	ActionCreateJournal     ActionType = "create_journal"
)

func ValidActionType(t ActionType) bool {
	switch t {
	case ActionCreateTodos, ActionCreateHabits, ActionCreateMealPlan, ActionCreateWorkoutPlan, ActionCreateJournal:
		return true
	default:
		return false
	}
}

// ListValued reports whether the action's payload is a list of discrete
// records (one create call per element) rather than a single object.
func (t ActionType) ListValued() bool {
	switch t {
	case ActionCreateTodos, ActionCreateHabits, ActionCreateJournal:
		return true
	default:
		return false
	}
}

const (
	ActionPending   = "pending"
	ActionExecuting = "executing"
	ActionCompleted = "completed"
	ActionFailed    = "failed"
)

// ActionItem is one typed unit of work within a plan. Data is a tagged
// payload: its concrete shape is keyed by Type and decoded on demand.
// Count must equal the number of discrete records the item will create;
// single-object action types carry Count=1.
type ActionItem struct {
	Type    ActionType      `json:"type"`
	Count   int             `json:"count"`
	Preview json.RawMessage `json:"preview,omitempty"`
	Data    json.RawMessage `json:"data"`
	Status  string          `json:"status"`
	Error   string          `json:"error,omitempty"`
}

type TodoDraft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Category    string `json:"category,omitempty"`
}

type HabitDraft struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Frequency   string   `json:"frequency,omitempty"`
	Days        []string `json:"days,omitempty"`
	Category    string   `json:"category,omitempty"`
}

type Meal struct {
	Name        string   `json:"name"`
	MealType    string   `json:"mealType,omitempty"`
	Calories    int      `json:"calories,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
}

type MealPlanDraft struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	DurationWeeks int    `json:"durationWeeks,omitempty"`
	DailyCalories int    `json:"dailyCalories,omitempty"`
	Meals         []Meal `json:"meals,omitempty"`
}

type Exercise struct {
	Name     string `json:"name"`
	Sets     int    `json:"sets,omitempty"`
	Reps     int    `json:"reps,omitempty"`
	Duration int    `json:"duration,omitempty"` // seconds, mutually exclusive with Reps
	Rest     int    `json:"rest,omitempty"`
}

type Workout struct {
	Name      string     `json:"name"`
	Day       string     `json:"day,omitempty"`
	Exercises []Exercise `json:"exercises,omitempty"`
}

type WorkoutPlanDraft struct {
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Duration      int       `json:"duration,omitempty"` // raw model output, days or weeks
	DurationUnit  string    `json:"durationUnit,omitempty"`
	DurationWeeks int       `json:"durationWeeks,omitempty"` // normalized
	Level         string    `json:"level,omitempty"`
	Workouts      []Workout `json:"workouts,omitempty"`
}

type JournalDraft struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
	Mood    string `json:"mood,omitempty"`
}

func (a *ActionItem) DecodeTodos() ([]TodoDraft, error) {
	var out []TodoDraft
	if err := json.Unmarshal(a.Data, &out); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", a.Type, err)
	}
	return out, nil
}

func (a *ActionItem) DecodeHabits() ([]HabitDraft, error) {
	var out []HabitDraft
	if err := json.Unmarshal(a.Data, &out); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", a.Type, err)
	}
	return out, nil
}

func (a *ActionItem) DecodeJournal() ([]JournalDraft, error) {
	var out []JournalDraft
	if err := json.Unmarshal(a.Data, &out); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", a.Type, err)
	}
	return out, nil
}

func (a *ActionItem) DecodeMealPlan() (*MealPlanDraft, error) {
	var out MealPlanDraft
	if err := json.Unmarshal(a.Data, &out); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", a.Type, err)
	}
	return &out, nil
}

func (a *ActionItem) DecodeWorkoutPlan() (*WorkoutPlanDraft, error) {
	var out WorkoutPlanDraft
	if err := json.Unmarshal(a.Data, &out); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", a.Type, err)
	}
	return &out, nil
}
