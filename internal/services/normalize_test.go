package services

import (
	"testing"
	"time"

	types "github.com/yungbote/stride-backend/internal/domain"
)

func TestNormalizeTodoDueDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	d := types.TodoDraft{Title: "no date"}
	normalizeTodo(&d, now)
	if d.DueDate != "2026-03-17" {
		t.Fatalf("due date = %q, want 2026-03-17", d.DueDate)
	}

	withDate := types.TodoDraft{Title: "has date", DueDate: "2026-04-01"}
	normalizeTodo(&withDate, now)
	if withDate.DueDate != "2026-04-01" {
		t.Fatalf("existing due date overwritten: %q", withDate.DueDate)
	}
}

func TestNormalizeWorkoutPlanDuration(t *testing.T) {
	tests := []struct {
		name string
		in   types.WorkoutPlanDraft
		want int
	}{
		{"bare days coerced to weeks", types.WorkoutPlanDraft{Duration: 70}, 10},
		{"explicit days unit", types.WorkoutPlanDraft{Duration: 21, DurationUnit: "days"}, 3},
		{"explicit weeks unit", types.WorkoutPlanDraft{Duration: 12, DurationUnit: "weeks"}, 12},
		{"partial week rounds up", types.WorkoutPlanDraft{Duration: 8, DurationUnit: "days"}, 2},
		{"unset defaults", types.WorkoutPlanDraft{}, 8},
		{"clamped to one year", types.WorkoutPlanDraft{DurationWeeks: 80}, 52},
		{"already normalized wins", types.WorkoutPlanDraft{DurationWeeks: 6, Duration: 70}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalizeWorkoutPlan(&tt.in)
			if tt.in.DurationWeeks != tt.want {
				t.Fatalf("durationWeeks = %d, want %d", tt.in.DurationWeeks, tt.want)
			}
			if tt.in.Duration != 0 || tt.in.DurationUnit != "" {
				t.Fatalf("raw duration fields not cleared: %+v", tt.in)
			}
		})
	}
}

func TestNormalizeExercise(t *testing.T) {
	tests := []struct {
		name         string
		in           types.Exercise
		wantReps     int
		wantDuration int
	}{
		{"reps clamped", types.Exercise{Reps: 1500}, 1000, 0},
		{"reps kept", types.Exercise{Reps: 12}, 12, 0},
		{"reps win over duration", types.Exercise{Reps: 12, Duration: 60}, 12, 0},
		{"duration kept", types.Exercise{Duration: 45}, 0, 45},
		{"neither defaults to reps", types.Exercise{}, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalizeExercise(&tt.in)
			if tt.in.Reps != tt.wantReps || tt.in.Duration != tt.wantDuration {
				t.Fatalf("got reps=%d duration=%d, want reps=%d duration=%d",
					tt.in.Reps, tt.in.Duration, tt.wantReps, tt.wantDuration)
			}
		})
	}
}
