package services

import (
	"strings"
	"time"

	types "github.com/yungbote/stride-backend/internal/domain"
)

const (
	defaultWorkoutWeeks = 8
	maxWorkoutWeeks     = 52
	maxExerciseReps     = 1000
	defaultExerciseReps = 10
)

// normalizeTodo fills a missing due date with generation time plus seven
// days, in YYYY-MM-DD form.
func normalizeTodo(d *types.TodoDraft, now time.Time) {
	if strings.TrimSpace(d.DueDate) == "" {
		d.DueDate = now.AddDate(0, 0, 7).Format("2006-01-02")
	}
}

// normalizeWorkoutPlan coerces the generator's duration fields into a
// single durationWeeks value and enforces the reps/duration contract on
// every exercise.
func normalizeWorkoutPlan(d *types.WorkoutPlanDraft) {
	weeks := d.DurationWeeks
	if weeks <= 0 && d.Duration > 0 {
		switch strings.ToLower(strings.TrimSpace(d.DurationUnit)) {
		case "week", "weeks":
			weeks = d.Duration
		default:
			// bare numbers are day counts
			weeks = (d.Duration + 6) / 7
		}
	}
	if weeks <= 0 {
		weeks = defaultWorkoutWeeks
	}
	if weeks > maxWorkoutWeeks {
		weeks = maxWorkoutWeeks
	}
	d.DurationWeeks = weeks
	d.Duration = 0
	d.DurationUnit = ""

	for wi := range d.Workouts {
		for ei := range d.Workouts[wi].Exercises {
			normalizeExercise(&d.Workouts[wi].Exercises[ei])
		}
	}
}

// normalizeExercise keeps exactly one of reps/duration. Reps win when
// both are present; when neither is usable the exercise defaults to a
// rep count.
func normalizeExercise(e *types.Exercise) {
	if e.Reps > 0 {
		if e.Reps > maxExerciseReps {
			e.Reps = maxExerciseReps
		}
		e.Duration = 0
		return
	}
	if e.Duration > 0 {
		e.Reps = 0
		return
	}
	e.Reps = defaultExerciseReps
	e.Duration = 0
}

// normalizeMealPlan applies the same duration defaulting as workout
// plans; meals pass through untouched.
func normalizeMealPlan(d *types.MealPlanDraft) {
	if d.DurationWeeks <= 0 {
		d.DurationWeeks = defaultWorkoutWeeks
	}
	if d.DurationWeeks > maxWorkoutWeeks {
		d.DurationWeeks = maxWorkoutWeeks
	}
}
