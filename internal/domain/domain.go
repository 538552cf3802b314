package domain

import (
	"github.com/yungbote/stride-backend/internal/domain/auth"
	"github.com/yungbote/stride-backend/internal/domain/planner"
	"github.com/yungbote/stride-backend/internal/domain/user"
)

type (
	User      = user.User
	UserToken = auth.UserToken

	Conversation = planner.Conversation
	Message      = planner.Message
	ActionPlan   = planner.ActionPlan
	ActionItem   = planner.ActionItem
	ActionType   = planner.ActionType

	Intent           = planner.Intent
	ValueUnit        = planner.ValueUnit
	FollowUpQuestion = planner.FollowUpQuestion

	TodoDraft        = planner.TodoDraft
	HabitDraft       = planner.HabitDraft
	Meal             = planner.Meal
	MealPlanDraft    = planner.MealPlanDraft
	Exercise         = planner.Exercise
	Workout          = planner.Workout
	WorkoutPlanDraft = planner.WorkoutPlanDraft
	JournalDraft     = planner.JournalDraft

	ExecutionProgress = planner.ExecutionProgress
	ExecutionError    = planner.ExecutionError
	ExecutionResult   = planner.ExecutionResult
	ExecutionSummary  = planner.ExecutionSummary
)

var (
	ValidQuestionType = planner.ValidQuestionType
	ValidActionType   = planner.ValidActionType
)

const (
	RoleUser      = planner.RoleUser
	RoleAssistant = planner.RoleAssistant
	RoleSystem    = planner.RoleSystem

	ConversationActive    = planner.ConversationActive
	ConversationCompleted = planner.ConversationCompleted
	ConversationAbandoned = planner.ConversationAbandoned

	ActionCreateTodos       = planner.ActionCreateTodos
	ActionCreateHabits      = planner.ActionCreateHabits
	ActionCreateMealPlan    = planner.ActionCreateMealPlan
	ActionCreateWorkoutPlan = planner.ActionCreateWorkoutPlan
	ActionCreateJournal     = planner.ActionCreateJournal

	ActionPending   = planner.ActionPending
	ActionExecuting = planner.ActionExecuting
	ActionCompleted = planner.ActionCompleted
	ActionFailed    = planner.ActionFailed

	ProgressInProgress = planner.ProgressInProgress
	ProgressCompleted  = planner.ProgressCompleted
	ProgressFailed     = planner.ProgressFailed
)
