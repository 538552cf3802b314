package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stride-backend/internal/clients/lifeapi"
	"github.com/yungbote/stride-backend/internal/data/repos/plannerrepo"
	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/observability"
	"github.com/yungbote/stride-backend/internal/platform/apierr"
	"github.com/yungbote/stride-backend/internal/platform/dbctx"
	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/realtime"
)

// ExecutionService runs one confirmed pass over a plan's actions against
// the downstream API. The pass is strictly sequential: actions in plan
// order, items in list order, so the progress numerator only ever grows.
type ExecutionService interface {
	Execute(ctx context.Context, planID uuid.UUID, confirms map[types.ActionType]bool, stream realtime.ProgressStream) (*types.ExecutionSummary, error)
}

type executionService struct {
	log      *logger.Logger
	db       *gorm.DB
	plans    plannerrepo.ActionPlanRepo
	convos   plannerrepo.ConversationRepo
	life     lifeapi.Client
	notifier PlanNotifier
}

func NewExecutionService(
	log *logger.Logger,
	db *gorm.DB,
	plans plannerrepo.ActionPlanRepo,
	convos plannerrepo.ConversationRepo,
	life lifeapi.Client,
	notifier PlanNotifier,
) ExecutionService {
	return &executionService{
		log:      log.With("service", "ExecutionService"),
		db:       db,
		plans:    plans,
		convos:   convos,
		life:     life,
		notifier: notifier,
	}
}

// execState tracks one pass. total is fixed before the first external
// call and never recomputed.
type execState struct {
	stream    realtime.ProgressStream
	total     int
	completed int
	results   []types.ExecutionResult
	errors    []types.ExecutionError
}

func (st *execState) emit(step, status string) {
	errs := make([]string, 0, len(st.errors))
	for _, e := range st.errors {
		errs = append(errs, fmt.Sprintf("%s: %s", e.Action, e.Error))
	}
	st.stream.Emit(realtime.StreamEventProgress, types.ExecutionProgress{
		Step:      step,
		Completed: st.completed,
		Total:     st.total,
		Status:    status,
		Errors:    errs,
	})
}

func (s *executionService) Execute(ctx context.Context, planID uuid.UUID, confirms map[types.ActionType]bool, stream realtime.ProgressStream) (*types.ExecutionSummary, error) {
	defer stream.Close()

	summary, err := s.run(ctx, planID, confirms, stream)
	if err != nil {
		// A failure before any action starts is attributed to a single
		// synthetic action so clients render it uniformly.
		stream.Emit(realtime.StreamEventError, map[string]any{
			"error":  err.Error(),
			"errors": []types.ExecutionError{{Action: "execution", Error: err.Error()}},
		})
		return nil, err
	}

	stream.Emit(realtime.StreamEventComplete, summary)
	return summary, nil
}

func (s *executionService) run(ctx context.Context, planID uuid.UUID, confirms map[types.ActionType]bool, stream realtime.ProgressStream) (*types.ExecutionSummary, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetOwned(dbctx.Context{Ctx: ctx}, planID, userID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apierr.NotFound("plan_not_found", fmt.Errorf("plan %s", planID))
	}
	if plan.Executed {
		return nil, apierr.Conflict("plan_already_executed", fmt.Errorf("plan %s already executed", planID))
	}

	actions, err := plan.GetActions()
	if err != nil {
		return nil, apierr.New(500, "plan_corrupt", err)
	}

	confirmed := make([]int, 0, len(actions))
	total := 0
	for i := range actions {
		if confirms[actions[i].Type] {
			confirmed = append(confirmed, i)
			total += actions[i].Count
		}
	}
	if len(confirmed) == 0 {
		return nil, apierr.BadRequest("no_actions_confirmed", fmt.Errorf("no confirmed actions"))
	}

	startedAt := time.Now().UTC()
	claimed, err := s.plans.MarkExecuted(dbctx.Context{Ctx: ctx}, plan.ID, startedAt)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, apierr.Conflict("plan_already_executed", fmt.Errorf("plan %s already executed", planID))
	}

	st := &execState{stream: stream, total: total}
	st.emit("Starting execution", types.ProgressInProgress)

	failedTypes := make(map[types.ActionType]bool)
	for _, idx := range confirmed {
		action := &actions[idx]
		base := st.completed
		st.emit(actionStep(action.Type), types.ProgressInProgress)

		created, runErr := s.runAction(ctx, action, st, startedAt)
		st.completed = base + action.Count
		if runErr != nil {
			st.errors = append(st.errors, types.ExecutionError{
				Action: string(action.Type),
				Error:  errorMessage(runErr),
			})
			failedTypes[action.Type] = true
			s.log.Warn("Action failed; continuing",
				"plan_id", plan.ID,
				"action", action.Type,
				"error", runErr,
			)
		} else {
			st.results = append(st.results, types.ExecutionResult{
				Action:  string(action.Type),
				Created: created,
			})
		}
		if m := observability.Current(); m != nil {
			m.ObserveExecutionAction(string(action.Type), runErr != nil, action.Count)
		}
		st.emit(actionStep(action.Type), types.ProgressInProgress)
	}

	finalStatus := types.ProgressCompleted
	if len(st.errors) > 0 {
		finalStatus = types.ProgressFailed
	}
	st.emit("Execution finished", finalStatus)

	for _, idx := range confirmed {
		if failedTypes[actions[idx].Type] {
			actions[idx].Status = types.ActionFailed
		} else {
			actions[idx].Status = types.ActionCompleted
		}
	}
	if err := plan.SetActions(actions); err != nil {
		return nil, err
	}
	plan.Executed = true
	plan.ExecutedAt = &startedAt

	if err := s.persistOutcome(ctx, userID, plan, len(st.errors)); err != nil {
		// records were created downstream; surface the summary anyway
		s.log.Error("Failed to persist execution outcome", "plan_id", plan.ID, "error", err)
	}

	summary := &types.ExecutionSummary{
		Success: len(st.errors) == 0,
		Results: st.results,
		Errors:  st.errors,
	}
	s.notifier.ExecutionFinished(userID, plan.ID, summary)
	return summary, nil
}

func (s *executionService) runAction(ctx context.Context, action *types.ActionItem, st *execState, now time.Time) ([]any, error) {
	switch action.Type {
	case types.ActionCreateTodos:
		return s.createTodos(ctx, action, st, now)
	case types.ActionCreateHabits:
		return s.createHabits(ctx, action, st)
	case types.ActionCreateJournal:
		return s.createJournalEntries(ctx, action, st)
	case types.ActionCreateMealPlan:
		return s.createMealPlan(ctx, action, st)
	case types.ActionCreateWorkoutPlan:
		return s.createWorkoutPlan(ctx, action, st)
	default:
		return nil, fmt.Errorf("unknown action type %q", action.Type)
	}
}

func (s *executionService) createTodos(ctx context.Context, action *types.ActionItem, st *execState, now time.Time) ([]any, error) {
	drafts, err := action.DecodeTodos()
	if err != nil {
		return nil, err
	}
	created := make([]any, 0, len(drafts))
	for i := range drafts {
		normalizeTodo(&drafts[i], now)
		res, err := s.life.CreateTodo(ctx, drafts[i])
		if err != nil {
			return nil, err
		}
		created = append(created, res)
		st.completed++
		st.emit(fmt.Sprintf("Created todo %d of %d", i+1, len(drafts)), types.ProgressInProgress)
	}
	return created, nil
}

func (s *executionService) createHabits(ctx context.Context, action *types.ActionItem, st *execState) ([]any, error) {
	drafts, err := action.DecodeHabits()
	if err != nil {
		return nil, err
	}
	created := make([]any, 0, len(drafts))
	for i := range drafts {
		res, err := s.life.CreateHabit(ctx, drafts[i])
		if err != nil {
			return nil, err
		}
		created = append(created, res)
		st.completed++
		st.emit(fmt.Sprintf("Created habit %d of %d", i+1, len(drafts)), types.ProgressInProgress)
	}
	return created, nil
}

func (s *executionService) createJournalEntries(ctx context.Context, action *types.ActionItem, st *execState) ([]any, error) {
	drafts, err := action.DecodeJournal()
	if err != nil {
		return nil, err
	}
	created := make([]any, 0, len(drafts))
	for i := range drafts {
		res, err := s.life.CreateJournalEntry(ctx, drafts[i])
		if err != nil {
			return nil, err
		}
		created = append(created, res)
		st.completed++
		st.emit(fmt.Sprintf("Created journal entry %d of %d", i+1, len(drafts)), types.ProgressInProgress)
	}
	return created, nil
}

func (s *executionService) createMealPlan(ctx context.Context, action *types.ActionItem, st *execState) ([]any, error) {
	draft, err := action.DecodeMealPlan()
	if err != nil {
		return nil, err
	}
	normalizeMealPlan(draft)
	res, err := s.life.CreateMealPlan(ctx, *draft)
	if err != nil {
		return nil, err
	}
	st.completed++
	st.emit("Created meal plan", types.ProgressInProgress)
	return []any{res}, nil
}

func (s *executionService) createWorkoutPlan(ctx context.Context, action *types.ActionItem, st *execState) ([]any, error) {
	draft, err := action.DecodeWorkoutPlan()
	if err != nil {
		return nil, err
	}
	normalizeWorkoutPlan(draft)
	res, err := s.life.CreateWorkoutPlan(ctx, *draft)
	if err != nil {
		return nil, err
	}
	st.completed++
	st.emit("Created workout plan", types.ProgressInProgress)
	return []any{res}, nil
}

// persistOutcome saves the final plan state, appends one system message
// to the originating conversation and completes it.
func (s *executionService) persistOutcome(ctx context.Context, userID uuid.UUID, plan *types.ActionPlan, errCount int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.plans.Save(dbc, plan); err != nil {
			return err
		}

		conv, err := s.convos.GetOwned(dbc, plan.ConversationID, userID)
		if err != nil || conv == nil {
			return err
		}
		note := "Your plan was executed successfully."
		if errCount > 0 {
			note = fmt.Sprintf("Your plan was executed with %d failed action(s).", errCount)
		}
		if err := conv.AppendMessage(types.RoleSystem, note, time.Now().UTC()); err != nil {
			return err
		}
		conv.Status = types.ConversationCompleted
		return s.convos.Save(dbc, conv)
	})
}

func actionStep(t types.ActionType) string {
	switch t {
	case types.ActionCreateTodos:
		return "Creating todos"
	case types.ActionCreateHabits:
		return "Creating habits"
	case types.ActionCreateMealPlan:
		return "Creating meal plan"
	case types.ActionCreateWorkoutPlan:
		return "Creating workout plan"
	case types.ActionCreateJournal:
		return "Creating journal entries"
	default:
		return string(t)
	}
}

func errorMessage(err error) string {
	if err == nil {
		return "Unknown error"
	}
	msg := err.Error()
	if msg == "" {
		return "Unknown error"
	}
	return msg
}
