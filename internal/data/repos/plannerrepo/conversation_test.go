package plannerrepo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/data/repos/testutil"
	"github.com/yungbote/stride-backend/internal/platform/dbctx"
)

func TestConversationRepo(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	t.Run("create and get owned", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		repo := NewConversationRepo(db, log)
		u := testutil.SeedUser(t, ctx, tx, "conv-get@test.dev")

		c := &types.Conversation{ID: uuid.New(), UserID: u.ID, Status: types.ConversationActive}
		if err := c.AppendMessage(types.RoleUser, "help me plan", time.Now().UTC()); err != nil {
			t.Fatalf("append message: %v", err)
		}
		if _, err := repo.Create(dbc, []*types.Conversation{c}); err != nil {
			t.Fatalf("create: %v", err)
		}

		got, err := repo.GetOwned(dbc, c.ID, u.ID)
		if err != nil {
			t.Fatalf("get owned: %v", err)
		}
		if got == nil {
			t.Fatal("expected conversation, got nil")
		}
		msgs, err := got.GetMessages()
		if err != nil {
			t.Fatalf("get messages: %v", err)
		}
		if len(msgs) != 1 || msgs[0].Content != "help me plan" {
			t.Fatalf("unexpected messages: %+v", msgs)
		}
	})

	t.Run("get owned hides other users rows", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		repo := NewConversationRepo(db, log)
		owner := testutil.SeedUser(t, ctx, tx, "conv-owner@test.dev")
		other := testutil.SeedUser(t, ctx, tx, "conv-other@test.dev")
		c := testutil.SeedConversation(t, ctx, tx, owner.ID)

		got, err := repo.GetOwned(dbc, c.ID, other.ID)
		if err != nil {
			t.Fatalf("get owned: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil for foreign conversation, got %+v", got)
		}
	})

	t.Run("get owned missing returns nil", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		repo := NewConversationRepo(db, log)
		u := testutil.SeedUser(t, ctx, tx, "conv-missing@test.dev")

		got, err := repo.GetOwned(dbc, uuid.New(), u.ID)
		if err != nil {
			t.Fatalf("get owned: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})

	t.Run("list by user omits messages and orders recent first", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		repo := NewConversationRepo(db, log)
		u := testutil.SeedUser(t, ctx, tx, "conv-list@test.dev")

		first := testutil.SeedConversation(t, ctx, tx, u.ID)
		second := testutil.SeedConversation(t, ctx, tx, u.ID)
		if err := tx.Model(first).Update("updated_at", time.Now().UTC().Add(-time.Hour)).Error; err != nil {
			t.Fatalf("backdate: %v", err)
		}

		out, err := repo.ListByUser(dbc, u.ID, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("len = %d, want 2", len(out))
		}
		if out[0].ID != second.ID || out[1].ID != first.ID {
			t.Fatalf("unexpected order: %v then %v", out[0].ID, out[1].ID)
		}
	})

	t.Run("save persists status and plan id", func(t *testing.T) {
		tx := testutil.Tx(t, db)
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		repo := NewConversationRepo(db, log)
		u := testutil.SeedUser(t, ctx, tx, "conv-save@test.dev")
		c := testutil.SeedConversation(t, ctx, tx, u.ID)
		planID := uuid.New()

		c.Status = types.ConversationCompleted
		c.PlanID = &planID
		if err := repo.Save(dbc, c); err != nil {
			t.Fatalf("save: %v", err)
		}

		got, err := repo.GetOwned(dbc, c.ID, u.ID)
		if err != nil {
			t.Fatalf("get owned: %v", err)
		}
		if got.Status != types.ConversationCompleted {
			t.Fatalf("status = %q, want completed", got.Status)
		}
		if got.PlanID == nil || *got.PlanID != planID {
			t.Fatalf("plan id = %v, want %v", got.PlanID, planID)
		}
	})
}
