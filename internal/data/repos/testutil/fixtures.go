package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/stride-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedConversation(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.Conversation {
	tb.Helper()
	c := &types.Conversation{
		ID:       uuid.New(),
		UserID:   userID,
		Messages: datatypes.JSON([]byte("[]")),
		Status:   types.ConversationActive,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed conversation: %v", err)
	}
	return c
}

func SeedActionPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, conversationID uuid.UUID) *types.ActionPlan {
	tb.Helper()
	p := &types.ActionPlan{
		ID:             uuid.New(),
		ConversationID: conversationID,
		UserID:         userID,
		Summary:        "plan",
		Actions:        datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed action plan: %v", err)
	}
	return p
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
