package repository

import (
	"context"

	"chatapp/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	SearchByUsername(ctx context.Context, prefix string, limit int) ([]*entity.User, error)

	// AdjustCoins applies an atomic field increment to balanceCoins.
	// Negative deltas are not guarded here; the send-time balance gate
	// lives in the messaging ledger.
	AdjustCoins(ctx context.Context, userID string, delta int64) error

	// Set membership ops, each a single-document array-union/array-remove.
	AddToSet(ctx context.Context, userID, field, value string) error
	RemoveFromSet(ctx context.Context, userID, field, value string) error

	SetPushToken(ctx context.Context, userID, token string) error

	// SoftDelete overwrites PII fields and marks the document deleted.
	// Messages, chats and gallery posts are not cascaded.
	SoftDelete(ctx context.Context, userID string) error

	CreateReport(ctx context.Context, report *entity.Report) error
}
