package repository

import (
	"context"

	"chatapp/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error)
	Update(ctx context.Context, chat *entity.Chat) error

	// UpdateSummary applies the per-message summary write: lastMessage,
	// lastMessageAt and an atomic increment of unreadCount for each
	// receiver.
	UpdateSummary(ctx context.Context, chatID, lastMessage string, receiverIDs []string) error
	ResetUnread(ctx context.Context, chatID, userID string) error

	// Message methods
	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error)
	GetMessageByID(ctx context.Context, chatID, messageID string) (*entity.Message, error)
	MarkMessageRead(ctx context.Context, chatID, messageID string) error

	// Real-time subscriptions. The returned func stops delivery; each
	// remote snapshot invokes the callback exactly once.
	ListenToMessages(ctx context.Context, chatID string, fn func([]*entity.Message)) (func(), error)
	ListenToChatList(ctx context.Context, userID string, fn func([]*entity.Chat)) (func(), error)
}
