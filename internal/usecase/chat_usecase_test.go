package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatapp/internal/domain/entity"
	"chatapp/internal/infrastructure/ratelimit"
	"chatapp/internal/infrastructure/websocket"
	"chatapp/pkg/errors"
)

func newChatFixture(t *testing.T) (*ChatUseCase, *memChatRepo, *memUserRepo, *fakeNotifier) {
	t.Helper()

	userRepo := newMemUserRepo()
	chatRepo := newMemChatRepo()
	notifier := &fakeNotifier{}

	uc := NewChatUseCase(chatRepo, userRepo, websocket.NewManager(), ratelimit.NewRateLimiter(), notifier)

	require.NoError(t, userRepo.Create(context.Background(), &entity.User{ID: "alice", Username: "Alice", BalanceCoins: 5}))
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{ID: "bob", Username: "Bob", BalanceCoins: 10}))

	return uc, chatRepo, userRepo, notifier
}

func TestSendMessageDebitsAndCredits(t *testing.T) {
	uc, chatRepo, userRepo, _ := newChatFixture(t)
	ctx := context.Background()

	message, err := uc.SendMessage(ctx, "alice", SendMessageInput{
		ReceiverID: "bob",
		Content:    "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", message.Content)
	assert.Equal(t, entity.DirectChatID("alice", "bob"), message.ChatID)

	alice, err := userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(4), alice.BalanceCoins)

	bob, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(11), bob.BalanceCoins)

	chat, err := chatRepo.GetByID(ctx, message.ChatID)
	require.NoError(t, err)
	assert.Equal(t, "hello", chat.LastMessage)
	assert.Equal(t, 1, chat.UnreadCount["bob"])
	assert.Equal(t, 0, chat.UnreadCount["alice"])

	messages, total, err := chatRepo.GetMessagesByChat(ctx, message.ChatID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, messages, 1)
}

func TestSendMessageInsufficientFunds(t *testing.T) {
	uc, chatRepo, userRepo, _ := newChatFixture(t)
	ctx := context.Background()

	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "broke", Username: "Broke", BalanceCoins: 0}))

	_, err := uc.SendMessage(ctx, "broke", SendMessageInput{
		ReceiverID: "bob",
		Content:    "please",
	})
	assert.True(t, errors.Is(err, "INSUFFICIENT_FUNDS"))

	// The failed gate has no side effect at all.
	broke, err := userRepo.GetByID(ctx, "broke")
	require.NoError(t, err)
	assert.Equal(t, int64(0), broke.BalanceCoins)

	bob, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(10), bob.BalanceCoins)

	_, err = chatRepo.GetByID(ctx, entity.DirectChatID("broke", "bob"))
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendMessageToBlockedSenderRejected(t *testing.T) {
	uc, _, userRepo, _ := newChatFixture(t)
	ctx := context.Background()

	require.NoError(t, userRepo.AddToSet(ctx, "bob", "blockedUsers", "alice"))

	_, err := uc.SendMessage(ctx, "alice", SendMessageInput{
		ReceiverID: "bob",
		Content:    "hi",
	})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	// Gate rejections leave the ledger untouched.
	alice, err := userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(5), alice.BalanceCoins)
}

func TestSendMessageRepeatedUsesSameChat(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture(t)
	ctx := context.Background()

	first, err := uc.SendMessage(ctx, "alice", SendMessageInput{ReceiverID: "bob", Content: "one"})
	require.NoError(t, err)
	second, err := uc.SendMessage(ctx, "bob", SendMessageInput{ReceiverID: "alice", Content: "two"})
	require.NoError(t, err)

	assert.Equal(t, first.ChatID, second.ChatID)

	chat, err := chatRepo.GetByID(ctx, first.ChatID)
	require.NoError(t, err)
	assert.Equal(t, "two", chat.LastMessage)
	assert.Equal(t, 1, chat.UnreadCount["bob"])
	assert.Equal(t, 1, chat.UnreadCount["alice"])
}

func TestMarkChatAsReadResetsCounter(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture(t)
	ctx := context.Background()

	message, err := uc.SendMessage(ctx, "alice", SendMessageInput{ReceiverID: "bob", Content: "hello"})
	require.NoError(t, err)

	require.NoError(t, uc.MarkChatAsRead(ctx, "bob", message.ChatID))

	chat, err := chatRepo.GetByID(ctx, message.ChatID)
	require.NoError(t, err)
	assert.Equal(t, 0, chat.UnreadCount["bob"])
}

func TestMarkMessageReadSeparateFromCounter(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture(t)
	ctx := context.Background()

	message, err := uc.SendMessage(ctx, "alice", SendMessageInput{ReceiverID: "bob", Content: "hello"})
	require.NoError(t, err)

	require.NoError(t, uc.MarkMessageRead(ctx, "bob", message.ChatID, message.ID))

	stored, err := chatRepo.GetMessageByID(ctx, message.ChatID, message.ID)
	require.NoError(t, err)
	assert.True(t, stored.Read)

	// The summary counter is an independent mechanism; it stays until
	// MarkChatAsRead.
	chat, err := chatRepo.GetByID(ctx, message.ChatID)
	require.NoError(t, err)
	assert.Equal(t, 1, chat.UnreadCount["bob"])
}

func TestGroupChatMessaging(t *testing.T) {
	uc, chatRepo, userRepo, _ := newChatFixture(t)
	ctx := context.Background()
	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "carol", Username: "Carol", BalanceCoins: 3}))

	chat, err := uc.CreateGroupChat(ctx, "alice", CreateGroupChatInput{
		Name:         "trip",
		Participants: []string{"bob", "carol"},
	})
	require.NoError(t, err)
	assert.True(t, chat.IsGroup)
	assert.Equal(t, "alice", chat.AdminID)
	assert.Len(t, chat.Participants, 3)

	_, err = uc.SendMessage(ctx, "alice", SendMessageInput{ChatID: chat.ID, Content: "we there yet"})
	require.NoError(t, err)

	// Group sends debit the sender but do not mint coins for receivers.
	alice, err := userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(4), alice.BalanceCoins)

	bob, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(10), bob.BalanceCoins)

	stored, err := chatRepo.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UnreadCount["bob"])
	assert.Equal(t, 1, stored.UnreadCount["carol"])
	assert.Equal(t, 0, stored.UnreadCount["alice"])
}

func TestNonParticipantCannotReadChat(t *testing.T) {
	uc, _, userRepo, _ := newChatFixture(t)
	ctx := context.Background()
	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "eve", Username: "Eve", BalanceCoins: 5}))

	message, err := uc.SendMessage(ctx, "alice", SendMessageInput{ReceiverID: "bob", Content: "secret"})
	require.NoError(t, err)

	_, _, err = uc.GetChatMessages(ctx, "eve", message.ChatID, 10, 0)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}
