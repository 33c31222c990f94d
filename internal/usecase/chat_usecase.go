package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"chatapp/internal/domain/entity"
	"chatapp/internal/domain/repository"
	"chatapp/internal/infrastructure/ratelimit"
	"chatapp/internal/infrastructure/websocket"
	"chatapp/pkg/errors"
	"chatapp/pkg/logger"
)

// NotificationDispatcher decouples the chat and call flows from the
// notification usecase. Dispatch is best-effort.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, userID, notifType, title, body string, data map[string]string)
}

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	wsManager   *websocket.Manager
	rateLimiter *ratelimit.RateLimiter
	notifier    NotificationDispatcher
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	wsManager *websocket.Manager,
	rateLimiter *ratelimit.RateLimiter,
	notifier NotificationDispatcher,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
		notifier:    notifier,
	}
}

type SendMessageInput struct {
	ReceiverID    string
	ChatID        string
	Content       string
	AttachmentURL string
}

type wsEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func marshalEvent(eventType string, payload interface{}) []byte {
	b, err := json.Marshal(wsEvent{Type: eventType, Payload: payload})
	if err != nil {
		return nil
	}
	return b
}

// SendMessage runs the coin ledger. The balance gate comes first and a
// failed gate has no side effect at all. After the gate the writes are
// applied in a fixed order: debit sender, credit receiver, insert the
// message, update the chat summary. The sequence is not atomic as a
// group; each step is individually atomic at the field level.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.Message, error) {
	if allowed, wait := uc.rateLimiter.Allow(senderID, "send_message"); !allowed {
		return nil, errors.TooManyRequests("Message rate limit exceeded", wait)
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender.BalanceCoins < 1 {
		return nil, errors.InsufficientFunds("Not enough coins to send a message")
	}

	chat, receiverIDs, err := uc.resolveChat(ctx, senderID, input)
	if err != nil {
		return nil, err
	}

	if err := uc.userRepo.AdjustCoins(ctx, senderID, -1); err != nil {
		return nil, err
	}
	if !chat.IsGroup {
		if err := uc.userRepo.AdjustCoins(ctx, receiverIDs[0], 1); err != nil {
			return nil, err
		}
	}

	message := &entity.Message{
		ChatID:    chat.ID,
		SenderID:  senderID,
		Content:   input.Content,
		Timestamp: time.Now(),
	}
	if !chat.IsGroup {
		message.ReceiverID = receiverIDs[0]
	}
	if input.AttachmentURL != "" {
		message.AttachmentURL = input.AttachmentURL
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if err := uc.chatRepo.UpdateSummary(ctx, chat.ID, message.Content, receiverIDs); err != nil {
		// The message is already stored; the stale summary heals on the
		// next successful send.
		logger.Error("Summary update failed for chat %s: %v", chat.ID, err)
	}

	uc.fanOut(ctx, chat, message, receiverIDs)

	return message, nil
}

// resolveChat loads the target chat, creating the deterministic 1:1 chat
// document on first contact.
func (uc *ChatUseCase) resolveChat(ctx context.Context, senderID string, input SendMessageInput) (*entity.Chat, []string, error) {
	if input.ChatID != "" {
		chat, err := uc.chatRepo.GetByID(ctx, input.ChatID)
		if err != nil {
			return nil, nil, err
		}

		isMember := false
		receivers := make([]string, 0, len(chat.Participants))
		for _, p := range chat.Participants {
			if p == senderID {
				isMember = true
			} else {
				receivers = append(receivers, p)
			}
		}
		if !isMember {
			return nil, nil, errors.Forbidden("Not a participant of this chat", nil)
		}
		return chat, receivers, nil
	}

	if input.ReceiverID == "" {
		return nil, nil, errors.BadRequest("Either chat_id or receiver_id is required", nil)
	}
	if input.ReceiverID == senderID {
		return nil, nil, errors.BadRequest("Cannot send a message to yourself", nil)
	}

	receiver, err := uc.userRepo.GetByID(ctx, input.ReceiverID)
	if err != nil {
		return nil, nil, err
	}
	for _, blocked := range receiver.BlockedUsers {
		if blocked == senderID {
			return nil, nil, errors.Forbidden("Cannot message this user", nil)
		}
	}

	chatID := entity.DirectChatID(senderID, input.ReceiverID)
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return nil, nil, err
		}
		chat = &entity.Chat{
			ID:           chatID,
			Participants: []string{senderID, input.ReceiverID},
		}
		if err := uc.chatRepo.Create(ctx, chat); err != nil {
			return nil, nil, err
		}
	}

	return chat, []string{input.ReceiverID}, nil
}

func (uc *ChatUseCase) fanOut(ctx context.Context, chat *entity.Chat, message *entity.Message, receiverIDs []string) {
	event := marshalEvent("new_message", message)
	uc.wsManager.SendToChatRoom(chat.ID, event, message.SenderID)

	sender, err := uc.userRepo.GetByID(ctx, message.SenderID)
	if err != nil {
		logger.Error("Sender lookup failed during fan-out: %v", err)
		return
	}

	title := sender.Username
	if chat.IsGroup {
		title = chat.GroupName
	}

	for _, receiverID := range receiverIDs {
		uc.wsManager.SendToUser(receiverID, event)

		if uc.wsManager.IsOnline(receiverID) {
			continue
		}
		receiver, err := uc.userRepo.GetByID(ctx, receiverID)
		if err != nil {
			continue
		}
		if containsID(receiver.MutedUsers, message.SenderID) {
			continue
		}
		uc.notifier.Dispatch(ctx, receiverID, "message", title, message.Content, map[string]string{
			"chatId":   chat.ID,
			"senderId": message.SenderID,
		})
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type CreateGroupChatInput struct {
	Name         string
	Photo        string
	Participants []string
}

func (uc *ChatUseCase) CreateGroupChat(ctx context.Context, adminID string, input CreateGroupChatInput) (*entity.Chat, error) {
	if len(input.Participants) == 0 {
		return nil, errors.BadRequest("A group chat needs at least one other participant", nil)
	}

	participants := []string{adminID}
	for _, p := range input.Participants {
		if p != adminID && !containsID(participants, p) {
			participants = append(participants, p)
		}
	}

	chat := &entity.Chat{
		ID:           uuid.New().String(),
		Participants: participants,
		IsGroup:      true,
		GroupName:    input.Name,
		GroupPhoto:   input.Photo,
		AdminID:      adminID,
	}

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// ChatListItem is a chat summary hydrated with the other participant's
// profile. Hydration costs one user lookup per 1:1 chat.
type ChatListItem struct {
	Chat      *entity.Chat `json:"chat"`
	OtherUser *entity.User `json:"other_user,omitempty"`
}

func (uc *ChatUseCase) GetUserChats(ctx context.Context, userID string, limit, offset int) ([]*ChatListItem, int64, error) {
	chats, total, err := uc.chatRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*ChatListItem, 0, len(chats))
	for _, chat := range chats {
		item := &ChatListItem{Chat: chat}
		if !chat.IsGroup {
			for _, p := range chat.Participants {
				if p == userID {
					continue
				}
				other, err := uc.userRepo.GetByID(ctx, p)
				if err == nil {
					item.OtherUser = other
				}
				break
			}
		}
		items = append(items, item)
	}

	return items, total, nil
}

func (uc *ChatUseCase) GetChatMessages(ctx context.Context, userID, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, 0, err
	}
	if !containsID(chat.Participants, userID) {
		return nil, 0, errors.Forbidden("Not a participant of this chat", nil)
	}

	return uc.chatRepo.GetMessagesByChat(ctx, chatID, limit, offset)
}

// MarkChatAsRead zeroes the caller's unread counter on the summary. The
// per-message read flags are a separate mechanism.
func (uc *ChatUseCase) MarkChatAsRead(ctx context.Context, userID, chatID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !containsID(chat.Participants, userID) {
		return errors.Forbidden("Not a participant of this chat", nil)
	}

	return uc.chatRepo.ResetUnread(ctx, chatID, userID)
}

func (uc *ChatUseCase) MarkMessageRead(ctx context.Context, userID, chatID, messageID string) error {
	message, err := uc.chatRepo.GetMessageByID(ctx, chatID, messageID)
	if err != nil {
		return err
	}
	if message.SenderID == userID {
		return errors.BadRequest("Cannot mark your own message as read", nil)
	}

	if err := uc.chatRepo.MarkMessageRead(ctx, chatID, messageID); err != nil {
		return err
	}

	uc.wsManager.SendToUser(message.SenderID, marshalEvent("message_read", map[string]string{
		"chatId":    chatID,
		"messageId": messageID,
		"readerId":  userID,
	}))
	return nil
}

// ObserveMessages bridges the store subscription onto the caller's
// WebSocket connection until the returned func is invoked.
func (uc *ChatUseCase) ObserveMessages(ctx context.Context, userID, chatID string) (func(), error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !containsID(chat.Participants, userID) {
		return nil, errors.Forbidden("Not a participant of this chat", nil)
	}

	return uc.chatRepo.ListenToMessages(ctx, chatID, func(messages []*entity.Message) {
		uc.wsManager.SendToUser(userID, marshalEvent("messages_snapshot", messages))
	})
}

func (uc *ChatUseCase) ObserveChatList(ctx context.Context, userID string) (func(), error) {
	return uc.chatRepo.ListenToChatList(ctx, userID, func(chats []*entity.Chat) {
		uc.wsManager.SendToUser(userID, marshalEvent("chat_list_snapshot", chats))
	})
}
