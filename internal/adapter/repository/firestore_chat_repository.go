package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chatapp/internal/domain/entity"
	"chatapp/internal/domain/repository"
	"chatapp/pkg/errors"
	"chatapp/pkg/logger"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now

	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
		for _, p := range chat.Participants {
			chat.UnreadCount[p] = 0
		}
	}

	_, err := r.client.Collection("chats").Doc(chat.ID).Set(ctx, chat)
	if err != nil {
		return errors.Internal("Failed to create chat", err)
	}
	return nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	chat.ID = doc.Ref.ID
	return &chat, nil
}

func (r *firestoreChatRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	query := r.client.Collection("chats").
		Where("participants", "array-contains", userID)

	// Get total count (this is expensive in Firestore but necessary for
	// pagination)
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count chats", err)
	}
	total := int64(len(countDocs))

	query = query.OrderBy("lastMessageAt", firestore.Desc)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	var chats []*entity.Chat

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list chats", err)
		}

		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			continue
		}
		chat.ID = doc.Ref.ID
		chats = append(chats, &chat)
	}

	return chats, total, nil
}

func (r *firestoreChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	chat.UpdatedAt = time.Now()
	_, err := r.client.Collection("chats").Doc(chat.ID).Set(ctx, chat)
	if err != nil {
		return errors.Internal("Failed to update chat", err)
	}
	return nil
}

func (r *firestoreChatRepository) UpdateSummary(ctx context.Context, chatID, lastMessage string, receiverIDs []string) error {
	now := time.Now()
	updates := []firestore.Update{
		{Path: "lastMessage", Value: lastMessage},
		{Path: "lastMessageAt", Value: now},
		{Path: "updatedAt", Value: now},
	}
	for _, receiverID := range receiverIDs {
		updates = append(updates, firestore.Update{
			Path:  "unreadCount." + receiverID,
			Value: firestore.Increment(1),
		})
	}

	_, err := r.client.Collection("chats").Doc(chatID).Update(ctx, updates)
	if err != nil {
		return errors.Internal("Failed to update chat summary", err)
	}
	return nil
}

func (r *firestoreChatRepository) ResetUnread(ctx context.Context, chatID, userID string) error {
	_, err := r.client.Collection("chats").Doc(chatID).Update(ctx, []firestore.Update{
		{Path: "unreadCount." + userID, Value: 0},
	})
	if err != nil {
		return errors.Internal("Failed to reset unread count", err)
	}
	return nil
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	_, err := r.client.Collection("chats").Doc(message.ChatID).
		Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

func (r *firestoreChatRepository) GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	baseQuery := r.client.Collection("chats").Doc(chatID).Collection("messages")

	countDocs, err := baseQuery.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count messages", err)
	}
	total := int64(len(countDocs))

	query := baseQuery.OrderBy("timestamp", firestore.Desc)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			continue
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}

	return messages, total, nil
}

func (r *firestoreChatRepository) GetMessageByID(ctx context.Context, chatID, messageID string) (*entity.Message, error) {
	doc, err := r.client.Collection("chats").Doc(chatID).
		Collection("messages").Doc(messageID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	message.ID = doc.Ref.ID
	return &message, nil
}

func (r *firestoreChatRepository) MarkMessageRead(ctx context.Context, chatID, messageID string) error {
	_, err := r.client.Collection("chats").Doc(chatID).
		Collection("messages").Doc(messageID).Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
	})
	if err != nil {
		return errors.Internal("Failed to mark message as read", err)
	}
	return nil
}

func (r *firestoreChatRepository) ListenToMessages(ctx context.Context, chatID string, fn func([]*entity.Message)) (func(), error) {
	query := r.client.Collection("chats").Doc(chatID).Collection("messages").
		OrderBy("timestamp", firestore.Desc).
		Limit(50)

	listenCtx, cancel := context.WithCancel(ctx)

	go func() {
		snapIter := query.Snapshots(listenCtx)
		defer snapIter.Stop()

		for {
			snap, err := snapIter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					logger.Error("Message listener stopped for chat %s: %v", chatID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Error("Message snapshot read failed for chat %s: %v", chatID, err)
				continue
			}

			messages := make([]*entity.Message, 0, len(docs))
			for _, doc := range docs {
				var message entity.Message
				if err := doc.DataTo(&message); err != nil {
					continue
				}
				message.ID = doc.Ref.ID
				messages = append(messages, &message)
			}
			fn(messages)
		}
	}()

	return cancel, nil
}

func (r *firestoreChatRepository) ListenToChatList(ctx context.Context, userID string, fn func([]*entity.Chat)) (func(), error) {
	query := r.client.Collection("chats").
		Where("participants", "array-contains", userID)

	listenCtx, cancel := context.WithCancel(ctx)

	go func() {
		snapIter := query.Snapshots(listenCtx)
		defer snapIter.Stop()

		for {
			snap, err := snapIter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					logger.Error("Chat list listener stopped for user %s: %v", userID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Error("Chat list snapshot read failed for user %s: %v", userID, err)
				continue
			}

			chats := make([]*entity.Chat, 0, len(docs))
			for _, doc := range docs {
				var chat entity.Chat
				if err := doc.DataTo(&chat); err != nil {
					continue
				}
				chat.ID = doc.Ref.ID
				chats = append(chats, &chat)
			}
			fn(chats)
		}
	}()

	return cancel, nil
}
