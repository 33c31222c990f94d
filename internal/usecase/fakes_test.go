package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"chatapp/internal/domain/entity"
	"chatapp/internal/domain/repository"
	"chatapp/pkg/errors"
)

// In-memory repository fakes. They mirror the store semantics the
// Firestore adapters rely on: field increments, array set ops and the
// guarded call-status transition.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	copied.Followers = append([]string(nil), user.Followers...)
	copied.Following = append([]string(nil), user.Following...)
	copied.BlockedUsers = append([]string(nil), user.BlockedUsers...)
	copied.MutedUsers = append([]string(nil), user.MutedUsers...)
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	stored.Username = user.Username
	stored.Phone = user.Phone
	stored.Bio = user.Bio
	stored.AvatarURL = user.AvatarURL
	return nil
}

func (r *memUserRepo) SearchByUsername(ctx context.Context, prefix string, limit int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.User
	for _, user := range r.users {
		if len(result) >= limit {
			break
		}
		if len(user.Username) >= len(prefix) && user.Username[:len(prefix)] == prefix {
			copied := *user
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memUserRepo) AdjustCoins(ctx context.Context, userID string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.BalanceCoins += delta
	return nil
}

func (r *memUserRepo) fieldSlice(user *entity.User, field string) *[]string {
	switch field {
	case "followers":
		return &user.Followers
	case "following":
		return &user.Following
	case "blockedUsers":
		return &user.BlockedUsers
	case "mutedUsers":
		return &user.MutedUsers
	}
	return nil
}

func (r *memUserRepo) AddToSet(ctx context.Context, userID, field, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	slice := r.fieldSlice(user, field)
	for _, v := range *slice {
		if v == value {
			return nil
		}
	}
	*slice = append(*slice, value)
	return nil
}

func (r *memUserRepo) RemoveFromSet(ctx context.Context, userID, field, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	slice := r.fieldSlice(user, field)
	out := (*slice)[:0]
	for _, v := range *slice {
		if v != value {
			out = append(out, v)
		}
	}
	*slice = out
	return nil
}

func (r *memUserRepo) SetPushToken(ctx context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.PushToken = token
	return nil
}

func (r *memUserRepo) SoftDelete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.Email = "deleted-" + userID + "@deleted.local"
	user.Username = "Deleted User"
	user.Phone = ""
	user.Bio = ""
	user.AvatarURL = ""
	user.PushToken = ""
	user.Deleted = true
	return nil
}

func (r *memUserRepo) CreateReport(ctx context.Context, report *entity.Report) error {
	return nil
}

type memChatRepo struct {
	mu       sync.Mutex
	chats    map[string]*entity.Chat
	messages map[string][]*entity.Message
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{
		chats:    make(map[string]*entity.Chat),
		messages: make(map[string][]*entity.Message),
	}
}

func (r *memChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
	}
	copied := *chat
	r.chats[chat.ID] = &copied
	return nil
}

func (r *memChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	copied := *chat
	return &copied, nil
}

func (r *memChatRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Chat
	for _, chat := range r.chats {
		for _, p := range chat.Participants {
			if p == userID {
				copied := *chat
				result = append(result, &copied)
				break
			}
		}
	}
	return result, int64(len(result)), nil
}

func (r *memChatRepo) Update(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *chat
	r.chats[chat.ID] = &copied
	return nil
}

func (r *memChatRepo) UpdateSummary(ctx context.Context, chatID, lastMessage string, receiverIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	chat.LastMessage = lastMessage
	chat.LastMessageAt = time.Now()
	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
	}
	for _, receiverID := range receiverIDs {
		chat.UnreadCount[receiverID]++
	}
	return nil
}

func (r *memChatRepo) ResetUnread(ctx context.Context, chatID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
	}
	chat.UnreadCount[userID] = 0
	return nil
}

func (r *memChatRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	copied := *message
	r.messages[message.ChatID] = append(r.messages[message.ChatID], &copied)
	return nil
}

func (r *memChatRepo) GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[chatID]
	result := make([]*entity.Message, 0, len(msgs))
	for _, m := range msgs {
		copied := *m
		result = append(result, &copied)
	}
	return result, int64(len(msgs)), nil
}

func (r *memChatRepo) GetMessageByID(ctx context.Context, chatID, messageID string) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages[chatID] {
		if m.ID == messageID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *memChatRepo) MarkMessageRead(ctx context.Context, chatID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages[chatID] {
		if m.ID == messageID {
			m.Read = true
			return nil
		}
	}
	return errors.NotFound("Message", nil)
}

func (r *memChatRepo) ListenToMessages(ctx context.Context, chatID string, fn func([]*entity.Message)) (func(), error) {
	return func() {}, nil
}

func (r *memChatRepo) ListenToChatList(ctx context.Context, userID string, fn func([]*entity.Chat)) (func(), error) {
	return func() {}, nil
}

type memCallRepo struct {
	mu    sync.Mutex
	calls map[string]*entity.Call
}

func newMemCallRepo() *memCallRepo {
	return &memCallRepo{calls: make(map[string]*entity.Call)}
}

func (r *memCallRepo) Create(ctx context.Context, call *entity.Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *call
	r.calls[call.ID] = &copied
	return nil
}

func (r *memCallRepo) GetByID(ctx context.Context, id string) (*entity.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	call, ok := r.calls[id]
	if !ok {
		return nil, errors.NotFound("Call", nil)
	}
	copied := *call
	copied.Participants = append([]entity.CallParticipant(nil), call.Participants...)
	copied.ParticipantIDs = append([]string(nil), call.ParticipantIDs...)
	return &copied, nil
}

func (r *memCallRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Call, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Call
	for _, call := range r.calls {
		for _, pid := range call.ParticipantIDs {
			if pid == userID {
				copied := *call
				result = append(result, &copied)
				break
			}
		}
	}
	return result, int64(len(result)), nil
}

// UpdateStatus enforces the same transition guard as the store-backed
// implementation.
func (r *memCallRepo) UpdateStatus(ctx context.Context, callID string, update repository.CallStatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	call, ok := r.calls[callID]
	if !ok {
		return errors.NotFound("Call", nil)
	}
	if !call.Status.CanTransition(update.Status) {
		return errors.InvalidTransition(string(call.Status), string(update.Status))
	}
	call.Status = update.Status
	if update.Status == entity.CallStatusActive {
		call.StartTime = time.Now()
	}
	if !update.EndTime.IsZero() {
		call.EndTime = update.EndTime
	}
	if update.Duration > 0 {
		call.Duration = update.Duration
	}
	return nil
}

func (r *memCallRepo) UpdateParticipant(ctx context.Context, callID string, participant entity.CallParticipant) (*entity.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	call, ok := r.calls[callID]
	if !ok {
		return nil, errors.NotFound("Call", nil)
	}
	found := false
	for i := range call.Participants {
		if call.Participants[i].UserID == participant.UserID {
			call.Participants[i] = participant
			found = true
			break
		}
	}
	if !found {
		return nil, errors.NotFound("Call participant", nil)
	}
	copied := *call
	copied.Participants = append([]entity.CallParticipant(nil), call.Participants...)
	copied.ParticipantIDs = append([]string(nil), call.ParticipantIDs...)
	return &copied, nil
}

func (r *memCallRepo) Listen(ctx context.Context, callID string, fn func(*entity.Call)) (func(), error) {
	return func() {}, nil
}

type recordedDispatch struct {
	UserID string
	Type   string
	Title  string
	Body   string
}

type fakeNotifier struct {
	mu         sync.Mutex
	dispatches []recordedDispatch
}

func (n *fakeNotifier) Dispatch(ctx context.Context, userID, notifType, title, body string, data map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dispatches = append(n.dispatches, recordedDispatch{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
	})
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.dispatches)
}

func (n *fakeNotifier) recorded() []recordedDispatch {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedDispatch(nil), n.dispatches...)
}
