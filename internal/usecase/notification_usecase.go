package usecase

import (
	"context"

	"chatapp/internal/domain/entity"
	"chatapp/internal/domain/repository"
	"chatapp/internal/domain/service"
	"chatapp/pkg/errors"
	"chatapp/pkg/logger"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	pushService      service.PushService
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	pushService service.PushService,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pushService:      pushService,
	}
}

func (uc *NotificationUseCase) RegisterToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return errors.BadRequest("Push token is required", nil)
	}
	return uc.userRepo.SetPushToken(ctx, userID, token)
}

func (uc *NotificationUseCase) UnregisterToken(ctx context.Context, userID string) error {
	return uc.userRepo.SetPushToken(ctx, userID, "")
}

// Dispatch records a notification row and relays it to the user's
// registered device. Relay failures are logged and swallowed; callers
// never fail because a push did not go out.
func (uc *NotificationUseCase) Dispatch(ctx context.Context, userID, notifType, title, body string, data map[string]string) {
	notification := &entity.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   data,
	}
	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		logger.Error("Failed to store notification for %s: %v", userID, err)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error("Push skipped, user lookup failed for %s: %v", userID, err)
		return
	}
	if user.PushToken == "" {
		return
	}

	if err := uc.pushService.Send(ctx, user.PushToken, title, body, data); err != nil {
		logger.Error("Push delivery failed for %s: %v", userID, err)
	}
}

func (uc *NotificationUseCase) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error) {
	return uc.notificationRepo.ListByUserID(ctx, userID, limit, offset)
}

func (uc *NotificationUseCase) MarkNotificationRead(ctx context.Context, id string) error {
	return uc.notificationRepo.MarkRead(ctx, id)
}
