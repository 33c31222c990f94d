package handler

import (
	"github.com/labstack/echo/v4"

	"chatapp/internal/usecase"
	"chatapp/pkg/response"
	"chatapp/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

type registerTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *NotificationHandler) RegisterToken(c echo.Context) error {
	var req registerTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	if err := h.notificationUseCase.RegisterToken(c.Request().Context(), uid, req.Token); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "registered"})
}

func (h *NotificationHandler) UnregisterToken(c echo.Context) error {
	uid := c.Get("uid").(string)
	if err := h.notificationUseCase.UnregisterToken(c.Request().Context(), uid); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "unregistered"})
}

func (h *NotificationHandler) List(c echo.Context) error {
	uid := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	notifications, total, err := h.notificationUseCase.ListNotifications(c.Request().Context(), uid, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, notifications, total, params.Page, params.PageSize)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	notificationID := c.Param("notificationId")

	if err := h.notificationUseCase.MarkNotificationRead(c.Request().Context(), notificationID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "read"})
}
