package router

import (
	"github.com/labstack/echo/v4"

	"chatapp/internal/adapter/api/handler"
	"chatapp/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	notificationHandler := handler.GetNotificationHandler()

	notifications := e.Group("/v1/notifications")
	notifications.Use(authMiddleware.Authenticate)

	notifications.POST("/token", notificationHandler.RegisterToken)
	notifications.DELETE("/token", notificationHandler.UnregisterToken)
	notifications.GET("", notificationHandler.List)
	notifications.POST("/:notificationId/read", notificationHandler.MarkRead)
}
