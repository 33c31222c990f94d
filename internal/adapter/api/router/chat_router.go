package router

import (
	"github.com/labstack/echo/v4"

	"chatapp/internal/adapter/api/handler"
	"chatapp/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.GET("", chatHandler.GetChats)
	chats.POST("/messages", chatHandler.SendMessage)
	chats.POST("/groups", chatHandler.CreateGroupChat)
	chats.GET("/:chatId/messages", chatHandler.GetMessages)
	chats.POST("/:chatId/read", chatHandler.MarkChatAsRead)
	chats.POST("/:chatId/messages/:messageId/read", chatHandler.MarkMessageRead)
}
