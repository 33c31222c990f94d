package handler

import (
	"chatapp/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	chatHandler         *ChatHandler
	callHandler         *CallHandler
	galleryHandler      *GalleryHandler
	notificationHandler *NotificationHandler
	healthHandler       *HealthHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	chatUseCase *usecase.ChatUseCase,
	callUseCase *usecase.CallUseCase,
	galleryUseCase *usecase.GalleryUseCase,
	notificationUseCase *usecase.NotificationUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	callHandler = NewCallHandler(callUseCase)
	galleryHandler = NewGalleryHandler(galleryUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
	healthHandler = NewHealthHandler()
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetCallHandler() *CallHandler {
	return callHandler
}

func GetGalleryHandler() *GalleryHandler {
	return galleryHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}
