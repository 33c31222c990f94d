package router

import (
	"github.com/labstack/echo/v4"

	"chatapp/internal/adapter/api/handler"
	"chatapp/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetProfile)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.POST("/me/avatar", userHandler.UploadAvatar)
	users.DELETE("/me", userHandler.DeleteAccount)

	users.GET("/search", userHandler.SearchUsers)
	users.GET("/:userId", userHandler.GetUserByID)

	users.POST("/:userId/follow", userHandler.Follow)
	users.DELETE("/:userId/follow", userHandler.Unfollow)
	users.POST("/:userId/block", userHandler.Block)
	users.DELETE("/:userId/block", userHandler.Unblock)
	users.POST("/:userId/mute", userHandler.Mute)
	users.DELETE("/:userId/mute", userHandler.Unmute)
	users.POST("/:userId/report", userHandler.Report)
}
