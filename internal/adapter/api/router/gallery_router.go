package router

import (
	"github.com/labstack/echo/v4"

	"chatapp/internal/adapter/api/handler"
	"chatapp/internal/adapter/api/middleware"
)

func SetupGalleryRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	galleryHandler := handler.GetGalleryHandler()

	gallery := e.Group("/v1/gallery")
	gallery.Use(authMiddleware.Authenticate)

	gallery.POST("/posts", galleryHandler.CreatePost)
	gallery.GET("/users/:userId", galleryHandler.ListByUser)
	gallery.DELETE("/posts/:postId", galleryHandler.DeletePost)
}
