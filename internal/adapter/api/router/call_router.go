package router

import (
	"github.com/labstack/echo/v4"

	"chatapp/internal/adapter/api/handler"
	"chatapp/internal/adapter/api/middleware"
)

func SetupCallRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	callHandler := handler.GetCallHandler()

	calls := e.Group("/v1/calls")
	calls.Use(authMiddleware.Authenticate)

	calls.POST("", callHandler.Initiate)
	calls.POST("/group", callHandler.InitiateGroupCall)
	calls.GET("/history", callHandler.GetCallHistory)
	calls.GET("/:callId", callHandler.GetCall)
	calls.POST("/:callId/answer", callHandler.Answer)
	calls.POST("/:callId/decline", callHandler.Decline)
	calls.POST("/:callId/end", callHandler.End)
	calls.POST("/:callId/missed", callHandler.MarkAsMissed)
	calls.POST("/:callId/join", callHandler.JoinGroupCall)
	calls.POST("/:callId/leave", callHandler.LeaveGroupCall)
}
