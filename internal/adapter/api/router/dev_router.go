package router

import (
	"github.com/labstack/echo/v4"

	"chatapp/internal/adapter/api/handler"
)

func SetupDevRouter(e *echo.Echo, environment string) {
	if environment != "development" {
		return
	}
	devTokenHandler := handler.GetDevTokenHandler()

	e.POST("/_dev/long-lived-token", devTokenHandler.GetLongLivedToken)
}
