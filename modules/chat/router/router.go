package router

import (
	"github.com/labstack/echo/v4"

	"schedulai/core/middleware"
	"schedulai/modules/chat/controller"
)

type ChatRouter struct {
	controller *controller.ChatController
}

func NewChatRouter(controller *controller.ChatController) *ChatRouter {
	return &ChatRouter{
		controller: controller,
	}
}

func (r *ChatRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	chatRoutes := v1.Group("/private/chat")
	chatRoutes.Use(mw.AuthMiddleware())

	chatRoutes.POST("", r.controller.HandleMessage)
	chatRoutes.GET("/history", r.controller.History)
	chatRoutes.DELETE("/history/clear", r.controller.ClearHistory)
}
