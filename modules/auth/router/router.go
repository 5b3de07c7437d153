package router

import (
	"github.com/labstack/echo/v4"

	"schedulai/core/middleware"
	"schedulai/modules/auth/controller"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		controller: controller,
	}
}

func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	publicRoutes := v1.Group("/public/auth")
	publicRoutes.GET("/google", r.controller.GoogleLogin)
	publicRoutes.GET("/google/callback", r.controller.GoogleCallback)

	privateRoutes := v1.Group("/private/auth")
	privateRoutes.Use(mw.AuthMiddleware())
	privateRoutes.GET("/check", r.controller.Check)
	privateRoutes.POST("/logout", r.controller.Logout)
}
