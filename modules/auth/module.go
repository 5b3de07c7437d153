package auth

import (
	"github.com/labstack/echo/v4"

	"schedulai/core/cache"
	"schedulai/core/database"
	"schedulai/core/middleware"
	"schedulai/modules/auth/controller"
	"schedulai/modules/auth/repository"
	"schedulai/modules/auth/router"
	"schedulai/modules/auth/service"
)

// Init registers the auth routes and returns the service so other modules
// can use it as their calendar credential source.
func Init(e *echo.Echo, db database.IDatabase, c cache.ICache, mw *middleware.Middleware) *service.AuthService {
	repo := repository.NewUserRepository(db)
	authService := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(authService)

	router.NewAuthRouter(ctrl).Setup(e, mw)

	return authService
}
