package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"schedulai/core/cache"
	"schedulai/core/constants"
	"schedulai/core/controller"
	"schedulai/core/errors"
	"schedulai/core/logger"
	"schedulai/core/utils"
)

// Middleware bundles the cross-cutting echo middleware the routers attach.
type Middleware struct {
	cache cache.ICache
}

func NewMiddleware(c cache.ICache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware authenticates requests via a Bearer token or the session
// cookie set after the OAuth callback, and stores the parsed claims on the
// echo context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrMissingAuthorizationHeader, "Missing authorization")
			}

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if err != nil {
					logger.Error("Middleware:AuthMiddleware:IsTokenBlacklisted:Error", "error", err)
					return controller.NewErrorResponse(http.StatusInternalServerError,
						errors.ErrInternalServer, "Failed to verify token")
				}
				if blacklisted {
					return controller.NewErrorResponse(http.StatusUnauthorized,
						errors.ErrUnauthorized, "Token is no longer valid")
				}
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				logger.Warn("Middleware:AuthMiddleware:ValidateAndParseToken:Error", "error", err)
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrInvalidTokenFormat, "Invalid or expired token")
			}

			c.Set(constants.ContextTokenData, claims)
			c.Set(constants.ContextRawToken, token)
			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(constants.SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
