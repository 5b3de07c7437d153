package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"schedulai/core/constants"
	"schedulai/core/controller"
	"schedulai/core/errors"
	"schedulai/core/utils"
	"schedulai/modules/auth/service"
)

// AuthController serves the Google login flow and session endpoints.
type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

func (controller *AuthController) getClaimsFromContext(ctx echo.Context) (*utils.TokenClaims, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return nil, errors.New(errors.ErrUnauthorized, "User not authenticated")
	}
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return nil, errors.New(errors.ErrUnauthorized, "Invalid token data")
	}
	return claims, nil
}

// GoogleLogin handles GET /auth/google and redirects to the consent screen.
func (controller *AuthController) GoogleLogin(c echo.Context) error {
	url, appErr := controller.AuthService.GoogleLoginURL(c.Request().Context())
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}
	return c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback handles GET /auth/google/callback. On success the session
// token is set as an HTTP-only cookie and also returned in the body.
func (controller *AuthController) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return controller.BadRequest(errors.ErrInvalidInput, "code and state query parameters are required")
	}

	login, appErr := controller.AuthService.HandleGoogleCallback(c.Request().Context(), code, state)
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	c.SetCookie(&http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    login.AccessToken,
		Path:     "/",
		MaxAge:   int(constants.SessionTokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return controller.SuccessResponse(c, login, "Login success")
}

// Check handles GET /auth/check for the session user.
func (controller *AuthController) Check(c echo.Context) error {
	claims, err := controller.getClaimsFromContext(c)
	if err != nil {
		return controller.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	check, appErr := controller.AuthService.Check(c.Request().Context(), claims.UserID)
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, check, "Success")
}

// Logout handles POST /auth/logout: the session token is blacklisted and
// the cookie cleared.
func (controller *AuthController) Logout(c echo.Context) error {
	claims, err := controller.getClaimsFromContext(c)
	if err != nil {
		return controller.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	token := c.Get(constants.ContextRawToken)
	raw, ok := token.(string)
	if !ok || raw == "" {
		return controller.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	expiresAt := time.Now().Add(constants.SessionTokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if appErr := controller.AuthService.Logout(c.Request().Context(), raw, expiresAt); appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	c.SetCookie(&http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return controller.SuccessResponse(c, nil, "Logout success")
}
