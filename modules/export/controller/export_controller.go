package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"schedulai/core/constants"
	"schedulai/core/controller"
	"schedulai/core/errors"
	"schedulai/core/utils"
	"schedulai/modules/export/service"
)

// ExportController serves ICS exports of the calendar.
type ExportController struct {
	controller.BaseController
	ExportService service.ExportServiceInterface
}

func NewExportController(svc service.ExportServiceInterface) *ExportController {
	return &ExportController{
		BaseController: controller.NewBaseController(),
		ExportService:  svc,
	}
}

func (c *ExportController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.New(errors.ErrUnauthorized, "User not authenticated")
	}
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.New(errors.ErrUnauthorized, "Invalid token data")
	}
	return claims.UserID, nil
}

// ExportDay handles GET /export/day?date=YYYY-MM-DD
func (c *ExportController) ExportDay(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	date := ctx.QueryParam("date")
	if date == "" {
		return c.BadRequest(errors.ErrInvalidInput, "date query parameter is required")
	}

	export, appErr := c.ExportService.ExportDay(ctx.Request().Context(), userID, date)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, export, "Success")
}
