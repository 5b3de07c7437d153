package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"schedulai/core/constants"
	"schedulai/core/controller"
	"schedulai/core/errors"
	"schedulai/core/utils"
	"schedulai/modules/calendar/dto"
	"schedulai/modules/calendar/service"
)

// CalendarController serves the day-schedule views over the remote calendar.
type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarServiceInterface
}

func NewCalendarController(svc service.CalendarServiceInterface) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: svc,
	}
}

func (c *CalendarController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// DaySchedule handles GET /calendar/day-schedule?date=YYYY-MM-DD
func (c *CalendarController) DaySchedule(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	date := ctx.QueryParam("date")
	if date == "" {
		return c.BadRequest(errors.ErrInvalidInput, "date query parameter is required")
	}

	events, appErr := c.CalendarService.EventsForDay(ctx.Request().Context(), userID, date)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.DayScheduleResponse{
		Date:   date,
		Events: dto.ToEventDTOs(events),
	}, "Success")
}
