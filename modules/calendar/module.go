package calendar

import (
	"github.com/labstack/echo/v4"

	"schedulai/core/middleware"
	"schedulai/modules/calendar/controller"
	"schedulai/modules/calendar/router"
	"schedulai/modules/calendar/service"
)

// Init registers the calendar module routes.
func Init(e *echo.Echo, svc service.CalendarServiceInterface, mw *middleware.Middleware) {
	ctrl := controller.NewCalendarController(svc)
	router.NewCalendarRouter(ctrl).Setup(e, mw)
}
