package router

import (
	"github.com/labstack/echo/v4"

	"schedulai/core/middleware"
	"schedulai/modules/calendar/controller"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		controller: controller,
	}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	calendarRoutes := v1.Group("/private/calendar")
	calendarRoutes.Use(mw.AuthMiddleware())

	calendarRoutes.GET("/day-schedule", r.controller.DaySchedule)
	// Legacy alias kept for the calendar widget
	calendarRoutes.GET("/booked", r.controller.DaySchedule)
}
