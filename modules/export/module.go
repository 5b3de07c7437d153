package export

import (
	"github.com/labstack/echo/v4"

	"schedulai/core/config"
	"schedulai/core/middleware"
	calendarService "schedulai/modules/calendar/service"
	"schedulai/modules/export/controller"
	"schedulai/modules/export/router"
	"schedulai/modules/export/service"
	"schedulai/modules/export/storage"
)

// Init registers the export module routes.
func Init(e *echo.Echo, calendarSvc calendarService.CalendarServiceInterface, mw *middleware.Middleware) {
	store := storage.NewS3Store(config.Get())
	svc := service.NewExportService(calendarSvc, store)
	ctrl := controller.NewExportController(svc)

	router.NewExportRouter(ctrl).Setup(e, mw)
}
