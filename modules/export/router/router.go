package router

import (
	"github.com/labstack/echo/v4"

	"schedulai/core/middleware"
	"schedulai/modules/export/controller"
)

type ExportRouter struct {
	controller *controller.ExportController
}

func NewExportRouter(controller *controller.ExportController) *ExportRouter {
	return &ExportRouter{
		controller: controller,
	}
}

func (r *ExportRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	exportRoutes := v1.Group("/private/export")
	exportRoutes.Use(mw.AuthMiddleware())

	exportRoutes.GET("/day", r.controller.ExportDay)
}
