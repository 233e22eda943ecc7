package server

import (
	"github.com/labstack/echo/v4"

	"github.com/semspace/semspace/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Dataset routes
	apiRoutes.GET("/dataset", routes.GetDatasetHandler)
	apiRoutes.GET("/datasets", routes.GetDatasetsHandler)

	// Import routes
	apiRoutes.POST("/imports", routes.CreateImportHandler)

	// Stats routes
	apiRoutes.GET("/stats", routes.GetStatsHandler)

	// Streaming surfaces
	e.GET("/events", routes.EventsHandler)
	e.GET("/ws/viewer", routes.ViewerSocketHandler)
}
