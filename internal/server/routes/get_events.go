package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/semspace/semspace/internal/server/middleware"
)

// EventsHandler streams server-sent events to the caller.
func EventsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	app.Hub.ServeHTTP(c.Response(), c.Request())
	return nil
}
