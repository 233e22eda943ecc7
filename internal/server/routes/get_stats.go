package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/semspace/semspace/internal/server/middleware"
)

// GetStatsHandler returns the latest stat frame reported by the viewer.
func GetStatsHandler(c echo.Context) error {
	type statsResponse struct {
		Message   string          `json:"message,omitempty"`
		Viewer    json.RawMessage `json:"viewer,omitempty"`
		UpdatedAt *time.Time      `json:"updated_at,omitempty"`
		Observers int             `json:"observers"`
	}

	app := c.(*middleware.AppContext).App

	resp := statsResponse{}
	if app.Hub != nil {
		resp.Observers = app.Hub.ClientCount()
	}

	if app.Viewer != nil {
		if frame, updated, ok := app.Viewer.Latest(); ok {
			resp.Viewer = frame
			resp.UpdatedAt = &updated
			return c.JSON(http.StatusOK, resp)
		}
	}

	resp.Message = "No viewer connected yet"
	return c.JSON(http.StatusOK, resp)
}
