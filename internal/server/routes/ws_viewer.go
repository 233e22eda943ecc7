package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/semspace/semspace/internal/server/middleware"
	"github.com/semspace/semspace/pkg/logger"
)

var viewerUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ViewerSocketHandler ingests stat frames pushed by a running viewer and
// republishes them to event stream subscribers.
func ViewerSocketHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	conn, err := viewerUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info("Viewer connected", "remote", conn.RemoteAddr().String())
	defer logger.Info("Viewer disconnected", "remote", conn.RemoteAddr().String())

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return nil
		}
		if !json.Valid(msg) {
			logger.Debug("Dropping malformed viewer frame")
			continue
		}

		if app.Viewer != nil {
			app.Viewer.Set(json.RawMessage(msg))
		}
		if app.Hub != nil {
			app.Hub.Broadcast(map[string]json.RawMessage{
				"viewer_stats": msg,
			})
		}
	}
}
