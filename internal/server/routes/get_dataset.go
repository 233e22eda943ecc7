package routes

import (
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/semspace/semspace/internal/server/middleware"
	"github.com/semspace/semspace/internal/store"
	"github.com/semspace/semspace/internal/util"
	"github.com/semspace/semspace/pkg/logger"
)

// GetDatasetHandler serves the raw dataset artifact. It prefers the store and
// falls back to the configured file when the store has no matching dataset.
func GetDatasetHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	name := c.QueryParam("name")
	if name == "" {
		name = util.GetEnvString("ACTIVE_DATASET", "default")
	}

	if app.Store != nil {
		raw, err := app.Store.RawDocument(ctx, name)
		if err == nil {
			return c.Blob(http.StatusOK, "application/json", raw)
		}
		if !errors.Is(err, store.ErrDatasetNotFound) {
			logger.Error("Failed to read dataset from store", "dataset", name, "err", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"message": "Internal server error",
			})
		}
	}

	if app.DatasetPath != "" {
		raw, err := os.ReadFile(app.DatasetPath)
		if err == nil {
			return c.Blob(http.StatusOK, "application/json", raw)
		}
		logger.Error("Failed to read dataset fallback file", "path", app.DatasetPath, "err", err)
	}

	return c.JSON(http.StatusNotFound, map[string]string{
		"message": "Dataset not found",
	})
}

// GetDatasetsHandler lists the stored dataset catalog.
func GetDatasetsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	if app.Store == nil {
		return c.JSON(http.StatusOK, []store.DatasetInfo{})
	}

	infos, err := app.Store.ListDatasets(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list datasets", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}
	if infos == nil {
		infos = []store.DatasetInfo{}
	}
	return c.JSON(http.StatusOK, infos)
}
