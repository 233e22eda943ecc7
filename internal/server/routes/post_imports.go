package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/semspace/semspace/internal/queue"
	"github.com/semspace/semspace/internal/server/middleware"
	"github.com/semspace/semspace/internal/util"
	"github.com/semspace/semspace/pkg/logger"
)

// CreateImportHandler enqueues an import job and answers 202 with the job id.
func CreateImportHandler(c echo.Context) error {
	type createImportBody struct {
		Dataset    string `json:"dataset" validate:"required"`
		SourceKind string `json:"source_kind" validate:"required,oneof=file url s3"`
		Address    string `json:"address" validate:"required"`
	}

	type createImportResponse struct {
		Message string `json:"message"`
		JobID   string `json:"job_id,omitempty"`
	}

	data := new(createImportBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createImportResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createImportResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	if app.Queue == nil {
		return c.JSON(http.StatusServiceUnavailable, createImportResponse{
			Message: "Import queue unavailable",
		})
	}

	msg := &queue.ImportJobMsg{
		JobID:         util.NewID(),
		CorrelationID: util.NewCorrelationID(),
		Dataset:       data.Dataset,
		SourceKind:    data.SourceKind,
		Address:       data.Address,
	}
	body, err := msg.Marshal()
	if err != nil {
		logger.Error("Failed to marshal import job", "err", err)
		return c.JSON(http.StatusInternalServerError, createImportResponse{
			Message: "Internal server error",
		})
	}

	if err := app.Queue.Publish(queue.ImportQueue, body); err != nil {
		logger.Error("Failed to enqueue import job", "job_id", msg.JobID, "err", err)
		return c.JSON(http.StatusInternalServerError, createImportResponse{
			Message: "Internal server error",
		})
	}

	if app.Hub != nil {
		app.Hub.Broadcast(map[string]string{
			"type":    "import_queued",
			"job_id":  msg.JobID,
			"dataset": msg.Dataset,
		})
	}

	logger.Info("Queued import job", "job_id", msg.JobID, "dataset", msg.Dataset, "kind", msg.SourceKind)
	return c.JSON(http.StatusAccepted, createImportResponse{
		Message: "Import queued",
		JobID:   msg.JobID,
	})
}
