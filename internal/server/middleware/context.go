package middleware

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/semspace/semspace/internal/queue"
	"github.com/semspace/semspace/internal/server/hub"
	"github.com/semspace/semspace/internal/store"
)

// DatasetStore is the slice of the persistence layer the routes need.
type DatasetStore interface {
	RawDocument(ctx context.Context, name string) ([]byte, error)
	ListDatasets(ctx context.Context) ([]store.DatasetInfo, error)
}

// JobQueue publishes work for the import worker.
type JobQueue interface {
	Publish(queueName string, data []byte) error
}

// AMQPJobQueue adapts an AMQP channel to the JobQueue interface.
type AMQPJobQueue struct {
	Ch *amqp091.Channel
}

func (q *AMQPJobQueue) Publish(queueName string, data []byte) error {
	return queue.PublishFIFO(q.Ch, queueName, data)
}

// ViewerState holds the latest stat frame reported by a connected viewer.
type ViewerState struct {
	mu      sync.RWMutex
	latest  json.RawMessage
	updated time.Time
}

func (v *ViewerState) Set(frame json.RawMessage) {
	v.mu.Lock()
	v.latest = frame
	v.updated = time.Now()
	v.mu.Unlock()
}

func (v *ViewerState) Latest() (json.RawMessage, time.Time, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.latest, v.updated, v.latest != nil
}

// App bundles the shared server dependencies handed to every request.
type App struct {
	Store  DatasetStore
	Queue  JobQueue
	Hub    *hub.Hub
	Viewer *ViewerState

	// DatasetPath is the file fallback served when the store has no
	// matching dataset.
	DatasetPath string
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{Context: c, App: app})
		}
	}
}
