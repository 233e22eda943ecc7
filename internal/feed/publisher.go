// Package feed streams frame summaries from the viewer to the hosting shell
// over a websocket. Publishing is best effort: a dead shell never stalls or
// kills the render loop.
package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/semspace/semspace/internal/util"
	"github.com/semspace/semspace/pkg/logger"
)

const (
	publishInterval = time.Second
	writeTimeout    = 2 * time.Second
	reconnectDelay  = 3 * time.Second
)

// Publisher pushes at most one summary per second over a websocket, keeping
// only the latest snapshot between ticks.
type Publisher struct {
	url string

	mu      sync.Mutex
	latest  json.RawMessage
	pending bool

	cancel context.CancelFunc
	done   chan struct{}
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// Publish stores the snapshot for the next tick. It never blocks and drops
// older unsent snapshots.
func (p *Publisher) Publish(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("feed: marshal snapshot", "error", err)
		return
	}
	p.mu.Lock()
	p.latest = data
	p.pending = true
	p.mu.Unlock()
}

// Start runs the connect-and-send loop until Stop or context cancellation.
func (p *Publisher) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.run(ctx)
}

// Stop tears down the connection loop and waits for it to exit.
func (p *Publisher) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

func (p *Publisher) run(ctx context.Context) {
	defer close(p.done)

	// Reconnect until the context ends; a completed sendLoop means shutdown.
	_ = util.RetryErrForever(ctx, reconnectDelay, func(ctx context.Context) error {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, p.url, nil)
		if err != nil {
			logger.Debug("feed: dial failed", "url", p.url, "error", err)
			return err
		}
		logger.Info("feed: connected", "url", p.url)
		defer conn.Close()

		if err := p.sendLoop(ctx, conn); err != nil {
			logger.Debug("feed: connection lost", "error", err)
			return err
		}
		return nil
	})
}

func (p *Publisher) sendLoop(ctx context.Context, conn *websocket.Conn) error {
	ticker := time.NewTicker(publishInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeTimeout))
			return nil
		case <-ticker.C:
			p.mu.Lock()
			data, pending := p.latest, p.pending
			p.pending = false
			p.mu.Unlock()
			if !pending {
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return err
			}
		}
	}
}
