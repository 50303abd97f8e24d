// Package live hosts editor sessions over websockets. Each connection gets its
// own session on its own drawing; nothing is shared between connections.
package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/drawkit/drawkit/internal/document"
	"github.com/drawkit/drawkit/internal/editor"
)

var ErrHubStopped = errors.New("hub stopped")

// Loader fetches the drawing a session edits.
type Loader func(ctx context.Context, drawingID string) (*document.Shape, error)

// Saver stores a session's drawing.
type Saver func(ctx context.Context, drawingID string, doc *document.Shape) error

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client // clientID -> client
	stopped bool
	wg      sync.WaitGroup

	// ctx is canceled by Stop and ends every session.
	ctx     context.Context
	stopAll context.CancelFunc

	register   chan *Client
	unregister chan *Client
	quit       chan struct{}

	load      Loader
	save      Saver
	opts      editor.Options
	frameRate int
}

// NewHub creates a hub. Run must be running while sessions are served.
func NewHub(load Loader, save Saver, opts editor.Options, frameRate int) *Hub {
	if frameRate <= 0 {
		frameRate = 30
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	ctx, stopAll := context.WithCancel(context.Background())
	return &Hub{
		ctx:        ctx,
		stopAll:    stopAll,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		load:       load,
		save:       save,
		opts:       opts,
		frameRate:  frameRate,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ClientID] = client
			h.mu.Unlock()
			slog.Info("session opened", "client", client.ClientID, "drawing", client.DrawingID)
		case client := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, client.ClientID)
			h.mu.Unlock()
			slog.Info("session closed", "client", client.ClientID, "drawing", client.DrawingID)
		case <-h.quit:
			return
		}
	}
}

// Count returns the number of open sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve runs an editor session for drawingID over conn and blocks until the
// connection ends. The drawing is saved when the session closes.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, drawingID string) error {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return ErrHubStopped
	}
	h.wg.Add(1)
	h.mu.Unlock()
	defer h.wg.Done()

	doc, err := h.load(ctx, drawingID)
	if err != nil {
		conn.Close(websocket.StatusPolicyViolation, "drawing unavailable")
		return fmt.Errorf("load drawing %s: %w", drawingID, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(h.ctx, cancel)
	defer stop()

	client := newClient(conn, uuid.NewString(), drawingID, cancel)
	sess := newSession(drawingID, doc, h.opts, h.save, client.Send)

	h.register <- client
	defer func() { h.unregister <- client }()

	sess.send(TypeWelcome, WelcomePayload{
		SessionID: sess.editor.ID,
		ClientID:  client.ClientID,
		DrawingID: drawingID,
	})

	go client.writePump(ctx)
	go client.readPump(ctx)
	sess.run(ctx, client.events, h.frameRate)

	conn.Close(websocket.StatusNormalClosure, "")
	return nil
}

// Stop closes every session, waits for their drawings to be saved and stops
// Run.
func (h *Hub) Stop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()

	h.stopAll()

	h.wg.Wait()
	close(h.quit)
}
