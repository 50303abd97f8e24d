package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 4 << 20
)

// Client is one websocket connection. Its pumps only move bytes; the session
// loop consumes events and produces messages.
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	events    chan *Message
	cancel    context.CancelFunc
	ClientID  string
	DrawingID string
}

func newClient(conn *websocket.Conn, clientID, drawingID string, cancel context.CancelFunc) *Client {
	return &Client{
		conn:      conn,
		send:      make(chan []byte, 256),
		events:    make(chan *Message, 64),
		cancel:    cancel,
		ClientID:  clientID,
		DrawingID: drawingID,
	}
}

func (c *Client) readPump(ctx context.Context) {
	defer c.cancel()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.ClientID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.ClientID)
			continue
		}

		select {
		case c.events <- &msg:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "client", c.ClientID)
				c.cancel()
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				c.cancel()
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues msg for writing. Messages are dropped when the client falls
// behind.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "client", c.ClientID, "type", msg.Type)
	}
}
