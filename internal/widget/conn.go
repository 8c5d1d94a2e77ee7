package widget

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

var (
	ErrConnClosed     = errors.New("widget connection closed")
	ErrSendBufferFull = errors.New("widget send buffer full")
)

// Conn owns one browser websocket. Frames are written by a single write pump.
type Conn struct {
	ws     *websocket.Conn
	logger *slog.Logger
	send   chan ServerFrame

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewConn(ws *websocket.Conn, logger *slog.Logger) *Conn {
	return &Conn{
		ws:     ws,
		logger: logger,
		send:   make(chan ServerFrame, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Send queues a frame for the write pump. A client that lets the buffer fill up is
// disconnected rather than silently losing frames; it resynchronizes on reconnect.
func (c *Conn) Send(frame ServerFrame) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return ErrConnClosed
	default:
		c.logger.Warn("send buffer full, closing connection", "type", frame.Type)
		_ = c.Close()
		return ErrSendBufferFull
	}
}

func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()

	return c.ws.Close()
}

// ReadPump decodes frames and hands them to handle until the socket fails or ctx ends.
func (c *Conn) ReadPump(ctx context.Context, handle func(ClientFrame)) {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		default:
		}

		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket read error", "error", err)
			}
			return
		}

		var frame ClientFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			c.logger.Warn("failed to unmarshal frame", "error", err)
			continue
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))

		handle(frame)
	}
}

func (c *Conn) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case frame := <-c.send:
			data, err := json.Marshal(frame)
			if err != nil {
				c.logger.Error("failed to marshal frame", "error", err, "type", frame.Type)
				continue
			}

			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Error("websocket write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
