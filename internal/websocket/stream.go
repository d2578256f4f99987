package websocket

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"go-checklist-api/internal/event"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Stream forwards events to conn as JSON text frames. It returns when ctx is
// done, the events channel closes, the peer goes away or a write fails.
// Messages from the peer are read only to process control frames.
func Stream(ctx context.Context, conn *websocket.Conn, events <-chan event.Event) error {
	defer conn.Close()

	peerGone := make(chan struct{})
	go readPump(conn, peerGone)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			closeGracefully(conn, websocket.CloseGoingAway, "server shutting down")
			return nil
		case <-peerGone:
			return nil
		case e, ok := <-events:
			if !ok {
				closeGracefully(conn, websocket.CloseNormalClosure, "")
				return nil
			}
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(e); err != nil {
				return err
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

func readPump(conn *websocket.Conn, peerGone chan<- struct{}) {
	defer close(peerGone)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				slog.Debug("event stream read ended", "error", err)
			}
			return
		}
	}
}

func closeGracefully(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
