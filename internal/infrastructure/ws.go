package infra

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Websocket upgrades HTTP requests and keeps connections alive with
// ping/pong probes
type Websocket struct {
	upgrader     websocket.Upgrader
	writeWait    time.Duration
	pongWait     time.Duration
	pingInterval time.Duration
}

// NewWebsocket create a Websocket with default timings
func NewWebsocket() *Websocket {
	pongWait := 30 * time.Second
	return &Websocket{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			HandshakeTimeout: 3 * time.Second,
		},
		writeWait:    10 * time.Second,
		pongWait:     pongWait,
		pingInterval: pongWait * 9 / 10,
	}
}

// WithHeartbeat wrap handler function with heartbeat probe. The handler
// owns the read loop and returns when the connection should close.
func (ws *Websocket) WithHeartbeat(handler func(echo.Context, *websocket.Conn) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := ws.upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}

		defer conn.Close()
		go ws.heartbeatRoutine(conn)
		return handler(c, conn)
	}
}

func (ws *Websocket) heartbeatRoutine(conn *websocket.Conn) {
	ticker := time.NewTicker(ws.pingInterval)
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(ws.pongWait))
		return nil
	})
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for range ticker.C {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ws.writeWait)); err != nil {
			return
		}
	}
}
