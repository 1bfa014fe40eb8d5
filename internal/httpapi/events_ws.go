package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The event feed is read-only telemetry; any origin may subscribe.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Events handles GET /events, upgrading to a websocket that streams
// reservation lifecycle events until the client disconnects.
func (h *Handler) Events(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("events: upgrade failed", "error", err)
		return
	}
	h.hub.Serve(conn)
}
