package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Subscribers are server-side systems; origin checks do not apply.
		return true
	},
}

// WSHandler upgrades authenticated subscribers onto the alert stream.
type WSHandler struct {
	manager *ws.SessionManager
	logger  *zap.Logger
}

// NewWSHandler creates the handler.
func NewWSHandler(manager *ws.SessionManager, logger *zap.Logger) *WSHandler {
	return &WSHandler{manager: manager, logger: logger}
}

// Register mounts the attach endpoint behind the auth middleware.
func (h *WSHandler) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/ws", h.Attach, auth)
}

// Attach handles GET /ws. The call blocks for the lifetime of the socket.
func (h *WSHandler) Attach(c echo.Context) error {
	system, ok := systemFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing credentials"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.String("system_name", system.Name), zap.Error(err))
		return nil
	}

	// The socket outlives the HTTP request after the hijack, so session work
	// must not inherit the request context.
	h.manager.Attach(context.Background(), system, conn)
	return nil
}
