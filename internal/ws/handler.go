package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"sandra-backend/internal/shared/server/middleware"
	"sandra-backend/internal/shared/server/respond"
	"sandra-backend/internal/shared/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS middleware in front of the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated requests into hub clients.
type Handler struct {
	Hub *Hub
}

// NewHandler constructs a Handler.
func NewHandler(hub *Hub) *Handler {
	return &Handler{Hub: hub}
}

// RegisterRoutes attaches the websocket endpoint to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", h.serve)
}

func (h *Handler) serve(c *gin.Context) {
	companyID := middleware.CompanyIDFromContext(c)
	if companyID == "" {
		respond.Error(c, http.StatusForbidden, "no_company", "company context is required", nil)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		telemetry.Warn("ws.upgrade_failed", map[string]any{"error": err.Error()})
		return
	}

	client := &Client{
		hub:       h.Hub,
		conn:      conn,
		companyID: companyID,
		send:      make(chan ChangeEvent, sendBuffer),
	}
	h.Hub.register(client)

	go client.writePump()
	go client.readPump()
}
