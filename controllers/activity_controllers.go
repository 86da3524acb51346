package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/mesaja/seating/hub"
	"github.com/mesaja/seating/utils"
)

type ActivityController struct {
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewActivityController accepts websocket handshakes from allowedOrigins.
// An empty list accepts any origin.
func NewActivityController(h *hub.Hub, allowedOrigins []string) *ActivityController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &ActivityController{
		Hub: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin]
			},
		},
	}
}

// ActivityHandler -> websocket stream of every group event
func (ac *ActivityController) ActivityHandler(c *gin.Context) {
	role := c.GetString("role")
	if role == "" {
		role = "staff"
	}

	ws, err := ac.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Warnf("Websocket upgrade failed: %v", err)
		return
	}

	ac.Hub.Register(ws, role)

	// nothing is expected from clients; reading detects the disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	ac.Hub.Unregister(ws)
}
