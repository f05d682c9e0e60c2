package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/khalildhmine/neatify-server/models"
	"github.com/khalildhmine/neatify-server/ws"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsHandler upgrades the connection and keeps it registered with the
// event hub until the client disconnects.
func EventsHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	if role != models.RoleAdmin && role != models.RoleCleaner && role != models.RoleUser {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	ws.RegisterClient(conn, role)
	defer ws.UnregisterClient(conn)

	// Drain the connection; the hub only pushes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
