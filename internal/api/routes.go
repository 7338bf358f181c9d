// Package api serves the small read-only HTTP surface next to the socket
// transport.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kiliankoe/punchline/internal/game"
)

type Handler struct {
	Manager *game.Manager
}

func Register(r gin.IRouter, m *game.Manager) {
	h := &Handler{Manager: m}
	r.GET("/health", h.Health)
	r.GET("/api/lobby/active", h.ActiveLobby)
	r.GET("/api/lobby/:code", h.LobbyInfo)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC(), "lobbies": h.Manager.Len()})
}

// ActiveLobby returns the code of the most recently created lobby.
func (h *Handler) ActiveLobby(c *gin.Context) {
	if code, l := h.Manager.Active(); l != nil {
		c.JSON(http.StatusOK, gin.H{"code": code})
		return
	}
	c.Status(http.StatusNotFound)
}

// LobbyInfo returns the public snapshot of a lobby. Hands and unrevealed
// cards are never included.
func (h *Handler) LobbyInfo(c *gin.Context) {
	l, err := h.Manager.Get(c.Param("code"))
	if errors.Is(err, game.ErrLobbyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "lobby_not_found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, l.Snapshot())
}
