package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomhub/roomhub-server/internal/store"
)

// RoomHandlers provides read-only HTTP handlers for chatroom metadata.
type RoomHandlers struct {
	store store.RoomStore
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(st store.RoomStore, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{store: st, log: logger}
}

// RoomResponse is the room metadata response body.
type RoomResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	ChatbotID string          `json:"chatbot_id"`
	Capacity  store.Occupancy `json:"capacity"`
	InSession store.Occupancy `json:"in_session"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetRoom returns a chatroom's metadata and occupancy.
// GET /api/rooms/:id
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	room, err := h.store.GetRoom(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("room_id", c.Param("id")).Msg("get room failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, RoomResponse{
		ID:        room.ID,
		Name:      room.Name,
		ChatbotID: room.ChatbotID,
		Capacity:  room.Capacity,
		InSession: room.InSession,
	})
}
