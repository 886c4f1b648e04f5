package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomhub/roomhub-server/internal/config"
	"github.com/roomhub/roomhub-server/internal/core"
	"github.com/roomhub/roomhub-server/internal/store"
)

// NewServer builds the HTTP server: health, the websocket endpoint, and
// a small read-only room API.
func NewServer(hub *core.Hub, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	rooms := NewRoomHandlers(st, logger)
	router.GET("/api/rooms/:id", rooms.GetRoom)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
