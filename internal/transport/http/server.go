package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/samy-vision/samy-bridge/internal/config"
	"github.com/samy-vision/samy-bridge/internal/core"
)

// NewServer builds the relay's HTTP surface: the WebSocket upgrade
// endpoint, the control-plane /speak endpoint, and a health probe.
func NewServer(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger), CORSMiddleware())

	handlers := NewSpeakHandlers(hub, logger)

	router.GET("/health", healthHandler)
	router.POST("/speak", handlers.Speak)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	// Browser preflight: any path, empty 200.
	router.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(stdhttp.StatusOK)
	})

	router.NoRoute(func(c *gin.Context) {
		c.String(stdhttp.StatusNotFound, "Not found")
	})

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
