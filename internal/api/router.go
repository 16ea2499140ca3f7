package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/facepipe/internal/api/handlers"
	"github.com/your-org/facepipe/internal/api/ws"
	"github.com/your-org/facepipe/internal/auth"
	"github.com/your-org/facepipe/internal/queue"
	"github.com/your-org/facepipe/internal/storage"
)

type RouterConfig struct {
	APIKey   string
	DB       *storage.PostgresStore
	Objects  *storage.ObjectStore
	Producer *queue.Producer
	Hub      *ws.Hub
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.Objects, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.APIKey))

	// WebSocket results feed
	v1.GET("/ws", cfg.Hub.HandleWS)

	// Uploads
	uploadH := handlers.NewUploadHandler(cfg.DB)
	v1.GET("/uploads", uploadH.List)
	v1.GET("/uploads/:id", uploadH.Get)

	return r
}
