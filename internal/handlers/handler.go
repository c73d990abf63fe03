package handlers

import (
	"soil_monitor/internal/logger"
	"soil_monitor/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services  *service.Service
	log       *logger.Logger
	deviceKey string // shared secret for the ingest endpoint; empty disables the check
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, deviceKey string) *Handler {
	return &Handler{services: services, log: log, deviceKey: deviceKey}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Sensors expect 405 on a wrong method, not 404.
	router.HandleMethodNotAllowed = true

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Sensor-facing ingestion (shared-secret protected)
	router.POST("/api/ingest", h.deviceKeyMiddleware, h.ingestReading)

	// Dashboard-facing read API
	h.registerAPIRoutes(router)

	// Live current-reading subscription (HTTP upgrade), same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		moisture := api.Group("/moisture")
		{
			moisture.GET("/current", h.getCurrent)
			moisture.GET("/history", h.getHistory)
			moisture.GET("/years", h.getYears)
		}
		logs := api.Group("/logs")
		{
			logs.GET("/", h.getLogs)
		}
	}
}
