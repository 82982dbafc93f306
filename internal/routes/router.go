package routes

import (
	"context"
	"net/http"

	"coldchain-monitor/internal/config"
	"coldchain-monitor/internal/delivery/http/handler"
	"coldchain-monitor/internal/ingestion"
	"coldchain-monitor/internal/logger"
	"coldchain-monitor/internal/middleware"
	"coldchain-monitor/internal/notify"
	"coldchain-monitor/internal/simulator"
	"coldchain-monitor/internal/usecase/alert"
	"coldchain-monitor/internal/usecase/dashboard"
	"coldchain-monitor/internal/usecase/device"
	"coldchain-monitor/internal/usecase/shipment"
	"coldchain-monitor/internal/websocket"

	"github.com/gin-gonic/gin"
)

const maxRequestBody = 1 << 20

// Dependencies are the wired components the HTTP surface exposes.
type Dependencies struct {
	Broker    *notify.Broker
	Processor *ingestion.Processor
	Demo      *simulator.Demo
	Hub       *websocket.Hub
	MQTT      *ingestion.MQTTIngestionClient // nil when MQTT is disabled

	Shipments *shipment.Service
	Alerts    *alert.Service
	Devices   *device.Service
	Dashboard *dashboard.Service
}

// SetupRoutes builds the gin engine. ctx bounds background middleware work
// such as rate limiter cleanup.
func SetupRoutes(ctx context.Context, cfg *config.Config, deps *Dependencies) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Order: recovery, request ID, logging, security headers, CORS, body size, rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(maxRequestBody))
	router.Use(middleware.RateLimitMiddleware(ctx, cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		published, dropped, subscribers := deps.Broker.Stats()
		body := gin.H{
			"status":  "healthy",
			"message": "Service is running",
			"notify": gin.H{
				"published":   published,
				"dropped":     dropped,
				"subscribers": subscribers,
			},
			"websocketClients": deps.Hub.ClientCount(),
			"demoActive":       deps.Demo.Active(),
		}
		if deps.MQTT != nil {
			body["mqtt"] = deps.MQTT.Stats()
		}
		c.JSON(http.StatusOK, body)
	})

	router.GET("/ws", deps.Hub.ServeWS)

	api := router.Group("/api")
	{
		handler.NewDashboardHandler(deps.Dashboard).RegisterRoutes(api)
		handler.NewShipmentHandler(deps.Shipments, deps.Dashboard).RegisterRoutes(api)
		handler.NewTelemetryHandler(deps.Processor, deps.Dashboard).RegisterRoutes(api)
		handler.NewAlertHandler(deps.Alerts).RegisterRoutes(api)
		handler.NewDeviceHandler(deps.Devices).RegisterRoutes(api)
		handler.NewDemoHandler(deps.Demo).RegisterRoutes(api)
	}

	logger.Info("All routes initialized")
	return router
}
