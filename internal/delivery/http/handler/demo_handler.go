package handler

import (
	"net/http"

	"coldchain-monitor/internal/notify"
	"coldchain-monitor/internal/simulator"
	"coldchain-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DemoHandler struct {
	demo *simulator.Demo
}

func NewDemoHandler(demo *simulator.Demo) *DemoHandler {
	return &DemoHandler{demo: demo}
}

func (h *DemoHandler) RegisterRoutes(router *gin.RouterGroup) {
	demo := router.Group("/demo")
	{
		demo.POST("/start", h.Start)
		demo.POST("/stop", h.Stop)
		demo.GET("/status", h.Status)
		demo.POST("/simulate", h.Simulate)
	}
}

func (h *DemoHandler) Start(c *gin.Context) {
	h.demo.Start()
	utils.SuccessResponse(c, http.StatusOK, "Demo mode started", notify.DemoStatus{Active: h.demo.Active()})
}

func (h *DemoHandler) Stop(c *gin.Context) {
	h.demo.Stop()
	utils.SuccessResponse(c, http.StatusOK, "Demo mode stopped", notify.DemoStatus{Active: h.demo.Active()})
}

func (h *DemoHandler) Status(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Demo status retrieved successfully", notify.DemoStatus{Active: h.demo.Active()})
}

// Simulate runs one single-shot batch across all eligible shipments.
func (h *DemoHandler) Simulate(c *gin.Context) {
	n, err := h.demo.RunOnce(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Simulated telemetry batch", gin.H{"readings": n})
}
