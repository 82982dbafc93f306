package handler

import (
	"net/http"

	"coldchain-monitor/internal/usecase/dashboard"
	"coldchain-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *dashboard.Service
}

func NewDashboardHandler(service *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard/stats", h.GetStats)
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats := h.service.GetDashboardStats(c.Request.Context())
	utils.SuccessResponse(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}
