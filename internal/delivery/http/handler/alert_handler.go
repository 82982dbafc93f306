package handler

import (
	"net/http"

	"coldchain-monitor/internal/usecase/alert"
	"coldchain-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	service *alert.Service
}

func NewAlertHandler(service *alert.Service) *AlertHandler {
	return &AlertHandler{service: service}
}

func (h *AlertHandler) RegisterRoutes(router *gin.RouterGroup) {
	alerts := router.Group("/alerts")
	{
		alerts.GET("", h.ListAlerts)
		alerts.PUT("/:id", h.AcknowledgeAlert)
	}
}

func (h *AlertHandler) ListAlerts(c *gin.Context) {
	var filter alert.AlertFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if err := utils.ValidateStruct(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	alerts := h.service.ListAlerts(c.Request.Context(), &filter)
	utils.SuccessResponse(c, http.StatusOK, "Alerts retrieved successfully", alerts)
}

func (h *AlertHandler) AcknowledgeAlert(c *gin.Context) {
	acked, err := h.service.AcknowledgeAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Alert acknowledged successfully", acked)
}
