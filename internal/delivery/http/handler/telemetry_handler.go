package handler

import (
	"net/http"

	"coldchain-monitor/internal/ingestion"
	"coldchain-monitor/internal/usecase/dashboard"
	"coldchain-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

type TelemetryHandler struct {
	processor *ingestion.Processor
	queries   *dashboard.Service
}

func NewTelemetryHandler(processor *ingestion.Processor, queries *dashboard.Service) *TelemetryHandler {
	return &TelemetryHandler{processor: processor, queries: queries}
}

func (h *TelemetryHandler) RegisterRoutes(router *gin.RouterGroup) {
	telemetry := router.Group("/telemetry")
	{
		telemetry.GET("", h.ListTelemetry)
		telemetry.POST("", h.IngestTelemetry)
	}
	router.GET("/ingestion/metrics", h.GetMetrics)
}

// IngestTelemetry stores a reading. An unknown shipment still yields 201:
// the reading is kept, only evaluation is skipped.
func (h *TelemetryHandler) IngestTelemetry(c *gin.Context) {
	var req ingestion.ReadingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	reading, err := h.processor.Ingest(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Telemetry recorded successfully", reading)
}

func (h *TelemetryHandler) ListTelemetry(c *gin.Context) {
	var filter dashboard.TelemetryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if err := utils.ValidateStruct(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	readings := h.queries.GetTelemetry(c.Request.Context(), &filter)
	utils.SuccessResponse(c, http.StatusOK, "Telemetry retrieved successfully", readings)
}

func (h *TelemetryHandler) GetMetrics(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Ingestion metrics retrieved successfully", h.processor.GetMetrics())
}
