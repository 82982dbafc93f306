package handler

import (
	"net/http"

	"coldchain-monitor/internal/usecase/dashboard"
	"coldchain-monitor/internal/usecase/shipment"
	"coldchain-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ShipmentHandler struct {
	service *shipment.Service
	queries *dashboard.Service
}

func NewShipmentHandler(service *shipment.Service, queries *dashboard.Service) *ShipmentHandler {
	return &ShipmentHandler{service: service, queries: queries}
}

func (h *ShipmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	shipments := router.Group("/shipments")
	{
		shipments.GET("", h.ListShipments)
		shipments.POST("", h.CreateShipment)
		shipments.GET("/:id", h.GetShipment)
	}
}

func (h *ShipmentHandler) ListShipments(c *gin.Context) {
	shipments := h.queries.GetShipments(c.Request.Context())
	utils.SuccessResponse(c, http.StatusOK, "Shipments retrieved successfully", shipments)
}

func (h *ShipmentHandler) CreateShipment(c *gin.Context) {
	var req shipment.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.CreateShipment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Shipment created successfully", created)
}

func (h *ShipmentHandler) GetShipment(c *gin.Context) {
	detail, err := h.queries.GetShipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shipment retrieved successfully", detail)
}
