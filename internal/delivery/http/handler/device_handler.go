package handler

import (
	"net/http"

	"coldchain-monitor/internal/usecase/device"
	"coldchain-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	service *device.Service
}

func NewDeviceHandler(service *device.Service) *DeviceHandler {
	return &DeviceHandler{service: service}
}

func (h *DeviceHandler) RegisterRoutes(router *gin.RouterGroup) {
	devices := router.Group("/devices")
	{
		devices.GET("", h.ListDevices)
		devices.POST("", h.RegisterDevice)
		devices.GET("/:id", h.GetDevice)
	}
}

func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	var req device.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.RegisterDevice(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Device registered successfully", created)
}

func (h *DeviceHandler) GetDevice(c *gin.Context) {
	found, err := h.service.GetDevice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device retrieved successfully", found)
}

func (h *DeviceHandler) ListDevices(c *gin.Context) {
	var filter device.DeviceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if err := utils.ValidateStruct(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	devices := h.service.ListDevices(c.Request.Context(), &filter)
	utils.SuccessResponse(c, http.StatusOK, "Devices retrieved successfully", devices)
}
