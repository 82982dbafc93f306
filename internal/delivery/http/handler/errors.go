package handler

import (
	"errors"
	"net/http"

	"coldchain-monitor/internal/logger"
	appErrors "coldchain-monitor/pkg/errors"
	"coldchain-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps an AppError code to its HTTP status. Anything that is
// not an AppError is an internal failure and its detail is not exposed.
func respondError(c *gin.Context, err error) {
	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error("Unhandled error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case appErrors.CodeNotFound:
		status = http.StatusNotFound
	case appErrors.CodeValidation:
		status = http.StatusBadRequest
	case appErrors.CodeConflict:
		status = http.StatusConflict
	}
	utils.ErrorResponse(c, status, appErr.Error())
}
