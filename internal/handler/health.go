package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cytutor/backend/internal/model"
)

// Ping godoc
// @Summary Liveness probe
// @Tags ops
// @Produce json
// @Success 200 {object} model.PingResponse
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

// Health godoc
// @Summary Health check
// @Tags ops
// @Produce json
// @Success 200 {object} model.StatusResponse
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.StatusResponse{Status: "OK"})
}
