package handlers

import (
	"context"
	"net/http"
	"time"

	"mindnest/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Checker *utils.HealthChecker
}

func NewHealthHandler(checker *utils.HealthChecker) *HealthHandler {
	return &HealthHandler{Checker: checker}
}

func (h *HealthHandler) HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := h.Checker.Check(ctx)
	code := http.StatusOK
	if !status.OK() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
