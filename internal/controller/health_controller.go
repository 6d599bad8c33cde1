package controller

import (
	"net/http"
	"time"

	"skillup_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	status := "ok"
	dbStatus := "up"

	sqlDB, err := c.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status = "degraded"
		dbStatus = "down"
	}

	payload := gin.H{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if status != "ok" {
		ctx.JSON(http.StatusServiceUnavailable, util.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "service degraded",
			Data:    payload,
		})
		return
	}

	util.Success(ctx, payload)
}
