package util

import (
	"net/http"

	"skillup_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// FromError 按错误分类映射HTTP状态码。
// UpstreamError 额外带回已获取的部分数据
func FromError(c *gin.Context, err error) {
	switch {
	case IsValidation(err):
		BadRequest(c, err.Error())
	case IsNotFound(err):
		Error(c, http.StatusNotFound, err.Error())
	case IsConflict(err):
		Error(c, http.StatusConflict, err.Error())
	default:
		if up, ok := AsUpstream(err); ok {
			c.JSON(http.StatusBadGateway, Response{
				Code:    http.StatusBadGateway,
				Message: up.Message,
				Data:    gin.H{"partialData": up.Partial},
			})
			return
		}
		LogInternalError(c, err)
	}
}
