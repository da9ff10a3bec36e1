package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/locker-gateway/internal/outbound"
	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
	"github.com/taoyao-code/locker-gateway/internal/serialport"
)

// statusOf 下行错误映射为 HTTP 状态码与错误码
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, outbound.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, outbound.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "device_timeout"
	case errors.Is(err, outbound.ErrBoardUnresponsive):
		return http.StatusServiceUnavailable, "board_unresponsive"
	case errors.Is(err, serialport.ErrNotConnected):
		return http.StatusServiceUnavailable, "serial_offline"
	case errors.Is(err, serialport.ErrQueueFull):
		return http.StatusServiceUnavailable, "serial_busy"
	case errors.Is(err, door.ErrBadPayload), errors.Is(err, door.ErrKindMismatch):
		return http.StatusBadGateway, "bad_reply"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	code, name := statusOf(err)
	if code >= http.StatusInternalServerError {
		h.logger.Warn("api request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(code, gin.H{"error": name, "message": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": msg})
}

func disabled(c *gin.Context, what string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "disabled", "message": what + " 未启用"})
}
