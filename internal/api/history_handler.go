package api

import (
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taoyao-code/locker-gateway/internal/storage/models"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

func queryLimit(c *gin.Context) int {
	limit := defaultLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

// commandJSON 审计记录输出格式
func commandJSON(l models.CommandLog) gin.H {
	out := gin.H{
		"request_id":  l.RequestID,
		"cmd":         hexByte(uint8(l.Cmd)),
		"request":     strings.ToUpper(hex.EncodeToString(l.Request)),
		"result":      l.Result,
		"sent_at":     l.SentAt,
		"duration_ms": l.DurationMs,
	}
	if len(l.Response) > 0 {
		out["response"] = strings.ToUpper(hex.EncodeToString(l.Response))
	}
	if l.Error != nil {
		out["error"] = *l.Error
	}
	return out
}

// ListCommands 下行请求审计
// @Summary 查询下行请求记录
// @Tags 记录查询
// @Produce json
// @Security ApiKeyAuth
// @Param cmd query string false "指令码(hex)，如 A4"
// @Param limit query int false "条数(默认50，最大500)"
// @Success 200 {object} map[string]interface{} "成功"
// @Failure 503 {object} map[string]interface{} "数据库未启用"
// @Router /api/v1/commands [get]
func (h *Handler) ListCommands(c *gin.Context) {
	if h.deps.Commands == nil {
		disabled(c, "数据库")
		return
	}
	cmd := -1
	if v := c.Query("cmd"); v != "" {
		n, err := strconv.ParseUint(v, 16, 8)
		if err != nil {
			badRequest(c, "cmd 必须为1字节hex")
			return
		}
		cmd = int(n)
	}
	logs, err := h.deps.Commands.RecentCommands(c.Request.Context(), cmd, queryLimit(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	list := make([]gin.H, 0, len(logs))
	for _, l := range logs {
		list = append(list, commandJSON(l))
	}
	c.JSON(http.StatusOK, gin.H{"commands": list})
}

// ListFrames 上行帧流水
// @Summary 查询上行帧流水
// @Tags 记录查询
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "条数(默认50，最大500)"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/frames [get]
func (h *Handler) ListFrames(c *gin.Context) {
	if h.deps.Frames == nil {
		disabled(c, "数据库")
		return
	}
	list, err := h.deps.Frames.Recent(c.Request.Context(), queryLimit(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"frames": list})
}

// ListEvents 最近事件
// @Summary 查询 Redis 事件流中的最近事件
// @Tags 记录查询
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "条数(默认50，最大500)"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	if h.deps.Events == nil {
		disabled(c, "Redis")
		return
	}
	list, err := h.deps.Events.Recent(c.Request.Context(), int64(queryLimit(c)))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": list})
}

// ListPorts 本机串口
// @Summary 枚举本机串口
// @Tags 系统
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/ports [get]
func (h *Handler) ListPorts(c *gin.Context) {
	if h.deps.ListPorts == nil {
		disabled(c, "串口枚举")
		return
	}
	ports, err := h.deps.ListPorts()
	if err != nil {
		h.fail(c, err)
		return
	}
	if ports == nil {
		ports = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"ports": ports})
}
