package api

import (
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taoyao-code/locker-gateway/internal/events"
	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

// OpenDoorRequest 开锁请求
type OpenDoorRequest struct {
	// 开锁后自动落锁延时（毫秒），0 表示使用默认值
	OpenMs int `json:"open_ms" binding:"gte=0,lte=25500"`
}

// TemperatureRequest 设置温度参数请求
type TemperatureRequest struct {
	// 0 不控制，1 制冷，2 加热
	Mode  *int `json:"mode" binding:"required,min=0,max=2"`
	Upper *int `json:"upper" binding:"required"`
	Lower *int `json:"lower" binding:"required"`
}

// LightRequest 灯控请求
type LightRequest struct {
	On *bool `json:"on" binding:"required"`
}

// SignalRequest 信号输出请求
type SignalRequest struct {
	Channel *int  `json:"channel" binding:"required,min=0,max=255"`
	On      *bool `json:"on" binding:"required"`
}

// PricesRequest 数码管价格请求（单位：分）
type PricesRequest struct {
	Prices []int `json:"prices" binding:"required,min=1,max=255,dive,min=0,max=65535"`
}

func temperatureJSON(t door.TemperatureReply) gin.H {
	return gin.H{"mode": int(t.Mode), "upper": t.Upper, "lower": t.Lower}
}

func ackJSON(a door.AckReply) gin.H {
	return gin.H{"cmd": hexByte(a.Cmd), "echo": strings.ToUpper(hex.EncodeToString(a.Echo))}
}

func hexByte(b uint8) string { return strings.ToUpper(hex.EncodeToString([]byte{b})) }

// OpenDoor 开锁
// @Summary 开锁
// @Description 下发 A4 开锁指令并等待控制板应答
// @Tags 门控板
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param no path int true "锁编号(从1开始)"
// @Param body body OpenDoorRequest false "开锁参数"
// @Success 200 {object} map[string]interface{} "成功"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 503 {object} map[string]interface{} "串口离线"
// @Failure 504 {object} map[string]interface{} "控制板无应答"
// @Router /api/v1/locks/{no}/open [post]
func (h *Handler) OpenDoor(c *gin.Context) {
	lockNo, err := strconv.Atoi(c.Param("no"))
	if err != nil {
		badRequest(c, "锁编号必须为整数")
		return
	}
	var req OpenDoorRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	openFor := time.Duration(req.OpenMs) * time.Millisecond
	if openFor == 0 {
		openFor = h.deps.DefaultOpen
	}

	reply, err := h.deps.Controller.OpenDoor(c.Request.Context(), lockNo, openFor)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := gin.H{"lock_no": reply.LockNo()}
	if reply.HasResult {
		resp["result"] = reply.Result
		resp["success"] = reply.Success()
	}
	c.JSON(http.StatusOK, resp)
}

// GetTemperature 读取温度参数
// @Summary 读取温度参数
// @Tags 门控板
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "成功"
// @Failure 504 {object} map[string]interface{} "控制板无应答"
// @Router /api/v1/temperature [get]
func (h *Handler) GetTemperature(c *gin.Context) {
	t, err := h.deps.Controller.ReadTemperature(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, temperatureJSON(t))
}

// SetTemperature 设置温度参数
// @Summary 设置温度参数
// @Description 上下限范围 -50~50 摄氏度
// @Tags 门控板
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body TemperatureRequest true "温度参数"
// @Success 200 {object} map[string]interface{} "控制板回显的参数"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Router /api/v1/temperature [put]
func (h *Handler) SetTemperature(c *gin.Context) {
	var req TemperatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	t, err := h.deps.Controller.SetTemperature(c.Request.Context(), door.TempMode(*req.Mode), *req.Upper, *req.Lower)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, temperatureJSON(t))
}

// SetLight 灯控
// @Summary 灯控
// @Tags 门控板
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body LightRequest true "开关"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/light [post]
func (h *Handler) SetLight(c *gin.Context) {
	var req LightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ack, err := h.deps.Controller.SetLight(c.Request.Context(), *req.On)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ackJSON(ack))
}

// SetSignal 信号输出
// @Summary 信号输出
// @Tags 门控板
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SignalRequest true "通道与开关"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/signal [post]
func (h *Handler) SetSignal(c *gin.Context) {
	var req SignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ack, err := h.deps.Controller.SetSignal(c.Request.Context(), *req.Channel, *req.On)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ackJSON(ack))
}

// SetPrices 数码管价格
// @Summary 设置数码管价格
// @Description 5D 指令只下发不等待应答，返回 202
// @Tags 门控板
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body PricesRequest true "价格（分）"
// @Success 202 {object} map[string]interface{} "已下发"
// @Router /api/v1/prices [put]
func (h *Handler) SetPrices(c *gin.Context) {
	var req PricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.deps.Controller.SetPrices(c.Request.Context(), req.Prices); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"sent": len(req.Prices)})
}

// GetStatus 控制板状态
// @Summary 控制板最近一次上报的状态
// @Tags 门控板
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	now := h.now()
	snap := h.deps.State.Snapshot()
	resp := gin.H{
		"online": h.deps.State.Online(now, h.deps.OnlineWindow),
	}
	if h.deps.Link != nil {
		link := gin.H{
			"device": h.deps.Link.Device(),
			"online": h.deps.Link.Online(),
		}
		if at := h.deps.Link.OpenedAt(); !at.IsZero() {
			link["opened_at"] = at
		}
		resp["link"] = link
	}
	if !snap.LastFrameAt.IsZero() {
		resp["last_frame_at"] = snap.LastFrameAt
	}
	if snap.Status != nil {
		resp["status"] = events.StatusData(*snap.Status)
		resp["status_at"] = snap.StatusAt
	}
	if snap.Temperature != nil {
		resp["temperature"] = temperatureJSON(*snap.Temperature)
		resp["temperature_at"] = snap.TemperatureAt
	}
	c.JSON(http.StatusOK, resp)
}
