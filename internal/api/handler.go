package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/loragw/internal/gateway"
	"github.com/taoyao-code/loragw/internal/history"
	"github.com/taoyao-code/loragw/internal/presets"
	"github.com/taoyao-code/loragw/internal/protocol/libelium"
)

// defaultListLimit 未指定 limit 时返回的条数
const defaultListLimit = 50

// Commander 向网关下发命令的能力（*gateway.Link、*gateway.Supervisor 实现）
type Commander interface {
	SendRead(ctx context.Context) error
	SendSet(ctx context.Context, cfg libelium.RadioConfig) error
}

// Handler 网关控制 API 处理器
type Handler struct {
	cmd     Commander
	frames  history.Store
	logs    history.Store
	presets *presets.Set
	logger  *zap.Logger
}

// NewHandler 创建 API 处理器；ps 可为 nil
func NewHandler(cmd Commander, frames, logs history.Store, ps *presets.Set, logger *zap.Logger) *Handler {
	if ps == nil {
		ps = presets.Empty()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{cmd: cmd, frames: frames, logs: logs, presets: ps, logger: logger}
}

// ListFrames 最近收到的帧（最新在前）
// @Router /api/frames [get]
func (h *Handler) ListFrames(c *gin.Context) {
	h.list(c, h.frames, "frames")
}

// ListLogs 最近的诊断日志（最新在前）
// @Router /api/logs [get]
func (h *Handler) ListLogs(c *gin.Context) {
	h.list(c, h.logs, "logs")
}

func (h *Handler) list(c *gin.Context, store history.Store, key string) {
	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	entries, err := store.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list history failed", zap.String("kind", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{key: entries, "count": len(entries)})
}

// RadioOptions 无线参数可选值、默认值与预设名称
// @Router /api/radio/options [get]
func (h *Handler) RadioOptions(c *gin.Context) {
	def := libelium.DefaultRadioConfig()
	c.JSON(http.StatusOK, gin.H{
		"options": libelium.AvailableOptions(),
		"defaults": presets.Preset{
			Channel:         def.Channel.String(),
			Address:         def.Address,
			Bandwidth:       def.Bandwidth.String(),
			CodingRate:      def.CodingRate.String(),
			SpreadingFactor: def.SpreadingFactor.String(),
		},
		"address": gin.H{"min": libelium.MinAddress, "max": libelium.MaxAddress},
		"presets": h.presets.Names(),
	})
}

// SendRead 下发 READ
// @Router /api/commands/read [post]
func (h *Handler) SendRead(c *gin.Context) {
	if err := h.cmd.SendRead(c.Request.Context()); err != nil {
		h.commandError(c, "read", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent", "command": "READ"})
}

// setRequest SET 请求体：preset 非空时使用预设，否则使用各参数字段
type setRequest struct {
	Name string `json:"preset"`
	presets.Preset
}

// SendSet 下发 SET
// @Router /api/commands/set [post]
func (h *Handler) SendSet(c *gin.Context) {
	var req setRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	var cfg libelium.RadioConfig
	if req.Name != "" {
		var ok bool
		if cfg, ok = h.presets.Get(req.Name); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown preset " + strconv.Quote(req.Name)})
			return
		}
	} else {
		var err error
		if cfg, err = req.Preset.RadioConfig(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.cmd.SendSet(c.Request.Context(), cfg); err != nil {
		h.commandError(c, "set", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "sent",
		"command":         "SET",
		"channel":         cfg.Channel.String(),
		"address":         cfg.Address,
		"bandwidth":       cfg.Bandwidth.String(),
		"codingRate":      cfg.CodingRate.String(),
		"spreadingFactor": cfg.SpreadingFactor.String(),
	})
}

func (h *Handler) commandError(c *gin.Context, cmd string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, libelium.ErrInvalidConfig):
		status = http.StatusBadRequest
	case errors.Is(err, gateway.ErrThrottled):
		status = http.StatusTooManyRequests
	case errors.Is(err, gateway.ErrLinkDown):
		status = http.StatusServiceUnavailable
	}
	h.logger.Warn("command failed", zap.String("cmd", cmd), zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}
