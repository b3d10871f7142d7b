package health

import (
	"context"

	"github.com/taoyao-code/loragw/internal/gateway"
)

// LinkStatus 串口链路状态
type LinkStatus interface {
	Running() bool
}

// SerialChecker 串口链路检查器
type SerialChecker struct {
	device  string
	link    LinkStatus
	limiter *gateway.CommandLimiter
}

// NewSerialChecker limiter 可为 nil
func NewSerialChecker(device string, link LinkStatus, limiter *gateway.CommandLimiter) *SerialChecker {
	return &SerialChecker{device: device, link: link, limiter: limiter}
}

func (c *SerialChecker) Name() string { return "serial" }

// Check 读循环未运行（端口未打开或已关闭）为不健康
func (c *SerialChecker) Check(_ context.Context) CheckResult {
	return timed(c.check)
}

func (c *SerialChecker) check() CheckResult {
	details := map[string]any{"device": c.device}
	if c.limiter != nil {
		st := c.limiter.Stats()
		details["commands_allowed"] = st.AllowedTotal
		details["commands_throttled"] = st.RejectedTotal
	}

	if c.link == nil || !c.link.Running() {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: "serial link down",
			Details: details,
		}
	}
	return CheckResult{Status: StatusHealthy, Message: "ok", Details: details}
}
