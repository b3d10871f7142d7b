package health

import "sync/atomic"

// Readiness 就绪状态：串口已打开且历史存储可用
type Readiness struct {
	serialReady  atomic.Bool
	historyReady atomic.Bool
}

func NewReadiness() *Readiness { return &Readiness{} }

func (r *Readiness) SetSerialReady(v bool)  { r.serialReady.Store(v) }
func (r *Readiness) SetHistoryReady(v bool) { r.historyReady.Store(v) }

// Ready 各子系统均就绪
func (r *Readiness) Ready() bool {
	return r.serialReady.Load() && r.historyReady.Load()
}
