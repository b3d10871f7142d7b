package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taoyao-code/loragw/internal/protocol/libelium"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 网关链路指标
type AppMetrics struct {
	SerialBytesReceived prometheus.Counter
	SerialReadErrors    prometheus.Counter
	FramesAssembled     *prometheus.CounterVec // labels: kind=gateway|remote_ascii
	FrameRejects        *prometheus.CounterVec // labels: reason
	CommandsSent        *prometheus.CounterVec // labels: cmd=read|set, result=ok|error
	LinkUp              prometheus.Gauge
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg prometheus.Registerer) *AppMetrics {
	m := &AppMetrics{
		SerialBytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serial_bytes_received_total",
			Help: "Total bytes received from the gateway serial port.",
		}),
		SerialReadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serial_read_errors_total",
			Help: "Serial read errors that forced an assembler reset.",
		}),
		FramesAssembled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frames_assembled_total",
			Help: "Completely assembled inbound frames by kind.",
		}, []string{"kind"}),
		FrameRejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frame_rejects_total",
			Help: "Inbound bytes or frames rejected by the assembler, by reason.",
		}, []string{"reason"}),
		CommandsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "commands_sent_total",
			Help: "Outbound gateway commands by command and result.",
		}, []string{"cmd", "result"}),
		LinkUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "serial_link_up",
			Help: "1 while the serial read loop is running.",
		}),
	}
	reg.MustRegister(m.SerialBytesReceived, m.SerialReadErrors, m.FramesAssembled, m.FrameRejects, m.CommandsSent, m.LinkUp)
	return m
}

// RejectReason 把组帧错误映射为指标标签
func RejectReason(err error) string {
	switch {
	case errors.Is(err, libelium.ErrBadCRC):
		return "bad_crc"
	case errors.Is(err, libelium.ErrUnsupportedFrame):
		return "unsupported"
	case errors.Is(err, libelium.ErrPayloadTooLong):
		return "too_long"
	case errors.Is(err, libelium.ErrReset):
		return "reset"
	case errors.Is(err, libelium.ErrUnexpectedByte):
		return "unexpected_byte"
	}
	return "other"
}
