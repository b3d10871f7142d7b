// Package thirdparty 把网关收到的帧转发到第三方 Webhook
package thirdparty

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/taoyao-code/loragw/internal/protocol/libelium"
)

// EventFrameReceived 事件类型
const EventFrameReceived = "frame.received"

// FrameEvent 推送给第三方的帧事件
type FrameEvent struct {
	EventID   string `json:"eventId"`
	Event     string `json:"event"`
	Gateway   string `json:"gateway"`
	Kind      string `json:"kind"`
	Text      string `json:"text"` // 可读渲染
	Hex       string `json:"hex"`  // 原始载荷
	Timestamp int64  `json:"timestamp"`
}

// NewFrameEvent 由组装完成的消息生成事件
func NewFrameEvent(gateway string, msg *libelium.Message) FrameEvent {
	return FrameEvent{
		EventID:   uuid.NewString(),
		Event:     EventFrameReceived,
		Gateway:   gateway,
		Kind:      msg.Kind.String(),
		Text:      libelium.Render(msg.Payload),
		Hex:       hex.EncodeToString(msg.Payload),
		Timestamp: time.Now().UnixMilli(),
	}
}

// Metrics 推送指标
type Metrics struct {
	PushTotal    *prometheus.CounterVec // labels: result=success|failed|dropped
	PushRetries  prometheus.Counter
	PushDuration prometheus.Histogram
	QueueLength  prometheus.Gauge
}

// NewMetrics 注册推送指标
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PushTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_push_total",
			Help: "Frame events pushed to the webhook, by result.",
		}, []string{"result"}),
		PushRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webhook_push_retry_total",
			Help: "Webhook push retries.",
		}),
		PushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "webhook_push_duration_seconds",
			Help:    "Duration of a webhook push including retries.",
			Buckets: prometheus.DefBuckets,
		}),
		QueueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "webhook_queue_length",
			Help: "Frame events waiting to be pushed.",
		}),
	}
	reg.MustRegister(m.PushTotal, m.PushRetries, m.PushDuration, m.QueueLength)
	return m
}

// Forwarder 有界队列 + 单 worker；队列满时丢弃新事件，不阻塞读循环
type Forwarder struct {
	pusher  *Pusher
	url     string
	gateway string
	kinds   map[string]bool // 为空表示全部类别
	queue   chan FrameEvent
	log     *zap.Logger
	m       *Metrics
}

// NewForwarder kinds 取值 "gateway"、"remote_ascii"；m 可为 nil
func NewForwarder(p *Pusher, url, gateway string, queueSize int, kinds []string, log *zap.Logger, m *Metrics) *Forwarder {
	if queueSize <= 0 {
		queueSize = 256
	}
	if log == nil {
		log = zap.NewNop()
	}
	var km map[string]bool
	if len(kinds) > 0 {
		km = make(map[string]bool, len(kinds))
		for _, k := range kinds {
			km[k] = true
		}
	}
	if m != nil {
		p.OnRetry = m.PushRetries.Inc
	}
	return &Forwarder{
		pusher:  p,
		url:     url,
		gateway: gateway,
		kinds:   km,
		queue:   make(chan FrameEvent, queueSize),
		log:     log,
		m:       m,
	}
}

// Handle 入队一条消息，可直接作为链路的消息回调
func (f *Forwarder) Handle(msg *libelium.Message) {
	if f.kinds != nil && !f.kinds[msg.Kind.String()] {
		return
	}
	select {
	case f.queue <- NewFrameEvent(f.gateway, msg):
		if f.m != nil {
			f.m.QueueLength.Inc()
		}
	default:
		f.log.Warn("webhook queue full, frame dropped", zap.String("kind", msg.Kind.String()))
		if f.m != nil {
			f.m.PushTotal.WithLabelValues("dropped").Inc()
		}
	}
}

// Run 推送 worker，ctx 取消时退出（未推送的事件丢弃）
func (f *Forwarder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-f.queue:
			if f.m != nil {
				f.m.QueueLength.Dec()
			}
			f.push(ctx, ev)
		}
	}
}

func (f *Forwarder) push(ctx context.Context, ev FrameEvent) {
	start := time.Now()
	code, err := f.pusher.SendJSON(ctx, f.url, ev)
	if f.m != nil {
		f.m.PushDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		f.log.Warn("webhook push failed",
			zap.String("event_id", ev.EventID),
			zap.Int("status", code),
			zap.Error(err))
		if f.m != nil {
			f.m.PushTotal.WithLabelValues("failed").Inc()
		}
		return
	}
	f.log.Debug("webhook push ok", zap.String("event_id", ev.EventID), zap.Int("status", code))
	if f.m != nil {
		f.m.PushTotal.WithLabelValues("success").Inc()
	}
}
