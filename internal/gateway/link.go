package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/taoyao-code/loragw/internal/metrics"
	"github.com/taoyao-code/loragw/internal/protocol/libelium"
	"github.com/taoyao-code/loragw/internal/serial"
)

// readChunk 单次串口读取的缓冲大小
const readChunk = 256

var (
	// ErrEmptyFrame 待发送帧为空
	ErrEmptyFrame = errors.New("can't send null message")
	// ErrThrottled 命令节流等待失败（ctx 取消或超时）
	ErrThrottled = errors.New("command throttled")
)

// Link 网关串口链路：单 goroutine 读循环驱动组帧状态机，命令下发加锁串行写
type Link struct {
	port    io.ReadWriter
	diag    libelium.Diagnostics
	log     *zap.Logger
	asm     *libelium.Assembler
	appm    *metrics.AppMetrics
	limiter *CommandLimiter

	onMessage func(*libelium.Message)
	idleEOF   bool

	writeMu sync.Mutex
	running atomic.Bool
}

// Option 链路选项
type Option func(*Link)

// WithMetrics 上报链路指标
func WithMetrics(m *metrics.AppMetrics) Option { return func(l *Link) { l.appm = m } }

// WithLimiter 下行命令节流
func WithLimiter(lim *CommandLimiter) Option { return func(l *Link) { l.limiter = lim } }

// WithMessageHandler 每组装完成一帧回调一次（在读循环 goroutine 中执行）
func WithMessageHandler(fn func(*libelium.Message)) Option {
	return func(l *Link) { l.onMessage = fn }
}

// WithIdleEOF 把 0 字节 + io.EOF 视为读超时（tarm/serial 在 Unix 下的行为），而不是流结束
func WithIdleEOF() Option { return func(l *Link) { l.idleEOF = true } }

// NewLink 创建链路；diag 为空时丢弃诊断输出
func NewLink(port io.ReadWriter, diag libelium.Diagnostics, log *zap.Logger, opts ...Option) *Link {
	if diag == nil {
		diag = libelium.NopDiagnostics{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	l := &Link{port: port, diag: diag, log: log}
	for _, opt := range opts {
		opt(l)
	}
	l.asm = libelium.NewAssembler(diag, libelium.WithRejectHook(l.onReject))
	return l
}

// Running 读循环是否在运行
func (l *Link) Running() bool { return l.running.Load() }

// Run 读循环：逐字节送入组帧状态机，直到 ctx 取消、流结束或读错误
// 流结束与读错误都会先向状态机发送复位信号
func (l *Link) Run(ctx context.Context) error {
	l.running.Store(true)
	if l.appm != nil {
		l.appm.LinkUp.Set(1)
	}
	defer func() {
		l.running.Store(false)
		if l.appm != nil {
			l.appm.LinkUp.Set(0)
		}
	}()

	buf := make([]byte, readChunk)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		n, err := l.port.Read(buf)
		if n > 0 {
			l.feed(buf[:n])
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			if l.idleEOF && serial.IsTimeout(n, err) {
				continue
			}
			l.asm.Process(libelium.ResetSignal)
			l.log.Info("serial stream closed")
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		l.asm.Process(libelium.ResetSignal)
		l.diag.LogLater("error on receive: " + err.Error())
		if l.appm != nil {
			l.appm.SerialReadErrors.Inc()
		}
		return fmt.Errorf("serial read: %w", err)
	}
}

func (l *Link) feed(p []byte) {
	if l.appm != nil {
		l.appm.SerialBytesReceived.Add(float64(len(p)))
	}
	for _, b := range p {
		msg := l.asm.Feed(b)
		if msg == nil {
			continue
		}
		if l.appm != nil {
			l.appm.FramesAssembled.WithLabelValues(msg.Kind.String()).Inc()
		}
		l.diag.FrameLater(libelium.Render(msg.Payload))
		if l.onMessage != nil {
			l.onMessage(msg)
		}
	}
}

func (l *Link) onReject(state libelium.State, err error) {
	if l.appm != nil {
		l.appm.FrameRejects.WithLabelValues(metrics.RejectReason(err)).Inc()
	}
	l.log.Debug("frame rejected", zap.Stringer("state", state), zap.Error(err))
}

// SendRead 下发 READ 命令
func (l *Link) SendRead(ctx context.Context) error {
	return l.send(ctx, "read", libelium.BuildReadCommand())
}

// SendSet 下发 SET 命令；地址范围与枚举值先行校验
func (l *Link) SendSet(ctx context.Context, cfg libelium.RadioConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	frame, err := libelium.BuildSetCommand(cfg)
	if err != nil {
		l.countCommand("set", err)
		return err
	}
	return l.send(ctx, "set", frame)
}

func (l *Link) send(ctx context.Context, cmd string, frame []byte) (err error) {
	defer func() { l.countCommand(cmd, err) }()

	if len(frame) == 0 {
		l.diag.LogLater(ErrEmptyFrame.Error())
		return ErrEmptyFrame
	}
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrThrottled, err)
		}
	}

	l.diag.LogLater(libelium.Render(frame))

	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	if _, err := l.port.Write(frame); err != nil {
		l.diag.LogLater("write error: " + err.Error())
		return fmt.Errorf("serial write: %w", err)
	}
	l.diag.LogLater(commandLabel(cmd) + " message sent")
	return nil
}

func (l *Link) countCommand(cmd string, err error) {
	if l.appm == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	l.appm.CommandsSent.WithLabelValues(cmd, result).Inc()
}

func commandLabel(cmd string) string {
	switch cmd {
	case "read":
		return "READ"
	case "set":
		return "SET"
	}
	return cmd
}
