package gateway

import (
	"context"
	"errors"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/taoyao-code/loragw/internal/protocol/libelium"
)

var (
	// ErrLinkDown 串口未打开或读循环已结束
	ErrLinkDown = errors.New("serial link is down")
	// ErrStreamClosed 串口数据流结束（设备拔出等）
	ErrStreamClosed = errors.New("serial stream closed")
)

// Opener 打开串口
type Opener func() (io.ReadWriteCloser, error)

// Supervisor 串口生命周期：打开端口、运行读循环、ctx 取消时关闭端口
// 不做重连，链路结束后由进程退出交给外部守护重启
type Supervisor struct {
	open     Opener
	diag     libelium.Diagnostics
	log      *zap.Logger
	linkOpts []Option
	onState  func(up bool)

	mu   sync.RWMutex
	link *Link
}

// NewSupervisor 创建串口生命周期管理
func NewSupervisor(open Opener, diag libelium.Diagnostics, log *zap.Logger, opts ...Option) *Supervisor {
	if diag == nil {
		diag = libelium.NopDiagnostics{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Supervisor{open: open, diag: diag, log: log, linkOpts: opts}
}

// OnStateChange 链路上下线回调（就绪探针）
func (s *Supervisor) OnStateChange(fn func(up bool)) { s.onState = fn }

// Run 阻塞直到 ctx 取消（返回 nil）或链路结束（返回错误）
func (s *Supervisor) Run(ctx context.Context) error {
	port, err := s.open()
	if err != nil {
		s.diag.Log("can't open serial port: " + err.Error())
		return err
	}

	var closeOnce sync.Once
	closePort := func() { closeOnce.Do(func() { _ = port.Close() }) }
	defer closePort()

	link := NewLink(port, s.diag, s.log, s.linkOpts...)
	s.setLink(link)
	defer s.setLink(nil)

	// ctx 取消时关闭端口以解除阻塞的 Read
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			closePort()
		case <-done:
		}
	}()

	s.log.Info("serial link up")
	if err := link.Run(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	return ErrStreamClosed
}

func (s *Supervisor) setLink(l *Link) {
	s.mu.Lock()
	s.link = l
	s.mu.Unlock()
	if s.onState != nil {
		s.onState(l != nil)
	}
}

func (s *Supervisor) current() (*Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.link == nil {
		return nil, ErrLinkDown
	}
	return s.link, nil
}

// Running 当前是否有读循环在运行
func (s *Supervisor) Running() bool {
	l, err := s.current()
	return err == nil && l.Running()
}

// SendRead 通过当前链路下发 READ
func (s *Supervisor) SendRead(ctx context.Context) error {
	l, err := s.current()
	if err != nil {
		return err
	}
	return l.SendRead(ctx)
}

// SendSet 通过当前链路下发 SET
func (s *Supervisor) SendSet(ctx context.Context, cfg libelium.RadioConfig) error {
	l, err := s.current()
	if err != nil {
		return err
	}
	return l.SendSet(ctx, cfg)
}
