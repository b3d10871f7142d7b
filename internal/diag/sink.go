package diag

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/loragw/internal/history"
	"github.com/taoyao-code/loragw/internal/protocol/libelium"
)

// storeTimeout 单条历史写入超时
const storeTimeout = 2 * time.Second

type item struct {
	kind history.Kind
	text string
}

// Sink 诊断输出：写 zap 日志并记录到帧/日志历史
//   - Log / Frame 在调用方 goroutine 中立即写入
//   - LogLater / FrameLater 投递到队列，由 Run 所在 goroutine 写入；队列满时退化为立即写入
type Sink struct {
	log    *zap.Logger
	logs   history.Store
	frames history.Store
	queue  chan item
}

var _ libelium.Diagnostics = (*Sink)(nil)

// New 创建诊断输出；queueSize<=0 时使用 256
func New(log *zap.Logger, logs, frames history.Store, queueSize int) *Sink {
	if log == nil {
		log = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Sink{log: log, logs: logs, frames: frames, queue: make(chan item, queueSize)}
}

func (s *Sink) Log(msg string)         { s.deliver(item{kind: history.KindLog, text: msg}) }
func (s *Sink) Frame(text string)      { s.deliver(item{kind: history.KindFrame, text: text}) }
func (s *Sink) LogLater(msg string)    { s.enqueue(item{kind: history.KindLog, text: msg}) }
func (s *Sink) FrameLater(text string) { s.enqueue(item{kind: history.KindFrame, text: text}) }

func (s *Sink) enqueue(it item) {
	select {
	case s.queue <- it:
	default:
		s.deliver(it)
	}
}

// Run 消费延迟队列直到 ctx 取消；退出前清空剩余条目
func (s *Sink) Run(ctx context.Context) {
	for {
		select {
		case it := <-s.queue:
			s.deliver(it)
		case <-ctx.Done():
			s.drain()
			return
		}
	}
}

func (s *Sink) drain() {
	for {
		select {
		case it := <-s.queue:
			s.deliver(it)
		default:
			return
		}
	}
}

func (s *Sink) deliver(it item) {
	store := s.logs
	if it.kind == history.KindFrame {
		store = s.frames
		s.log.Info("frame received", zap.String("frame", it.text))
	} else {
		s.log.Info(it.text)
	}
	if store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := store.Add(ctx, history.NewEntry(it.kind, it.text)); err != nil {
		s.log.Warn("history store failed", zap.String("kind", string(it.kind)), zap.Error(err))
	}
}
