package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind 历史记录类别
type Kind string

const (
	KindLog   Kind = "log"   // 日志文本
	KindFrame Kind = "frame" // 已组装的帧（可读文本）
)

// displayTimeLayout 界面时间格式 HH:mm:ss.SSS
const displayTimeLayout = "15:04:05.000"

// Entry 一条历史记录
type Entry struct {
	ID   string    `json:"id"`
	Time time.Time `json:"time"`
	Kind Kind      `json:"kind"`
	Text string    `json:"text"`
}

// NewEntry 生成带 uuid 与当前时间的记录
func NewEntry(kind Kind, text string) Entry {
	return Entry{ID: uuid.NewString(), Time: time.Now(), Kind: kind, Text: text}
}

// Display 以 "HH:mm:ss.SSS text" 形式展示
func (e Entry) Display() string {
	return e.Time.Format(displayTimeLayout) + " " + e.Text
}

// Store 最近优先的有界列表：超出容量时淘汰最旧记录
type Store interface {
	Add(ctx context.Context, e Entry) error
	// List 返回最多 limit 条记录，最新在前；limit<=0 返回全部
	List(ctx context.Context, limit int) ([]Entry, error)
}

// MemoryStore 进程内实现
type MemoryStore struct {
	mu      sync.RWMutex
	max     int
	entries []Entry // 最新在前
}

// NewMemoryStore 创建容量为 max 的内存存储
func NewMemoryStore(max int) *MemoryStore {
	if max <= 0 {
		max = 100
	}
	return &MemoryStore{max: max, entries: make([]Entry, 0, max)}
}

func (s *MemoryStore) Add(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) >= s.max {
		s.entries = s.entries[:s.max-1]
	}
	s.entries = append(s.entries, Entry{})
	copy(s.entries[1:], s.entries)
	s.entries[0] = e
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	copy(out, s.entries[:n])
	return out, nil
}

// Len 当前记录数
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
