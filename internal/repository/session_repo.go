package repository

import (
	"context"
	"sync"
	"time"

	"KifuBrowser/internal/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type sessionEntry struct {
	selected    int
	hasSelected bool
	lastSeen    time.Time
}

// SessionStore 每个浏览器会话的下拉框选择状态（仅内存，不持久化）
type SessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*sessionEntry
	clock       interfaces.Clock
	idleTimeout time.Duration
}

func NewSessionStore(clock interfaces.Clock, idleTimeout time.Duration) *SessionStore {
	if clock == nil {
		clock = interfaces.SystemClock{}
	}
	return &SessionStore{
		sessions:    make(map[string]*sessionEntry),
		clock:       clock,
		idleTimeout: idleTimeout,
	}
}

// NewID 生成新的会话 ID
func (s *SessionStore) NewID() string {
	return uuid.NewString()
}

// IsValidID cookie 中的 ID 必须是 uuid
func (s *SessionStore) IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Selected 返回会话当前选中的行序号；新会话返回 false
func (s *SessionStore) Selected(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return 0, false
	}
	e.lastSeen = s.clock.Now()
	return e.selected, e.hasSelected
}

// SetSelected 记录会话的选择
func (s *SessionStore) SetSelected(id string, ordinal int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		e = &sessionEntry{}
		s.sessions[id] = e
	}
	e.selected = ordinal
	e.hasSelected = true
	e.lastSeen = s.clock.Now()
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep 删除空闲超过 idleTimeout 的会话，返回删除数量
func (s *SessionStore) Sweep() int {
	if s.idleTimeout <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline := s.clock.Now().Add(-s.idleTimeout)
	removed := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(deadline) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper 定期回收空闲会话，ctx 取消后返回
func (s *SessionStore) RunSweeper(ctx context.Context, interval time.Duration, logger *logrus.Logger) {
	if interval <= 0 || s.idleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.WithField("removed", n).Debug("回收空闲会话")
			}
		}
	}
}
