package device

import (
	"bytes"
	"sync"
	"time"

	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

// Snapshot 控制板最近一次上报的状态
type Snapshot struct {
	Status        *door.StatusReport     `json:"status,omitempty"`
	StatusAt      time.Time              `json:"status_at"`
	Temperature   *door.TemperatureReply `json:"temperature,omitempty"`
	TemperatureAt time.Time              `json:"temperature_at"`
	LastFrameAt   time.Time              `json:"last_frame_at"`
}

// State 控制板状态缓存，读循环写入，HTTP 读取
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewState() *State { return &State{} }

// Apply 更新缓存；返回门锁状态是否发生变化（首次上报也算变化）
func (s *State) Apply(c door.Command) (changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.LastFrameAt = c.RecvAt

	switch c.Kind {
	case door.KindStatus:
		st, err := c.Status()
		if err != nil {
			return false
		}
		prev := s.snap.Status
		changed = prev == nil || !bytes.Equal(prev.Locks, st.Locks) || !bytes.Equal(prev.Tongues, st.Tongues)
		s.snap.Status = &st
		s.snap.StatusAt = c.RecvAt
	case door.KindTemperature:
		t, err := c.Temperature()
		if err != nil {
			return false
		}
		s.snap.Temperature = &t
		s.snap.TemperatureAt = c.RecvAt
	}
	return changed
}

// Snapshot 返回当前缓存的副本
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.snap
	if s.snap.Status != nil {
		st := *s.snap.Status
		st.Locks = append([]byte(nil), st.Locks...)
		st.Tongues = append([]byte(nil), st.Tongues...)
		out.Status = &st
	}
	if s.snap.Temperature != nil {
		t := *s.snap.Temperature
		out.Temperature = &t
	}
	return out
}

// Online 最近 window 内是否收到过帧（控制板每秒上报一次状态）
func (s *State) Online(now time.Time, window time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.snap.LastFrameAt.IsZero() && now.Sub(s.snap.LastFrameAt) <= window
}
