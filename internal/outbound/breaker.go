package outbound

import (
	"errors"
	"sync"
	"time"
)

// ErrBoardUnresponsive 连续多次无应答后熔断，冷却期内直接拒绝
var ErrBoardUnresponsive = errors.New("board unresponsive")

// BreakerState 熔断器状态
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // 正常
	BreakerOpen                         // 熔断，拒绝请求
	BreakerHalfOpen                     // 冷却结束，放行一个试探请求
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker 控制板应答熔断器：只有应答超时计为失败
type Breaker struct {
	mu        sync.Mutex
	state     BreakerState
	failures  int
	openedAt  time.Time
	probing   bool
	tripCount int64

	threshold int
	cooldown  time.Duration
	now       func() time.Time

	onStateChange func(from, to BreakerState)
}

// NewBreaker 创建熔断器；threshold <= 0 时返回 nil（不熔断）
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		return nil
	}
	if cooldown <= 0 {
		cooldown = 10 * time.Second
	}
	return &Breaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

// SetStateChangeCallback 状态变化回调，在持锁外同步调用
func (b *Breaker) SetStateChangeCallback(fn func(from, to BreakerState)) {
	b.mu.Lock()
	b.onStateChange = fn
	b.mu.Unlock()
}

// Allow 请求前检查；半开状态同一时刻只放行一个试探
func (b *Breaker) Allow() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	from, changed := b.state, false
	var err error
	switch b.state {
	case BreakerOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			err = ErrBoardUnresponsive
			break
		}
		b.state, changed = BreakerHalfOpen, true
		b.probing = true
	case BreakerHalfOpen:
		if b.probing {
			err = ErrBoardUnresponsive
		} else {
			b.probing = true
		}
	}
	cb := b.onStateChange
	to := b.state
	b.mu.Unlock()

	if changed && cb != nil {
		cb(from, to)
	}
	return err
}

// Record 记录请求结果：ok 为收到应答，timeout 为应答超时，其余结果不计
func (b *Breaker) Record(result string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	from := b.state
	if b.state == BreakerHalfOpen {
		b.probing = false
	}
	switch result {
	case ResultOK:
		b.failures = 0
		b.state = BreakerClosed
	case ResultTimeout:
		b.failures++
		if b.state == BreakerHalfOpen || (b.state == BreakerClosed && b.failures >= b.threshold) {
			b.state = BreakerOpen
			b.openedAt = b.now()
			b.tripCount++
		}
	}
	to := b.state
	cb := b.onStateChange
	b.mu.Unlock()

	if from != to && cb != nil {
		cb(from, to)
	}
}

// State 当前状态
func (b *Breaker) State() BreakerState {
	if b == nil {
		return BreakerClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Trips 累计熔断次数
func (b *Breaker) Trips() int64 {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tripCount
}

// Reset 手动恢复
func (b *Breaker) Reset() {
	if b == nil {
		return
	}
	b.mu.Lock()
	from := b.state
	b.state, b.failures, b.probing = BreakerClosed, 0, false
	cb := b.onStateChange
	b.mu.Unlock()
	if from != BreakerClosed && cb != nil {
		cb(from, BreakerClosed)
	}
}
