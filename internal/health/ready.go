package health

import (
	"sort"
	"sync"
)

// Readiness 启动阶段就绪标记：所有登记的子系统均为 true 才就绪
type Readiness struct {
	mu    sync.RWMutex
	parts map[string]bool
}

// New 创建就绪标记，names 为需要等待的子系统
func New(names ...string) *Readiness {
	r := &Readiness{parts: make(map[string]bool, len(names))}
	for _, n := range names {
		r.parts[n] = false
	}
	return r
}

// Set 设置子系统就绪状态（未登记的名字会被登记）
func (r *Readiness) Set(name string, v bool) {
	r.mu.Lock()
	r.parts[name] = v
	r.mu.Unlock()
}

// Ready 总体就绪
func (r *Readiness) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.parts {
		if !v {
			return false
		}
	}
	return true
}

// Pending 尚未就绪的子系统
func (r *Readiness) Pending() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for n, v := range r.parts {
		if !v {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
