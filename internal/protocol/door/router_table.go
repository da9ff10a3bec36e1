package door

import "sync"

// Handler 指令处理器
type Handler func(c Command) error

// Table 路由表（cmd -> handler）
type Table struct {
	mu       sync.RWMutex
	handlers map[uint8]Handler
}

func NewTable() *Table { return &Table{handlers: make(map[uint8]Handler)} }

func (t *Table) Register(cmd uint8, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[cmd] = h
}

// Route 未注册的指令码直接忽略
func (t *Table) Route(c Command) error {
	t.mu.RLock()
	h := t.handlers[c.Cmd]
	t.mu.RUnlock()
	if h == nil {
		return nil
	}
	return h(c)
}
