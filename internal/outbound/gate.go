package outbound

import (
	"context"
	"sync"
)

// gate 串口独占许可：同一时刻只有一个请求在途，等待者按优先级放行，同级先到先得
type gate struct {
	mu      sync.Mutex
	busy    bool
	waiters [priorityLevels + 1][]chan struct{}
}

func (g *gate) acquire(ctx context.Context, prio int) error {
	if prio < 0 || prio > priorityLevels {
		prio = PriorityNormal
	}
	g.mu.Lock()
	if !g.busy {
		g.busy = true
		g.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	g.waiters[prio] = append(g.waiters[prio], ch)
	g.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		if g.remove(prio, ch) {
			g.mu.Unlock()
			return ctx.Err()
		}
		g.mu.Unlock()
		// 已被放行，归还许可
		g.release()
		return ctx.Err()
	}
}

// release 将许可直接移交给最高优先级的等待者
func (g *gate) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for p := range g.waiters {
		if len(g.waiters[p]) == 0 {
			continue
		}
		ch := g.waiters[p][0]
		g.waiters[p] = g.waiters[p][1:]
		close(ch)
		return
	}
	g.busy = false
}

func (g *gate) remove(prio int, ch chan struct{}) bool {
	q := g.waiters[prio]
	for i, c := range q {
		if c == ch {
			g.waiters[prio] = append(q[:i], q[i+1:]...)
			return true
		}
	}
	return false
}
