package serialport

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"github.com/taoyao-code/locker-gateway/internal/logging"
)

// Observer 链路指标钩子
type Observer interface {
	ObserveRead(n int)
	ObserveWrite(n int)
	ObserveReconnect()
	SetOnline(online bool)
}

type nopObserver struct{}

func (nopObserver) ObserveRead(int)   {}
func (nopObserver) ObserveWrite(int)  {}
func (nopObserver) ObserveReconnect() {}
func (nopObserver) SetOnline(bool)    {}

// Options 串口链路参数
type Options struct {
	Device            string
	Mode              *serial.Mode
	ReconnectInterval time.Duration
	WriteQueue        int
	WriteTimeout      time.Duration
	Limiter           *RateLimiter
}

// Conn 单个串口链路：读循环 + 写循环 + 断线重连
// onRead 在读循环 goroutine 中按到达顺序串行调用
type Conn struct {
	opts   Options
	opener Opener
	log    *zap.Logger
	obs    Observer

	onRead  func([]byte)
	onReset func()

	writeC chan []byte
	online atomic.Bool

	mu     sync.Mutex
	opened time.Time
}

// NewConn 创建串口链路，需调用 Run 启动
func NewConn(opts Options, opener Opener, logger *zap.Logger, obs Observer) *Conn {
	if opts.WriteQueue <= 0 {
		opts.WriteQueue = 64
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.ReconnectInterval <= 0 {
		opts.ReconnectInterval = 3 * time.Second
	}
	if opts.Limiter == nil {
		opts.Limiter = NewRateLimiter(0, 1)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &Conn{
		opts:   opts,
		opener: opener,
		log:    logger,
		obs:    obs,
		writeC: make(chan []byte, opts.WriteQueue),
	}
}

// SetOnRead 安装读取回调（收到上行原始字节时触发），须在 Run 之前调用
func (c *Conn) SetOnRead(h func([]byte)) { c.onRead = h }

// SetOnReset 链路断开时回调（用于清空解码缓冲），须在 Run 之前调用
func (c *Conn) SetOnReset(h func()) { c.onReset = h }

// Online 串口是否已打开
func (c *Conn) Online() bool { return c.online.Load() }

// Device 设备路径
func (c *Conn) Device() string { return c.opts.Device }

// OpenedAt 最近一次打开时间
func (c *Conn) OpenedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}

// Write 异步写入，受写队列与写超时影响
func (c *Conn) Write(ctx context.Context, b []byte) error {
	if !c.online.Load() {
		return ErrNotConnected
	}
	// 复制一份，避免调用方复用底层切片
	dup := make([]byte, len(b))
	copy(dup, b)
	timer := time.NewTimer(c.opts.WriteTimeout)
	defer timer.Stop()
	select {
	case c.writeC <- dup:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrQueueFull
	}
}

// Run 打开串口并保持连接，阻塞直至 ctx 结束
func (c *Conn) Run(ctx context.Context) error {
	first := true
	for {
		if !first {
			c.obs.ObserveReconnect()
		}
		first = false

		port, err := c.opener.Open(c.opts.Device, c.opts.Mode)
		if err != nil {
			c.log.Warn("serial open failed", zap.String("device", c.opts.Device), zap.Error(err))
		} else {
			c.log.Info("serial port opened", zap.String("device", c.opts.Device))
			err = c.serve(ctx, port)
			c.log.Warn("serial link closed", zap.String("device", c.opts.Device), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.opts.ReconnectInterval):
		}
	}
}

// serve 启动读/写循环，阻塞直到链路出错或 ctx 结束
func (c *Conn) serve(ctx context.Context, port Port) error {
	c.mu.Lock()
	c.opened = time.Now()
	c.mu.Unlock()
	c.drainQueue()
	c.online.Store(true)
	c.obs.SetOnline(true)

	sessCtx, cancel := context.WithCancel(ctx)
	var closeOnce sync.Once
	closePort := func() { closeOnce.Do(func() { _ = port.Close() }) }

	// ctx 结束或写失败时关闭端口，使阻塞的 Read 返回
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-sessCtx.Done()
		closePort()
	}()
	go func() {
		defer wg.Done()
		c.writeLoop(sessCtx, port, cancel)
	}()

	err := c.readLoop(sessCtx, port)

	c.online.Store(false)
	c.obs.SetOnline(false)
	cancel()
	wg.Wait()
	closePort()

	if c.onReset != nil {
		c.onReset()
	}
	return err
}

func (c *Conn) readLoop(ctx context.Context, port Port) error {
	buf := make([]byte, 4096)
	for {
		n, err := port.Read(buf)
		if n > 0 {
			c.obs.ObserveRead(n)
			if ce := c.log.Check(zap.DebugLevel, "serial rx"); ce != nil {
				ce.Write(logging.Hex("raw", buf[:n]))
			}
			if c.onRead != nil {
				c.onRead(buf[:n])
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		// 读超时返回 0, nil，检查是否需要退出
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Conn) writeLoop(ctx context.Context, port Port, fail context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.writeC:
			if err := c.opts.Limiter.Wait(ctx); err != nil {
				return
			}
			if _, err := port.Write(msg); err != nil {
				c.log.Warn("serial write failed", zap.Error(err))
				fail()
				return
			}
			c.obs.ObserveWrite(len(msg))
			if ce := c.log.Check(zap.DebugLevel, "serial tx"); ce != nil {
				ce.Write(logging.Hex("raw", msg))
			}
		}
	}
}

// drainQueue 丢弃断线期间残留的下行数据
func (c *Conn) drainQueue() {
	for {
		select {
		case <-c.writeC:
		default:
			return
		}
	}
}
