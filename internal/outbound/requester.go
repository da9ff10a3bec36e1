package outbound

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taoyao-code/locker-gateway/internal/logging"
	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

var ErrTimeout = errors.New("response timeout")

// 请求结果
const (
	ResultOK      = "ok"
	ResultSent    = "sent"
	ResultTimeout = "timeout"
	ResultError   = "error"
)

// Writer 下行链路（串口）
type Writer interface {
	Write(ctx context.Context, b []byte) error
}

// Observer 请求指标钩子
type Observer interface {
	ObserveRequest(cmd uint8, result string, d time.Duration)
}

// Record 一次下行请求的审计记录
type Record struct {
	RequestID string
	Cmd       uint8
	Request   []byte
	Response  []byte
	Result    string
	Error     string
	SentAt    time.Time
	Duration  time.Duration
}

// AuditSink 请求审计落库
type AuditSink interface {
	RecordCommand(ctx context.Context, rec Record) error
}

// Options 请求参数
type Options struct {
	ResponseTimeout time.Duration
	IdleGap         time.Duration // 相邻两次下发的最小间隔

	// 连续 BreakerThreshold 次应答超时后熔断 BreakerCooldown，0 为不熔断
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Requester 请求/应答关联：同一时刻只有一个请求在途，
// 应答为发送之后收到的同指令码帧
type Requester struct {
	w      Writer
	layout door.Layout
	opts   Options
	log    *zap.Logger
	obs    Observer
	audit  AuditSink

	breaker *Breaker
	gate    gate
	now     func() time.Time

	mu       sync.Mutex
	pending  *pending
	lastSend time.Time
}

type pending struct {
	cmd    uint8
	sentAt time.Time
	ch     chan door.Command
}

// NewRequester 创建请求器；obs、audit 可为空
func NewRequester(w Writer, layout door.Layout, opts Options, logger *zap.Logger, obs Observer, audit AuditSink) *Requester {
	if opts.ResponseTimeout <= 0 {
		opts.ResponseTimeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Requester{
		w:       w,
		layout:  layout,
		opts:    opts,
		log:     logger,
		obs:     obs,
		audit:   audit,
		breaker: NewBreaker(opts.BreakerThreshold, opts.BreakerCooldown),
		now:     time.Now,
	}
	if r.breaker != nil {
		r.breaker.SetStateChangeCallback(func(from, to BreakerState) {
			r.log.Warn("board breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		})
	}
	return r
}

// Breaker 应答熔断器，未启用时为 nil
func (r *Requester) Breaker() *Breaker { return r.breaker }

// Do 发送请求并等待应答
func (r *Requester) Do(ctx context.Context, req door.Request) (door.Command, error) {
	if err := r.gate.acquire(ctx, GetCommandPriority(req.Cmd)); err != nil {
		return door.Command{}, err
	}
	defer r.gate.release()

	if err := r.waitIdle(ctx); err != nil {
		return door.Command{}, err
	}
	if err := r.breaker.Allow(); err != nil {
		return door.Command{}, fmt.Errorf("cmd %02X: %w", req.Cmd, err)
	}

	rec := r.newRecord(req)
	p := &pending{cmd: req.Cmd, sentAt: rec.SentAt, ch: make(chan door.Command, 1)}
	r.mu.Lock()
	r.pending = p
	r.mu.Unlock()
	defer r.clearPending(p)

	if err := r.w.Write(ctx, rec.Request); err != nil {
		err = fmt.Errorf("send %02X: %w", req.Cmd, err)
		r.breaker.Record(ResultError)
		r.finish(ctx, &rec, nil, ResultError, err)
		return door.Command{}, err
	}

	timer := time.NewTimer(r.opts.ResponseTimeout)
	defer timer.Stop()
	select {
	case c := <-p.ch:
		r.breaker.Record(ResultOK)
		r.finish(ctx, &rec, c.Raw, ResultOK, nil)
		return c, nil
	case <-timer.C:
		err := fmt.Errorf("cmd %02X: %w", req.Cmd, ErrTimeout)
		r.breaker.Record(ResultTimeout)
		r.finish(ctx, &rec, nil, ResultTimeout, err)
		return door.Command{}, err
	case <-ctx.Done():
		r.breaker.Record(ResultError)
		r.finish(ctx, &rec, nil, ResultError, ctx.Err())
		return door.Command{}, ctx.Err()
	}
}

// SendOnly 只发送不等待应答（价格下发与状态上报共用 5D，无法区分应答）
func (r *Requester) SendOnly(ctx context.Context, req door.Request) error {
	if err := r.gate.acquire(ctx, GetCommandPriority(req.Cmd)); err != nil {
		return err
	}
	defer r.gate.release()

	if err := r.waitIdle(ctx); err != nil {
		return err
	}
	rec := r.newRecord(req)
	if err := r.w.Write(ctx, rec.Request); err != nil {
		err = fmt.Errorf("send %02X: %w", req.Cmd, err)
		r.finish(ctx, &rec, nil, ResultError, err)
		return err
	}
	r.finish(ctx, &rec, nil, ResultSent, nil)
	return nil
}

// Deliver 由读循环对每条分类成功的指令调用，返回是否为在途请求的应答
func (r *Requester) Deliver(c door.Command) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.pending
	if p == nil || p.cmd != c.Cmd || c.RecvAt.Before(p.sentAt) {
		return false
	}
	r.pending = nil
	select {
	case p.ch <- c:
	default:
	}
	return true
}

func (r *Requester) newRecord(req door.Request) Record {
	return Record{
		RequestID: uuid.NewString(),
		Cmd:       req.Cmd,
		Request:   req.Frame(r.layout),
		SentAt:    r.now(),
	}
}

func (r *Requester) clearPending(p *pending) {
	r.mu.Lock()
	if r.pending == p {
		r.pending = nil
	}
	r.lastSend = r.now()
	r.mu.Unlock()
}

// waitIdle 与上一次下发保持最小间隔
func (r *Requester) waitIdle(ctx context.Context) error {
	r.mu.Lock()
	wait := r.opts.IdleGap - r.now().Sub(r.lastSend)
	r.mu.Unlock()
	if wait <= 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Requester) finish(ctx context.Context, rec *Record, resp []byte, result string, err error) {
	rec.Response = resp
	rec.Result = result
	rec.Duration = r.now().Sub(rec.SentAt)
	if err != nil {
		rec.Error = err.Error()
	}
	if result == ResultSent {
		r.mu.Lock()
		r.lastSend = r.now()
		r.mu.Unlock()
	}

	fields := []zap.Field{
		zap.String("request_id", rec.RequestID),
		zap.String("cmd", fmt.Sprintf("%02X", rec.Cmd)),
		zap.String("result", result),
		zap.Duration("duration", rec.Duration),
		logging.Hex("tx", rec.Request),
	}
	if err != nil {
		r.log.Warn("door request failed", append(fields, zap.Error(err))...)
	} else {
		r.log.Debug("door request done", append(fields, logging.Hex("rx", resp))...)
	}

	if r.obs != nil {
		r.obs.ObserveRequest(rec.Cmd, result, rec.Duration)
	}
	if r.audit != nil {
		// 审计失败不影响请求结果
		if aerr := r.audit.RecordCommand(context.WithoutCancel(ctx), *rec); aerr != nil {
			r.log.Warn("record command failed", zap.String("request_id", rec.RequestID), zap.Error(aerr))
		}
	}
}
