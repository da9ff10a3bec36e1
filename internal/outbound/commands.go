package outbound

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

var ErrInvalidArgument = errors.New("invalid argument")

// 温度参数范围（摄氏度）
const (
	MinTemperature = -50
	MaxTemperature = 50
	maxLockNo      = 256
	maxPrice       = 0xFFFF
	maxPriceCount  = 0xFF
)

// OpenDoor 开锁并等待应答
func (r *Requester) OpenDoor(ctx context.Context, lockNo int, openFor time.Duration) (door.OpenDoorReply, error) {
	if lockNo < 1 || lockNo > maxLockNo {
		return door.OpenDoorReply{}, fmt.Errorf("%w: lock %d", ErrInvalidArgument, lockNo)
	}
	c, err := r.Do(ctx, door.OpenDoorRequest(lockNo, openFor))
	if err != nil {
		return door.OpenDoorReply{}, err
	}
	return c.OpenDoor()
}

// ReadTemperature 读取温度参数
func (r *Requester) ReadTemperature(ctx context.Context) (door.TemperatureReply, error) {
	c, err := r.Do(ctx, door.ReadTemperatureRequest())
	if err != nil {
		return door.TemperatureReply{}, err
	}
	return c.Temperature()
}

// SetTemperature 设置温度参数，返回控制板回显的参数
func (r *Requester) SetTemperature(ctx context.Context, mode door.TempMode, upper, lower int) (door.TemperatureReply, error) {
	if mode > door.TempModeHeat {
		return door.TemperatureReply{}, fmt.Errorf("%w: mode %d", ErrInvalidArgument, mode)
	}
	if upper < MinTemperature || upper > MaxTemperature || lower < MinTemperature || lower > MaxTemperature {
		return door.TemperatureReply{}, fmt.Errorf("%w: temperature out of range", ErrInvalidArgument)
	}
	if lower > upper {
		return door.TemperatureReply{}, fmt.Errorf("%w: lower %d above upper %d", ErrInvalidArgument, lower, upper)
	}
	c, err := r.Do(ctx, door.SetTemperatureRequest(mode, upper, lower))
	if err != nil {
		return door.TemperatureReply{}, err
	}
	return c.Temperature()
}

// SetLight 控制灯
func (r *Requester) SetLight(ctx context.Context, on bool) (door.AckReply, error) {
	c, err := r.Do(ctx, door.LightRequest(on))
	if err != nil {
		return door.AckReply{}, err
	}
	return c.Ack()
}

// SetSignal 控制信号输出
func (r *Requester) SetSignal(ctx context.Context, channel int, on bool) (door.AckReply, error) {
	if channel < 0 || channel > 0xFF {
		return door.AckReply{}, fmt.Errorf("%w: channel %d", ErrInvalidArgument, channel)
	}
	c, err := r.Do(ctx, door.SignalRequest(channel, on))
	if err != nil {
		return door.AckReply{}, err
	}
	return c.Ack()
}

// SetPrices 下发数码管价格（分），不等待应答
func (r *Requester) SetPrices(ctx context.Context, prices []int) error {
	if len(prices) == 0 || len(prices) > maxPriceCount {
		return fmt.Errorf("%w: %d prices", ErrInvalidArgument, len(prices))
	}
	for i, p := range prices {
		if p < 0 || p > maxPrice {
			return fmt.Errorf("%w: price[%d]=%d", ErrInvalidArgument, i, p)
		}
	}
	return r.SendOnly(ctx, door.PriceRequest(r.layout, prices))
}
