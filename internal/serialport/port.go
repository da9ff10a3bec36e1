package serialport

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"

	"github.com/taoyao-code/locker-gateway/internal/config"
)

var (
	ErrNotConnected = errors.New("serial port not connected")
	ErrQueueFull    = errors.New("write queue timeout")
	ErrBadMode      = errors.New("bad serial mode")
)

// Port 已打开的串口
type Port io.ReadWriteCloser

// Opener 打开串口（测试中可替换为内存实现）
type Opener interface {
	Open(device string, mode *serial.Mode) (Port, error)
}

// SystemOpener 基于 go.bug.st/serial 的实现
type SystemOpener struct {
	// ReadTimeout 读超时，超时后 Read 返回 0, nil，读循环据此检查退出
	ReadTimeout time.Duration
}

func (o SystemOpener) Open(device string, mode *serial.Mode) (Port, error) {
	if device == "" {
		return nil, fmt.Errorf("%w: empty device path", ErrBadMode)
	}
	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}
	if o.ReadTimeout > 0 {
		if err := p.SetReadTimeout(o.ReadTimeout); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("set read timeout: %w", err)
		}
	}
	return p, nil
}

// ModeFromConfig 串口参数转换
func ModeFromConfig(cfg config.SerialConfig) (*serial.Mode, error) {
	m := &serial.Mode{BaudRate: cfg.BaudRate, DataBits: cfg.DataBits}
	if m.BaudRate <= 0 {
		return nil, fmt.Errorf("%w: baudRate %d", ErrBadMode, cfg.BaudRate)
	}
	if m.DataBits == 0 {
		m.DataBits = 8
	}
	switch strings.ToLower(cfg.Parity) {
	case "", "none":
		m.Parity = serial.NoParity
	case "odd":
		m.Parity = serial.OddParity
	case "even":
		m.Parity = serial.EvenParity
	default:
		return nil, fmt.Errorf("%w: parity %q", ErrBadMode, cfg.Parity)
	}
	switch cfg.StopBits {
	case 0, 1:
		m.StopBits = serial.OneStopBit
	case 2:
		m.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("%w: stopBits %d", ErrBadMode, cfg.StopBits)
	}
	return m, nil
}

// ListPorts 列出本机串口
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
