package app

import (
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/locker-gateway/internal/config"
	"github.com/taoyao-code/locker-gateway/internal/logging"
	"github.com/taoyao-code/locker-gateway/internal/protocol/adapter"
	"github.com/taoyao-code/locker-gateway/internal/serialport"
)

// NewSerialConn 根据配置创建串口链路（未启动）
func NewSerialConn(cfg *cfgpkg.Config, obs serialport.Observer, log *zap.Logger) (*serialport.Conn, error) {
	mode, err := serialport.ModeFromConfig(cfg.Serial)
	if err != nil {
		return nil, err
	}
	opts := serialport.Options{
		Device:            cfg.Serial.Device,
		Mode:              mode,
		ReconnectInterval: cfg.Serial.ReconnectInterval,
		WriteQueue:        cfg.Serial.WriteQueue,
		WriteTimeout:      cfg.Worker.ResponseTimeout,
		Limiter:           serialport.NewRateLimiter(cfg.Worker.SendRate, cfg.Worker.SendBurst),
	}
	opener := serialport.SystemOpener{ReadTimeout: cfg.Serial.ReadTimeout}
	return serialport.NewConn(opts, opener, log.Named("serial"), obs), nil
}

// LinkHooks 串口读取/断开回调（*serialport.Conn 满足）
type LinkHooks interface {
	SetOnRead(h func([]byte))
	SetOnReset(h func())
}

// AttachAdapter 将协议适配器挂到串口读循环；链路断开时清空解码缓冲
// 每次打开后的首批字节用 Sniff 粗判，不以帧头开始时记录失步提示
func AttachAdapter(conn LinkHooks, a adapter.Adapter, log *zap.Logger) {
	fresh := true
	conn.SetOnRead(func(b []byte) {
		if fresh {
			fresh = false
			if !a.Sniff(b) {
				log.Info("first chunk after open does not start with frame header, decoder will resync",
					logging.Hex("prefix", b[:min(len(b), 8)]))
			}
		}
		if err := a.ProcessBytes(b); err != nil {
			log.Warn("uplink handler error", zap.Error(err))
		}
	})
	conn.SetOnReset(func() {
		a.Reset()
		fresh = true
	})
}
