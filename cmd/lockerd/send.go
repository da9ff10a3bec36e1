package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/taoyao-code/locker-gateway/internal/app"
	cfgpkg "github.com/taoyao-code/locker-gateway/internal/config"
	"github.com/taoyao-code/locker-gateway/internal/logging"
	"github.com/taoyao-code/locker-gateway/internal/outbound"
	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

var (
	sendDevice  string
	sendWait    time.Duration
	sendLock    int
	sendOpenFor time.Duration
	sendChannel int
)

var errPortNotReady = errors.New("serial port not ready")

func init() {
	sendCmd.PersistentFlags().StringVar(&sendDevice, "device", "", "Serial device (overrides config)")
	sendCmd.PersistentFlags().DurationVar(&sendWait, "wait", 3*time.Second, "How long to wait for the port to open")

	sendOpenCmd.Flags().IntVar(&sendLock, "lock", 1, "Lock number (1-based)")
	sendOpenCmd.Flags().DurationVar(&sendOpenFor, "for", 0, "Open duration (0 uses worker.openDuration)")
	sendSignalCmd.Flags().IntVar(&sendChannel, "channel", 1, "Signal output channel")

	sendCmd.AddCommand(sendOpenCmd, sendTempCmd, sendLightCmd, sendSignalCmd)
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a single command straight to the board",
	Long: `Open the serial port directly, send one command and print the reply.

For bench testing only: do not run while 'lockerd serve' holds the port.`,
}

var sendOpenCmd = &cobra.Command{
	Use:     "open",
	Short:   "Open a lock",
	Example: `  lockerd send open --lock 3 --for 2s --device /dev/ttyUSB0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRequester(cmd, func(ctx context.Context, cfg *cfgpkg.Config, r *outbound.Requester) (any, error) {
			openFor := sendOpenFor
			if openFor <= 0 {
				openFor = cfg.Worker.OpenDuration
			}
			rep, err := r.OpenDoor(ctx, sendLock, openFor)
			if err != nil {
				return nil, err
			}
			return map[string]any{"lock_no": rep.LockNo(), "success": rep.Success(), "result": rep.Result}, nil
		})
	},
}

var sendTempCmd = &cobra.Command{
	Use:   "temp",
	Short: "Read temperature parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRequester(cmd, func(ctx context.Context, _ *cfgpkg.Config, r *outbound.Requester) (any, error) {
			return r.ReadTemperature(ctx)
		})
	},
}

var sendLightCmd = &cobra.Command{
	Use:       "light on|off",
	Short:     "Switch the light",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseSwitch(args[0])
		if err != nil {
			return err
		}
		return withRequester(cmd, func(ctx context.Context, _ *cfgpkg.Config, r *outbound.Requester) (any, error) {
			return r.SetLight(ctx, on)
		})
	},
}

var sendSignalCmd = &cobra.Command{
	Use:   "signal on|off",
	Short: "Switch a signal output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseSwitch(args[0])
		if err != nil {
			return err
		}
		return withRequester(cmd, func(ctx context.Context, _ *cfgpkg.Config, r *outbound.Requester) (any, error) {
			return r.SetSignal(ctx, sendChannel, on)
		})
	},
}

func parseSwitch(s string) (bool, error) {
	switch s {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

// withRequester 打开串口，等待就绪后执行一次请求并输出 JSON 结果
func withRequester(cmd *cobra.Command, fn func(ctx context.Context, cfg *cfgpkg.Config, r *outbound.Requester) (any, error)) error {
	cfg, err := cfgpkg.Load(configPath)
	if err != nil {
		return err
	}
	if sendDevice != "" {
		cfg.Serial.Device = sendDevice
	}
	log, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	layout, err := cfg.Protocol.Layout()
	if err != nil {
		return err
	}
	conn, err := app.NewSerialConn(cfg, nil, log)
	if err != nil {
		return err
	}
	requester := outbound.NewRequester(conn, layout, outbound.Options{
		ResponseTimeout: cfg.Worker.ResponseTimeout,
		IdleGap:         cfg.Worker.IdleGap,
	}, log.Named("requester"), nil, nil)

	adapter := door.NewAdapter(layout, nil)
	adapter.Listen(func(c door.Command) error {
		requester.Deliver(c)
		return nil
	})
	app.AttachAdapter(conn, adapter, log)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go func() { _ = conn.Run(ctx) }()

	if err := waitOnline(ctx, conn.Online, sendWait); err != nil {
		return fmt.Errorf("%w: %s", err, cfg.Serial.Device)
	}
	out, err := fn(ctx, cfg, requester)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func waitOnline(ctx context.Context, online func() bool, wait time.Duration) error {
	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for !online() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return errPortNotReady
		case <-tick.C:
		}
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
