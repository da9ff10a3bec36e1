package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taoyao-code/locker-gateway/internal/app/bootstrap"
	cfgpkg "github.com/taoyao-code/locker-gateway/internal/config"
	"github.com/taoyao-code/locker-gateway/internal/logging"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gateway",
	Long: `Open the serial port, start the HTTP API and forward board events.

Blocks until SIGINT or SIGTERM. Serial failures are retried; database and
Redis are optional and only used when enabled in the config.`,
	Example: `  lockerd serve
  lockerd serve --config /etc/locker/locker.yaml
  LOCKER_SERIAL_DEVICE=/dev/ttyS1 lockerd serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1) 加载配置
	cfg, err := cfgpkg.Load(configPath)
	if err != nil {
		return err
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	// 3) 启动
	return bootstrap.Run(cfg, zap.L())
}
