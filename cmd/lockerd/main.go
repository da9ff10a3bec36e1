// Lockerd 门控板串口网关。
//
// 通过串口与门控板通信（3B B3 帧），对外提供 HTTP 控制接口，
// 并将上行事件投递到 webhook / Redis Stream / PostgreSQL。
//
// Usage:
//
//	lockerd [command] [flags]
//
// 常用命令：serve 启动网关；decode 离线解析抓包；send 直连串口调试。
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taoyao-code/locker-gateway/internal/app/bootstrap"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var configPath string

var rootCmd = &cobra.Command{
	Use:   "lockerd",
	Short: "Serial gateway for door/locker controller boards",
	Long: `Gateway between a door/locker controller board on a serial port
and HTTP clients.

Decodes the board's 3B B3 framed protocol, correlates requests with
replies, and forwards board events to configured sinks.`,
	Version:       bootstrap.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default $LOCKER_CONFIG or configs/locker.yaml)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lockerd %s\n", bootstrap.Version)
	},
}
