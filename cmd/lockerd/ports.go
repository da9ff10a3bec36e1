package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taoyao-code/locker-gateway/internal/serialport"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports on this host",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serialport.ListPorts()
		if err != nil {
			return fmt.Errorf("list ports: %w", err)
		}
		if len(ports) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No serial ports found.")
			return nil
		}
		for _, p := range ports {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}
