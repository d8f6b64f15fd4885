// Package cmd contains the CLI entry points.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "milo",
	Short: "Driver block assignment planner",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "planner.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
