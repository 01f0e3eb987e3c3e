// Package cli implements the interactive partywire client.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "partywire",
		Short: "Interactive client for a partywire coordinator",
		Long: `partywire is an interactive client for a partywire session coordinator.

It connects over websocket, creates or joins a room, then mirrors room
events to stdout while accepting commands (start, move, quit) on stdin.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Coordinator websocket URL (env: PARTYWIRE_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Name, "name", cfg.Name, "Display name (env: PARTYWIRE_NAME)")
	rootCmd.PersistentFlags().BoolVar(&cfg.JSON, "json", cfg.JSON, "Print raw JSON events")

	// Add subcommands
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newJoinCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
