package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "clawtaint",
	Short: "Trust-erosion gate for AI agent shell commands",
	Long: "Tracks which network resources an agent has touched, erodes a per-session\n" +
		"trust score on untrusted access, and gates shell commands by the resulting\n" +
		"restriction tier.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default: ~/.clawtaint/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
