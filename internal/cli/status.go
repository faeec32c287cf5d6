package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ed-dc/ClawTaint/internal/config"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the resolved config and its hash",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, hash, err := config.LoadConfigWithHash(configPath)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("# config hash: %s\n", hash)
		fmt.Print(string(out))
		return nil
	},
}
