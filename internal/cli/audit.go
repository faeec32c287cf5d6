package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ed-dc/ClawTaint/internal/audit"
	"github.com/ed-dc/ClawTaint/internal/config"
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log operations",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify [path]",
	Short: "Verify the audit log hash chain",
	Long: "Walks the audit log and checks that every entry's prev_hash matches the\n" +
		"hash of the preceding line. A broken link means the log was edited or\n" +
		"truncated after the fact.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		} else {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			path = cfg.AuditLogPath
		}
		if path == "" {
			return fmt.Errorf("no audit log path configured")
		}

		res := audit.Verify(path)
		if res.Valid {
			fmt.Printf("OK: %d entries, chain intact\n", res.Lines)
			return nil
		}
		fmt.Printf("TAMPERED: %s\n", res.Error)
		os.Exit(1)
		return nil
	},
}
