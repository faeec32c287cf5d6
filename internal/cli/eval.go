package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ed-dc/ClawTaint/internal/gate"
	"github.com/ed-dc/ClawTaint/internal/taint"
)

var (
	evalTier   string
	evalFormat string
)

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&evalTier, "tier", "permissive", "Tier to evaluate at (permissive|cautious|restricted|lockdown)")
	evalCmd.Flags().StringVarP(&evalFormat, "format", "f", "text", "Output format (text|json)")
}

var evalCmd = &cobra.Command{
	Use:   "eval <command>",
	Short: "Evaluate a single command at an explicit tier",
	Long: "Runs one command through the restriction rules at the given tier without\n" +
		"touching any session state. Useful for probing rule configs before rollout.",
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	tier, err := taint.ParseTier(evalTier)
	if err != nil {
		return err
	}

	g, err := gate.New(configPath)
	if err != nil {
		return err
	}
	defer g.Close()

	res := g.CheckCommand(args[0], tier)

	if evalFormat == "json" {
		out := map[string]any{
			"command": args[0],
			"tier":    tier.String(),
			"allowed": res.Allowed,
			"reason":  res.Reason,
		}
		if res.MatchedRule != "" {
			out["matched_rule"] = res.MatchedRule
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	verdict := "ALLOW"
	if !res.Allowed {
		verdict = "BLOCK"
	}
	fmt.Printf("%s  [%s] %s\n", verdict, tier, args[0])
	fmt.Printf("  reason: %s\n", res.Reason)
	if res.MatchedRule != "" {
		fmt.Printf("  rule:   %s\n", res.MatchedRule)
	}

	if !res.Allowed {
		os.Exit(1)
	}
	return nil
}
