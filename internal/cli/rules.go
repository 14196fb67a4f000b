package cli

import (
	"errors"
	"fmt"

	"github.com/ppiankov/claimsure/internal/rules"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect scoring rules",
	Long: `Inspect the scoring rule tables: thresholds, score deltas, keyword lists
and per-claim-type consistency rules.

Rules start from built-in defaults. A rules file (--rules or rules_file in
the config) overrides only the fields it mentions.`,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective rules as YAML",
	Long:  `Print the effective rules as YAML. The output is a complete rules file and can be edited and fed back with --rules.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadRules(viper.GetString("rules_file"))
		if err != nil {
			return err
		}
		data, err := r.Marshal()
		if err != nil {
			return fmt.Errorf("error marshaling rules: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a rules file",
	Long: `Validate a rules file and report every problem found. Claim types without
a consistency rule are listed as warnings: their claims are still analyzed,
without the consistency and minimum-document checks.

Exits non-zero when the rules are invalid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("rules_file")
		if len(args) == 1 {
			path = args[0]
		}

		out := cmd.OutOrStdout()
		name := path
		if name == "" {
			name = "built-in defaults"
		}

		r, err := loadRules(path)
		if err != nil {
			if errors.Is(err, rules.ErrInvalidRules) {
				fmt.Fprintf(out, "✗ %s\n", name)
			}
			return err
		}

		fmt.Fprintf(out, "✓ %s\n", name)
		fmt.Fprintf(out, "  digest: %s\n", r.Digest())
		for _, t := range r.Gaps() {
			fmt.Fprintf(out, "  warning: no consistency rule for claim type %s\n", t)
		}
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
	rootCmd.AddCommand(rulesCmd)
}

func loadRules(path string) (*rules.Rules, error) {
	if path == "" {
		return rules.Default(), nil
	}
	return rules.LoadFile(path)
}
