package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var rulesPath string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective rule tables as YAML",
	Long: `Prints the suffix, stopword, acronym, and state-code tables in effect,
as YAML suitable for editing and reloading via --rules:

  namecleaner rules > rules.yaml
  namecleaner clean --input companies.csv --rules rules.yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		clean := cfg.Clean
		if rulesPath != "" {
			clean.RulesPath = rulesPath
		}

		rs, err := clean.Ruleset()
		if err != nil {
			return err
		}
		// Compile to surface bad patterns before anyone saves the output.
		if _, err := rs.Compile(); err != nil {
			return err
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(rs); err != nil {
			return eris.Wrap(err, "rules: encode yaml")
		}
		return enc.Close()
	},
}

func init() {
	rulesCmd.Flags().StringVar(&rulesPath, "rules", "", "print tables from a YAML rule-table file instead of the defaults")
	rootCmd.AddCommand(rulesCmd)
}
