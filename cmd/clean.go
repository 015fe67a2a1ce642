package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/namecleaner/internal/normalize"
	"github.com/sells-group/namecleaner/internal/pipeline"
	"github.com/sells-group/namecleaner/internal/tabular"
)

const (
	cleanedColumnName   = "Cleaned Company Name"
	canonicalColumnName = "Canonical Company Name"
)

var (
	cleanInput       string
	cleanOutput      string
	cleanColumn      string
	cleanSheet       string
	cleanRules       string
	cleanGroup       bool
	cleanThreshold   int
	cleanConcurrency int
	cleanLimit       int
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean company names in a CSV or XLSX file",
	Long: `Reads a CSV or XLSX file, normalizes the company-name column, and writes
a CSV with a "Cleaned Company Name" column appended. With --group, near-
duplicate names are also assigned a shared "Canonical Company Name".

The source column is --column when given, otherwise the first column whose
header contains "company", otherwise the first column.

Examples:
  # Clean only
  namecleaner clean --input companies.csv

  # Clean and group near-duplicates at the default threshold
  namecleaner clean --input companies.csv --group

  # Custom rule tables and a stricter threshold
  namecleaner clean --input book.xlsx --sheet Accounts --rules rules.yaml --group --threshold 95`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		normalizer, err := buildNormalizer(cleanRules)
		if err != nil {
			return err
		}

		table, err := readInput(cleanInput, cleanSheet)
		if err != nil {
			return eris.Wrap(err, "clean: read input")
		}
		if cleanLimit > 0 && cleanLimit < len(table.Rows) {
			table.Rows = table.Rows[:cleanLimit]
		}

		idx, err := sourceColumn(table)
		if err != nil {
			return err
		}
		zap.L().Info("parsed input",
			zap.String("path", cleanInput),
			zap.Int("rows", len(table.Rows)),
			zap.String("column", table.Header[idx]),
		)

		threshold := cleanThreshold
		if threshold < 0 {
			threshold = cfg.Clean.Threshold
		}
		concurrency := cleanConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Clean.Concurrency
		}

		result, err := pipeline.Run(cmd.Context(), table.Column(idx), normalizer, pipeline.Options{
			Group:       cleanGroup || cfg.Clean.Group,
			Threshold:   threshold,
			Concurrency: concurrency,
		})
		if err != nil {
			return eris.Wrap(err, "clean: run pipeline")
		}

		cleaned := make([]string, len(result.Rows))
		canonical := make([]string, len(result.Rows))
		for i, row := range result.Rows {
			cleaned[i] = row.Cleaned
			canonical[i] = row.Canonical
		}

		if err := table.AppendColumn(cleanedColumnName, cleaned); err != nil {
			return err
		}
		if cleanGroup || cfg.Clean.Group {
			if err := table.AppendColumn(canonicalColumnName, canonical); err != nil {
				return err
			}
		}

		outPath := cleanOutput
		if outPath == "" {
			outPath = defaultOutputPath(cleanInput)
		}
		if err := tabular.WriteCSV(outPath, table); err != nil {
			return eris.Wrap(err, "clean: write output")
		}

		zap.L().Info("cleaned file written",
			zap.String("run_id", result.RunID),
			zap.String("path", outPath),
			zap.Int("rows", len(table.Rows)),
		)
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanInput, "input", "", "path to input CSV or XLSX file (required)")
	cleanCmd.Flags().StringVar(&cleanOutput, "output", "", "output CSV path (default: cleaned_<input>.csv)")
	cleanCmd.Flags().StringVar(&cleanColumn, "column", "", "company-name column header (default: auto-detect)")
	cleanCmd.Flags().StringVar(&cleanSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	cleanCmd.Flags().StringVar(&cleanRules, "rules", "", "path to a YAML rule-table file")
	cleanCmd.Flags().BoolVar(&cleanGroup, "group", false, "assign canonical names to near-duplicates")
	cleanCmd.Flags().IntVar(&cleanThreshold, "threshold", -1, "similarity threshold 0-100 (default from config)")
	cleanCmd.Flags().IntVar(&cleanConcurrency, "concurrency", 0, "normalization workers (default from config)")
	cleanCmd.Flags().IntVar(&cleanLimit, "limit", 0, "max rows to process (0 = all)")
	_ = cleanCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(cleanCmd)
}

// buildNormalizer assembles a Normalizer from config, with rulesPath (when
// set) overriding the configured rule-table file.
func buildNormalizer(rulesPath string) (*normalize.Normalizer, error) {
	clean := cfg.Clean
	if rulesPath != "" {
		clean.RulesPath = rulesPath
	}

	rs, err := clean.Ruleset()
	if err != nil {
		return nil, err
	}
	set, err := rs.Compile()
	if err != nil {
		return nil, err
	}
	pol, err := clean.Policies()
	if err != nil {
		return nil, err
	}
	return normalize.New(set, pol), nil
}

// readInput loads the table, dispatching on file extension.
func readInput(path, sheet string) (*tabular.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return tabular.ReadXLSX(path, tabular.XLSXOptions{SheetName: sheet})
	default:
		return tabular.ReadCSV(path)
	}
}

// sourceColumn resolves the company-name column for a table.
func sourceColumn(table *tabular.Table) (int, error) {
	column := cleanColumn
	if column == "" {
		column = cfg.Clean.Column
	}
	if column != "" {
		return table.ColumnIndex(column)
	}
	return table.DefaultColumn(cfg.Clean.ColumnKeyword), nil
}

// defaultOutputPath mirrors the input name: companies.csv -> cleaned_companies.csv.
func defaultOutputPath(input string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	return filepath.Join(filepath.Dir(input), "cleaned_"+strings.TrimSuffix(base, ext)+".csv")
}
