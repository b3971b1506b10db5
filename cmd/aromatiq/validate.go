package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"aromatiq-hq/neroli/pkg/audit"
	"aromatiq-hq/neroli/pkg/cli"
	"aromatiq-hq/neroli/pkg/compliance"
	"aromatiq-hq/neroli/pkg/policy"
	"aromatiq-hq/neroli/pkg/policy/manager"
)

var validateFlags struct {
	file     string
	category string
	format   string
	record   bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a formula against the regulatory tables",
	Long: `Validate a formula file against the configured regulatory tables.

The formula file is JSON with the same shape as the API request body:

  {
    "ingredients": [
      {"name": "Linalool", "concentration": 0.5, "cas": "78-70-6"},
      {"name": "Iso E Super", "concentration": 10.0}
    ],
    "product_category": "cat1"
  }

The command exits non-zero when the formula is not compliant, so it
can gate CI pipelines.

Examples:
  # Validate for leave-on products (cat1)
  aromatiq validate --file formula.json

  # Validate for rinse-off products
  aromatiq validate --file formula.json --category cat2

  # Machine-readable output
  aromatiq validate --file formula.json --format json

  # Record the outcome in the audit trail
  aromatiq validate --file formula.json --record`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.file, "file", "f", "", "formula file to validate (required)")
	validateCmd.Flags().StringVar(&validateFlags.category, "category", "", "product category: cat1 (leave-on), cat2 (rinse-off); overrides the file")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
	validateCmd.Flags().BoolVar(&validateFlags.record, "record", false, "record the outcome in the audit trail")
	_ = validateCmd.MarkFlagRequired("file")
}

// formulaFile is the on-disk formula document.
type formulaFile struct {
	Ingredients []compliance.Ingredient `json:"ingredients"`
	Category    string                  `json:"product_category"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(validateFlags.file)
	if err != nil {
		return cli.NewCommandError("validate", fmt.Errorf("failed to read formula file: %w", err))
	}

	var formula formulaFile
	if err := json.Unmarshal(data, &formula); err != nil {
		return cli.NewCommandError("validate", fmt.Errorf("failed to parse formula file: %w", err))
	}
	if len(formula.Ingredients) == 0 {
		return cli.NewCommandError("validate", fmt.Errorf("formula has no ingredients"))
	}

	// The flag wins over the category in the file; both default cat1.
	rawCategory := formula.Category
	if validateFlags.category != "" {
		rawCategory = validateFlags.category
	}
	category := policy.CategoryLeaveOn
	if rawCategory != "" {
		category = policy.Category(strings.ToLower(rawCategory))
		if !category.Valid() {
			return cli.NewCommandError("validate", fmt.Errorf("invalid category %q (expected cat1 or cat2)", rawCategory))
		}
	}

	m, err := manager.NewManager(cfg, logger)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	if err := m.Load(); err != nil {
		return cli.NewCommandError("validate", fmt.Errorf("failed to load tables: %w", err))
	}

	report := m.Bundle().Validator.Validate(formula.Ingredients, category)

	if validateFlags.record {
		if err := recordValidation(cfg.Audit.SQLitePath, report); err != nil {
			return cli.NewCommandError("validate", err)
		}
	}

	switch validateFlags.format {
	case "json":
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, report); err != nil {
			return cli.NewCommandError("validate", err)
		}
	default:
		printReport(report)
	}

	if !report.IsCompliant {
		return cli.NewCommandError("validate", fmt.Errorf("formula is not compliant"))
	}
	return nil
}

// recordValidation writes the outcome to the configured audit store.
// The --record flag opens the store regardless of the audit.enabled
// setting, which only gates the server's automatic recording.
func recordValidation(path string, report *compliance.Report) error {
	if path == "" {
		return fmt.Errorf("audit.sqlite_path is not configured")
	}

	store, err := audit.Open(path, nil)
	if err != nil {
		return fmt.Errorf("failed to open audit store: %w", err)
	}
	defer store.Close()

	rec := &audit.Record{
		Source:       audit.SourceCLI,
		Category:     string(report.ProductCategory),
		Compliant:    report.IsCompliant,
		Violations:   report.CriticalCount(),
		Declarations: len(report.AllergensToDeclare),
		Summary:      report.Summary,
	}
	if err := store.Insert(context.Background(), rec); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	fmt.Printf("✓ Recorded audit entry %s\n\n", rec.ID)
	return nil
}

func printReport(report *compliance.Report) {
	fmt.Printf("Validating formula: %s\n", validateFlags.file)
	fmt.Printf("Category: %s\n", report.ProductCategory)
	fmt.Println()

	if len(report.Violations) > 0 {
		fmt.Println("Violations:")
		for _, v := range report.Violations {
			marker := "⚠"
			if v.Severity == compliance.SeverityCritical {
				marker = "✗"
			}
			fmt.Printf("  %s [%s] %s", marker, v.Type, v.IngredientName)
			if v.Type == compliance.ViolationAllergenLoad {
				fmt.Printf(": %.3f%% total (max %.3f%%)\n", v.CurrentConcentration, v.MaxAllowed)
			} else {
				fmt.Printf(": %.3f%% (max %.3f%%)\n", v.CurrentConcentration, v.MaxAllowed)
			}
			if v.Recommendation != "" {
				fmt.Printf("      %s\n", v.Recommendation)
			}
		}
		fmt.Println()
	}

	if len(report.AllergensToDeclare) > 0 {
		fmt.Println("Allergens to declare:")
		for _, a := range report.AllergensToDeclare {
			fmt.Printf("  - %s: %.3f%% (threshold %.3f%%)\n", a.Name, a.Concentration, a.Threshold)
		}
		fmt.Printf("  Total allergen load: %.3f%%\n", report.TotalAllergenLoad)
		fmt.Println()
	}

	if report.IsCompliant {
		fmt.Printf("✓ %s\n", report.Summary)
	} else {
		fmt.Printf("✗ %s\n", report.Summary)
	}
}
