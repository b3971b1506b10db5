package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"aromatiq-hq/neroli/pkg/catalog"
	"aromatiq-hq/neroli/pkg/cli"
)

var catalogFlags struct {
	noteType string
	family   string
	format   string
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the ingredient catalog",
	Long: `Browse the ingredient catalog database.

The catalog maps ingredient names to canonical records with CAS
number, olfactory family, note type, and hydrophobicity (logP). An
empty database is seeded with the canonical material set on first use.

Subcommands:
  lookup  - Resolve one ingredient name
  list    - List ingredients, optionally filtered

Examples:
  # Resolve a name (substring matching applies)
  aromatiq catalog lookup "Bergamot Oil"

  # All base notes
  aromatiq catalog list --note-type base

  # All woody materials as JSON
  aromatiq catalog list --family woody --format json`,
}

var catalogLookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Resolve one ingredient name",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogLookup,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingredients",
	RunE:  runCatalogList,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogLookupCmd, catalogListCmd)

	catalogLookupCmd.Flags().StringVar(&catalogFlags.format, "format", "text", "output format: text, json")

	catalogListCmd.Flags().StringVar(&catalogFlags.noteType, "note-type", "", "filter by note type: top, heart, base")
	catalogListCmd.Flags().StringVar(&catalogFlags.family, "family", "", "filter by olfactory family")
	catalogListCmd.Flags().StringVar(&catalogFlags.format, "format", "text", "output format: text, json")
}

// openCatalog opens the configured catalog database.
func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if _, err := newLogger(cfg); err != nil {
		return nil, err
	}

	store, err := catalog.Open(cfg.Catalog.Path, nil)
	if err != nil {
		return nil, cli.NewCommandError("catalog", fmt.Errorf("failed to open catalog: %w", err))
	}
	return store, nil
}

func runCatalogLookup(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ing, err := store.Lookup(context.Background(), args[0])
	if err != nil {
		return cli.NewCommandError("catalog", err)
	}
	if ing == nil {
		return cli.NewCommandError("catalog", fmt.Errorf("ingredient %q not found", args[0]))
	}

	if catalogFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, ing)
	}

	fmt.Printf("Name: %s\n", ing.Name)
	if ing.CAS != "" {
		fmt.Printf("CAS: %s\n", ing.CAS)
	}
	fmt.Printf("Family: %s\n", ing.Family)
	fmt.Printf("Note type: %s\n", ing.NoteType)
	fmt.Printf("LogP: %.2f\n", ing.LogP)
	if len(ing.Descriptors) > 0 {
		fmt.Printf("Descriptors: %s\n", strings.Join(ing.Descriptors, ", "))
	}
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ingredients, err := store.List(context.Background(), catalog.Filter{
		NoteType: catalogFlags.noteType,
		Family:   catalogFlags.family,
	})
	if err != nil {
		return cli.NewCommandError("catalog", err)
	}

	if catalogFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, map[string]interface{}{
			"count":       len(ingredients),
			"ingredients": ingredients,
		})
	}

	fmt.Printf("Found %d ingredient(s)\n", len(ingredients))
	fmt.Println()
	for _, ing := range ingredients {
		fmt.Printf("  %-24s %-10s %-6s logP %5.2f\n", ing.Name, ing.Family, ing.NoteType, ing.LogP)
	}
	return nil
}
