package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aromatiq-hq/neroli/pkg/cli"
	"aromatiq-hq/neroli/pkg/physio"
	"aromatiq-hq/neroli/pkg/policy/manager"
	"aromatiq-hq/neroli/pkg/retrieval"
)

var rulesFlags struct {
	profile     string
	profileFile string
	n           int
	format      string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Query physiological adaptation rules",
	Long: `Query the physiological rule table for a skin profile.

A profile is a JSON object of measured parameters:

  {"ph": 4.5, "skin_type": "dry", "allergies": ["linalool"]}

Subcommands:
  search      - Rank the most relevant rules for a profile
  applicable  - List every rule whose condition holds exactly

Examples:
  # Top rules for an acidic skin profile
  aromatiq rules search --profile '{"ph": 4.5}'

  # Exact matches only
  aromatiq rules applicable --profile '{"skin_type": "dry"}'

  # Profile from a file
  aromatiq rules search --profile-file profile.json`,
}

var rulesSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Rank the most relevant rules for a profile",
	Long: `Rank the most relevant physiological rules for a skin profile.

In vector mode relevance reflects embedding similarity; when the
engine has downgraded to keyword matching, matched rules carry a
fixed relevance instead.`,
	RunE: runRulesSearch,
}

var rulesApplicableCmd = &cobra.Command{
	Use:   "applicable",
	Short: "List every rule whose condition holds",
	Long: `List every physiological rule whose condition holds for the
profile, in table order. The list is exact and uncapped regardless of
the retrieval mode.`,
	RunE: runRulesApplicable,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesSearchCmd, rulesApplicableCmd)

	for _, cmd := range []*cobra.Command{rulesSearchCmd, rulesApplicableCmd} {
		cmd.Flags().StringVar(&rulesFlags.profile, "profile", "", "profile as inline JSON")
		cmd.Flags().StringVar(&rulesFlags.profileFile, "profile-file", "", "profile from a JSON file")
		cmd.Flags().StringVar(&rulesFlags.format, "format", "text", "output format: text, json")
	}
	rulesSearchCmd.Flags().IntVar(&rulesFlags.n, "n", 0, "max rules to return (0 uses the configured default)")
}

// loadProfile parses the profile from --profile or --profile-file.
func loadProfile() (physio.Profile, error) {
	raw := []byte(rulesFlags.profile)
	if rulesFlags.profileFile != "" {
		data, err := os.ReadFile(rulesFlags.profileFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read profile file: %w", err)
		}
		raw = data
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("either --profile or --profile-file must be specified")
	}

	var profile physio.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if len(profile) == 0 {
		return nil, fmt.Errorf("profile must not be empty")
	}
	return profile, nil
}

// loadEngine builds the retrieval engine from the configured tables.
func loadEngine(cmd *cobra.Command) (*retrieval.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	m, err := manager.NewManager(cfg, logger)
	if err != nil {
		return nil, cli.NewCommandError("rules", err)
	}
	if err := m.Load(); err != nil {
		return nil, cli.NewCommandError("rules", fmt.Errorf("failed to load tables: %w", err))
	}
	return m.Bundle().Engine, nil
}

func runRulesSearch(cmd *cobra.Command, args []string) error {
	profile, err := loadProfile()
	if err != nil {
		return cli.NewCommandError("rules", err)
	}
	engine, err := loadEngine(cmd)
	if err != nil {
		return err
	}

	// Retrieval may call out to a remote embedder; Ctrl+C aborts it.
	rules, err := engine.Retrieve(cli.SetupSignalHandler(), profile, rulesFlags.n)
	if err != nil {
		return cli.NewCommandError("rules", fmt.Errorf("retrieval failed: %w", err))
	}

	if rulesFlags.format == "json" {
		return printRulesJSON(map[string]interface{}{
			"mode":  engine.Mode(),
			"count": len(rules),
			"rules": rules,
		})
	}

	fmt.Printf("Retrieval mode: %s\n", engine.Mode())
	fmt.Printf("Found %d rule(s)\n", len(rules))
	fmt.Println()

	for i, r := range rules {
		fmt.Printf("%d. [%s] %s (relevance %.2f)\n", i+1, r.Rule.ID, r.Rule.Action, r.RelevanceScore)
		fmt.Printf("   Matched: %s\n", r.MatchedCondition)
		printRuleDetail(r.Rule)
		fmt.Println()
	}
	return nil
}

func runRulesApplicable(cmd *cobra.Command, args []string) error {
	profile, err := loadProfile()
	if err != nil {
		return cli.NewCommandError("rules", err)
	}
	engine, err := loadEngine(cmd)
	if err != nil {
		return err
	}

	rules, err := engine.ApplicableRules(cli.SetupSignalHandler(), profile)
	if err != nil {
		return cli.NewCommandError("rules", fmt.Errorf("rule scan failed: %w", err))
	}

	if rulesFlags.format == "json" {
		return printRulesJSON(map[string]interface{}{
			"count": len(rules),
			"rules": rules,
		})
	}

	fmt.Printf("Found %d applicable rule(s)\n", len(rules))
	fmt.Println()

	for i, r := range rules {
		fmt.Printf("%d. [%s] %s\n", i+1, r.ID, r.Action)
		fmt.Printf("   Condition: %s\n", r.Condition)
		printRuleDetail(r)
		fmt.Println()
	}
	return nil
}

func printRuleDetail(r physio.Rule) {
	fmt.Printf("   Target: %s", r.Target)
	if r.Factor != nil {
		fmt.Printf(", factor %.2f", *r.Factor)
	}
	fmt.Println()
	if r.Reasoning != "" {
		fmt.Printf("   Reasoning: %s\n", r.Reasoning)
	}
}

func printRulesJSON(v interface{}) error {
	return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, v)
}
