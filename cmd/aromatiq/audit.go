package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"aromatiq-hq/neroli/pkg/audit"
	"aromatiq-hq/neroli/pkg/cli"
)

var auditFlags struct {
	timeRange string
	source    string
	category  string
	compliant string
	limit     int
	offset    int
	format    string
	output    string
	days      int
	maxRecs   int64
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query the validation audit trail",
	Long: `Query and maintain the compliance audit trail.

Every recorded validation is stored as one immutable audit record with
its source, category, outcome, and summary.

Subcommands:
  query  - Query audit records with filters
  stats  - Show aggregate statistics
  prune  - Delete old records now

Examples:
  # Last day of records
  aromatiq audit query --time-range "2026-08-25T00:00:00Z/2026-08-26T00:00:00Z"

  # Non-compliant API validations
  aromatiq audit query --source api --compliant false

  # Export to JSON file
  aromatiq audit query --format json --output audit.json`,
}

var auditQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query audit records",
	Long: `Query audit records with various filters.

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-08-25T00:00:00Z/2026-08-26T00:00:00Z"

Examples:
  # Query specific time range
  aromatiq audit query --time-range "2026-08-25T00:00:00Z/2026-08-26T00:00:00Z"

  # Filter by source and outcome
  aromatiq audit query --source cli --compliant false

  # Paginate
  aromatiq audit query --limit 20 --offset 40`,
	RunE: runAuditQuery,
}

var auditStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics",
	Long:  `Show aggregate statistics over the audit trail.`,
	RunE:  runAuditStats,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old records now",
	Long: `Run retention pruning immediately instead of waiting for the
scheduled job. Records older than the retention window are deleted
first; if a record cap is set, the oldest surplus records go next.`,
	RunE: runAuditPrune,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditQueryCmd, auditStatsCmd, auditPruneCmd)

	auditQueryCmd.Flags().StringVar(&auditFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
	auditQueryCmd.Flags().StringVar(&auditFlags.source, "source", "", "filter by source: api, cli")
	auditQueryCmd.Flags().StringVar(&auditFlags.category, "category", "", "filter by product category: cat1, cat2")
	auditQueryCmd.Flags().StringVar(&auditFlags.compliant, "compliant", "", "filter by outcome: true, false")
	auditQueryCmd.Flags().IntVar(&auditFlags.limit, "limit", 100, "max results")
	auditQueryCmd.Flags().IntVar(&auditFlags.offset, "offset", 0, "pagination offset")
	auditQueryCmd.Flags().StringVar(&auditFlags.format, "format", "text", "output format: text, json")
	auditQueryCmd.Flags().StringVarP(&auditFlags.output, "output", "o", "", "output file (default: stdout)")

	auditPruneCmd.Flags().IntVar(&auditFlags.days, "days", 0, "retention window in days (0 uses config)")
	auditPruneCmd.Flags().Int64Var(&auditFlags.maxRecs, "max-records", 0, "record cap (0 uses config)")
}

// openAuditStore opens the configured audit database.
func openAuditStore(cmd *cobra.Command) (*audit.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if _, err := newLogger(cfg); err != nil {
		return nil, err
	}

	store, err := audit.Open(cfg.Audit.SQLitePath, nil)
	if err != nil {
		return nil, cli.NewCommandError("audit", fmt.Errorf("failed to open audit store: %w", err))
	}
	return store, nil
}

// parseTimeRange parses an RFC3339 "start/end" interval.
func parseTimeRange(raw string) (*time.Time, *time.Time, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("invalid time range format (expected: start/end)")
	}

	start, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("invalid end time: %w", err)
	}
	return &start, &end, nil
}

func runAuditQuery(cmd *cobra.Command, args []string) error {
	store, err := openAuditStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	query := &audit.Query{
		Source:   auditFlags.source,
		Category: auditFlags.category,
		Limit:    auditFlags.limit,
		Offset:   auditFlags.offset,
	}

	if auditFlags.timeRange != "" {
		start, end, err := parseTimeRange(auditFlags.timeRange)
		if err != nil {
			return cli.NewCommandError("audit", err)
		}
		query.Start = start
		query.End = end
	}

	switch auditFlags.compliant {
	case "":
	case "true":
		v := true
		query.Compliant = &v
	case "false":
		v := false
		query.Compliant = &v
	default:
		return cli.NewCommandError("audit", fmt.Errorf("invalid --compliant value %q (expected true or false)", auditFlags.compliant))
	}

	records, err := store.List(context.Background(), query)
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("query failed: %w", err))
	}

	output := os.Stdout
	if auditFlags.output != "" {
		output, err = os.Create(auditFlags.output)
		if err != nil {
			return cli.NewCommandError("audit", fmt.Errorf("failed to create output file: %w", err))
		}
		defer output.Close()
	}

	if auditFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(output, map[string]interface{}{
			"total_records": len(records),
			"records":       records,
		})
	}
	return printAuditText(output, records, query)
}

func printAuditText(output *os.File, records []*audit.Record, query *audit.Query) error {
	if query.Start != nil && query.End != nil {
		fmt.Fprintf(output, "Time range: %s to %s\n",
			query.Start.Format(time.RFC3339),
			query.End.Format(time.RFC3339))
	}
	fmt.Fprintf(output, "Total records: %d\n", len(records))
	fmt.Fprintln(output)

	if len(records) == 0 {
		fmt.Fprintln(output, "No records found.")
		return nil
	}

	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(output)
		}

		fmt.Fprintf(output, "Record ID: %s\n", record.ID)
		fmt.Fprintf(output, "Timestamp: %s\n", record.Timestamp.Format(time.RFC3339))
		fmt.Fprintf(output, "Source: %s\n", record.Source)
		fmt.Fprintf(output, "Category: %s\n", record.Category)
		if record.Compliant {
			fmt.Fprintln(output, "Outcome: compliant")
		} else {
			fmt.Fprintf(output, "Outcome: non-compliant (%d critical violations)\n", record.Violations)
		}
		if record.Declarations > 0 {
			fmt.Fprintf(output, "Declarations: %d\n", record.Declarations)
		}
		if record.Summary != "" {
			fmt.Fprintf(output, "Summary: %s\n", record.Summary)
		}

		// Show limited output for large result sets
		if i >= 9 && len(records) > 10 {
			remaining := len(records) - 10
			fmt.Fprintln(output)
			fmt.Fprintf(output, "... and %d more records\n", remaining)
			fmt.Fprintf(output, "Use --limit and --offset for pagination.\n")
			break
		}
	}

	return nil
}

func runAuditStats(cmd *cobra.Command, args []string) error {
	store, err := openAuditStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("stats failed: %w", err))
	}

	if auditFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, stats)
	}

	fmt.Println("Audit Trail Statistics")
	fmt.Println("======================")
	fmt.Printf("Total records: %d\n", stats.Total)
	if stats.Total == 0 {
		return nil
	}

	compliantPct := float64(stats.Compliant) / float64(stats.Total) * 100
	fmt.Printf("Compliant: %d (%.0f%%)\n", stats.Compliant, compliantPct)
	fmt.Printf("Non-compliant: %d\n", stats.NonCompliant)
	fmt.Printf("Oldest: %s\n", stats.Oldest.Format(time.RFC3339))
	fmt.Printf("Newest: %s\n", stats.Newest.Format(time.RFC3339))
	return nil
}

func runAuditPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	store, err := audit.Open(cfg.Audit.SQLitePath, logger)
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("failed to open audit store: %w", err))
	}
	defer store.Close()

	days := cfg.Audit.Retention.Days
	if auditFlags.days > 0 {
		days = auditFlags.days
	}
	maxRecords := cfg.Audit.Retention.MaxRecords
	if auditFlags.maxRecs > 0 {
		maxRecords = auditFlags.maxRecs
	}

	pruner := audit.NewPruner(store, audit.PrunerConfig{
		Days:       days,
		MaxRecords: maxRecords,
	}, logger)

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("prune failed: %w", err))
	}

	fmt.Printf("✓ Pruned %d record(s)\n", deleted)
	return nil
}
