package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rustworthy/payment-engine/pkg/audit"
	"github.com/rustworthy/payment-engine/pkg/config"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display audit history statistics",
	Long: `Display statistics about recorded processing runs.

Shows:
- Total number of recorded runs
- Total records read, applied and rejected across all runs
- The most common rejection reason
- The most recent runs with their outcomes

Requires an audit database (--audit-db or ENGINE_AUDIT_DB).

Example:
  payment-engine stats
  payment-engine stats --audit-db history.db`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	path := auditDBPath
	if path == "" {
		path = cfg.Engine.AuditDBPath
	}
	if path == "" {
		exitOnError(errors.New("no audit database configured"), "stats needs --audit-db or ENGINE_AUDIT_DB")
	}

	// Open database connection
	slog.Debug("Opening audit database", "path", path)

	conn, err := audit.Open(path)
	exitOnError(err, "failed to open audit database")
	defer conn.Close()

	history := audit.NewRunHistory(conn)

	// Get statistics
	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	// Display statistics
	fmt.Println("\n=== Audit Statistics ===")
	fmt.Printf("Recorded runs:    %d\n", stats.TotalRuns)
	fmt.Printf("Records read:     %d\n", stats.TotalRecords)
	fmt.Printf("Records applied:  %d\n", stats.TotalApplied)
	fmt.Printf("Records rejected: %d\n", stats.TotalRejected)

	if stats.TopReason.Valid {
		fmt.Printf("Top rejection:    %s\n", stats.TopReason.String)
	}
	if stats.LastRun.Valid {
		fmt.Printf("Last run:         %s\n", stats.LastRun.String)
	} else {
		fmt.Printf("Last run:         (never)\n")
	}

	// Display recent runs
	runs, err := history.GetRecentRuns(5)
	exitOnError(err, "failed to list recent runs")

	if len(runs) > 0 {
		fmt.Println("\nRecent runs:")
		for _, run := range runs {
			fmt.Printf("  %s  %s  policy=%s records=%d applied=%d rejected=%d clients=%d\n",
				run.FinishedAt.Format("2006-01-02 15:04:05"),
				run.Source,
				run.Policy,
				run.Records,
				run.Applied,
				run.Rejected,
				run.Clients,
			)
		}
	}

	fmt.Println()

	slog.Info("Statistics displayed successfully")
}
