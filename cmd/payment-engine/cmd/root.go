// Package cmd provides CLI commands for payment-engine.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustworthy/payment-engine/pkg/audit"
	"github.com/rustworthy/payment-engine/pkg/config"
	"github.com/rustworthy/payment-engine/pkg/csvio"
	"github.com/rustworthy/payment-engine/pkg/engine"
)

var (
	cfgFile     string
	debug       bool
	policyFile  string
	auditDBPath string
)

// rootCmd represents the base command: process one transactions file and
// print the final account snapshot to stdout.
var rootCmd = &cobra.Command{
	Use:   "payment-engine <transactions.csv>",
	Short: "Fold a transactions file into per-client account balances",
	Long: `payment-engine reads deposits, withdrawals, disputes, resolves and
chargebacks from a CSV file, applies them strictly in order and prints
the final state of every client account as CSV on stdout.

It supports:
- Exact fixed-point amounts with four fractional digits
- A per-transaction dispute lifecycle with chargeback account freezing
- Skipping invalid records while keeping the run alive
- A configurable policy for disputes that target withdrawals
- Optional SQLite audit history of runs and rejections

Example:
  payment-engine transactions.csv > accounts.csv
  payment-engine check transactions.csv
  payment-engine stats`,
	Args: cobra.ExactArgs(1),
	Run:  runRoot,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "", "dispute policy YAML file (overrides ENGINE_POLICY_FILE)")
	rootCmd.PersistentFlags().StringVar(&auditDBPath, "audit-db", "", "SQLite audit database path (overrides ENGINE_AUDIT_DB)")

	// Add subcommands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statsCmd)
}

func runRoot(cmd *cobra.Command, args []string) {
	processFile(args[0], csvio.NewWriter(os.Stdout), true)
}

// processFile runs the full pipeline over one transactions file. A nil
// sink suppresses the snapshot; audited selects whether the run lands in
// the audit history.
func processFile(path string, sink engine.SnapshotSink, audited bool) engine.Summary {
	slog.Debug("Starting run", "file", path)

	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	policy := resolvePolicy(cfg)

	// Open input
	input, err := os.Open(path)
	exitOnError(err, "failed to open transactions file")
	defer input.Close()

	reader, err := csvio.NewReader(input)
	exitOnError(err, "invalid transactions file")

	recorder, closeRecorder := resolveRecorder(cfg, audited)
	defer closeRecorder()

	// Process
	startedAt := time.Now()
	summary, err := engine.Run(reader, sink, engine.Options{Policy: policy})
	exitOnError(err, "processing failed")

	recordRun(recorder, path, policy, startedAt, summary)

	return summary
}

// resolvePolicy picks the dispute policy: --policy flag, then the
// ENGINE_POLICY_FILE environment, then the built-in defaults.
func resolvePolicy(cfg *config.Config) engine.Policy {
	path := policyFile
	if path == "" {
		path = cfg.Engine.PolicyFile
	}
	if path == "" {
		return engine.DefaultPolicy()
	}

	policy, err := engine.LoadPolicy(path)
	exitOnError(err, "failed to load policy")

	slog.Debug("Loaded policy", "path", path, "withdrawal_disputes", policy.WithdrawalDisputes)
	return policy
}

// resolveRecorder opens the audit database when one is configured and
// wanted; otherwise it hands back a recorder that drops everything.
func resolveRecorder(cfg *config.Config, audited bool) (audit.Recorder, func()) {
	path := auditDBPath
	if path == "" {
		path = cfg.Engine.AuditDBPath
	}
	if !audited || path == "" {
		return audit.Nop{}, func() {}
	}

	slog.Debug("Opening audit database", "path", path)
	conn, err := audit.Open(path)
	exitOnError(err, "failed to open audit database")

	return audit.NewRunHistory(conn), func() { conn.Close() }
}

// recordRun stores the run outcome. Audit failures are logged, never
// fatal: the snapshot is already on stdout.
func recordRun(recorder audit.Recorder, source string, policy engine.Policy, startedAt time.Time, summary engine.Summary) {
	rejections := make([]audit.RejectionRecord, 0, len(summary.Rejections))
	for _, rejection := range summary.Rejections {
		rejections = append(rejections, audit.RejectionRecord{
			Seq:    rejection.Seq,
			Kind:   rejection.Kind,
			Client: int64(rejection.Client),
			Tx:     int64(rejection.Tx),
			Reason: rejection.Reason,
		})
	}

	if _, err := recorder.RecordRun(audit.RunRecord{
		Source:    filepath.Base(source),
		Policy:    string(policy.WithdrawalDisputes),
		Records:   summary.Records,
		Applied:   summary.Applied,
		Rejected:  summary.Rejected,
		Clients:   summary.Clients,
		StartedAt: startedAt,
	}, rejections); err != nil {
		slog.Error("Failed to record run history", "error", err)
	}
}

// Helper function to get config file path.
func getConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "" // Will use default .env loading
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
