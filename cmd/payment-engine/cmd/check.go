package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check <transactions.csv>",
	Short: "Process a transactions file and report instead of printing the snapshot",
	Long: `Process a transactions file exactly like the root command, but print a
human-readable report instead of the account snapshot.

This command:
1. Parses and applies every record with the same policy and rules
2. Prints record, rejection and client counts
3. Breaks rejections down by reason and lists each rejected record
4. Leaves the audit history untouched

Example:
  payment-engine check transactions.csv
  payment-engine check transactions.csv --policy strict.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) {
	summary := processFile(args[0], nil, false)

	// Display report
	fmt.Println("\n=== Processing Report ===")
	fmt.Printf("Records read:     %d\n", summary.Records)
	fmt.Printf("Records applied:  %d\n", summary.Applied)
	fmt.Printf("Records rejected: %d\n", summary.Rejected)
	fmt.Printf("Client accounts:  %d\n", summary.Clients)

	if len(summary.Rejections) > 0 {
		fmt.Println("\nRejections by reason:")
		counts := summary.ReasonCounts()
		reasons := make([]string, 0, len(counts))
		for reason := range counts {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Printf("  %3d  %s\n", counts[reason], reason)
		}

		fmt.Println("\nRejected records:")
		for _, rejection := range summary.Rejections {
			fmt.Printf("  #%d %s client=%d tx=%d: %s\n",
				rejection.Seq, rejection.Kind, rejection.Client, rejection.Tx, rejection.Reason)
		}
	}

	fmt.Println()
}
