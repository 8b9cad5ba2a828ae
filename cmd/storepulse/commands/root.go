package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "storepulse",
	Short: "storepulse - customer analytics over an e-commerce order table",
	Long: `storepulse CLI

Computes RFM segmentation, cohort retention and dashboard aggregates from
a synthetic e-commerce order table (CSV file or PostgreSQL).

Usage:
  go run ./cmd/storepulse [command]

Examples:
  go run ./cmd/storepulse rfm --category Books
  go run ./cmd/storepulse cohort --from 2024-01-01 --to 2024-06-30
  go run ./cmd/storepulse summary
  go run ./cmd/storepulse serve`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}
