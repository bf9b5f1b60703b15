// Package cli implements analyticsctl, the operator command line for
// migrations, manual recalculation and token minting.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"hrinsight/internal/platform/config"
)

type options struct {
	verbose bool
	cfg     config.Config
}

// NewRootCommand builds the command tree. Configuration comes from the same
// environment variables the server reads.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "analyticsctl",
		Short: "Operator tooling for the hrinsight analytics service",
		Long: `analyticsctl runs maintenance tasks against the analytics database.

Examples:
  analyticsctl migrate
  analyticsctl recalculate --tenant "Default Tenant"
  analyticsctl token --user 6b1d... --tenant 0f3a... --role HR`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			opts.cfg = config.Load()
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newMigrateCommand(opts))
	root.AddCommand(newRecalculateCommand(opts))
	root.AddCommand(newTokenCommand(opts))
	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}
