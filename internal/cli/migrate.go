package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hrinsight/internal/platform/db"
)

func newMigrateCommand(opts *options) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			ctx := cmd.Context()
			pool, err := db.Connect(ctx, opts.cfg)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()

			applied, err := db.Migrate(ctx, pool, opts.cfg.MigrationsDir)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			}
			for _, version := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", version)
			}
			if seed {
				if err := db.Seed(ctx, pool, opts.cfg); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded tenant %q\n", opts.cfg.SeedTenantName)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "also seed the tenant, roles and permissions")
	return cmd
}
