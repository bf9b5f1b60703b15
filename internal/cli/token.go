package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hrinsight/internal/domain/auth"
	"hrinsight/internal/platform/db"
)

func newTokenCommand(opts *options) *cobra.Command {
	var (
		userID   string
		tenantID string
		role     string
		roleID   string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with JWT_SECRET",
		Long: `Mint a bearer token for service accounts and local testing.

When --role-id is omitted the role id is looked up by name in the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is required")
			}
			if userID == "" || tenantID == "" {
				return fmt.Errorf("--user and --tenant are required")
			}
			if roleID == "" {
				if opts.cfg.DatabaseURL == "" {
					return fmt.Errorf("--role-id or DATABASE_URL is required")
				}
				pool, err := db.Connect(cmd.Context(), opts.cfg)
				if err != nil {
					return fmt.Errorf("db connect: %w", err)
				}
				defer pool.Close()
				if roleID, err = auth.NewStore(pool).RoleIDByName(cmd.Context(), tenantID, role); err != nil {
					return fmt.Errorf("role %q: %w", role, err)
				}
			}

			token, err := auth.GenerateToken(opts.cfg.JWTSecret, auth.Claims{
				UserID:   userID,
				TenantID: tenantID,
				RoleID:   roleID,
				RoleName: role,
			}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant id")
	cmd.Flags().StringVar(&role, "role", auth.RoleHR, "role name")
	cmd.Flags().StringVar(&roleID, "role-id", "", "role id; skips the database lookup")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}
