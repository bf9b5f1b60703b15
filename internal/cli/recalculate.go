package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"hrinsight/internal/domain/attrition"
	"hrinsight/internal/domain/auth"
	"hrinsight/internal/domain/employees"
	"hrinsight/internal/domain/notifications"
	"hrinsight/internal/platform/config"
	cryptoutil "hrinsight/internal/platform/crypto"
	"hrinsight/internal/platform/db"
	"hrinsight/internal/platform/email"
	"hrinsight/internal/platform/events"
	"hrinsight/internal/platform/jobs"
	"hrinsight/internal/platform/querier"
)

func newRecalculateCommand(opts *options) *cobra.Command {
	var tenant string
	cmd := &cobra.Command{
		Use:   "recalculate",
		Short: "Score every active employee of a tenant and append a risk history batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tenant == "" {
				return fmt.Errorf("--tenant is required")
			}
			if opts.cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			ctx := cmd.Context()
			pool, err := db.Connect(ctx, opts.cfg)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()

			tenantID, err := auth.NewStore(pool).TenantIDByName(ctx, tenant)
			if err != nil {
				return fmt.Errorf("tenant %q: %w", tenant, err)
			}

			rules := attrition.DefaultRules()
			if opts.cfg.AnalyticsRulesFile != "" {
				if rules, err = config.LoadRules(opts.cfg.AnalyticsRulesFile); err != nil {
					return err
				}
			}
			fieldCrypto, err := cryptoutil.New(opts.cfg.DataEncryptionKey)
			if err != nil {
				return err
			}

			svc := attrition.NewService(employees.NewStore(pool, fieldCrypto), attrition.NewStore(pool), attrition.NewRulesHolder(rules))
			svc.Jobs = jobs.New(pool)
			closeSinks := attachEscalationSinks(svc, opts.cfg, pool)
			defer closeSinks()
			summary, err := svc.Recalculate(ctx, tenantID)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant name")
	return cmd
}

// attachEscalationSinks gives a CLI batch the same HR notifier and risk event
// publisher the server uses, so escalations recorded here are announced. The
// returned func closes the publisher.
func attachEscalationSinks(svc *attrition.Service, cfg config.Config, pool querier.Querier) func() {
	notifier := notifications.New(notifications.NewStore(pool), email.New(cfg))
	notifier.DefaultFrom = cfg.EmailFrom
	svc.Notifier = notifier

	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaRiskTopic)
	if publisher == nil {
		svc.Publisher = events.LogPublisher{}
		return func() {}
	}
	svc.Publisher = publisher
	return func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("kafka writer close failed", "err", err)
		}
	}
}
