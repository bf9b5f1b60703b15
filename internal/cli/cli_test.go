package cli

import (
	"bytes"
	"strings"
	"testing"

	"hrinsight/internal/domain/attrition"
	"hrinsight/internal/domain/auth"
	"hrinsight/internal/domain/notifications"
	"hrinsight/internal/platform/config"
	"hrinsight/internal/platform/events"
)

func TestTokenCommandMintsParsableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"token", "--user", "u1", "--tenant", "t1", "--role", auth.RoleHR, "--role-id", "r1"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	claims, err := auth.ParseToken("cli-secret", strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.TenantID != "t1" || claims.RoleID != "r1" || claims.RoleName != auth.RoleHR {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenCommandRequiresIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"token", "--role-id", "r1"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected missing user error")
	}
}

func TestRecalculateRequiresTenant(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"recalculate"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "--tenant") {
		t.Fatalf("expected tenant error, got %v", err)
	}
}

func TestRecalculateWiresEscalationSinks(t *testing.T) {
	svc := attrition.NewService(nil, nil, attrition.NewRulesHolder(attrition.DefaultRules()))
	closeSinks := attachEscalationSinks(svc, config.Config{}, nil)
	defer closeSinks()
	if _, ok := svc.Notifier.(*notifications.Service); !ok {
		t.Fatalf("expected HR notifier, got %T", svc.Notifier)
	}
	if _, ok := svc.Publisher.(events.LogPublisher); !ok {
		t.Fatalf("expected log publisher without brokers, got %T", svc.Publisher)
	}

	kafkaSvc := attrition.NewService(nil, nil, attrition.NewRulesHolder(attrition.DefaultRules()))
	closeKafka := attachEscalationSinks(kafkaSvc, config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaRiskTopic: "risk"}, nil)
	defer closeKafka()
	if _, ok := kafkaSvc.Publisher.(*events.KafkaPublisher); !ok {
		t.Fatalf("expected kafka publisher, got %T", kafkaSvc.Publisher)
	}
}
