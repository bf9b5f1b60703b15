package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hrinsight/internal/domain/attrition"
)

func writeRules(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
}

func TestLoadRulesDefaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rules != attrition.DefaultRules() {
		t.Fatalf("expected defaults, got %+v", rules)
	}
}

func TestLoadRulesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRules(t, path, "levels:\n  high: 80\n  medium: 50\novertime:\n  points: 5\n")
	t.Setenv("RULES_PAY__GAP_PERCENT", "12.5")

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rules.Levels.High != 80 || rules.Levels.Medium != 50 || rules.Overtime.Points != 5 {
		t.Fatalf("file values not applied: %+v", rules)
	}
	if rules.Overtime.Limit != 20 {
		t.Fatalf("unset values must keep defaults, got %v", rules.Overtime.Limit)
	}
	if rules.Pay.GapPercent != 12.5 {
		t.Fatalf("env override not applied, got %v", rules.Pay.GapPercent)
	}
}

func TestLoadRulesRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRules(t, path, "levels:\n  high: 30\n  medium: 50\n")
	if _, err := LoadRules(path); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestRulesEnvKey(t *testing.T) {
	if got := rulesEnvKey("RULES_TENURE__NEW_HIRE_POINTS"); got != "tenure.new_hire_points" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := rulesEnvKey("RULES_TREND_DELTA"); got != "trend_delta" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestWatchRulesReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRules(t, path, "trend_delta: 5\n")
	holder := attrition.NewRulesHolder(attrition.DefaultRules())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- WatchRules(ctx, path, holder) }()

	deadline := time.Now().Add(5 * time.Second)
	for holder.Current().TrendDelta != 8 {
		if time.Now().After(deadline) {
			t.Fatalf("rules were not reloaded")
		}
		writeRules(t, path, "trend_delta: 8\n")
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch returned %v", err)
	}
}

func TestWatchRulesSurvivesRenameSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	writeRules(t, path, "trend_delta: 5\n")
	holder := attrition.NewRulesHolder(attrition.DefaultRules())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- WatchRules(ctx, path, holder) }()

	waitFor := func(want float64, save func()) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for holder.Current().TrendDelta != want {
			if time.Now().After(deadline) {
				t.Fatalf("want trend delta %v, got %v", want, holder.Current().TrendDelta)
			}
			save()
			time.Sleep(50 * time.Millisecond)
		}
	}

	waitFor(9, func() {
		tmp := filepath.Join(dir, ".rules.yaml.tmp")
		writeRules(t, tmp, "trend_delta: 9\n")
		if err := os.Rename(tmp, path); err != nil {
			t.Fatalf("rename: %v", err)
		}
	})
	waitFor(11, func() { writeRules(t, path, "trend_delta: 11\n") })

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch returned %v", err)
	}
}
