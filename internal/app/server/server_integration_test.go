package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"hrinsight/internal/domain/auth"
	"hrinsight/internal/platform/config"
)

func testConfig(dbURL string) config.Config {
	cfg := config.Load()
	cfg.DatabaseURL = dbURL
	cfg.JWTSecret = "integration-secret"
	cfg.SeedTenantName = "Integration " + uuid.NewString()[:8]
	cfg.MigrationsDir = "../../../migrations"
	cfg.RunMigrations = true
	cfg.RunSeed = true
	cfg.AttritionRecalcCron = ""
	cfg.KafkaBrokers = nil
	cfg.ReportsDir = ""
	cfg.DBConnectTimeout = 10 * time.Second
	return cfg
}

func hrToken(t *testing.T, app *App) (string, string) {
	t.Helper()
	store := auth.NewStore(app.DB)
	tenantID, err := store.TenantIDByName(context.Background(), app.Config.SeedTenantName)
	if err != nil {
		t.Fatalf("tenant lookup: %v", err)
	}
	roleID, err := store.RoleIDByName(context.Background(), tenantID, auth.RoleHR)
	if err != nil {
		t.Fatalf("role lookup: %v", err)
	}
	token, err := auth.GenerateToken(app.Config.JWTSecret, auth.Claims{
		UserID:   uuid.NewString(),
		TenantID: tenantID,
		RoleID:   roleID,
		RoleName: auth.RoleHR,
	}, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token, tenantID
}

func seedEmployees(t *testing.T, app *App, tenantID string) {
	t.Helper()
	ctx := context.Background()
	rows := []struct {
		first, title, gender string
		salary, engagement   float64
		start                time.Time
	}{
		{"Ada", "Engineer", "female", 60000, 2.0, time.Now().AddDate(0, -6, 0)},
		{"Grace", "Engineer", "female", 90000, 4.5, time.Now().AddDate(-4, 0, 0)},
		{"Linus", "Engineer", "male", 95000, 4.0, time.Now().AddDate(-3, 0, 0)},
	}
	for _, row := range rows {
		if _, err := app.DB.Exec(ctx, `
      INSERT INTO employees (tenant_id, first_name, last_name, email, job_title, gender, salary, engagement_score, start_date, performance_rating, potential_rating)
      VALUES ($1,$2,'Test',$3,$4,$5,$6,$7,$8,3,3)
    `, tenantID, row.first, row.first+"@example.com", row.title, row.gender, row.salary, row.engagement, row.start); err != nil {
			t.Fatalf("insert employee: %v", err)
		}
	}
}

func getJSON(t *testing.T, client *http.Client, method, url, token string, wantStatus int) map[string]any {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d", method, url, wantStatus, resp.StatusCode)
	}
	var env map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env
}

func TestAnalyticsEndToEnd(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	token, tenantID := hrToken(t, app)
	seedEmployees(t, app, tenantID)

	getJSON(t, client, http.MethodGet, ts.URL+"/api/v1/analytics/attrition/top", "", http.StatusUnauthorized)

	env := getJSON(t, client, http.MethodPost, ts.URL+"/api/v1/analytics/attrition/recalculate", token, http.StatusOK)
	summary, _ := env["data"].(map[string]any)
	if processed, _ := summary["processed"].(float64); processed != 3 {
		t.Fatalf("expected 3 processed, got %v", summary["processed"])
	}

	env = getJSON(t, client, http.MethodGet, ts.URL+"/api/v1/analytics/attrition/top?limit=2", token, http.StatusOK)
	top, _ := env["data"].([]any)
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	first, _ := top[0].(map[string]any)
	if first["trend"] != "new" {
		t.Fatalf("expected new trend after first batch, got %v", first["trend"])
	}

	env = getJSON(t, client, http.MethodGet, ts.URL+"/api/v1/reports/jobs?jobType=attrition_recalculate", token, http.StatusOK)
	if runs, _ := env["data"].([]any); len(runs) != 1 {
		t.Fatalf("expected one job run, got %d", len(runs))
	}

	env = getJSON(t, client, http.MethodGet, ts.URL+"/api/v1/analytics/salary-bias?attribute=gender", token, http.StatusOK)
	report, _ := env["data"].(map[string]any)
	if report["severity"] != "insufficient_data" {
		t.Fatalf("single male employee must give insufficient data, got %v", report["severity"])
	}

	getJSON(t, client, http.MethodGet, ts.URL+"/api/v1/analytics/salary-bias?attribute=age", token, http.StatusBadRequest)
	getJSON(t, client, http.MethodGet, ts.URL+"/api/v1/analytics/salary-warnings?threshold=15", token, http.StatusOK)
	getJSON(t, client, http.MethodGet, ts.URL+"/api/v1/analytics/performance-potential", token, http.StatusOK)
	getJSON(t, client, http.MethodGet, ts.URL+"/api/v1/analytics/attrition/employees/"+uuid.NewString(), token, http.StatusNotFound)
}
