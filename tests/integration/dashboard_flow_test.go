package integration

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestDashboardFlow_SummaryAndBreakdown(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "dash@test.com", "password123")

	now := time.Now()
	recent := now.AddDate(0, 0, -7).Format("2006-01-02")
	app.createTransaction(t, token, "income", "Client Payment", 100000, recent)
	app.createTransaction(t, token, "expense", "Rent", 40000, recent)
	app.createTransaction(t, token, "expense", "Software", 10000, recent)

	rec := app.request("GET", "/api/v1/dashboard?period=1m", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)

	if result["period"] != "1m" {
		t.Errorf("expected period 1m, got %v", result["period"])
	}

	summary := result["summary"].(map[string]interface{})
	if summary["total_revenue"] != float64(100000) {
		t.Errorf("expected total_revenue 100000, got %v", summary["total_revenue"])
	}
	if summary["total_expenses"] != float64(50000) {
		t.Errorf("expected total_expenses 50000, got %v", summary["total_expenses"])
	}
	if summary["net_profit"] != float64(50000) {
		t.Errorf("expected net_profit 50000, got %v", summary["net_profit"])
	}

	breakdown := result["expense_breakdown"].([]interface{})
	if len(breakdown) != 2 {
		t.Fatalf("expected 2 breakdown entries, got %d", len(breakdown))
	}
	top := breakdown[0].(map[string]interface{})
	if top["category"] != "Rent" || top["amount"] != float64(40000) {
		t.Errorf("expected Rent 40000 first, got %v %v", top["category"], top["amount"])
	}

	series := result["monthly_series"].([]interface{})
	if len(series) != 6 {
		t.Fatalf("expected 6 monthly points, got %d", len(series))
	}

	activity := result["recent_activity"].([]interface{})
	if len(activity) != 3 {
		t.Fatalf("expected 3 recent activity items, got %d", len(activity))
	}
}

func TestDashboardFlow_RejectsUnknownPeriod(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "dashbad@test.com", "password123")

	rec := app.request("GET", "/api/v1/dashboard?period=2w", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown period, got %d", rec.Code)
	}
}

func TestReportFlow_CSVExport(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "report@test.com", "password123")

	date := time.Now().AddDate(0, 0, -3).Format("2006-01-02")
	app.createTransaction(t, token, "income", "Consulting", 123456, date)

	rec := app.request("GET", "/api/v1/reports/transactions.csv", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("export failed: %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("unexpected Content-Type: %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines: %q", len(lines), rec.Body.String())
	}
	if lines[0] != "id,date,type,category,amount,description" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "1234.56") {
		t.Errorf("expected dollar-formatted amount in row, got %q", lines[1])
	}
	if !strings.Contains(lines[1], "Consulting") {
		t.Errorf("expected category in row, got %q", lines[1])
	}
}
