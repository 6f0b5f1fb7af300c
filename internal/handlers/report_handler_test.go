package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"tally/internal/models"
	"tally/internal/reporting"
)

func newReportRouter(reportService *mockReportService) *gin.Engine {
	handler := NewReportHandler(reportService)
	router := gin.New()
	router.GET("/reports/transactions.csv", injectIdentity(1, "owner@example.com", "Owner", models.RoleStandard), handler.ExportCSV)
	return router
}

func TestExportCSV(t *testing.T) {
	t.Run("streams_csv_with_download_headers", func(t *testing.T) {
		var gotKey reporting.PeriodKey
		reportService := &mockReportService{
			exportFn: func(w io.Writer, userID uint, key reporting.PeriodKey, now time.Time) error {
				gotKey = key
				fmt.Fprintln(w, "id,date,type,category,amount,description")
				return nil
			},
		}
		router := newReportRouter(reportService)

		w := performRequest(router, http.MethodGet, "/reports/transactions.csv?period=ytd", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		if gotKey != reporting.PeriodYearToDate {
			t.Errorf("expected period ytd, got %q", gotKey)
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("unexpected Content-Type: %q", ct)
		}
		disposition := w.Header().Get("Content-Disposition")
		if !strings.HasPrefix(disposition, "attachment;") {
			t.Errorf("expected attachment disposition, got %q", disposition)
		}
		if !strings.HasPrefix(w.Body.String(), "id,date,type,category,amount,description") {
			t.Errorf("unexpected CSV body: %q", w.Body.String())
		}
	})

	t.Run("defaults_to_all_period", func(t *testing.T) {
		var gotKey reporting.PeriodKey
		reportService := &mockReportService{
			exportFn: func(w io.Writer, userID uint, key reporting.PeriodKey, now time.Time) error {
				gotKey = key
				return nil
			},
		}
		router := newReportRouter(reportService)

		w := performRequest(router, http.MethodGet, "/reports/transactions.csv", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if gotKey != reporting.PeriodAll {
			t.Errorf("expected period all, got %q", gotKey)
		}
	})

	t.Run("rejects_unknown_period", func(t *testing.T) {
		router := newReportRouter(&mockReportService{})

		w := performRequest(router, http.MethodGet, "/reports/transactions.csv?period=2w", nil)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}
